package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/handlers"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/mcp"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chatbot HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("Failed to close datastore", zap.Error(err))
		}
	}()

	deps := handlers.RouterDeps{
		Chat:   handlers.NewChatHandler(a.pipeline, logger),
		Health: handlers.NewHealthHandler(a.executor, cfg.Version, cfg.Env, logger),
		Logger: logger,
	}
	if cfg.MCP.Enabled {
		deps.MCP = mcp.NewEventsServer(cfg.Version, a.pipeline, a.executor, logger).NewStreamableHTTPServer()
	}
	if a.metrics != nil {
		deps.Metrics = a.metrics.Handler()
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handlers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting eventbot",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.Version),
			zap.String("env", cfg.Env),
			zap.Bool("mcp", cfg.MCP.Enabled),
			zap.Bool("metrics", a.metrics != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
