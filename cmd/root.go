// Package cmd implements the eventbot command line: the HTTP server, a
// one-shot ask command, fixture migrations and version output.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/config"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/logging"
)

type rootOptions struct {
	configPath string
	verbose    bool
	version    string
}

// NewRootCommand builds the command tree. version is injected at build time.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	root := &cobra.Command{
		Use:           "eventbot",
		Short:         "Answer natural-language questions about events",
		Long:          `eventbot translates questions like "concerts in June" into a read-only query against the events table and replies in plain language.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCommand(opts),
		newAskCommand(opts),
		newMigrateCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load reads and validates config, then builds the logger.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath, o.version)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger(cfg.Env, o.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}
