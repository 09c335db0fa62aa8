package datasource

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/retry"
)

// NewQueryExecutor creates an executor for dsType from the registry.
// Adapters register themselves when their package is imported.
func NewQueryExecutor(ctx context.Context, dsType string, cfg *Config, logger *zap.Logger) (QueryExecutor, error) {
	factory := GetQueryExecutorFactory(dsType)
	if factory == nil {
		return nil, fmt.Errorf("unsupported datasource type: %s (adapter not linked)", dsType)
	}
	return factory(ctx, cfg, logger)
}

// Connect creates an executor and pings it, retrying transient failures
// up to attempts times. A datastore that is still starting (common under
// docker compose) is waited for; bad credentials fail at once.
func Connect(ctx context.Context, dsType string, cfg *Config, attempts int, logger *zap.Logger) (QueryExecutor, error) {
	if GetQueryExecutorFactory(dsType) == nil {
		return nil, fmt.Errorf("unsupported datasource type: %s (adapter not linked)", dsType)
	}

	rc := retry.DefaultConfig()
	rc.MaxAttempts = attempts
	rc.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn("Datastore not ready, retrying",
			zap.String("type", dsType),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	}

	var exec QueryExecutor
	err := retry.DoIfRetryable(ctx, rc, func() error {
		e, err := NewQueryExecutor(ctx, dsType, cfg, logger)
		if err != nil {
			return err
		}
		if err := e.Ping(ctx); err != nil {
			_ = e.Close()
			return fmt.Errorf("ping %s: %w", dsType, err)
		}
		exec = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return exec, nil
}
