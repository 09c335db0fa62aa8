package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/logging"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/metrics"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
)

const (
	// DefaultQueryTimeout bounds a single datastore query.
	DefaultQueryTimeout = 15 * time.Second
	// DefaultMaxRows is the executor-side row cap applied on top of the
	// statement's own LIMIT.
	DefaultMaxRows = 50
)

// QueryRunner executes sanitized statements.
type QueryRunner interface {
	// Run executes sqlQuery once. Failures are returned as *apperrors.Error
	// of KindDataAccessFailure.
	Run(ctx context.Context, sqlQuery string) (*models.ResultSet, error)
}

// RunnerConfig tunes query execution.
type RunnerConfig struct {
	MaxRows int
	Timeout time.Duration
}

type queryRunner struct {
	executor datasource.QueryExecutor
	cfg      RunnerConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewQueryRunner wraps executor.
func NewQueryRunner(executor datasource.QueryExecutor, cfg RunnerConfig, m *metrics.Metrics, logger *zap.Logger) QueryRunner {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultQueryTimeout
	}
	return &queryRunner{
		executor: executor,
		cfg:      cfg,
		metrics:  m,
		logger:   logger.Named("query-runner"),
	}
}

func (r *queryRunner) Run(ctx context.Context, sqlQuery string) (*models.ResultSet, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	result, err := r.executor.Query(ctx, sqlQuery, r.cfg.MaxRows)
	r.metrics.RecordQuery(time.Since(start), err)

	if err != nil {
		r.logger.Error("Query execution failed",
			zap.String("sql", logging.SanitizeQuery(sqlQuery)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, apperrors.New(apperrors.KindDataAccessFailure, "execute", fmt.Errorf("query: %w", err))
	}

	r.logger.Debug("Query executed",
		zap.Int("rows", result.RowCount),
		zap.Duration("elapsed", time.Since(start)))

	return &models.ResultSet{
		Columns: result.ColumnNames(),
		Rows:    result.Rows,
	}, nil
}
