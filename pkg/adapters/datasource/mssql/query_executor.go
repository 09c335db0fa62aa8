// Package mssql executes event queries against Microsoft SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/config"
)

// DefaultPort is used when the config leaves the port unset.
const DefaultPort = 1433

// QueryExecutor runs bounded SELECTs over a database/sql pool.
type QueryExecutor struct {
	db     *sql.DB
	logger *zap.Logger
}

// buildConnectionString maps the shared ssl_mode onto the driver's encrypt
// settings: "disable" turns encryption off, "require" (the default) encrypts
// without verifying the certificate, and verify-* modes verify it.
func buildConnectionString(cfg *datasource.Config) string {
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	query := url.Values{}
	query.Add("database", cfg.Database)

	switch cfg.SSLMode {
	case "disable":
		query.Add("encrypt", "false")
	case "verify-ca", "verify-full":
		query.Add("encrypt", "true")
	default:
		query.Add("encrypt", "true")
		query.Add("TrustServerCertificate", "true")
	}

	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		config.ResolveHostForDocker(cfg.Host),
		port,
		query.Encode(),
	)
}

// NewQueryExecutor opens a pool. database/sql connects lazily; use Ping to verify.
func NewQueryExecutor(ctx context.Context, cfg *datasource.Config, logger *zap.Logger) (*QueryExecutor, error) {
	db, err := sql.Open("sqlserver", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("open SQL auth connection: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &QueryExecutor{db: db, logger: logger.Named("mssql")}, nil
}

// wrapWithLimit applies SQL Server's TOP clause. The inner statement sits on
// its own line so a trailing line comment cannot swallow the closing parenthesis.
func wrapWithLimit(sqlQuery string, limit int) string {
	return fmt.Sprintf("SELECT TOP (%d) * FROM (\n%s\n) AS _limited", datasource.EffectiveLimit(limit), sqlQuery)
}

// Query runs sqlQuery under the row cap and returns the results.
func (e *QueryExecutor) Query(ctx context.Context, sqlQuery string, limit int) (*datasource.QueryExecutionResult, error) {
	rows, err := e.db.QueryContext(ctx, wrapWithLimit(sqlQuery, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return datasource.ScanRows(rows)
}

// Ping verifies the server is reachable.
func (e *QueryExecutor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Close releases the pool.
func (e *QueryExecutor) Close() error {
	return e.db.Close()
}

var _ datasource.QueryExecutor = (*QueryExecutor)(nil)
