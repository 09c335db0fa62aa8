// Package mysql executes event queries against MySQL, the datastore the
// chatbot was first deployed on.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/config"
)

// DefaultPort is used when the config leaves the port unset.
const DefaultPort = 3306

// QueryExecutor runs bounded SELECTs over a database/sql pool.
type QueryExecutor struct {
	db     *sql.DB
	logger *zap.Logger
}

// buildDSN renders cfg with the driver's own formatter so credentials need
// no manual escaping.
func buildDSN(cfg *datasource.Config) string {
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(config.ResolveHostForDocker(cfg.Host), strconv.Itoa(port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	if cfg.SSLMode != "" && cfg.SSLMode != "disable" {
		mc.TLSConfig = "true"
	}
	return mc.FormatDSN()
}

// NewQueryExecutor opens a pool. database/sql connects lazily; use Ping to verify.
func NewQueryExecutor(ctx context.Context, cfg *datasource.Config, logger *zap.Logger) (*QueryExecutor, error) {
	db, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return NewQueryExecutorFromDB(db, logger), nil
}

// NewQueryExecutorFromDB wraps an existing handle. Close will close it.
func NewQueryExecutorFromDB(db *sql.DB, logger *zap.Logger) *QueryExecutor {
	return &QueryExecutor{db: db, logger: logger.Named("mysql")}
}

// wrapWithLimit caps the row count. The inner statement sits on its own
// line so a trailing line comment cannot swallow the closing parenthesis.
func wrapWithLimit(sqlQuery string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (\n%s\n) AS _limited LIMIT %d", sqlQuery, datasource.EffectiveLimit(limit))
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
