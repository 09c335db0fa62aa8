// Package datasource defines the read-only query surface over the events
// datastore and the registry of dialect adapters that implement it.
package datasource

import (
	"context"
	"time"
)

// MaxQueryLimit is the hard cap on rows returned by Query.
// This protects against unbounded queries that could exhaust memory.
const MaxQueryLimit = 1000

// QueryExecutor runs read-only statements against a datastore.
// Each implementation owns its connection pool and must be closed when done.
type QueryExecutor interface {
	// Query runs a SELECT statement and returns bounded results.
	// The query is ALWAYS wrapped with a dialect-specific limit:
	//   - MySQL, PostgreSQL: SELECT * FROM (query) AS _limited LIMIT n
	//   - SQL Server: SELECT TOP (n) * FROM (query) AS _limited
	//
	// Limit behavior:
	//   - limit <= 0: uses MaxQueryLimit
	//   - limit > MaxQueryLimit: capped to MaxQueryLimit
	//   - otherwise: uses specified limit
	Query(ctx context.Context, sqlQuery string, limit int) (*QueryExecutionResult, error)

	// Ping verifies the datastore is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}

// Config holds connection settings shared by all adapters.
type Config struct {
	Host     string
	Port     int // 0 selects the adapter's default port
	User     string
	Password string
	Database string
	SSLMode  string // postgres sslmode; "disable" turns TLS off for mysql/sqlserver too

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// ColumnInfo describes a result column with database-agnostic type information.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"` // Database type name (e.g., "TEXT", "INT4", "VARCHAR")
}

// QueryExecutionResult holds the results from executing a query.
type QueryExecutionResult struct {
	Columns  []ColumnInfo     `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// ColumnNames returns the result column names in order.
func (r *QueryExecutionResult) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// EffectiveLimit applies the MaxQueryLimit rules to a requested limit.
func EffectiveLimit(limit int) int {
	if limit <= 0 || limit > MaxQueryLimit {
		return MaxQueryLimit
	}
	return limit
}
