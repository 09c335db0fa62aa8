package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/config"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/logging"
)

// DefaultPort is used when the config leaves the port unset.
const DefaultPort = 5432

// QueryExecutor runs bounded SELECTs over a pgx pool.
type QueryExecutor struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// ConnectionString builds a PostgreSQL URL with proper escaping.
// IMPORTANT: All user-provided fields must be URL-escaped to handle special characters
// in passwords (e.g., @, /, #, ?) that would otherwise break URL parsing.
func ConnectionString(cfg *datasource.Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	host := config.ResolveHostForDocker(cfg.Host)

	connStr := fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		host,
		port,
		url.QueryEscape(cfg.Database),
		url.QueryEscape(sslMode),
	)
	if cfg.MaxOpenConns > 0 {
		connStr += "&pool_max_conns=" + strconv.Itoa(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		connStr += "&pool_max_conn_lifetime=" + cfg.ConnMaxLifetime.String()
	}
	return connStr
}

// NewQueryExecutor opens a pool. The pool connects lazily; use Ping to verify.
func NewQueryExecutor(ctx context.Context, cfg *datasource.Config, logger *zap.Logger) (*QueryExecutor, error) {
	connStr := ConnectionString(cfg)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s: %w", logging.SanitizeConnectionString(connStr), err)
	}

	return &QueryExecutor{
		pool:   pool,
		logger: logger.Named("postgres"),
	}, nil
}

// NewQueryExecutorFromPool wraps an existing pool. Close will close it.
func NewQueryExecutorFromPool(pool *pgxpool.Pool, logger *zap.Logger) *QueryExecutor {
	return &QueryExecutor{pool: pool, logger: logger.Named("postgres")}
}

// wrapWithLimit caps the row count. The inner statement sits on its own
// line so a trailing line comment cannot swallow the closing parenthesis.
func wrapWithLimit(sqlQuery string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (\n%s\n) AS _limited LIMIT %d", sqlQuery, datasource.EffectiveLimit(limit))
}

// Query runs sqlQuery under the row cap and returns the results.
func (e *QueryExecutor) Query(ctx context.Context, sqlQuery string, limit int) (*datasource.QueryExecutionResult, error) {
	rows, err := e.pool.Query(ctx, wrapWithLimit(sqlQuery, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	typeMap := rows.Conn().TypeMap()
	fieldDescs := rows.FieldDescriptions()
	columns := make([]datasource.ColumnInfo, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = datasource.ColumnInfo{
			Name: fd.Name,
			Type: typeName(typeMap, fd.DataTypeOID),
		}
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col.Name] = normalizeValue(values[i])
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &datasource.QueryExecutionResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}

// Ping verifies a connection can be acquired.
func (e *QueryExecutor) Ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

// Close releases the pool.
func (e *QueryExecutor) Close() error {
	e.pool.Close()
	return nil
}

func typeName(m *pgtype.Map, oid uint32) string {
	if t, ok := m.TypeForOID(oid); ok {
		return strings.ToUpper(t.Name)
	}
	return "OID:" + strconv.FormatUint(uint64(oid), 10)
}

// normalizeValue turns pgx decoded values into plain ones.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			b, _ := val.MarshalJSON()
			return string(b)
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(val).String()
	default:
		return datasource.NormalizeValue(v)
	}
}

var _ datasource.QueryExecutor = (*QueryExecutor)(nil)
