package datasource

import (
	"context"
	"sync"
)

// MockQueryExecutor is a configurable QueryExecutor for tests.
type MockQueryExecutor struct {
	QueryFunc func(ctx context.Context, sqlQuery string, limit int) (*QueryExecutionResult, error)
	PingFunc  func(ctx context.Context) error

	mu      sync.Mutex
	queries []string
	closed  bool
}

// NewMockQueryExecutor returns a mock answering every query with result.
func NewMockQueryExecutor(result *QueryExecutionResult) *MockQueryExecutor {
	return &MockQueryExecutor{
		QueryFunc: func(context.Context, string, int) (*QueryExecutionResult, error) {
			return result, nil
		},
	}
}

// Query implements QueryExecutor.
func (m *MockQueryExecutor) Query(ctx context.Context, sqlQuery string, limit int) (*QueryExecutionResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, sqlQuery)
	fn := m.QueryFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, sqlQuery, limit)
	}
	return &QueryExecutionResult{Rows: []map[string]any{}}, nil
}

// Ping implements QueryExecutor.
func (m *MockQueryExecutor) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Close implements QueryExecutor.
func (m *MockQueryExecutor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Queries returns the statements received so far.
func (m *MockQueryExecutor) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// QueryCalls returns how many times Query was invoked.
func (m *MockQueryExecutor) QueryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// Closed reports whether Close was called.
func (m *MockQueryExecutor) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ QueryExecutor = (*MockQueryExecutor)(nil)
