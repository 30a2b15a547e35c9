package shared

import (
	"context"
	"fmt"
	"sync"
)

// MockResult is the canned response for one SQL statement sent to a MockConnection.
type MockResult struct {
	Columns []string
	Rows    [][]interface{}
	Err     error
}

// MockConnection is a Connector that answers queries from a map of canned results keyed by SQL text.
// Statements that aren't in the map return an error.
type MockConnection struct {
	Results map[string]MockResult
	mu      sync.Mutex
	queries []string
	closed  bool
}

func NewMockConnection(results map[string]MockResult) *MockConnection {
	return &MockConnection{Results: results}
}

func (c *MockConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	r, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	_ = r.Close()
	return mockExecResult{}, nil
}

func (c *MockConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	res, ok := c.Results[query]
	if !ok {
		return nil, fmt.Errorf("mock connection has no result for query %q", query)
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return &mockRows{columns: res.Columns, rows: res.Rows, idx: -1}, nil
}

func (c *MockConnection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockConnection) GetType() string {
	return "mockSnowflake"
}

// Queries returns the statements received so far.
func (c *MockConnection) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}

// IsClosed returns true once Close has been called.
func (c *MockConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type mockExecResult struct{}

func (mockExecResult) LastInsertId() (int64, error) { return 0, nil }
func (mockExecResult) RowsAffected() (int64, error) { return 0, nil }

type mockRows struct {
	columns []string
	rows    [][]interface{}
	idx     int
}

func (r *mockRows) Columns() ([]string, error) {
	return r.columns, nil
}

func (r *mockRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *mockRows) Scan(dest ...interface{}) error {
	row := r.rows[r.idx]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %v destination arguments in Scan, not %v", len(row), len(dest))
	}
	for i := range row {
		p, ok := dest[i].(*interface{})
		if !ok {
			return fmt.Errorf("unsupported Scan destination type %T", dest[i])
		}
		*p = row[i]
	}
	return nil
}

func (r *mockRows) Err() error {
	return nil
}

func (r *mockRows) Close() error {
	return nil
}
