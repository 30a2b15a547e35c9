package actions

import (
	"context"
	"fmt"
	"sync"

	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/logger"
)

type fakeDatasets struct {
	key         string
	vars        map[string]string
	datasets    []config.DatasetInfo
	defaults    map[string]config.ConnectionDefaults
	defaultsErr error
}

func (f *fakeDatasets) GetDataset(ctx context.Context, name string) (config.DatasetInfo, error) {
	for _, d := range f.datasets {
		if d.Name == name {
			return d, nil
		}
	}
	return config.DatasetInfo{}, fmt.Errorf("dataset %q not found", name)
}

func (f *fakeDatasets) ListDatasets(ctx context.Context) ([]config.DatasetInfo, error) {
	return f.datasets, nil
}

func (f *fakeDatasets) GetConnectionDefaults(ctx context.Context, connection string) (config.ConnectionDefaults, error) {
	if f.defaultsErr != nil {
		return config.ConnectionDefaults{}, f.defaultsErr
	}
	return f.defaults[connection], nil
}

func (f *fakeDatasets) ProjectKey() string {
	return f.key
}

func (f *fakeDatasets) Variables() map[string]string {
	return f.vars
}

type fakeResult struct {
	rows [][]interface{}
	err  error
}

type fakeCall struct {
	scope     Scope
	statement string
}

// fakeSql answers statements per scope; results are keyed by Scope.String() + "|" + statement.
type fakeSql struct {
	mu      sync.Mutex
	results map[string]fakeResult
	calls   []fakeCall
}

func newFakeSql() *fakeSql {
	return &fakeSql{results: make(map[string]fakeResult)}
}

func (f *fakeSql) on(scope Scope, statement string, rows [][]interface{}, err error) *fakeSql {
	f.results[scope.String()+"|"+statement] = fakeResult{rows: rows, err: err}
	return f
}

func (f *fakeSql) ExecuteAndFetch(ctx context.Context, scope Scope, statement string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{scope: scope, statement: statement})
	r, ok := f.results[scope.String()+"|"+statement]
	if !ok {
		return nil, &MetadataQueryError{Scope: scope, Statement: statement, Err: fmt.Errorf("unexpected statement")}
	}
	if r.err != nil {
		return nil, &MetadataQueryError{Scope: scope, Statement: statement, Err: r.err}
	}
	return r.rows, nil
}

func testLogger() logger.Logger {
	return logger.NewLogger("stagecopy-test", "error", false)
}

// stageRow returns a SHOW STAGES row.
func stageRow(catalog, schema, name, comment string) []interface{} {
	return []interface{}{"2021-01-01", name, catalog, schema, "s3://bucket", "", "N", "", comment}
}

// fileFormatRow returns a SHOW FILE FORMATS row.
func fileFormatRow(catalog, schema, name, comment string) []interface{} {
	return []interface{}{"2021-01-01", []byte(name), catalog, schema, "CSV", "OWNER", comment}
}
