package actions

import (
	"context"

	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/rdbms/shared"
)

type ConnectionLoader interface {
	LoadConnection(connectionName string) (shared.ConnectionDetails, error)
}

type ConnectionGetterSetter interface {
	Get(key string, out interface{}) error
	Set(key string, val interface{}) error
	Delete(key string) error
	GetAllKeys() ([]string, error)
}

type ConnectionValidator interface {
	Parse() error
	GetMap(m map[string]string) map[string]string
	GetScheme() (string, error)
}

// DatasetLookup answers questions about the datasets of the current project.
type DatasetLookup interface {
	GetDataset(ctx context.Context, name string) (config.DatasetInfo, error)
	ListDatasets(ctx context.Context) ([]config.DatasetInfo, error)
	GetConnectionDefaults(ctx context.Context, connection string) (config.ConnectionDefaults, error)
	ProjectKey() string
	Variables() map[string]string
}

// SqlExecutor runs a statement in the given scope and returns all result rows.
type SqlExecutor interface {
	ExecuteAndFetch(ctx context.Context, scope Scope, statement string) ([][]interface{}, error)
}
