package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/stagecopy/logger"
	"github.com/relloyd/stagecopy/rdbms"
)

// Scope selects the connection a statement runs on: either a named connection or the connection of a dataset.
// Dataset wins when both are set.
type Scope struct {
	Connection string
	Dataset    string
}

func ConnectionScope(connection string) Scope {
	return Scope{Connection: connection}
}

func DatasetScope(dataset string) Scope {
	return Scope{Dataset: dataset}
}

func (s Scope) String() string {
	if s.Dataset != "" {
		return fmt.Sprintf("dataset %v", s.Dataset)
	}
	return fmt.Sprintf("connection %v", s.Connection)
}

type sensitiveValuesKey struct{}

// WithSensitiveValues returns a context whose values are masked wherever a SqlExecutor logs or returns
// statement text.
func WithSensitiveValues(ctx context.Context, values ...string) context.Context {
	existing, _ := ctx.Value(sensitiveValuesKey{}).([]string)
	all := append(append([]string{}, existing...), values...)
	return context.WithValue(ctx, sensitiveValuesKey{}, all)
}

// redact replaces the sensitive values found in ctx with xxxxxx.
func redact(ctx context.Context, s string) string {
	values, _ := ctx.Value(sensitiveValuesKey{}).([]string)
	for _, v := range values {
		if v != "" {
			s = strings.Replace(s, v, "xxxxxx", -1)
		}
	}
	return s
}

// MetadataQueryError is returned when SQL sent to the warehouse fails.
// The statement is kept for callers but isn't part of the error text.
type MetadataQueryError struct {
	Scope     Scope
	Statement string
	Err       error
}

func (e *MetadataQueryError) Error() string {
	return fmt.Sprintf("error executing SQL in %v: %v", e.Scope, e.Err)
}

func (e *MetadataQueryError) Unwrap() error {
	return e.Err
}

type sqlExecutor struct {
	log         logger.Logger
	connections ConnectionLoader
	datasets    DatasetLookup
}

// NewSqlExecutor returns a SqlExecutor that opens one database connection per call.
func NewSqlExecutor(log logger.Logger, connections ConnectionLoader, datasets DatasetLookup) SqlExecutor {
	return &sqlExecutor{log: log, connections: connections, datasets: datasets}
}

func (s *sqlExecutor) ExecuteAndFetch(ctx context.Context, scope Scope, statement string) ([][]interface{}, error) {
	safeStatement := redact(ctx, statement)
	wrap := func(err error) error {
		if msg := redact(ctx, err.Error()); msg != err.Error() { // if the driver echoed a sensitive value...
			err = errors.New(msg)
		}
		return &MetadataQueryError{Scope: scope, Statement: safeStatement, Err: err}
	}
	connectionName := scope.Connection
	if scope.Dataset != "" { // if we should run using the dataset's connection...
		d, err := s.datasets.GetDataset(ctx, scope.Dataset)
		if err != nil {
			return nil, wrap(err)
		}
		connectionName = d.Connection
	}
	conn, err := s.connections.LoadConnection(connectionName)
	if err != nil {
		return nil, wrap(err)
	}
	db, err := rdbms.OpenDbConnection(s.log, conn)
	if err != nil {
		return nil, wrap(err)
	}
	defer db.Close()
	s.log.Debug("executing SQL in ", scope, ": ", safeStatement)
	res, err := rdbms.SqlFetchAll(ctx, s.log, db, statement)
	if err != nil {
		return nil, wrap(err)
	}
	return res.Rows, nil
}
