package rdbms

import (
	"fmt"

	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/logger"
	"github.com/relloyd/stagecopy/rdbms/shared"
)

// MockConnections holds canned connections returned by OpenDbConnection for type mockSnowflake,
// keyed by logical connection name.
var MockConnections = map[string]*shared.MockConnection{}

// OpenDbConnection opens a database connection using the supplied ConnectionDetails struct in c.
func OpenDbConnection(log logger.Logger, c shared.ConnectionDetails) (db shared.Connector, err error) {
	log.Debug("opening connection type ", c.Type, " with logicalName ", c.LogicalName) // don't log password details in c.Data!
	switch c.Type {
	case constants.ConnectionTypeSnowflake:
		db, err = newSnowflakeConnection(log, shared.GetDsnConnectionDetails(&c))
	case constants.ConnectionTypeMockSnowflake:
		m, ok := MockConnections[c.LogicalName]
		if !ok {
			return nil, fmt.Errorf("no mock connection registered for %q", c.LogicalName)
		}
		db = m
	default:
		err = fmt.Errorf("unsupported database type, %q", c.Type)
	}
	return
}
