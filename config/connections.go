package config

import (
	"fmt"

	"github.com/relloyd/stagecopy/rdbms/shared"
)

// GetConnectionDetails fetches generic connection details from the File c using the connectionName to do the lookup.
// If the connection is not found the an error is produced.
func (c *File) GetConnectionDetails(connectionName string) (*shared.ConnectionDetails, error) {
	genericConn := &shared.ConnectionDetails{}
	if err := c.Get(connectionName, genericConn); err != nil {
		return nil, err
	}
	if genericConn.Type == "" { // if the connection was not found...
		return nil, fmt.Errorf("connection %q is not configured: use 'config connections' command to create it", connectionName)
	}
	return genericConn, nil
}

// LoadConnection returns a copy of the connection saved under connectionName.
func (c *File) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	d, err := c.GetConnectionDetails(connectionName)
	if err != nil { // if there was an error fetching the connection from config...
		return shared.ConnectionDetails{}, err
	}
	if d.LogicalName == "" {
		d.LogicalName = connectionName
	}
	return *d, nil
}
