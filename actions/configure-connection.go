package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/rdbms/shared"
)

type ConnectionConfig struct {
	ConfigFile  ConnectionGetterSetter
	LogicalName string `errorTxt:"connection name" mandatory:"yes"`
	Type        string
	ConnDetails ConnectionValidator // rdbms.SnowflakeConnectionDetails or s3.AwsS3Bucket
	Force       bool
	Output      io.Writer
}

func (c *ConnectionConfig) out() io.Writer {
	if c.Output == nil {
		return os.Stdout
	}
	return c.Output
}

func RunConnectionAdd(cfg *ConnectionConfig) error {
	connection := shared.ConnectionDetails{
		LogicalName: cfg.LogicalName,
		Type:        cfg.Type,
		Data:        make(map[string]string),
	}
	if err := helper.ValidateStructIsPopulated(connection); err != nil { // if the basics were not supplied...
		return err
	}
	if strings.Contains(cfg.LogicalName, ".") {
		return helper.NewValidationError("connection name cannot contain period characters '.'")
	}
	if cfg.ConnDetails == nil {
		return errors.New("missing connection details")
	}
	var err error
	if err = cfg.ConnDetails.Parse(); err != nil {
		return errors.Wrap(err, "unable to create connection")
	}
	if connection.Type, err = cfg.ConnDetails.GetScheme(); err != nil {
		return err
	}
	cfg.ConnDetails.GetMap(connection.Data)
	// Check for an existing saved connection.
	tmpConn := &shared.ConnectionDetails{}
	err = cfg.ConfigFile.Get(cfg.LogicalName, tmpConn)
	if err != nil { // if there is an error finding the connection...
		if !errors.As(err, &config.KeyNotFoundError{}) { // if the error is real...
			return err
		}
	} else if tmpConn.LogicalName != "" && !cfg.Force { // else if the connection exists, but we are not allowed to overwrite it...
		return fmt.Errorf("connection exists, use force to update the connection or remove it first")
	}
	// Set config (creates the file if missing).
	if err = cfg.ConfigFile.Set(cfg.LogicalName, &connection); err != nil {
		return fmt.Errorf("error writing connections config file after adding: %v", err)
	}
	_, _ = fmt.Fprintf(cfg.out(), "Connection %q added\n", cfg.LogicalName)
	return nil
}

func RunConnectionRemove(cfg *ConnectionConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	err := cfg.ConfigFile.Delete(cfg.LogicalName)
	if err != nil {
		return fmt.Errorf("unable to delete connection %q from config: %v", cfg.LogicalName, err)
	}
	_, _ = fmt.Fprintf(cfg.out(), "Connection %q removed\n", cfg.LogicalName)
	return nil
}

// RunConnectionList prints all connections with passwords redacted.
func RunConnectionList(cfg *ConnectionConfig) error {
	keys, err := cfg.ConfigFile.GetAllKeys()
	if err != nil {
		return err
	}
	for _, k := range keys { // for each key...
		conn := shared.ConnectionDetails{}
		if err := cfg.ConfigFile.Get(k, &conn); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cfg.out(), "%v:\n%v\n", k, conn)
	}
	return nil
}
