package rdbms

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/logger"
	"github.com/relloyd/stagecopy/rdbms/shared"
	sf "github.com/snowflakedb/gosnowflake"
)

var reSnowflakeScheme = regexp.MustCompile("^snowflake://")

type SnowflakeConnectionDetails struct {
	Account   string `errorTxt:"Snowflake account" mandatory:"yes"`
	DBName    string `errorTxt:"Snowflake db name"`
	Schema    string `errorTxt:"Snowflake schema"`
	User      string `errorTxt:"Snowflake username" mandatory:"yes"`
	Password  string `errorTxt:"Snowflake password" mandatory:"yes"`
	Warehouse string `errorTxt:"Snowflake warehouse"`
	RoleName  string `errorTxt:"Snowflake role name"`
	Dsn       string
}

func (d SnowflakeConnectionDetails) String() string {
	return fmt.Sprintf("%v:%v@%v/%v?schema=%v&warehouse=%v&role=%v",
		d.User,
		"xxxxxxx",
		d.Account,
		d.DBName,
		d.Schema,
		d.Warehouse,
		d.RoleName,
	)
}

func (d SnowflakeConnectionDetails) Parse() error {
	_, err := SnowflakeParseDSN(d.Dsn)
	return err
}

func (d SnowflakeConnectionDetails) GetScheme() (string, error) {
	return constants.ConnectionTypeSnowflake, nil
}

func (d SnowflakeConnectionDetails) GetMap(m map[string]string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[shared.DefaultDsnConnectionKeyNames.Dsn] = d.Dsn
	return m
}

// newSnowflakeConnection opens the Snowflake database connection specified in d.
func newSnowflakeConnection(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	dsn := strings.TrimPrefix(d.Dsn, "snowflake://")
	conn := &shared.HpConnection{
		DbType: constants.ConnectionTypeSnowflake,
	}
	var err error
	conn.DbSql, err = sql.Open("snowflake", dsn)
	if err != nil {
		return nil, err
	}
	if err = conn.DbSql.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to connect to Snowflake using %v: %w", d, err)
	}
	log.Debug("Successful database connection to Snowflake.")
	return conn, nil
}

// SnowflakeParseDSN converts a Snowflake DSN into native connection details.
// The DSN must start with 'snowflake://'.
func SnowflakeParseDSN(d string) (*SnowflakeConnectionDetails, error) {
	if !reSnowflakeScheme.MatchString(d) {
		return nil, errors.New("unsupported Snowflake DSN format: expected prefix snowflake://")
	}
	cfg, err := sf.ParseDSN(strings.TrimPrefix(d, "snowflake://"))
	if err != nil {
		return nil, err
	}
	retval := &SnowflakeConnectionDetails{
		User:      cfg.User,
		Password:  cfg.Password,
		Schema:    cfg.Schema,
		DBName:    cfg.Database,
		Account:   cfg.Account,
		RoleName:  cfg.Role,
		Warehouse: cfg.Warehouse,
		Dsn:       d,
	}
	if cfg.Region != "" { // if region exists in the parsed config...
		// Add it to our account settings.
		retval.Account = fmt.Sprintf("%v.%v", retval.Account, cfg.Region)
	}
	return retval, nil
}

// SnowflakeGetConnectionDefaults returns the database and schema that sessions opened with the connection
// default to. These are used when a dataset doesn't name its own catalog or schema.
func SnowflakeGetConnectionDefaults(c shared.ConnectionDetails) (database string, schema string, err error) {
	d, err := SnowflakeParseDSN(shared.GetDsnConnectionDetails(&c).Dsn)
	if err != nil {
		return "", "", fmt.Errorf("error parsing DSN of connection %q: %w", c.LogicalName, err)
	}
	return d.DBName, d.Schema, nil
}
