package cmd

import (
	"fmt"

	"github.com/relloyd/stagecopy/actions"
	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/rdbms"
	"github.com/spf13/cobra"
)

var configConnSnowflakeCfg = &actions.ConnectionConfig{}
var snowflakeConn = rdbms.SnowflakeConnectionDetails{}

var configConnAddSnowflakeCmd = &cobra.Command{
	Use:   "snowflake",
	Short: "Add a Snowflake connection",
	Long: fmt.Sprintf(`Add a Snowflake connection to the config store %q
by providing a DSN of the form:

snowflake://<user>:<password>@<account>/<database-name>?schema=<schema>&warehouse=<warehouse>&role=<role>

The database and schema become the connection defaults used when a dataset
doesn't name its own.`,
		config.Connections.FullPath),
	RunE: func(cmd *cobra.Command, args []string) error {
		configConnSnowflakeCfg.Type = constants.ConnectionTypeSnowflake
		configConnSnowflakeCfg.ConfigFile = getConnectionGetterSetter()
		configConnSnowflakeCfg.ConnDetails = snowflakeConn
		cmd.SilenceUsage = true
		return actions.RunConnectionAdd(configConnSnowflakeCfg)
	},
}

func init() {
	configConnAddCmd.AddCommand(configConnAddSnowflakeCmd)
	configConnAddSnowflakeCmd.Flags().SortFlags = false
	switches.addFlag(configConnAddSnowflakeCmd, &configConnSnowflakeCfg.LogicalName, "connection-name", "", true, "")
	switches.addFlag(configConnAddSnowflakeCmd, &configConnSnowflakeCfg.Force, "force-connection", "false", false, "")
	switches.addFlag(configConnAddSnowflakeCmd, &snowflakeConn.Dsn, "dsn", "", true, "")
}
