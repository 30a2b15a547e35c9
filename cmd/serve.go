package cmd

import (
	"net"
	"strconv"

	"github.com/relloyd/stagecopy/actions"
	"github.com/relloyd/stagecopy/constants"
	"github.com/spf13/cobra"
)

var serveProjectFile string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web service that runs macros and resolves dynamic parameters on request",
	Long: `Start a web service so a host application can call the plugin over HTTP:

POST /runnables/{runnableId}/run   {"projectKey": "", "config": {}, "pluginConfig": {}}
POST /params/{resolverId}          {"payload": {"parameterName": ""}, "config": {}, "pluginConfig": {}}
GET  /health
GET  /stop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProjectFile(serveProjectFile)
		if err != nil {
			return err
		}
		serveConfig.Connections = getConnectionLoader()
		serveConfig.Datasets = project
		serveConfig.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunWebServer(&serveConfig)
	},
}

var serveConfig = actions.WebServerConfig{
	LogLevel: "info",
	Scheme:   "http",
	Addr:     net.IP{0, 0, 0, 0},
	Port:     constants.WebServerDefaultPort,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveProjectFile, "project-file", "", false, "")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", strconv.Itoa(constants.WebServerDefaultPort), false, "")
	switches.addFlag(serveCmd, &serveConfig.LogLevel, "log-level", "info", false, "")
}
