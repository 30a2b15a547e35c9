package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/relloyd/stagecopy/actions"
	"github.com/relloyd/stagecopy/aws/s3"
	"github.com/relloyd/stagecopy/config"
	c "github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/logger"
	"github.com/relloyd/stagecopy/rdbms"
	"github.com/relloyd/stagecopy/rdbms/shared"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set before the other init() functions configure Cobra flags,
// which read their values from environment variables in this mode.
func init() {
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" { // if variable for 12factor mode is set and we should read env vars to determine actions...
		twelveFactorMode = true
		if strings.ToLower(mode) == "lambda" {
			lambdaMode = true
		}
	} else {
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
		lambdaMode = false
	}
}

const (
	envVarTwelveFactorMode = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarCommand          = c.EnvVarPrefix + "_" + "COMMAND"
	envVarSubcommand       = c.EnvVarPrefix + "_" + "SUBCOMMAND"
	envVarConnectionName   = c.EnvVarPrefix + "_" + "CONNECTION_NAME" // connection used by create stage
	envVarLogLevel         = c.EnvVarPrefix + "_" + "LOG_LEVEL"
	envVarStackDump        = c.EnvVarPrefix + "_" + "STACK_DUMP"
	envVarS3Secret         = c.EnvVarPrefix + "_" + "S3_SECRET"
	defaultConnectionName  = "SNOWFLAKE"
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if os env var envVarTwelveFactorMode is "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:        "",
		envVarSubcommand:     "",
		envVarConnectionName: "",
		c.EnvVarProjectFile:  "",
		envVarLogLevel:       "",
		envVarStackDump:      "",
		envVarS3Secret:       "",
	}
	twelveFactorVarsSensitive = map[string]string{ // used to flag some of the above variables as being sensitive.
		envVarS3Secret: "",
	}
)

type twelveFactorAction struct {
	setupFunc  func()
	runnerFunc func() error
}

var twelveFactorActions = map[string]twelveFactorAction{
	"run-" + c.RunnableIdExportToStages: {
		setupFunc:  func() {},
		runnerFunc: runExportToStages,
	},
	"create-stage": {
		setupFunc: func() {
			createStageCfg.ConnectionName = defaultString(twelveFactorVars[envVarConnectionName], defaultConnectionName)
		},
		runnerFunc: runCreateStage,
	},
	"params-" + actions.ParamDataset.String():    paramsTwelveFactorAction(actions.ParamDataset),
	"params-" + actions.ParamStage.String():      paramsTwelveFactorAction(actions.ParamStage),
	"params-" + actions.ParamFileFormat.String(): paramsTwelveFactorAction(actions.ParamFileFormat),
}

func paramsTwelveFactorAction(p actions.ParamName) twelveFactorAction {
	return twelveFactorAction{
		setupFunc:  func() { paramsCfg.ParamName = p.String() },
		runnerFunc: runParams,
	}
}

func defaultString(s string, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func getConnectionLoader() actions.ConnectionLoader {
	if twelveFactorMode {
		return &TwelveFactorConnections{}
	} else {
		return config.Connections
	}
}

func getConnectionGetterSetter() actions.ConnectionGetterSetter {
	if twelveFactorMode {
		fmt.Printf("Error: connections cannot be configured when %v is set (supply them using %v instead)\n",
			envVarTwelveFactorMode,
			helper.GetDsnEnvVarName("<connection-name>"))
		os.Exit(1)
	}
	return config.Connections
}

func execute12FactorMode(acts map[string]twelveFactorAction) (err error) {
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "warn")
	stackDumpOnPanic = os.Getenv(envVarStackDump) != ""
	log := logger.NewLogger("stagecopy", logLevel, stackDumpOnPanic)
	log.Info("stagecopy is running in 12 Factor mode...")
	for k := range twelveFactorVars { // for each env variable that we need...
		twelveFactorVars[k] = os.Getenv(k)
		if _, sensitive := twelveFactorVarsSensitive[k]; !sensitive {
			log.Debug(k, "=", twelveFactorVars[k])
		} else {
			log.Debug(k, "=", "<obfuscated>")
		}
	}
	// Use command and subcommand to fetch the appropriate action.
	action := fmt.Sprintf("%v-%v", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
	a, ok := acts[action]
	if !ok {
		err = fmt.Errorf("invalid combination of command (%v) and subcommand (%v)", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
		log.Error(err.Error())
		return
	}
	a.setupFunc()
	err = a.runnerFunc()
	if err != nil {
		log.Error("Error: ", err)
	}
	return err
}

type TwelveFactorConnections struct{} // implements interfaces in module, actions.

// GetConnectionType returns the type of connectionName found in env var SC_<connection-name>_TYPE.
// If that isn't set, the type is taken from the scheme of the connection's DSN.
func (t *TwelveFactorConnections) GetConnectionType(connectionName string) (string, error) {
	var vType, vDsn string
	if err := helper.ReadValueFromEnv(helper.GetTypeEnvVarName(connectionName), &vType); err == nil {
		return strings.ToLower(strings.TrimSpace(vType)), nil
	}
	if err := helper.ReadValueFromEnv(helper.GetDsnEnvVarName(connectionName), &vDsn); err != nil {
		return "", err
	}
	idx := strings.Index(vDsn, "://")
	if idx < 1 {
		return "", fmt.Errorf("unable to find the type of connection %v: set %v", connectionName, helper.GetTypeEnvVarName(connectionName))
	}
	return strings.ToLower(vDsn[:idx]), nil
}

// LoadConnection reads the DSN of connectionName from the environment, parses it based on the connection type
// and returns the shared.ConnectionDetails.
// This mimics loading connection details from the connections config file.
func (t *TwelveFactorConnections) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	var vDsn string
	kDsn := helper.GetDsnEnvVarName(connectionName)
	if err := helper.ReadValueFromEnv(kDsn, &vDsn); err != nil { // if we cannot find the DSN in the environment...
		return shared.ConnectionDetails{}, err
	}
	vType, err := t.GetConnectionType(connectionName)
	if err != nil {
		return shared.ConnectionDetails{}, err
	}
	m := make(map[string]string)
	switch vType {
	case c.ConnectionTypeSnowflake:
		if _, err := rdbms.SnowflakeParseDSN(vDsn); err != nil { // if the DSN was invalid...
			return shared.ConnectionDetails{}, err
		}
		shared.DsnConnectionDetails{Dsn: vDsn}.GetMap(m)
	case c.ConnectionTypeS3:
		region := helper.ReadValueFromEnvWithDefault(helper.GetRegionEnvVarName(connectionName), "eu-west-1")
		cn, err := s3.ParseDSN(vDsn, region)
		if err != nil {
			return shared.ConnectionDetails{}, err
		}
		cn.GetMap(m)
	default:
		return shared.ConnectionDetails{}, fmt.Errorf("unsupported connection type %q for connection %v", vType, connectionName)
	}
	return shared.ConnectionDetails{
		Type:        vType,
		LogicalName: connectionName,
		Data:        m,
	}, nil
}
