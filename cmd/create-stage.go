package cmd

import (
	"github.com/relloyd/stagecopy/actions"
	"github.com/relloyd/stagecopy/aws/s3"
	"github.com/relloyd/stagecopy/logger"
	"github.com/spf13/cobra"
)

var createStageCfg = actions.CreateStageConfig{}

var stageCmd = &cobra.Command{
	Use:   "stage <connection>",
	Short: "Create a Snowflake external STAGE pointing to AWS S3 that exports can be written to",
	Long: `Generate CREATE STAGE IF NOT EXISTS DDL for an external stage pointing to AWS S3.
The DDL is printed unless --execute-ddl is set, in which case it runs using the connection.`,
	Args: getConnectionArgsFunc(&createStageCfg.ConnectionName, ""),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runCreateStage()
	},
}

func runCreateStage() error {
	log := logger.NewLogger("stagecopy", createStageCfg.LogLevel, stackDumpOnPanic)
	createStageCfg.StackDumpOnPanic = stackDumpOnPanic
	createStageCfg.Connections = getConnectionLoader()
	createStageCfg.NewLister = s3.NewBasicClient
	ctx, cancel := contextWithInterrupt(log)
	defer cancel()
	return actions.RunCreateStage(ctx, &createStageCfg)
}

func init() {
	createCmd.AddCommand(stageCmd)
	stageCmd.Flags().SortFlags = false
	switches.addFlag(stageCmd, &createStageCfg.StageName, "stage", "", true, "")
	switches.addFlag(stageCmd, &createStageCfg.StageCatalog, "catalog", "", false, "")
	switches.addFlag(stageCmd, &createStageCfg.StageSchema, "schema", "", false, "")
	switches.addFlag(stageCmd, &createStageCfg.S3Url, "s3-url", "", true, "")
	switches.addFlag(stageCmd, &createStageCfg.S3Region, "s3-region", "", false, "")
	switches.addFlag(stageCmd, &createStageCfg.S3Key, "s3-key", "", false, "")
	switches.addFlag(stageCmd, &createStageCfg.S3Secret, "s3-secret", "", false, "")
	switches.addFlag(stageCmd, &createStageCfg.FileFormat, "file-format", "", false, "")
	switches.addFlag(stageCmd, &createStageCfg.QuoteIdentifiers, "quote-identifiers", "true", false, "")
	switches.addFlag(stageCmd, &createStageCfg.CheckS3, "check-s3", "false", false, "")
	switches.addFlag(stageCmd, &createStageCfg.ExecuteDDL, "execute-ddl", "false", false, "")
	switches.addFlag(stageCmd, &createStageCfg.LogLevel, "log-level", "error", false, "")
}
