package cmd

import (
	"fmt"

	"github.com/relloyd/stagecopy/actions"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/logger"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a plugin macro",
	Long:  `Run one of the macros provided by this plugin against a project file.`,
}

type exportFlags struct {
	ProjectFile      string
	LogLevel         string
	InputDataset     string
	Dataset          string
	Stage            string
	FileFormat       string
	Overwrite        bool
	Path             string
	QuoteIdentifiers bool
	NameSource       string
	HTML             bool
}

var exportCfg = exportFlags{}

// configMap returns the runnable configuration as the host would supply it.
func (e *exportFlags) configMap() map[string]interface{} {
	return map[string]interface{}{
		"input_dataset": e.InputDataset,
		"dataset":       e.Dataset,
		"stage":         e.Stage,
		"file_format":   e.FileFormat,
		"overwrite":     e.Overwrite,
		"path":          e.Path,
	}
}

func (e *exportFlags) pluginConfigMap() map[string]interface{} {
	return map[string]interface{}{
		"quote_identifiers": e.QuoteIdentifiers,
		"name_source":       e.NameSource,
	}
}

var runExportToStagesCmd = &cobra.Command{
	Use:   constants.RunnableIdExportToStages,
	Short: "Export a Snowflake dataset into a stage using COPY INTO",
	Long: `Export the table behind a Snowflake dataset into a stage by executing

COPY INTO @<stage>/<path> FROM <database>.<schema>.<table> [FILE_FORMAT = (FORMAT_NAME = <file-format>)] [OVERWRITE = TRUE]

using the dataset's connection. The path defaults to <project-key>/<dataset>.
Missing database or schema names fall back to the connection defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runExportToStages()
	},
}

func runExportToStages() error {
	log := logger.NewLogger("stagecopy", exportCfg.LogLevel, stackDumpOnPanic)
	project, err := loadProjectFile(exportCfg.ProjectFile)
	if err != nil {
		return err
	}
	r, err := actions.NewExportRunnable(project.ProjectKey(), exportCfg.configMap(), exportCfg.pluginConfigMap(),
		newPluginDependencies(log, project))
	if err != nil {
		return err
	}
	ctx, cancel := contextWithInterrupt(log)
	defer cancel()
	res, err := r.Export(ctx)
	if err != nil {
		return err
	}
	if exportCfg.HTML || !isInteractive() {
		fmt.Println(res.HTML())
	} else {
		fmt.Print(res.Text())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(runExportToStagesCmd)
	runExportToStagesCmd.Flags().SortFlags = false
	switches.addFlag(runExportToStagesCmd, &exportCfg.ProjectFile, "project-file", "", false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.Stage, "stage", "", true, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.Dataset, "dataset", "", false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.InputDataset, "input-dataset", "", false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.FileFormat, "file-format", constants.FileFormatDefault, false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.Path, "path", "", false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.Overwrite, "overwrite", "false", false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.QuoteIdentifiers, "quote-identifiers", "true", false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.NameSource, "name-source", constants.NameSourceSettings, false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.HTML, "html", "false", false, "")
	switches.addFlag(runExportToStagesCmd, &exportCfg.LogLevel, "log-level", "warn", false, "")
}
