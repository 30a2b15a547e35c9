package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/relloyd/stagecopy/actions"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/logger"
	"github.com/spf13/cobra"
)

type paramsFlags struct {
	ProjectFile  string
	LogLevel     string
	InputDataset string
	ShowComments bool
	ChoiceFilter string
	ParamName    string
}

var paramsCfg = paramsFlags{}

var paramsCmd = &cobra.Command{
	Use:   "params <dataset|stage|file_format>",
	Short: "Print the choices available for a dynamic parameter as JSON",
	Long: `Print the choices a host would display for one of the export parameters.

Stages and file formats are listed using SHOW STAGES and SHOW FILE FORMATS IN ACCOUNT.
When an input dataset is supplied, only that dataset's connection is queried. Otherwise,
every connection used by a Snowflake dataset in the project is queried and the choices
are grouped by connection.`,
	Args: getParamNameArgsFunc(&paramsCfg.ParamName),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runParams()
	},
}

func runParams() error {
	log := logger.NewLogger("stagecopy", paramsCfg.LogLevel, stackDumpOnPanic)
	project, err := loadProjectFile(paramsCfg.ProjectFile)
	if err != nil {
		return err
	}
	resolve, err := actions.GetParamResolver(constants.ParamResolverIdDynamicParams)
	if err != nil {
		return err
	}
	ctx, cancel := contextWithInterrupt(log)
	defer cancel()
	res, err := resolve(ctx,
		map[string]interface{}{"parameterName": paramsCfg.ParamName},
		map[string]interface{}{"input_dataset": paramsCfg.InputDataset},
		map[string]interface{}{"show_comments": paramsCfg.ShowComments, "choice_filter": paramsCfg.ChoiceFilter},
		newPluginDependencies(log, project))
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func init() {
	rootCmd.AddCommand(paramsCmd)
	paramsCmd.Flags().SortFlags = false
	switches.addFlag(paramsCmd, &paramsCfg.ProjectFile, "project-file", "", false, "")
	switches.addFlag(paramsCmd, &paramsCfg.InputDataset, "input-dataset", "", false, "")
	switches.addFlag(paramsCmd, &paramsCfg.ShowComments, "show-comments", "false", false, "")
	switches.addFlag(paramsCmd, &paramsCfg.ChoiceFilter, "choice-filter", "", false, "")
	switches.addFlag(paramsCmd, &paramsCfg.LogLevel, "log-level", "error", false, "")
}
