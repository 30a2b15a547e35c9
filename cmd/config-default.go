package cmd

import (
	"fmt"

	"github.com/relloyd/stagecopy/config"
	"github.com/spf13/cobra"
)

var defaultCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Configure default values for command flags",
	Long: fmt.Sprintf(`Configure default values for command flags, where:

- Defaults are stored in config file %q
- Keys match the long name of a flag, e.g. "project-file" or "log-level"`, config.Main.FullPath),
}

func init() {
	configCmd.AddCommand(defaultCmd)
}
