package cmd

import (
	"fmt"

	"github.com/relloyd/stagecopy/constants"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information for stagecopy",
	Long:  `Show version information for stagecopy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf(`stagecopy
  Version:	%v
  Build date:	%v
  OS/Arch:	%v
  Plugin:	%v
`, version, buildDate, osArch, constants.PluginId)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
