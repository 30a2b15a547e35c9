package cmd

import (
	"github.com/spf13/cobra"
)

var configConnAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a connection",
	Long:  `Add a logical connection (Snowflake database or S3 bucket) for use by datasets and the create stage command.`,
}

func initConnAdd() {
	configConnCmd.AddCommand(configConnAddCmd)
}
