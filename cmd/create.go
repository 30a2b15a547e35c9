package cmd

import (
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate helpful metadata",
	Long: `Generate DDL for the following:

- Snowflake external STAGE pointing to AWS S3, to receive exported datasets
`,
}

func init() {
	rootCmd.AddCommand(createCmd)
}
