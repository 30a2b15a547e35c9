package cmd

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2021-06-01T00:00+0000"
	osArch           = "linux"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use: "stagecopy",
	Long: `
     _
 ___| |_ __ _  __ _  ___  ___ ___  _ __  _   _
/ __| __/ _' |/ _' |/ _ \/ __/ _ \| '_ \| | | |
\__ \ || (_| | (_| |  __/ (_| (_) | |_) | |_| |
|___/\__\__,_|\__, |\___|\___\___/| .__/ \__, |
              |___/               |_|    |___/

stagecopy exports table-backed datasets into Snowflake stages using COPY INTO,
and lists the stages, file formats and datasets that an export can use.
Run it from the command-line, start an HTTP server so a host application can
invoke the same actions, or drive it with environment variables in 12-factor mode.`,
}

func init() {
	cobra.EnableCommandSorting = false
	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if twelveFactorMode { // if we are running based on environment variables...
		if lambdaMode { // if we should handle lambda execution...
			lambda.Start(func() error { return execute12FactorMode(twelveFactorActions) })
		} else {
			if err := execute12FactorMode(twelveFactorActions); err != nil {
				// execute12FactorMode logs the error.
				os.Exit(1)
			}
		}
	} else { // else we're using CLI args and flags via Cobra...
		if err := rootCmd.Execute(); err != nil {
			// Execute() prints the error.
			os.Exit(1)
		}
	}
}
