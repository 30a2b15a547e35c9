package cmd

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"mock": cliFlag{name: "mock", shortHand: "m", desc: "mock switch for testing"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\""},
	"project-file": cliFlag{name: "project-file", shortHand: "P",
		desc: "Project file (.yaml or .json) describing the project key, variables, connections and datasets"},
	"input-dataset": cliFlag{name: "input-dataset", shortHand: "i",
		desc: "The dataset the export was launched from, when it runs as a step in a flow"},
	"dataset": cliFlag{name: "dataset", shortHand: "d",
		desc: "The dataset to export. Use \"default\" or leave blank to use the input dataset"},
	"stage": cliFlag{name: "stage", shortHand: "s",
		desc: "The Snowflake stage name, optionally qualified as [<database>.][<schema>.]<stage>"},
	"file-format": cliFlag{name: "file-format", shortHand: "f",
		desc: "Fully qualified Snowflake file format name. Use \"default\" or leave blank for the \n" +
			"stage's own file format"},
	"overwrite": cliFlag{name: "overwrite", shortHand: "o",
		desc: "Overwrite files found at the destination path in the stage"},
	"path": cliFlag{name: "path", shortHand: "t",
		desc: "Destination path inside the stage (default <project-key>/<dataset>)"},
	"quote-identifiers": cliFlag{name: "quote-identifiers", shortHand: "q",
		desc: "Double-quote database, schema and object names so their case is preserved"},
	"name-source": cliFlag{name: "name-source", shortHand: "n",
		desc: "Where the source table name comes from: \"settings\" or \"location_info\""},
	"show-comments": cliFlag{name: "show-comments", shortHand: "c",
		desc: "Append object comments to choice labels"},
	"choice-filter": cliFlag{name: "choice-filter", shortHand: "x",
		desc: "JSON logic rule used to filter metadata rows before they become choices, e.g. \n" +
			"'{\"in\": [\"EXPORT\", {\"var\": \"name\"}]}'"},
	"html": cliFlag{name: "html", shortHand: "H",
		desc: "Print the result as HTML (the default when output is not a terminal)"},
	"connection-name": cliFlag{name: "connection-name", shortHand: "c",
		desc: "Connection name referred to by datasets in the project file"},
	"dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "Snowflake connect string of the form \n" +
			"snowflake://<user>:<password>@<account>/<database>?schema=<schema>&warehouse=<warehouse>&role=<role>"},
	"s3-dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "DSN of the form s3://<bucket name>/<prefix> (takes priority over individual flags)"},
	"s3-bucket": cliFlag{name: "s3-bucket", shortHand: "b",
		desc: "AWS S3 bucket name"},
	"s3-prefix": cliFlag{name: "s3-prefix", shortHand: "p",
		desc: "AWS S3 bucket prefix"},
	"s3-region": cliFlag{name: "s3-region", shortHand: "R",
		desc: "AWS S3 bucket region"},
	"s3-url": cliFlag{name: "s3-url", shortHand: "u",
		desc: "AWS S3 bucket URL to be added to a new STAGE object. Use format: s3://<bucket>[/<prefix>/]"},
	"s3-key": cliFlag{name: "s3-key", shortHand: "K",
		desc: "AWS IAM user key that can access the bucket (or set AWS_ACCESS_KEY_ID)"},
	"s3-secret": cliFlag{name: "s3-secret", shortHand: "S",
		desc: "AWS IAM user secret that can access the bucket (or set AWS_SECRET_ACCESS_KEY)"},
	"check-s3": cliFlag{name: "check-s3", shortHand: "C",
		desc: "List the S3 URL before creating the stage to check that it is reachable"},
	"catalog": cliFlag{name: "catalog", shortHand: "a",
		desc: "Database in which to create the stage (omit to use the connection default)"},
	"schema": cliFlag{name: "schema", shortHand: "m",
		desc: "Schema in which to create the stage (omit to use the connection default)"},
	"force-connection": cliFlag{name: "force", shortHand: "f",
		desc: "Allow overwrite of existing connections"},
	"execute-ddl": cliFlag{name: "execute-ddl", shortHand: "e",
		desc: "Execute the generated DDL against the connection (otherwise it's printed only)"},
	"port": cliFlag{name: "port", shortHand: "p",
		desc: "Port to listen on"},
}

// addFlag add a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// When running in twelveFactorMode, the targetVar is populated using the value of environment variable for the supplied
// name, or if not set then the supplied default value is used.
// When NOT running in twelveFactorMode, the default value is fetched from config if it exists else the supplied
// defaultValue is applied.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, config.Main.Get) // get the cliFlag details, with defaults taken from config or the supplied defaultValue
	desc := sw.desc + desc2
	switch p := targetVar.(type) {
	case *string:
		if twelveFactorMode {
			*p = sw.val
		} else {
			c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
			// Signal that the flag was set so defaults take effect.
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	case *bool:
		b := parseBoolFlag(sw.val)
		if twelveFactorMode {
			*p = b
		} else {
			c.Flags().BoolVarP(p, sw.name, sw.shortHand, b, desc)
			mustSetFlag(c.Flags(), sw.name, strconv.FormatBool(b))
		}
	case *int:
		defaultInt, err := strconv.Atoi(sw.val)
		if err != nil {
			fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
			os.Exit(1)
		}
		if twelveFactorMode {
			*p = defaultInt
		} else {
			c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
			if sw.val != "" {
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	// Optionally mark the flag as mandatory.
	if required && !twelveFactorMode { // if the flag is required...
		_ = c.MarkFlagRequired(sw.name)
	}
}

// parseBoolFlag treats any value that isn't a recognised false value as true, so that
// environment variables such as SC_OVERWRITE=yes switch a flag on.
func parseBoolFlag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return true
	}
	return b
}

// getCliFlag fetches the value of name from the environment, when running in twelveFactorMode,
// else read the Main config file to find it.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetConfig func(key string, out interface{}) error) cliFlag {
	s, ok := (*f)[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	if twelveFactorMode { // if we should read env vars...
		if err := helper.ReadValueFromEnv(flagNameToEnvVar(name), &s.val); err != nil { // if there's no value for the env var...
			s.val = defaultValue
		}
	} else { // else check the config file or apply default...
		err := fnGetConfig(s.name, &s.val)
		if errors.As(err, &config.KeyNotFoundError{}) || s.val == "" { // if there was no key found...
			s.val = defaultValue
		}
	}
	return s
}

// flagNames returns the sorted, distinct long names of the registered flags.
// These are the keys that may be stored as defaults in the main config file.
func (f *cliFlags) flagNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0, len(*f))
	for k, s := range *f {
		if k == "mock" {
			continue
		}
		if _, ok := seen[s.name]; ok {
			continue
		}
		seen[s.name] = struct{}{}
		names = append(names, s.name)
	}
	sort.Strings(names)
	return names
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func mustSetFlag(f *pflag.FlagSet, name string, val string) {
	if err := f.Set(name, val); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// getConnectionArgsFunc returns a func that cobra uses to validate that we have 1 arg.
// It saves arg[0] as the connection name.
func getConnectionArgsFunc(connectionName *string, customErrMsg string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			if customErrMsg != "" {
				return errors.New(customErrMsg)
			}
			return errors.New("requires a <connection>")
		}
		*connectionName = args[0]
		return nil
	}
}

// getParamNameArgsFunc returns a func that cobra uses to validate the single parameter name argument.
func getParamNameArgsFunc(paramName *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("requires a parameter name: dataset, stage or file_format")
		}
		*paramName = args[0]
		return nil
	}
}
