package actions

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/stagecopy/aws/s3"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/logger"
	"github.com/relloyd/stagecopy/rdbms"
)

type CreateStageConfig struct {
	Connections      ConnectionLoader
	ConnectionName   string `errorTxt:"Snowflake connection" mandatory:"yes"`
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	ExecuteDDL       bool
	CheckS3          bool
	StackDumpOnPanic bool
	QuoteIdentifiers bool
	StageCatalog     string
	StageSchema      string
	StageName        string `errorTxt:"Snowflake stage" mandatory:"yes"`
	S3Url            string `errorTxt:"AWS S3 URL" mandatory:"yes"`
	S3Region         string
	S3Key            string `errorTxt:"AWS S3 access key" mandatory:"yes"`
	S3Secret         string `errorTxt:"AWS S3 secret key" mandatory:"yes"`
	FileFormat       string
	NewLister        s3.ListerFactory
	Sql              SqlExecutor
	Output           func(msg string)
}

// RunCreateStage prints or executes the DDL for a stage that exports can be written to.
func RunCreateStage(ctx context.Context, cfg *CreateStageConfig) error {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	log := logger.NewLogger("stagecopy", cfg.LogLevel, cfg.StackDumpOnPanic)
	// Get AWS variables from env.
	if value := os.Getenv("AWS_ACCESS_KEY_ID"); cfg.S3Key == "" && value != "" { // if the CLI didn't supply a key and there is one we can get from the env...
		cfg.S3Key = value
	}
	if value := os.Getenv("AWS_SECRET_ACCESS_KEY"); cfg.S3Secret == "" && value != "" { // if the CLI didn't supply a secret and there is one we can get from the env...
		cfg.S3Secret = value
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	bucket, err := s3.ParseDSN("s3://"+strings.TrimPrefix(cfg.S3Url, "s3://"), defaultString(cfg.S3Region, "eu-west-1"))
	if err != nil {
		return helper.NewValidationError("invalid S3 URL: %v", err)
	}
	if cfg.CheckS3 {
		if err = checkS3Location(log, cfg.NewLister, bucket); err != nil {
			return err
		}
	}
	stage := rdbms.NewObjectDescriptor(cfg.StageCatalog, cfg.StageSchema, cfg.StageName).Resolve(cfg.QuoteIdentifiers)
	ddl := getSnowflakeStageDDL(stage, bucket.URL(), cfg.S3Key, cfg.S3Secret, cfg.FileFormat)
	out := cfg.Output
	if out == nil {
		out = func(msg string) { fmt.Println(msg) }
	}
	if !cfg.ExecuteDDL {
		out(ddl + ";")
		return nil
	}
	if cfg.Sql == nil {
		cfg.Sql = NewSqlExecutor(log, cfg.Connections, nil)
	}
	log.Info("creating stage ", stage, " at ", bucket.URL())
	ctx = WithSensitiveValues(ctx, cfg.S3Secret) // don't log the secret!
	log.Debug(redact(ctx, ddl))
	if _, err = cfg.Sql.ExecuteAndFetch(ctx, ConnectionScope(cfg.ConnectionName), ddl); err != nil {
		return errors.Wrapf(err, "error creating stage %v", stage)
	}
	out(fmt.Sprintf("Stage %v created.", stage))
	return nil
}

// checkS3Location fails if the bucket can't be listed.
func checkS3Location(log logger.Logger, newLister s3.ListerFactory, b s3.AwsS3Bucket) error {
	if newLister == nil {
		newLister = s3.NewBasicClient
	}
	keys, err := newLister(b.Name, b.Region, b.Prefix).List("")
	if err != nil {
		return errors.Wrapf(err, "unable to list S3 location %v", b.URL())
	}
	log.Info("found ", len(keys), " objects at ", b.URL())
	return nil
}

func getSnowflakeStageDDL(stage string, s3Url string, key string, secret string, fileFormat string) string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf(`CREATE STAGE IF NOT EXISTS %v
  URL = '%v'
  CREDENTIALS = (AWS_KEY_ID = '%v' AWS_SECRET_KEY = '%v')`, stage, s3Url, key, secret))
	if fileFormat != "" && fileFormat != constants.FileFormatDefault {
		b.WriteString(fmt.Sprintf("\n  FILE_FORMAT = (FORMAT_NAME = %v)", fileFormat))
	}
	b.WriteString("\n  COMMENT = 'stagecopy export target'")
	return b.String()
}

func defaultString(s string, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
