package constants

// Plugin

const (
	PluginId                        = "snowflake-stages"
	RunnableIdExportToStages        = "export-to-stages"
	ParamResolverIdDynamicParams    = "compute-dynamic-params"
	DatabaseTypeSnowflake           = "Snowflake" // dataset type as reported by the host
	FileFormatDefault               = "default"   // sentinel; real file format names are always fully qualified
	FileFormatDefaultLabel          = "DEFAULT"
	DatasetFlowModeValue            = "default" // value of the dataset choice when launched from the flow
	ChoiceIndent                    = "⠀⠀"
	ChoiceLabelInvalidDataset       = "⚠️ Invalid input dataset"
	ChoiceLabelConnectionHeaderFmt  = "From connection %v:"
	ChoiceLabelFailedFmt            = "Failed getting %v"
	NameSourceSettings              = "settings"
	NameSourceLocationInfo          = "location_info"
	SqlShowStages                   = "SHOW STAGES"
	SqlShowFileFormats              = "SHOW FILE FORMATS IN ACCOUNT"
	EnvVarPrefix                    = "SC" // prefixed for environment variables in twelveFactorMode
	EnvVarProjectFile               = EnvVarPrefix + "_PROJECT_FILE"
	ConnectionTypeSnowflake         = "snowflake"
	ConnectionTypeMockSnowflake     = "mockSnowflake"
	ConnectionTypeS3                = "s3"
	TimeFormatYearSeconds           = "20060102T150405" // used for human readable run stamps
	TimeFormatYearSecondsRegex      = "[0-9]{4}[0-9]{2}[0-9]{2}T[0-9]{6}"
	WebServerDefaultPort            = 8080
	WebServerDefaultShutdownSeconds = 15
)

// Positional columns returned by SHOW STAGES.
const (
	ShowStagesIdxName    = 1
	ShowStagesIdxCatalog = 2
	ShowStagesIdxSchema  = 3
	ShowStagesIdxComment = 8
)

// Positional columns returned by SHOW FILE FORMATS.
const (
	ShowFileFormatsIdxName    = 1
	ShowFileFormatsIdxCatalog = 2
	ShowFileFormatsIdxSchema  = 3
	ShowFileFormatsIdxComment = 6
)
