package actions

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
)

// ExportConfig is the configuration of one export-to-stages invocation.
type ExportConfig struct {
	InputDataset string `mapstructure:"input_dataset"` // set when launched from a dataset in the flow
	Dataset      string `mapstructure:"dataset"`
	Stage        string `mapstructure:"stage" errorTxt:"stage" mandatory:"yes"`
	FileFormat   string `mapstructure:"file_format"`
	Overwrite    bool   `mapstructure:"overwrite"`
	Path         string `mapstructure:"path"`
}

// DatasetName returns the dataset chosen in the dialog, or the flow's input dataset when the choice is
// empty or the flow placeholder.
func (c ExportConfig) DatasetName() string {
	d := strings.TrimSpace(c.Dataset)
	if d == "" || d == constants.DatasetFlowModeValue {
		return strings.TrimSpace(c.InputDataset)
	}
	return d
}

// IsFlowMode returns true when the invocation came from a dataset in the flow.
func (c ExportConfig) IsFlowMode() bool {
	return strings.TrimSpace(c.InputDataset) != ""
}

// PluginConfig holds the plugin-wide settings.
type PluginConfig struct {
	QuoteIdentifiers bool   `mapstructure:"quote_identifiers"`
	NameSource       string `mapstructure:"name_source"`
	ShowComments     bool   `mapstructure:"show_comments"`
	ChoiceFilter     string `mapstructure:"choice_filter"`
}

// NewExportConfig decodes the invocation config map.
// Only the decoding is checked here; mandatory fields are checked by the caller once it knows what it needs.
func NewExportConfig(m map[string]interface{}) (ExportConfig, error) {
	c := ExportConfig{}
	if err := decodeConfigMap(m, &c); err != nil {
		return c, err
	}
	return c, nil
}

// NewPluginConfig decodes the plugin settings and applies defaults.
func NewPluginConfig(m map[string]interface{}) (PluginConfig, error) {
	c := PluginConfig{
		QuoteIdentifiers: true,
		NameSource:       constants.NameSourceSettings,
	}
	if err := decodeConfigMap(m, &c); err != nil {
		return c, err
	}
	c.NameSource = strings.ToLower(strings.TrimSpace(c.NameSource))
	switch c.NameSource {
	case "":
		c.NameSource = constants.NameSourceSettings
	case constants.NameSourceSettings, constants.NameSourceLocationInfo:
	default:
		return c, helper.NewValidationError("unsupported name_source %q: use %q or %q",
			c.NameSource, constants.NameSourceSettings, constants.NameSourceLocationInfo)
	}
	return c, nil
}

// decodeConfigMap copies the host's loosely typed map into out.
// Values such as "true" are accepted for bool fields and nil values are skipped.
func decodeConfigMap(m map[string]interface{}, out interface{}) error {
	clean := make(map[string]interface{}, len(m))
	for k, v := range m {
		if v != nil {
			clean[k] = v
		}
	}
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err = d.Decode(clean); err != nil {
		return helper.NewValidationError("invalid configuration: %v", err)
	}
	return nil
}
