package rdbms

import (
	"fmt"
	"strings"

	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
)

// ExportRequest holds the values needed to unload one table into a stage.
type ExportRequest struct {
	DatasetName     string `errorTxt:"dataset name" mandatory:"yes"`
	StageIdentifier string `errorTxt:"stage" mandatory:"yes"`
	DestinationPath string
	FileFormatName  string // optional; the value constants.FileFormatDefault means the stage's own format
	Overwrite       bool
}

// GetExportPath returns the path inside the stage that a dataset is unloaded to.
// Without an override this is <projectKey>/<datasetName>.
// An override has surrounding spaces and slashes removed before the dataset name is appended to it.
func GetExportPath(projectKey string, datasetName string, override string) string {
	prefix := helper.TrimSpacesAndSlashes(override)
	if prefix == "" { // if there's no usable override...
		return fmt.Sprintf("%v/%v", projectKey, datasetName)
	}
	return fmt.Sprintf("%v/%v", prefix, datasetName)
}

// BuildExportStatement returns the COPY INTO @stage statement that unloads the resolved source table.
// Values are trusted configuration and are not escaped.
func BuildExportStatement(req ExportRequest, resolvedSource string) (string, error) {
	if err := helper.ValidateStructIsPopulated(req); err != nil {
		return "", err
	}
	if resolvedSource == "" {
		return "", helper.NewValidationError("missing source table for dataset %q", req.DatasetName)
	}
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("COPY INTO @%v/%v/ FROM %v", req.StageIdentifier, req.DestinationPath, resolvedSource))
	if req.FileFormatName != "" && req.FileFormatName != constants.FileFormatDefault {
		b.WriteString(fmt.Sprintf(" FILE_FORMAT = (FORMAT_NAME = %v)", req.FileFormatName))
	}
	if req.Overwrite {
		b.WriteString(" OVERWRITE = TRUE")
	}
	return b.String(), nil
}
