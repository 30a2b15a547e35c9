package actions

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/logger"
	"github.com/relloyd/stagecopy/rdbms"
	"github.com/rs/xid"
)

// Columns returned by COPY INTO <location>.
var copyIntoLocationResultColumns = []string{"rows_unloaded", "input_bytes", "output_bytes"}

// ProgressUnit is the unit a runnable reports progress in.
type ProgressUnit string

const (
	ProgressUnitSize    ProgressUnit = "SIZE"
	ProgressUnitFiles   ProgressUnit = "FILES"
	ProgressUnitRecords ProgressUnit = "RECORDS"
	ProgressUnitNone    ProgressUnit = "NONE"
)

// ProgressTarget tells the host how much work a run will do.
type ProgressTarget struct {
	Target int64
	Unit   ProgressUnit
}

// ProgressFunc receives the current progress of a run.
type ProgressFunc func(current int64)

// PluginDependencies are the collaborators supplied by the host.
type PluginDependencies struct {
	Log      logger.Logger
	Datasets DatasetLookup
	Sql      SqlExecutor
}

func (d PluginDependencies) validate() error {
	if d.Log == nil || d.Datasets == nil || d.Sql == nil {
		return errors.New("plugin dependencies must include a logger, dataset lookup and SQL executor")
	}
	return nil
}

// Runnable exports one table-backed dataset into a Snowflake stage.
type Runnable struct {
	RunId      string
	projectKey string
	cfg        ExportConfig
	plugin     PluginConfig
	deps       PluginDependencies
	log        logger.Logger
}

// NewExportRunnable decodes the config maps supplied by the host.
func NewExportRunnable(projectKey string, cfg map[string]interface{}, pluginCfg map[string]interface{}, deps PluginDependencies) (*Runnable, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	c, err := NewExportConfig(cfg)
	if err != nil {
		return nil, err
	}
	p, err := NewPluginConfig(pluginCfg)
	if err != nil {
		return nil, err
	}
	if projectKey == "" {
		projectKey = deps.Datasets.ProjectKey()
	}
	r := &Runnable{
		RunId:      xid.New().String(),
		projectKey: projectKey,
		cfg:        c,
		plugin:     p,
		deps:       deps,
	}
	r.log = deps.Log.WithField("runId", r.RunId)
	return r, nil
}

// GetProgressTarget returns nil since exports don't report progress.
func (r *Runnable) GetProgressTarget() *ProgressTarget {
	return nil
}

// Run executes the export and returns an HTML message describing the result.
func (r *Runnable) Run(ctx context.Context, progress ProgressFunc) (string, error) {
	res, err := r.Export(ctx)
	if err != nil {
		return "", err
	}
	return res.HTML(), nil
}

// ExportResult is the outcome of a successful export.
type ExportResult struct {
	DatasetName string
	Statement   string
	Rows        [][]interface{}
}

// Export validates the configuration, builds the COPY INTO statement and runs it using the dataset's connection.
func (r *Runnable) Export(ctx context.Context) (*ExportResult, error) {
	datasetName := r.cfg.DatasetName()
	if datasetName == "" {
		return nil, helper.NewValidationError("please supply values for dataset")
	}
	if err := helper.ValidateStructIsPopulated(r.cfg); err != nil {
		return nil, err
	}
	log := r.log.WithField("dataset", datasetName)
	d, err := r.deps.Datasets.GetDataset(ctx, datasetName)
	if err != nil {
		return nil, helper.NewValidationError("unable to find dataset %q: %v", datasetName, err)
	}
	if d.Type != constants.DatabaseTypeSnowflake {
		return nil, helper.NewValidationError("dataset %q is not a Snowflake dataset", datasetName)
	}
	source, err := r.resolveSource(ctx, d)
	if err != nil {
		return nil, err
	}
	req := rdbms.ExportRequest{
		DatasetName:     datasetName,
		StageIdentifier: strings.TrimSpace(r.cfg.Stage),
		DestinationPath: rdbms.GetExportPath(r.projectKey, datasetName, r.cfg.Path),
		FileFormatName:  strings.TrimSpace(r.cfg.FileFormat),
		Overwrite:       r.cfg.Overwrite,
	}
	stmt, err := rdbms.BuildExportStatement(req, source.Resolve(r.plugin.QuoteIdentifiers))
	if err != nil {
		return nil, err
	}
	log.Info("exporting ", source.Label(), " to stage ", req.StageIdentifier)
	log.Debug(stmt)
	rows, err := r.deps.Sql.ExecuteAndFetch(ctx, DatasetScope(datasetName), stmt)
	if err != nil {
		return nil, err
	}
	log.Info("export complete")
	return &ExportResult{DatasetName: datasetName, Statement: stmt, Rows: rows}, nil
}

// resolveSource works out the catalog, schema and table backing dataset d.
// Missing catalog or schema fall back to the connection's defaults.
func (r *Runnable) resolveSource(ctx context.Context, d config.DatasetInfo) (rdbms.ObjectDescriptor, error) {
	catalog, schema, table := d.Catalog, d.Schema, d.Table
	if r.plugin.NameSource == constants.NameSourceLocationInfo { // if we should use the expanded location...
		vars := r.deps.Datasets.Variables()
		catalog = helper.ExpandVariables(catalog, vars)
		schema = helper.ExpandVariables(schema, vars)
		table = helper.ExpandVariables(table, vars)
	}
	catalog, schema, table = strings.TrimSpace(catalog), strings.TrimSpace(schema), strings.TrimSpace(table)
	if table == "" {
		return rdbms.ObjectDescriptor{}, helper.NewValidationError("dataset %q has no table", d.Name)
	}
	if catalog == "" || schema == "" {
		defaults, err := r.deps.Datasets.GetConnectionDefaults(ctx, d.Connection)
		if err != nil {
			return rdbms.ObjectDescriptor{}, errors.Wrapf(err, "error fetching defaults of connection %v", d.Connection)
		}
		if catalog == "" {
			catalog = defaults.Database
		}
		if schema == "" {
			schema = defaults.Schema
		}
	}
	return rdbms.NewObjectDescriptor(catalog, schema, table), nil
}

// HTML returns the message shown by the host once the run completes.
func (e *ExportResult) HTML() string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("<div>Dataset <strong>%v</strong> exported.</div>", html.EscapeString(e.DatasetName)))
	b.WriteString(fmt.Sprintf("<pre>%v</pre>", html.EscapeString(e.Statement)))
	if len(e.Rows) == 0 {
		return b.String()
	}
	b.WriteString("<table><tr>")
	for idx := range e.Rows[0] {
		b.WriteString(fmt.Sprintf("<th>%v</th>", html.EscapeString(resultColumnName(idx))))
	}
	b.WriteString("</tr>")
	for _, row := range e.Rows {
		b.WriteString("<tr>")
		for _, v := range row {
			b.WriteString(fmt.Sprintf("<td>%v</td>", html.EscapeString(helper.GetStringFromInterface(v, false))))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

// Text returns the result for display on a terminal.
func (e *ExportResult) Text() string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("Dataset %v exported.\n%v\n", e.DatasetName, e.Statement))
	for _, row := range e.Rows {
		values := helper.InterfaceToString(row)
		parts := make([]string, 0, len(values))
		for idx, v := range values {
			parts = append(parts, fmt.Sprintf("%v=%v", resultColumnName(idx), v))
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func resultColumnName(idx int) string {
	if idx < len(copyIntoLocationResultColumns) {
		return copyIntoLocationResultColumns[idx]
	}
	return fmt.Sprintf("column_%v", idx+1)
}
