package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/cevaris/ordered_map"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/logger"
)

// ParamName is a dialog parameter whose choices are computed on demand.
type ParamName int

const (
	ParamDataset ParamName = iota + 1
	ParamStage
	ParamFileFormat
)

var paramNames = map[string]ParamName{
	"dataset":     ParamDataset,
	"stage":       ParamStage,
	"file_format": ParamFileFormat,
}

func (p ParamName) String() string {
	for k, v := range paramNames {
		if v == p {
			return k
		}
	}
	return fmt.Sprintf("ParamName(%d)", int(p))
}

// ParseParamName converts the parameterName sent by the host into a ParamName.
func ParseParamName(s string) (ParamName, error) {
	p, ok := paramNames[strings.TrimSpace(s)]
	if !ok {
		return 0, helper.NewValidationError("unsupported parameter name %q", s)
	}
	return p, nil
}

// ChoicesResponse is the body returned to the host.
type ChoicesResponse struct {
	Choices []Choice `json:"choices"`
}

// metadataQuery describes how to list one kind of warehouse object.
type metadataQuery struct {
	kind       string
	statement  string
	idxName    int
	idxCatalog int
	idxSchema  int
	idxComment int
}

var (
	stagesQuery = metadataQuery{
		kind:       "stages",
		statement:  constants.SqlShowStages,
		idxName:    constants.ShowStagesIdxName,
		idxCatalog: constants.ShowStagesIdxCatalog,
		idxSchema:  constants.ShowStagesIdxSchema,
		idxComment: constants.ShowStagesIdxComment,
	}
	fileFormatsQuery = metadataQuery{
		kind:       "file formats",
		statement:  constants.SqlShowFileFormats,
		idxName:    constants.ShowFileFormatsIdxName,
		idxCatalog: constants.ShowFileFormatsIdxCatalog,
		idxSchema:  constants.ShowFileFormatsIdxSchema,
		idxComment: constants.ShowFileFormatsIdxComment,
	}
)

const kindDatasets = "datasets"

type paramResolver struct {
	log    logger.Logger
	deps   PluginDependencies
	plugin PluginConfig
	filter *rowFilter
}

// ResolveDynamicParams computes the choices for the parameter named in payload["parameterName"].
// When the dialog was opened from a dataset in the flow (input_dataset is set) choices come from that
// dataset's connection only; otherwise they come from every connection used by the project's Snowflake datasets.
func ResolveDynamicParams(ctx context.Context, payload map[string]interface{}, cfg map[string]interface{}, pluginCfg map[string]interface{}, deps PluginDependencies) (ChoicesResponse, error) {
	if err := deps.validate(); err != nil {
		return ChoicesResponse{}, err
	}
	name, _ := payload["parameterName"].(string)
	param, err := ParseParamName(name)
	if err != nil {
		return ChoicesResponse{}, err
	}
	c, err := NewExportConfig(cfg)
	if err != nil {
		return ChoicesResponse{}, err
	}
	p, err := NewPluginConfig(pluginCfg)
	if err != nil {
		return ChoicesResponse{}, err
	}
	f, err := newRowFilter(p.ChoiceFilter)
	if err != nil {
		return ChoicesResponse{}, err
	}
	r := &paramResolver{log: deps.Log.WithField("parameter", param.String()), deps: deps, plugin: p, filter: f}
	var choices []Choice
	if c.IsFlowMode() {
		choices, err = r.fromDataset(ctx, param, strings.TrimSpace(c.InputDataset))
	} else {
		choices, err = r.fromProject(ctx, param)
	}
	if err != nil {
		return ChoicesResponse{}, err
	}
	return ChoicesResponse{Choices: choices}, nil
}

// fromDataset returns choices when launched from dataset datasetName.
func (r *paramResolver) fromDataset(ctx context.Context, param ParamName, datasetName string) ([]Choice, error) {
	if param == ParamDataset { // the dataset parameter only displays the name of the input dataset...
		return []Choice{NewChoice(constants.DatasetFlowModeValue, datasetName)}, nil
	}
	d, err := r.deps.Datasets.GetDataset(ctx, datasetName)
	if err != nil || d.Type != constants.DatabaseTypeSnowflake {
		if err != nil {
			r.log.Warn("unable to find input dataset ", datasetName, ": ", err)
		}
		return []Choice{NewHeaderChoice(constants.ChoiceLabelInvalidDataset)}, nil
	}
	q := stagesQuery
	if param == ParamFileFormat {
		q = fileFormatsQuery
	}
	om := ordered_map.NewOrderedMap()
	om.Set(d.Connection, r.filter.apply(d.Connection, r.fetch(ctx, DatasetScope(datasetName), q)))
	choices := BuildGrouped(om, q.kind, ObjectChoice(r.plugin.ShowComments))
	if param == ParamFileFormat {
		choices = append([]Choice{DefaultFileFormatChoice()}, choices...)
	}
	return choices, nil
}

// fromProject returns choices grouped by the connections of the project's Snowflake datasets.
func (r *paramResolver) fromProject(ctx context.Context, param ParamName) ([]Choice, error) {
	datasetsByConnection, err := r.snowflakeDatasetsByConnection(ctx)
	if err != nil {
		return nil, err
	}
	om := ordered_map.NewOrderedMap()
	iter := datasetsByConnection.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() { // for each connection...
		connection := kv.Key.(string)
		var cr ConnectionRows
		switch param {
		case ParamDataset:
			names := kv.Value.([]string)
			cr.Rows = make([]MetadataRow, 0, len(names))
			for _, n := range names {
				cr.Rows = append(cr.Rows, MetadataRow{Name: n})
			}
		case ParamStage:
			cr = r.fetch(ctx, ConnectionScope(connection), stagesQuery)
		case ParamFileFormat:
			cr = r.fetch(ctx, ConnectionScope(connection), fileFormatsQuery)
		}
		om.Set(connection, r.filter.apply(connection, cr))
	}
	switch param {
	case ParamDataset:
		return BuildGrouped(om, kindDatasets, DatasetChoice), nil
	case ParamStage:
		return BuildGrouped(om, stagesQuery.kind, ObjectChoice(r.plugin.ShowComments)), nil
	default:
		def := DefaultFileFormatChoice()
		if om.Len() > 1 {
			def = def.indent()
		}
		return append([]Choice{def}, BuildGrouped(om, fileFormatsQuery.kind, ObjectChoice(r.plugin.ShowComments))...), nil
	}
}

// snowflakeDatasetsByConnection returns the names of Snowflake datasets keyed by connection, both in the
// order they're first seen.
func (r *paramResolver) snowflakeDatasetsByConnection(ctx context.Context) (*ordered_map.OrderedMap, error) {
	all, err := r.deps.Datasets.ListDatasets(ctx)
	if err != nil {
		return nil, err
	}
	om := ordered_map.NewOrderedMap()
	for _, d := range all {
		if d.Type != constants.DatabaseTypeSnowflake {
			continue
		}
		names, _ := om.Get(d.Connection)
		l, _ := names.([]string)
		om.Set(d.Connection, append(l, d.Name))
	}
	return om, nil
}

// fetch runs the metadata query q. Failures are logged and returned in ConnectionRows.Err.
func (r *paramResolver) fetch(ctx context.Context, scope Scope, q metadataQuery) ConnectionRows {
	rows, err := r.deps.Sql.ExecuteAndFetch(ctx, scope, q.statement)
	if err == nil {
		var m []MetadataRow
		m, err = rowsFromShowResult(rows, q.idxName, q.idxCatalog, q.idxSchema, q.idxComment)
		if err == nil {
			return ConnectionRows{Rows: m}
		}
		err = &MetadataQueryError{Scope: scope, Statement: q.statement, Err: err}
	}
	r.log.Warn("failed getting ", q.kind, ": ", err)
	return ConnectionRows{Err: err}
}
