package actions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/helper"
)

func exportDatasets() *fakeDatasets {
	return &fakeDatasets{
		key:  "SALES",
		vars: map[string]string{"env": "prod"},
		datasets: []config.DatasetInfo{
			{Name: "orders", Type: "Snowflake", Connection: "sf", Catalog: "ANALYTICS", Schema: "PUBLIC", Table: "ORDERS"},
			{Name: "items", Type: "Snowflake", Connection: "sf", Schema: "${env}_SALES", Table: "ITEMS"},
			{Name: "customers", Type: "PostgreSQL", Connection: "pg", Table: "customers"},
			{Name: "no_table", Type: "Snowflake", Connection: "sf"},
			{Name: "dollar", Type: "Snowflake", Connection: "sf", Catalog: "DB", Schema: "S$${env}", Table: "MY$TABLE"},
		},
		defaults: map[string]config.ConnectionDefaults{"sf": {Database: "DEF_DB", Schema: "DEF_SCHEMA"}},
	}
}

func TestExportRunnable(t *testing.T) {
	cases := []struct {
		name      string
		cfg       map[string]interface{}
		pluginCfg map[string]interface{}
		statement string
	}{
		{
			name:      "flow mode with all options",
			cfg:       map[string]interface{}{"input_dataset": "orders", "dataset": "default", "stage": `"DB"."PUBLIC"."EXPORTS"`, "file_format": `"DB"."PUBLIC"."CSV"`, "overwrite": true},
			statement: `COPY INTO @"DB"."PUBLIC"."EXPORTS"/SALES/orders/ FROM "ANALYTICS"."PUBLIC"."ORDERS" FILE_FORMAT = (FORMAT_NAME = "DB"."PUBLIC"."CSV") OVERWRITE = TRUE`,
		},
		{
			name:      "scenario mode, default file format and path override",
			cfg:       map[string]interface{}{"dataset": "orders", "stage": "EXPORTS", "file_format": "default", "path": " /archive/2021/ "},
			statement: `COPY INTO @EXPORTS/archive/2021/orders/ FROM "ANALYTICS"."PUBLIC"."ORDERS"`,
		},
		{
			name:      "unquoted identifiers and connection defaults",
			cfg:       map[string]interface{}{"dataset": "items", "stage": "S", "overwrite": "false"},
			pluginCfg: map[string]interface{}{"quote_identifiers": false},
			statement: `COPY INTO @S/SALES/items/ FROM DEF_DB.${env}_SALES.ITEMS`,
		},
		{
			name:      "location info expands variables",
			cfg:       map[string]interface{}{"dataset": "items", "stage": "S"},
			pluginCfg: map[string]interface{}{"name_source": "location_info"},
			statement: `COPY INTO @S/SALES/items/ FROM "DEF_DB"."prod_SALES"."ITEMS"`,
		},
		{
			name:      "location info keeps dollar signs in identifiers",
			cfg:       map[string]interface{}{"dataset": "dollar", "stage": "ST"},
			pluginCfg: map[string]interface{}{"name_source": "location_info"},
			statement: `COPY INTO @ST/SALES/dollar/ FROM "DB"."S$prod"."MY$TABLE"`,
		},
	}
	for _, c := range cases {
		s := newFakeSql()
		r, err := NewExportRunnable("SALES", c.cfg, c.pluginCfg, PluginDependencies{Log: testLogger(), Datasets: exportDatasets(), Sql: s})
		if err != nil {
			t.Fatalf("%v: %v", c.name, err)
		}
		if r.GetProgressTarget() != nil {
			t.Fatalf("%v: expected nil progress target", c.name)
		}
		// Register the result for the expected statement.
		datasetName, _ := c.cfg["dataset"].(string)
		if datasetName == "default" {
			datasetName, _ = c.cfg["input_dataset"].(string)
		}
		s.on(DatasetScope(datasetName), c.statement, [][]interface{}{{int64(10), int64(2048), int64(512)}}, nil)
		msg, err := r.Run(context.Background(), nil)
		if err != nil {
			t.Fatalf("%v: %v; statements sent: %v", c.name, err, s.calls)
		}
		if !strings.Contains(msg, "<td>10</td>") || !strings.Contains(msg, "<th>rows_unloaded</th>") {
			t.Fatalf("%v: unexpected message %v", c.name, msg)
		}
	}
}

func TestExportRunnableValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  map[string]interface{}
	}{
		{name: "missing dataset", cfg: map[string]interface{}{"stage": "S"}},
		{name: "missing stage", cfg: map[string]interface{}{"dataset": "orders", "stage": "  "}},
		{name: "unknown dataset", cfg: map[string]interface{}{"dataset": "nope", "stage": "S"}},
		{name: "not snowflake", cfg: map[string]interface{}{"input_dataset": "customers", "stage": "S"}},
		{name: "no table", cfg: map[string]interface{}{"dataset": "no_table", "stage": "S"}},
	}
	for _, c := range cases {
		s := newFakeSql()
		r, err := NewExportRunnable("SALES", c.cfg, nil, PluginDependencies{Log: testLogger(), Datasets: exportDatasets(), Sql: s})
		if err != nil {
			t.Fatalf("%v: %v", c.name, err)
		}
		_, err = r.Run(context.Background(), nil)
		var v helper.ValidationError
		if !errors.As(err, &v) {
			t.Fatalf("%v: expected ValidationError; got %v", c.name, err)
		}
		if len(s.calls) != 0 {
			t.Fatalf("%v: expected no SQL; got %v", c.name, s.calls)
		}
	}
	// Bad plugin settings fail at construction.
	_, err := NewExportRunnable("SALES", nil, map[string]interface{}{"name_source": "guess"},
		PluginDependencies{Log: testLogger(), Datasets: exportDatasets(), Sql: newFakeSql()})
	var v helper.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("expected ValidationError for name_source; got %v", err)
	}
}

func TestExportRunnableSqlFailure(t *testing.T) {
	s := newFakeSql()
	r, err := NewExportRunnable("SALES", map[string]interface{}{"dataset": "orders", "stage": "S"}, nil,
		PluginDependencies{Log: testLogger(), Datasets: exportDatasets(), Sql: s})
	if err != nil {
		t.Fatal(err)
	}
	s.on(DatasetScope("orders"), `COPY INTO @S/SALES/orders/ FROM "ANALYTICS"."PUBLIC"."ORDERS"`, nil, errors.New("stage does not exist"))
	_, err = r.Run(context.Background(), nil)
	var m *MetadataQueryError
	if !errors.As(err, &m) {
		t.Fatalf("expected MetadataQueryError; got %v", err)
	}
	if m.Scope.Dataset != "orders" {
		t.Fatalf("expected dataset scope; got %v", m.Scope)
	}
}

func TestRegistry(t *testing.T) {
	fn, err := GetRunnable("export-to-stages")
	if err != nil {
		t.Fatal(err)
	}
	rf, err := fn("SALES", map[string]interface{}{"dataset": "orders", "stage": "S"}, nil,
		PluginDependencies{Log: testLogger(), Datasets: exportDatasets(), Sql: newFakeSql()})
	if err != nil {
		t.Fatal(err)
	}
	if rf.RunId == "" || rf.GetProgressTarget() != nil {
		t.Fatalf("unexpected runnable funcs %+v", rf)
	}
	if _, err = GetRunnable("nope"); err == nil {
		t.Fatal("expected error for unknown runnable")
	}
	if _, err = GetParamResolver("compute-dynamic-params"); err != nil {
		t.Fatal(err)
	}
	if _, err = GetParamResolver("nope"); err == nil {
		t.Fatal("expected error for unknown resolver")
	}
}
