package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/helper"
)

func choiceLabels(c []Choice) []string {
	l := make([]string, 0, len(c))
	for _, x := range c {
		l = append(l, x.Label)
	}
	return l
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func projectDatasets() *fakeDatasets {
	return &fakeDatasets{
		key: "SALES",
		datasets: []config.DatasetInfo{
			{Name: "orders", Type: "Snowflake", Connection: "sf_main", Table: "ORDERS"},
			{Name: "customers", Type: "PostgreSQL", Connection: "pg", Table: "customers"},
			{Name: "items", Type: "Snowflake", Connection: "sf_other", Table: "ITEMS"},
			{Name: "returns", Type: "Snowflake", Connection: "sf_main", Table: "RETURNS"},
		},
	}
}

func resolve(t *testing.T, param string, cfg map[string]interface{}, pluginCfg map[string]interface{}, d *fakeDatasets, s *fakeSql) []Choice {
	t.Helper()
	res, err := ResolveDynamicParams(context.Background(), map[string]interface{}{"parameterName": param}, cfg, pluginCfg,
		PluginDependencies{Log: testLogger(), Datasets: d, Sql: s})
	if err != nil {
		t.Fatal(err)
	}
	return res.Choices
}

func TestResolveDynamicParamsFlowMode(t *testing.T) {
	d := projectDatasets()
	s := newFakeSql().
		on(DatasetScope("orders"), "SHOW STAGES", [][]interface{}{stageRow("DB", "PUBLIC", "EXPORTS", "")}, nil).
		on(DatasetScope("orders"), "SHOW FILE FORMATS IN ACCOUNT", [][]interface{}{fileFormatRow("DB", "PUBLIC", "CSV_GZ", "")}, nil)
	cfg := map[string]interface{}{"input_dataset": "orders"}
	// Test 1 - dataset shows the input dataset name with the flow placeholder value.
	c := resolve(t, "dataset", cfg, nil, d, s)
	if len(c) != 1 || *c[0].Value != "default" || c[0].Label != "orders" {
		t.Fatalf("unexpected dataset choices %v", choiceLabels(c))
	}
	// Test 2 - stages from the dataset's connection without headers.
	c = resolve(t, "stage", cfg, nil, d, s)
	if !equalStrings(choiceLabels(c), []string{"DB.PUBLIC.EXPORTS"}) {
		t.Fatalf("unexpected stage choices %v", choiceLabels(c))
	}
	if *c[0].Value != `"DB"."PUBLIC"."EXPORTS"` {
		t.Fatalf("unexpected stage value %v", *c[0].Value)
	}
	// Test 3 - file formats start with the default entry.
	c = resolve(t, "file_format", cfg, nil, d, s)
	if !equalStrings(choiceLabels(c), []string{"DEFAULT", "DB.PUBLIC.CSV_GZ"}) {
		t.Fatalf("unexpected file format choices %v", choiceLabels(c))
	}
	if *c[0].Value != "default" {
		t.Fatalf("expected default sentinel value; got %v", *c[0].Value)
	}
	// Test 4 - non-Snowflake input dataset.
	c = resolve(t, "stage", map[string]interface{}{"input_dataset": "customers"}, nil, d, s)
	if len(c) != 1 || c[0].Value != nil || c[0].Label != "⚠️ Invalid input dataset" {
		t.Fatalf("expected invalid dataset choice; got %v", choiceLabels(c))
	}
	// Test 5 - query failure degrades to a warning.
	s.on(DatasetScope("orders"), "SHOW STAGES", nil, errors.New("insufficient privileges"))
	c = resolve(t, "stage", cfg, nil, d, s)
	if !equalStrings(choiceLabels(c), []string{"Failed getting stages"}) || c[0].Value != nil {
		t.Fatalf("expected failure warning; got %v", choiceLabels(c))
	}
}

func TestResolveDynamicParamsScenarioMode(t *testing.T) {
	d := projectDatasets()
	s := newFakeSql().
		on(ConnectionScope("sf_main"), "SHOW FILE FORMATS IN ACCOUNT", [][]interface{}{fileFormatRow("DB", "PUBLIC", "CSV_GZ", "gzip csv")}, nil).
		on(ConnectionScope("sf_other"), "SHOW FILE FORMATS IN ACCOUNT", nil, errors.New("network down")).
		on(ConnectionScope("sf_main"), "SHOW STAGES", [][]interface{}{stageRow("DB", "PUBLIC", "EXPORTS", "")}, nil).
		on(ConnectionScope("sf_other"), "SHOW STAGES", [][]interface{}{stageRow("WH", "RAW", "LANDING", "")}, nil)
	// Test 1 - datasets grouped by connection in first seen order.
	c := resolve(t, "dataset", nil, nil, d, s)
	expected := []string{
		"From connection sf_main:",
		"⠀⠀orders",
		"⠀⠀returns",
		"From connection sf_other:",
		"⠀⠀items",
	}
	if !equalStrings(choiceLabels(c), expected) {
		t.Fatalf("expected %v; got %v", expected, choiceLabels(c))
	}
	if *c[1].Value != "orders" {
		t.Fatalf("expected dataset name as value; got %v", *c[1].Value)
	}
	// Test 2 - file formats: indented default first and a warning for the failed connection.
	c = resolve(t, "file_format", map[string]interface{}{"input_dataset": ""}, map[string]interface{}{"show_comments": "true"}, d, s)
	expected = []string{
		"⠀⠀DEFAULT",
		"From connection sf_main:",
		"⠀⠀DB.PUBLIC.CSV_GZ (gzip csv)",
		"From connection sf_other:",
		"⠀⠀Failed getting file formats",
	}
	if !equalStrings(choiceLabels(c), expected) {
		t.Fatalf("expected %v; got %v", expected, choiceLabels(c))
	}
	// Test 3 - choice filter applies to every connection.
	c = resolve(t, "stage", nil, map[string]interface{}{"choice_filter": `{"==": [{"var": "connection"}, "sf_other"]}`}, d, s)
	expected = []string{
		"From connection sf_main:",
		"From connection sf_other:",
		"⠀⠀WH.RAW.LANDING",
	}
	if !equalStrings(choiceLabels(c), expected) {
		t.Fatalf("expected %v; got %v", expected, choiceLabels(c))
	}
	// Test 4 - single Snowflake connection means no headers.
	single := &fakeDatasets{datasets: d.datasets[:2]}
	c = resolve(t, "file_format", nil, nil, single, s)
	if !equalStrings(choiceLabels(c), []string{"DEFAULT", "DB.PUBLIC.CSV_GZ"}) {
		t.Fatalf("unexpected single connection choices %v", choiceLabels(c))
	}
}

func TestResolveDynamicParamsErrors(t *testing.T) {
	deps := PluginDependencies{Log: testLogger(), Datasets: projectDatasets(), Sql: newFakeSql()}
	var v helper.ValidationError
	// Test 1 - unknown parameter.
	_, err := ResolveDynamicParams(context.Background(), map[string]interface{}{"parameterName": "warehouse"}, nil, nil, deps)
	if !errors.As(err, &v) {
		t.Fatalf("expected ValidationError; got %v", err)
	}
	// Test 2 - invalid filter.
	_, err = ResolveDynamicParams(context.Background(), map[string]interface{}{"parameterName": "stage"}, nil,
		map[string]interface{}{"choice_filter": "{"}, deps)
	if !errors.As(err, &v) {
		t.Fatalf("expected ValidationError; got %v", err)
	}
	// Test 3 - short rows are a metadata error for that connection.
	s := newFakeSql().on(DatasetScope("orders"), "SHOW STAGES", [][]interface{}{{"x", "y"}}, nil)
	res, err := ResolveDynamicParams(context.Background(), map[string]interface{}{"parameterName": "stage"},
		map[string]interface{}{"input_dataset": "orders"}, nil, PluginDependencies{Log: testLogger(), Datasets: projectDatasets(), Sql: s})
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(choiceLabels(res.Choices), []string{"Failed getting stages"}) {
		t.Fatalf("expected failure warning; got %v", choiceLabels(res.Choices))
	}
	// Test 4 - parameter names.
	if p, err := ParseParamName(" file_format "); err != nil || p != ParamFileFormat || p.String() != "file_format" {
		t.Fatalf("unexpected parse result %v, %v", p, err)
	}
}
