package config

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/ghodss/yaml"
	"github.com/relloyd/stagecopy/rdbms"
	"github.com/relloyd/stagecopy/rdbms/shared"
)

// DatasetInfo describes one dataset of the project and the table that backs it.
type DatasetInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Connection string `json:"connection"`
	Catalog    string `json:"catalog,omitempty"`
	Schema     string `json:"schema,omitempty"`
	Table      string `json:"table"`
}

// ConnectionDefaults holds the database and schema that a connection's sessions start in.
type ConnectionDefaults struct {
	Database string `json:"database,omitempty"`
	Schema   string `json:"schema,omitempty"`
}

// ProjectFile is the dataset metadata of one project, as exported by the host, e.g.:
//
//   projectKey: SALES
//   variables:
//     env: prod
//   connections:
//     sf_main:
//       database: ANALYTICS
//       schema: PUBLIC
//   datasets:
//     - name: orders
//       type: Snowflake
//       connection: sf_main
//       schema: ${env}_SALES
//       table: ORDERS
//
// Connections that aren't listed here get their defaults from the DSN saved in the connections store.
type ProjectFile struct {
	Key            string                        `json:"projectKey"`
	Vars           map[string]string             `json:"variables,omitempty"`
	Connections    map[string]ConnectionDefaults `json:"connections,omitempty"`
	Datasets       []DatasetInfo                 `json:"datasets"`
	connectionsSrc shared.ConnectionGetter
}

// NewProjectFile parses YAML or JSON project metadata.
// The ConnectionGetter src is used to derive connection defaults not present in the metadata; it may be nil.
func NewProjectFile(b []byte, src shared.ConnectionGetter) (*ProjectFile, error) {
	p := &ProjectFile{}
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("error parsing project file: %w", err)
	}
	if p.Key == "" {
		return nil, fmt.Errorf("project file is missing projectKey")
	}
	seen := make(map[string]bool)
	for _, d := range p.Datasets {
		if d.Name == "" {
			return nil, fmt.Errorf("project %v has a dataset without a name", p.Key)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("project %v has duplicate dataset %q", p.Key, d.Name)
		}
		seen[d.Name] = true
	}
	p.connectionsSrc = src
	return p, nil
}

// ReadProjectFile loads project metadata from the file at fileName.
func ReadProjectFile(fileName string, src shared.ConnectionGetter) (*ProjectFile, error) {
	b, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("error reading project file: %w", err)
	}
	return NewProjectFile(b, src)
}

func (p *ProjectFile) ProjectKey() string {
	return p.Key
}

// Variables returns a copy of the project variables.
func (p *ProjectFile) Variables() map[string]string {
	m := make(map[string]string, len(p.Vars))
	for k, v := range p.Vars {
		m[k] = v
	}
	return m
}

func (p *ProjectFile) GetDataset(ctx context.Context, name string) (DatasetInfo, error) {
	for _, d := range p.Datasets {
		if d.Name == name {
			return d, nil
		}
	}
	return DatasetInfo{}, fmt.Errorf("dataset %q not found in project %v", name, p.Key)
}

// ListDatasets returns all datasets in file order.
func (p *ProjectFile) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	return append([]DatasetInfo(nil), p.Datasets...), nil
}

func (p *ProjectFile) GetConnectionDefaults(ctx context.Context, connection string) (ConnectionDefaults, error) {
	if d, ok := p.Connections[connection]; ok {
		return d, nil
	}
	if p.connectionsSrc == nil {
		return ConnectionDefaults{}, nil
	}
	c, err := p.connectionsSrc.LoadConnection(connection)
	if err != nil {
		return ConnectionDefaults{}, err
	}
	db, schema, err := rdbms.SnowflakeGetConnectionDefaults(c)
	if err != nil {
		return ConnectionDefaults{}, err
	}
	return ConnectionDefaults{Database: db, Schema: schema}, nil
}
