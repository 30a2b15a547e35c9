package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cevaris/ordered_map"
	"github.com/diegoholiveira/jsonlogic"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/rdbms"
)

// Choice is one entry of a dropdown. A nil Value makes the entry a non-selectable header or warning.
type Choice struct {
	Value *string `json:"value"`
	Label string  `json:"label"`
}

func NewChoice(value string, label string) Choice {
	return Choice{Value: &value, Label: label}
}

func NewHeaderChoice(label string) Choice {
	return Choice{Label: label}
}

func (c Choice) IsSelectable() bool {
	return c.Value != nil
}

func (c Choice) indent() Choice {
	c.Label = constants.ChoiceIndent + c.Label
	return c
}

// MetadataRow is a warehouse object found by a SHOW command.
type MetadataRow struct {
	Name    string
	Catalog string
	Schema  string
	Comment string
}

func (m MetadataRow) descriptor() rdbms.ObjectDescriptor {
	return rdbms.NewObjectDescriptor(m.Catalog, m.Schema, m.Name)
}

// ConnectionRows holds the metadata rows found on one connection, or the error that prevented fetching them.
type ConnectionRows struct {
	Rows []MetadataRow
	Err  error
}

// BuildGrouped turns rows per connection into a choice list.
// rowsByConnection maps connection name to ConnectionRows and is walked in insertion order.
// With more than one connection each group is preceded by a header and every label is indented.
// A connection whose rows could not be fetched yields a single "Failed getting <kind>" entry.
func BuildGrouped(rowsByConnection *ordered_map.OrderedMap, kind string, toChoice func(MetadataRow) Choice) []Choice {
	if rowsByConnection == nil {
		return []Choice{}
	}
	grouped := rowsByConnection.Len() > 1
	retval := make([]Choice, 0)
	iter := rowsByConnection.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() { // for each connection...
		if grouped {
			retval = append(retval, NewHeaderChoice(fmt.Sprintf(constants.ChoiceLabelConnectionHeaderFmt, kv.Key)))
		}
		var group []Choice
		cr, _ := kv.Value.(ConnectionRows)
		if cr.Err != nil {
			group = []Choice{NewHeaderChoice(fmt.Sprintf(constants.ChoiceLabelFailedFmt, kind))}
		} else {
			group = make([]Choice, 0, len(cr.Rows))
			for _, r := range cr.Rows {
				group = append(group, toChoice(r))
			}
		}
		for _, c := range group {
			if grouped {
				c = c.indent()
			}
			retval = append(retval, c)
		}
	}
	return retval
}

// ObjectChoice returns the choice for a stage or file format: the quoted, fully qualified name as value
// and the dotted name as label.
func ObjectChoice(showComments bool) func(MetadataRow) Choice {
	return func(r MetadataRow) Choice {
		d := r.descriptor()
		label := d.Label()
		if showComments && r.Comment != "" {
			label = fmt.Sprintf("%v (%v)", label, r.Comment)
		}
		return NewChoice(d.Resolve(true), label)
	}
}

// DatasetChoice returns a choice whose value and label are both the dataset name.
func DatasetChoice(r MetadataRow) Choice {
	return NewChoice(r.Name, r.Name)
}

// DefaultFileFormatChoice is the entry meaning "use the stage's own file format".
func DefaultFileFormatChoice() Choice {
	return NewChoice(constants.FileFormatDefault, constants.FileFormatDefaultLabel)
}

// rowsFromShowResult converts positional SHOW results into MetadataRows using the given column positions.
func rowsFromShowResult(rows [][]interface{}, idxName, idxCatalog, idxSchema, idxComment int) ([]MetadataRow, error) {
	retval := make([]MetadataRow, 0, len(rows))
	for n, row := range rows {
		if len(row) <= idxName || len(row) <= idxCatalog || len(row) <= idxSchema {
			return nil, fmt.Errorf("row %v has %v columns, expected at least %v", n, len(row), maxInt(idxName, idxCatalog, idxSchema)+1)
		}
		m := MetadataRow{
			Name:    helper.GetStringFromInterface(row[idxName], false),
			Catalog: helper.GetStringFromInterface(row[idxCatalog], false),
			Schema:  helper.GetStringFromInterface(row[idxSchema], false),
		}
		if len(row) > idxComment {
			m.Comment = helper.GetStringFromInterface(row[idxComment], false)
		}
		retval = append(retval, m)
	}
	return retval, nil
}

func maxInt(i ...int) int {
	m := i[0]
	for _, v := range i[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// rowFilter drops metadata rows using a JSON Logic rule.
type rowFilter struct {
	rule string
}

// newRowFilter validates the JSON Logic rule. An empty rule keeps all rows.
func newRowFilter(rule string) (*rowFilter, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return &rowFilter{}, nil
	}
	if !jsonlogic.IsValid(strings.NewReader(rule)) {
		return nil, helper.NewValidationError("invalid choice_filter rule: %v", rule)
	}
	return &rowFilter{rule: rule}, nil
}

// keep returns true if the rule evaluates to true for the row found on connection.
func (f *rowFilter) keep(connection string, r MetadataRow) (bool, error) {
	if f.rule == "" {
		return true, nil
	}
	data, err := json.Marshal(map[string]string{
		"name":       r.Name,
		"catalog":    r.Catalog,
		"schema":     r.Schema,
		"comment":    r.Comment,
		"connection": connection,
	})
	if err != nil {
		return false, fmt.Errorf("error marshalling data before applying JSON logic: %v", err)
	}
	var result bytes.Buffer
	if err = jsonlogic.Apply(strings.NewReader(f.rule), bytes.NewReader(data), &result); err != nil {
		return false, fmt.Errorf("error applying JSON logic: %v", err)
	}
	return strings.TrimSpace(result.String()) == "true", nil
}

// apply filters cr in place. Rows of a failed connection are left alone.
func (f *rowFilter) apply(connection string, cr ConnectionRows) ConnectionRows {
	if f.rule == "" || cr.Err != nil {
		return cr
	}
	kept := make([]MetadataRow, 0, len(cr.Rows))
	for _, r := range cr.Rows {
		ok, err := f.keep(connection, r)
		if err != nil {
			return ConnectionRows{Err: err}
		}
		if ok {
			kept = append(kept, r)
		}
	}
	return ConnectionRows{Rows: kept}
}
