package rdbms

import (
	"fmt"
	"strings"
)

// ObjectDescriptor is a partially qualified Snowflake object name.
// Catalog and Schema may be empty, independently of each other; Name is always required.
type ObjectDescriptor struct {
	Catalog string
	Schema  string
	Name    string
}

func NewObjectDescriptor(catalog, schema, name string) ObjectDescriptor {
	return ObjectDescriptor{Catalog: catalog, Schema: schema, Name: name}
}

// Resolve returns the identifier using Snowflake's namespace resolution rules:
//
//   catalog.schema.name
//   schema.name
//   catalog..name  (the session's current schema is used)
//   name
//
// When quoted is true each component present is wrapped in double quotes on its own.
// Embedded quotes are not escaped.
func (o ObjectDescriptor) Resolve(quoted bool) string {
	q := func(s string) string {
		if quoted {
			return `"` + s + `"`
		}
		return s
	}
	switch {
	case o.Catalog != "" && o.Schema != "":
		return fmt.Sprintf("%v.%v.%v", q(o.Catalog), q(o.Schema), q(o.Name))
	case o.Schema != "":
		return fmt.Sprintf("%v.%v", q(o.Schema), q(o.Name))
	case o.Catalog != "":
		return fmt.Sprintf("%v..%v", q(o.Catalog), q(o.Name))
	default:
		return q(o.Name)
	}
}

// Label returns the unquoted, dot separated name used for display purposes.
func (o ObjectDescriptor) Label() string {
	return strings.Join([]string{o.Catalog, o.Schema, o.Name}, ".")
}

func (o ObjectDescriptor) String() string {
	return o.Resolve(false)
}
