package shared

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xo/dburl"
)

// ConnectionDetails is intended to hold credentials for a logical database connection.
type ConnectionDetails struct {
	Type        string            `json:"type" errorTxt:"database type" mandatory:"yes" yaml:"type"`
	LogicalName string            `json:"logicalName" errorTxt:"database logical name" mandatory:"yes" yaml:"logicalName"`
	Data        map[string]string `json:"data" yaml:"data"`
}

// String redacts passwords and pretty-prints the contents of ConnectionDetails.
func (c ConnectionDetails) String() string {
	x := make([]string, 0, len(c.Data)+1)
	x = append(x, fmt.Sprintf("  type = %v", c.Type))
	if v, ok := c.Data[DefaultDsnConnectionKeyNames.Dsn]; ok { // if there's a DSN...
		x = append(x, fmt.Sprintf("  dsn = %v", RedactDsn(v)))
	} else { // else there's no DSN... (could be S3 connection)
		keys := make([]string, 0, len(c.Data))
		for k := range c.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := c.Data[k]
			if k == "password" || k == "secret" {
				v = "xxxxx"
			}
			x = append(x, fmt.Sprintf("  %v = %v", k, v))
		}
	}
	return strings.Join(x, "\n")
}

var reDsnPassword = regexp.MustCompile(`^([a-zA-Z0-9+]+://[^:@/]*:)[^@]*@`)

// RedactDsn returns the DSN with its password hidden.
// dburl does the work for schemes it understands; anything else gets the user:password@ section masked.
func RedactDsn(dsn string) string {
	if u, err := dburl.Parse(dsn); err == nil {
		return u.Redacted()
	}
	return reDsnPassword.ReplaceAllString(dsn, "${1}xxxxx@")
}
