package helper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/relloyd/stagecopy/constants"
)

// TrimSpacesAndSlashes removes any mix of leading and trailing spaces and forward slashes from s.
// " /a/b/ " becomes "a/b".
func TrimSpacesAndSlashes(s string) string {
	return strings.Trim(s, " /")
}

var reVariable = regexp.MustCompile(`\$\{(\w+)\}`)

// ExpandVariables replaces ${name} references in s using the supplied variables.
// Unknown variables and any other use of $ are left untouched.
func ExpandVariables(s string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(s, "${") {
		return s
	}
	return reVariable.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := vars[reVariable.FindStringSubmatch(ref)[1]]; ok {
			return v
		}
		return ref
	})
}

// GetStringFromInterface will convert interface{} value to a string.
// Optionally return Times in UTC.
func GetStringFromInterface(input interface{}, useUTC bool) string {
	switch v := input.(type) {
	case int, int16, int32, int64, int8, uint8:
		return fmt.Sprintf("%d", v)
	case string:
		return v
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32) // use 'f' to preserve all decimal points.
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if useUTC { // if caller requests UTC conversion...
			return v.UTC().Format(constants.TimeFormatYearSeconds)
		}
		return v.Format(constants.TimeFormatYearSeconds)
	case []uint8: // gosnowflake returns many SHOW columns as raw bytes.
		return string(v)
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// InterfaceToString converts a row of driver values to strings.
func InterfaceToString(src []interface{}) []string {
	retval := make([]string, len(src), len(src))
	for i, v := range src {
		retval[i] = GetStringFromInterface(v, false)
	}
	return retval
}
