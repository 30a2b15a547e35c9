package helper

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError is returned when user supplied configuration is missing or unusable.
// It aborts the current invocation and is never retried.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// NewValidationError formats a ValidationError.
func NewValidationError(format string, a ...interface{}) ValidationError {
	return ValidationError{Msg: fmt.Sprintf(format, a...)}
}

// ValidateStructIsPopulated will check if any mandatory fields in cfg are missing.
// It uses struct tags to determine which fields are mandatory and the error text to fetch.
// The error returned is a ValidationError listing the struct tags with key "errorTxt".
func ValidateStructIsPopulated(cfg interface{}) error {
	errs := make([]string, 0)
	GetStructErrorTxt4UnsetFields(cfg, &errs)
	if len(errs) > 0 {
		return NewValidationError("please supply values for %v", strings.Join(errs, ", "))
	}
	return nil
}

// GetStructErrorTxt4UnsetFields will reflect over interface i and build a slice containing error text strings for any
// struct fields that are unset i.e. are the zero value for the given field type, or strings that are only spaces.
// The error text strings are fetched from the errorTxt tags values found in the supplied interface (struct)
// where tag mandatory:"yes" is set.
func GetStructErrorTxt4UnsetFields(i interface{}, errTags *[]string) {
	val := reflect.ValueOf(i)
	if reflect.TypeOf(i).Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()
	for idx := 0; idx < val.NumField(); idx++ { // for each field in the value/struct...
		f := val.Field(idx)
		if typ.Field(idx).PkgPath != "" { // if the field is not exported...
			continue
		}
		switch f.Type().Kind() {
		case reflect.Struct: // if we are looking at a nested struct and need to go down another level...
			GetStructErrorTxt4UnsetFields(f.Interface(), errTags)
		case reflect.Map, reflect.Slice, reflect.Interface, reflect.Ptr, reflect.Func:
		case reflect.String:
			if strings.TrimSpace(f.String()) == "" && typ.Field(idx).Tag.Get("mandatory") == "yes" {
				*errTags = append(*errTags, typ.Field(idx).Tag.Get("errorTxt"))
			}
		default: // extract tags from this struct field...
			if f.Interface() == reflect.Zero(f.Type()).Interface() &&
				typ.Field(idx).Tag.Get("mandatory") == "yes" { // if the field is its zero value and it is mandatory...
				*errTags = append(*errTags, typ.Field(idx).Tag.Get("errorTxt"))
			}
		}
	}
}
