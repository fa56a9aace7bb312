package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel derives columns and values from a row struct's db tags and
// builds the insert. Fields tagged "-" or untagged are skipped.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	columns, values, err := modelFields(model)
	if err != nil {
		return "", nil, err
	}

	return InsertInto(table).
		Columns(columns...).
		Values(values...).
		Suffix(suffix).
		ToSQL()
}

// ModelColumns returns the db-tagged column names of a row struct in
// declaration order.
func ModelColumns(model any) ([]string, error) {
	columns, _, err := modelFields(model)
	return columns, err
}

func modelFields(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct, got %s", value.Kind())
	}

	typ := value.Type()
	columns := make([]string, 0, typ.NumField())
	values := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		column := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if column == "" || column == "-" {
			continue
		}
		columns = append(columns, column)
		values = append(values, value.Field(i).Interface())
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return columns, values, nil
}
