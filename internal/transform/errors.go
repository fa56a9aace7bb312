package transform

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects one record with the complete list of field
// violations found in a single pass, so the caller gets one full
// diagnostic instead of the first failure only.
type ValidationError struct {
	Resource   Resource
	ExternalID string
	Fields     []FieldError
}

func (e *ValidationError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "invalid %s record", e.Resource)
	if e.ExternalID != "" {
		fmt.Fprintf(&builder, " external_id=%s", e.ExternalID)
	}
	for idx, field := range e.Fields {
		if idx == 0 {
			builder.WriteString(": ")
		} else {
			builder.WriteString("; ")
		}
		fmt.Fprintf(&builder, "%s: %s", field.Field, field.Message)
	}
	return builder.String()
}

func (e *ValidationError) addf(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
