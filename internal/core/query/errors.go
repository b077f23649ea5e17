package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration marks requests that cannot be compiled for the record type.
// Every error returned by Compile wraps it.
var ErrConfiguration = errors.New("invalid query configuration")

// ConfigError describes why a request failed to compile.
type ConfigError struct {
	Field    string `json:"field,omitempty"`
	Operator string `json:"operator,omitempty"`
	Function string `json:"function,omitempty"`
	Reason   string `json:"reason"`
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(ErrConfiguration.Error())
	if e.Field != "" {
		fmt.Fprintf(&b, ": field '%s'", e.Field)
	}
	if e.Operator != "" {
		fmt.Fprintf(&b, " operator '%s'", e.Operator)
	}
	if e.Function != "" {
		fmt.Fprintf(&b, " aggregate '%s'", e.Function)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
