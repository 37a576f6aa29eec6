package annotations

import (
	"fmt"
	"strconv"
)

// InjectOptions holds the options carried by an injection marker's tag value
type InjectOptions struct {
	Name     string // qualifier selecting a named binding
	Optional bool   // leave the field untouched when nothing resolves
}

// ParameterType represents the type of a tag option value
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for a tag option
type ParameterSpec struct {
	Type         ParameterType // Parameter type
	DefaultValue interface{}   // Value used when the option is given without '='
	Description  string        // Parameter description
	apply        func(*InjectOptions, interface{})
}

// injectSchema lists the options accepted by the inject tag
var injectSchema = map[string]ParameterSpec{
	"name": {
		Type:        StringType,
		Description: "Named binding to resolve instead of the default one",
		apply:       func(o *InjectOptions, v interface{}) { o.Name = v.(string) },
	},
	"optional": {
		Type:         BoolType,
		DefaultValue: true,
		Description:  "Do not fail when no binding resolves",
		apply:        func(o *InjectOptions, v interface{}) { o.Optional = v.(bool) },
	},
}

// KnownOptions returns the option names accepted by the inject tag
func KnownOptions() []string {
	return []string{"name", "optional"}
}

// convertValue converts a raw option value to the parameter's type
func convertValue(spec ParameterSpec, raw string) (interface{}, error) {
	switch spec.Type {
	case StringType:
		if raw == "" {
			return nil, fmt.Errorf("expected a non-empty string")
		}
		return raw, nil
	case BoolType:
		return parseBoolString(raw)
	default:
		return nil, fmt.Errorf("unsupported parameter type %s", spec.Type)
	}
}

func parseBoolString(s string) (bool, error) {
	switch s {
	case "true", "True", "TRUE", "1", "yes", "Yes", "YES", "on", "On", "ON":
		return true, nil
	case "false", "False", "FALSE", "0", "no", "No", "NO", "off", "Off", "OFF":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s", s)
	}
}

// unquote strips single quotes verbatim and decodes Go escapes in double
// quoted values
func unquote(s string) (string, error) {
	if len(s) < 2 {
		return s, nil
	}
	switch {
	case s[0] == '"' && s[len(s)-1] == '"':
		return strconv.Unquote(s)
	case s[0] == '\'' && s[len(s)-1] == '\'':
		return s[1 : len(s)-1], nil
	}
	return s, nil
}
