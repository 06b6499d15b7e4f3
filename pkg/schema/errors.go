package schema

import (
	"fmt"
	"strings"
)

// Error code constants for machine-readable error identification.
const (
	CodeRequired = "required"
	CodeType     = "type"
	CodeMinLen   = "min_length"
	CodeMaxLen   = "max_length"
	CodePattern  = "pattern"
	CodeEnum     = "enum"
	CodeMin      = "min"
	CodeMax      = "max"
	CodeInteger  = "integer"
	CodeMinItems = "min_items"
	CodeMaxItems = "max_items"
	CodeUnknown  = "unknown_field"
	CodeExpr     = "expr"
	CodeSchema   = "schema"
)

// FieldError describes a single validation failure.
type FieldError struct {
	// Path locates the failing value, e.g. "name" or "items.2.price".
	// Empty for errors about the top-level value.
	Path string `json:"path,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Errors is a list of field errors; it is itself an error.
type Errors []*FieldError

// Error implements the error interface.
func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// newError builds a FieldError for the top-level value.
func newError(code, format string, args ...any) *FieldError {
	return &FieldError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// prefix returns a copy of err with every field path nested under path.
// Plain errors are wrapped into a single FieldError.
func prefix(path string, err error) error {
	join := func(p string) string {
		if p == "" {
			return path
		}
		return path + "." + p
	}
	switch e := err.(type) {
	case *FieldError:
		return &FieldError{Path: join(e.Path), Code: e.Code, Message: e.Message}
	case Errors:
		out := make(Errors, len(e))
		for i, fe := range e {
			out[i] = &FieldError{Path: join(fe.Path), Code: fe.Code, Message: fe.Message}
		}
		return out
	default:
		return &FieldError{Path: path, Code: CodeSchema, Message: err.Error()}
	}
}

// FieldErrors flattens err into a list of FieldErrors for response payloads.
func FieldErrors(err error) []*FieldError {
	switch e := err.(type) {
	case *FieldError:
		return []*FieldError{e}
	case Errors:
		return e
	case nil:
		return nil
	default:
		return []*FieldError{{Code: CodeSchema, Message: err.Error()}}
	}
}
