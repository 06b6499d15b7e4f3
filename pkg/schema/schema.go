package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"sync"
)

// Validator is the uniform contract implemented by every schema variant.
// Validate returns the value after coercion and defaulting, or an error
// (*FieldError or Errors) describing what failed.
type Validator interface {
	Validate(value any) (any, error)
}

// Any accepts every value, including nil.
type Any struct{}

// Validate implements Validator.
func (Any) Validate(value any) (any, error) {
	return value, nil
}

// String validates string values. Non-string inputs are rejected rather than
// stringified; use coercion only where the wire format is stringly typed
// (path and query parameters arrive as strings already).
type String struct {
	MinLength *int
	MaxLength *int
	Pattern   string
	Enum      []string
	Default   *string

	patternOnce sync.Once
	patternRe   *regexp.Regexp
	patternErr  error
}

// Validate implements Validator.
func (s *String) Validate(value any) (any, error) {
	if value == nil {
		if s.Default != nil {
			return *s.Default, nil
		}
		return nil, newError(CodeRequired, "expected string, got null")
	}

	str, ok := value.(string)
	if !ok {
		return nil, newError(CodeType, "expected string, got %T", value)
	}

	if s.MinLength != nil && len(str) < *s.MinLength {
		return nil, newError(CodeMinLen, "length %d is less than minimum %d", len(str), *s.MinLength)
	}
	if s.MaxLength != nil && len(str) > *s.MaxLength {
		return nil, newError(CodeMaxLen, "length %d exceeds maximum %d", len(str), *s.MaxLength)
	}

	if s.Pattern != "" {
		s.patternOnce.Do(func() {
			s.patternRe, s.patternErr = regexp.Compile(s.Pattern)
		})
		if s.patternErr != nil {
			return nil, newError(CodePattern, "invalid pattern %q: %v", s.Pattern, s.patternErr)
		}
		if !s.patternRe.MatchString(str) {
			return nil, newError(CodePattern, "value %q does not match pattern %q", str, s.Pattern)
		}
	}

	if len(s.Enum) > 0 {
		for _, allowed := range s.Enum {
			if str == allowed {
				return str, nil
			}
		}
		return nil, newError(CodeEnum, "value %q is not one of %v", str, s.Enum)
	}

	return str, nil
}

// Number validates numeric values. JSON numbers decode as float64; numeric
// strings (path/query parameters) are coerced.
type Number struct {
	Min     *float64
	Max     *float64
	Integer bool
	Default *float64
}

// Validate implements Validator.
func (n *Number) Validate(value any) (any, error) {
	if value == nil {
		if n.Default != nil {
			return *n.Default, nil
		}
		return nil, newError(CodeRequired, "expected number, got null")
	}

	num, ok := toFloat(value)
	if !ok {
		return nil, newError(CodeType, "expected number, got %T", value)
	}

	if n.Integer && num != math.Trunc(num) {
		return nil, newError(CodeInteger, "expected integer, got %v", num)
	}
	if n.Min != nil && num < *n.Min {
		return nil, newError(CodeMin, "value %v is less than minimum %v", num, *n.Min)
	}
	if n.Max != nil && num > *n.Max {
		return nil, newError(CodeMax, "value %v exceeds maximum %v", num, *n.Max)
	}

	return num, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Boolean validates booleans; the strings "true" and "false" are coerced.
type Boolean struct {
	Default *bool
}

// Validate implements Validator.
func (b *Boolean) Validate(value any) (any, error) {
	if value == nil {
		if b.Default != nil {
			return *b.Default, nil
		}
		return nil, newError(CodeRequired, "expected boolean, got null")
	}

	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, newError(CodeType, "expected boolean, got %v", value)
}

// Object validates JSON objects, recursing into declared properties.
// Missing optional properties with defaults are filled in; unknown keys are
// rejected unless AdditionalProperties is set.
type Object struct {
	Properties           map[string]Validator
	Required             []string
	AdditionalProperties bool
}

// Validate implements Validator.
func (o *Object) Validate(value any) (any, error) {
	if value == nil {
		value = map[string]any{}
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newError(CodeType, "expected object, got %T", value)
	}

	var errs Errors
	out := make(map[string]any, len(obj))

	for key, val := range obj {
		prop, declared := o.Properties[key]
		if !declared {
			if o.AdditionalProperties {
				out[key] = val
				continue
			}
			errs = append(errs, &FieldError{Path: key, Code: CodeUnknown, Message: "unknown field"})
			continue
		}
		validated, err := prop.Validate(val)
		if err != nil {
			errs = append(errs, FieldErrors(prefix(key, err))...)
			continue
		}
		out[key] = validated
	}

	// Fill defaults for declared properties that were absent.
	for key, prop := range o.Properties {
		if _, present := obj[key]; present {
			continue
		}
		if validated, err := prop.Validate(nil); err == nil {
			out[key] = validated
		}
	}

	for _, req := range o.Required {
		if _, present := out[req]; !present {
			errs = append(errs, &FieldError{Path: req, Code: CodeRequired, Message: "missing required field"})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// Array validates JSON arrays, applying Items to every element.
type Array struct {
	Items    Validator
	MinItems *int
	MaxItems *int
}

// Validate implements Validator.
func (a *Array) Validate(value any) (any, error) {
	if value == nil {
		return nil, newError(CodeRequired, "expected array, got null")
	}

	arr, ok := value.([]any)
	if !ok {
		return nil, newError(CodeType, "expected array, got %T", value)
	}

	if a.MinItems != nil && len(arr) < *a.MinItems {
		return nil, newError(CodeMinItems, "length %d is less than minimum %d", len(arr), *a.MinItems)
	}
	if a.MaxItems != nil && len(arr) > *a.MaxItems {
		return nil, newError(CodeMaxItems, "length %d exceeds maximum %d", len(arr), *a.MaxItems)
	}

	if a.Items == nil {
		return arr, nil
	}

	var errs Errors
	out := make([]any, len(arr))
	for i, elem := range arr {
		validated, err := a.Items.Validate(elem)
		if err != nil {
			errs = append(errs, FieldErrors(prefix(fmt.Sprintf("%d", i), err))...)
			continue
		}
		out[i] = validated
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// Compile-time interface checks.
var (
	_ Validator = Any{}
	_ Validator = (*String)(nil)
	_ Validator = (*Number)(nil)
	_ Validator = (*Boolean)(nil)
	_ Validator = (*Object)(nil)
	_ Validator = (*Array)(nil)
)
