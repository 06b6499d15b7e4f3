package schema

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchema validates a value against a JSON Schema document (draft
// 2020-12). Document is the decoded schema, typically taken verbatim from a
// route's config entry. Compilation happens on first use.
type JSONSchema struct {
	Document any

	once       sync.Once
	schema     *jsonschema.Schema
	compileErr error
}

// Validate implements Validator.
func (j *JSONSchema) Validate(value any) (any, error) {
	j.once.Do(j.compile)
	if j.compileErr != nil {
		return nil, newError(CodeSchema, "invalid schema: %v", j.compileErr)
	}

	if err := j.schema.Validate(value); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return nil, flattenSchemaError(ve)
		}
		return nil, newError(CodeSchema, "%v", err)
	}

	return value, nil
}

func (j *JSONSchema) compile() {
	raw, err := json.Marshal(j.Document)
	if err != nil {
		j.compileErr = err
		return
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("inline.json", strings.NewReader(string(raw))); err != nil {
		j.compileErr = err
		return
	}
	j.schema, j.compileErr = compiler.Compile("inline.json")
}

// flattenSchemaError converts the nested cause tree into a flat Errors list.
// Leaf causes carry the most specific message; inner nodes only say
// "doesn't validate with ..." and are skipped when they have children.
func flattenSchemaError(ve *jsonschema.ValidationError) Errors {
	var errs Errors
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			path := strings.TrimPrefix(e.InstanceLocation, "/")
			path = strings.ReplaceAll(path, "/", ".")
			errs = append(errs, &FieldError{Path: path, Code: CodeSchema, Message: e.Message})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return errs
}

var _ Validator = (*JSONSchema)(nil)
