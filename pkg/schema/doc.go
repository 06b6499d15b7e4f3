// Package schema provides declarative validators for route inputs.
//
// Validators are small tagged variants (String, Number, Boolean, Object,
// Array, Any) sharing a uniform contract:
//
//	Validate(value) (validated, err)
//
// On success the returned value is the input after coercion and defaulting
// (e.g. a numeric query string coerced to float64, missing object keys filled
// from property defaults). On failure the error is a *FieldError or an
// Errors list describing every failing field.
//
// Two composed variants cover cases the basic variants cannot express:
// Expr evaluates an expr-lang boolean expression against the value, and
// JSONSchema validates against a compiled JSON Schema document.
package schema
