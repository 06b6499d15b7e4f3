package schema

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expr validates a value with an expr-lang boolean expression. The value
// under validation is bound to the identifier "value":
//
//	&Expr{Source: `value > 0 && value < 100`}
//	&Expr{Source: `len(value) >= 3`, Message: "name too short"}
//
// The program is compiled on first use and reused afterwards.
type Expr struct {
	// Source is the expression; it must evaluate to a boolean.
	Source string

	// Message overrides the default failure message.
	Message string

	once       sync.Once
	program    *vm.Program
	compileErr error
}

// Validate implements Validator.
func (e *Expr) Validate(value any) (any, error) {
	e.once.Do(func() {
		e.program, e.compileErr = expr.Compile(e.Source,
			expr.AllowUndefinedVariables(),
			expr.AsBool(),
		)
	})
	if e.compileErr != nil {
		return nil, newError(CodeExpr, "invalid expression %q: %v", e.Source, e.compileErr)
	}

	out, err := expr.Run(e.program, map[string]any{"value": value})
	if err != nil {
		return nil, newError(CodeExpr, "expression %q failed: %v", e.Source, err)
	}

	if pass, ok := out.(bool); !ok || !pass {
		msg := e.Message
		if msg == "" {
			msg = "value rejected by expression " + e.Source
		}
		return nil, &FieldError{Code: CodeExpr, Message: msg}
	}

	return value, nil
}

var _ Validator = (*Expr)(nil)
