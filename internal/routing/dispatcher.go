package routing

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/getstubd/stubd/pkg/logging"
	"github.com/getstubd/stubd/pkg/schema"
)

// Dispatcher matches requests against an installed route table and invokes
// handlers. The table is held behind an atomic pointer so a reload can swap
// in a rebuilt table without affecting dispatches already in flight: they
// keep the handler closure they resolved from the old table.
type Dispatcher struct {
	table atomic.Pointer[Table]
	log   *slog.Logger
}

// NewDispatcher creates a Dispatcher with the given initial table.
func NewDispatcher(t *Table) *Dispatcher {
	d := &Dispatcher{log: logging.Nop()}
	if t == nil {
		t = NewTable()
	}
	d.table.Store(t)
	return d
}

// SetLogger sets the operational logger.
func (d *Dispatcher) SetLogger(log *slog.Logger) {
	if log != nil {
		d.log = log
	}
}

// Table returns the currently installed table.
func (d *Dispatcher) Table() *Table {
	return d.table.Load()
}

// Swap atomically installs a new table and returns the previous one.
func (d *Dispatcher) Swap(t *Table) *Table {
	return d.table.Swap(t)
}

// Dispatch resolves req against the current table and runs the matched
// handler. It always returns an outcome: route-not-found when nothing
// matches, validation-failed when a route validator rejects the request,
// and a fault when the handler panics. A handler panic never escapes.
func (d *Dispatcher) Dispatch(req *Request) Outcome {
	route, params, ok := d.table.Load().match(req.Method, req.Path)
	if !ok {
		return Outcome{
			Kind:   KindRouteNotFound,
			Status: 404,
			Body: map[string]any{
				"error":   "route_not_found",
				"message": fmt.Sprintf("no route registered for %s %s", req.Method, req.Path),
				"method":  req.Method,
				"path":    req.Path,
			},
		}
	}
	req.Params = params

	if route.Validate != nil {
		if out, failed := d.validate(route, req); failed {
			return out
		}
	}

	return d.invoke(route, req)
}

// invoke runs the handler with panic recovery at the dispatch boundary.
func (d *Dispatcher) invoke(route *Route, req *Request) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("handler panicked",
				"method", route.Method, "pattern", route.Pattern, "panic", r)
			out = Outcome{
				Kind:   KindFault,
				Status: 500,
				Body: map[string]any{
					"error":   "handler_fault",
					"message": fmt.Sprintf("%v", r),
				},
			}
		}
	}()
	return route.Handler(req, Responder{})
}

// validate applies the route's validators to params, query, and body.
// Validated values are substituted: the body wholesale, query values per
// field (including defaults for absent fields). Param values stay strings;
// their validators act as checks and coercion targets only.
func (d *Dispatcher) validate(route *Route, req *Request) (Outcome, bool) {
	var errs schema.Errors

	for name, v := range route.Validate.Params {
		raw, present := req.Params[name]
		var value any
		if present {
			value = raw
		}
		if _, err := v.Validate(value); err != nil {
			errs = append(errs, schema.FieldErrors(prefixLocation("params", name, err))...)
		}
	}

	if req.Query == nil && len(route.Validate.Query) > 0 {
		req.Query = make(map[string]any)
	}
	for name, v := range route.Validate.Query {
		raw, present := req.Query[name]
		var value any
		if present {
			if vs, ok := raw.([]string); ok && len(vs) > 0 {
				value = vs[0]
			} else {
				value = raw
			}
		}
		validated, err := v.Validate(value)
		if err != nil {
			// An absent query field is only an error when the validator
			// had something to say beyond "missing": declared fields are
			// optional unless a default fills them in.
			if !present && allRequired(err) {
				continue
			}
			errs = append(errs, schema.FieldErrors(prefixLocation("query", name, err))...)
			continue
		}
		req.Query[name] = validated
	}

	if route.Validate.Body != nil {
		validated, err := route.Validate.Body.Validate(req.Body)
		if err != nil {
			errs = append(errs, schema.FieldErrors(prefixLocation("body", "", err))...)
		} else {
			req.Body = validated
		}
	}

	if len(errs) == 0 {
		return Outcome{}, false
	}

	return Outcome{
		Kind:   KindValidationFailed,
		Status: 400,
		Body: map[string]any{
			"error":   "validation_failed",
			"message": errs.Error(),
			"details": errs,
		},
	}, true
}

// allRequired reports whether err consists solely of missing-value errors.
func allRequired(err error) bool {
	for _, fe := range schema.FieldErrors(err) {
		if fe.Code != schema.CodeRequired {
			return false
		}
	}
	return true
}

// prefixLocation nests err's field paths under "<location>.<name>".
func prefixLocation(location, name string, err error) error {
	errs := schema.FieldErrors(err)
	out := make(schema.Errors, len(errs))
	for i, fe := range errs {
		path := location
		if name != "" {
			path += "." + name
		}
		if fe.Path != "" {
			path += "." + fe.Path
		}
		out[i] = &schema.FieldError{Path: path, Code: fe.Code, Message: fe.Message}
	}
	return out
}
