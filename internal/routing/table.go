package routing

import (
	"fmt"
	"strings"
)

// Methods accepted by Register.
var allowedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
	"PATCH":  true,
}

// Table is an ordered route registry. A Table is built by a registration
// entry point and then installed into a Dispatcher; it is not mutated after
// installation, so no locking is needed on the read path.
type Table struct {
	routes []*Route
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{}
}

// RouteOption customizes a registration.
type RouteOption func(*registerOpts)

type registerOpts struct {
	validate *Validation
}

// WithValidation attaches validators to the route.
func WithValidation(v *Validation) RouteOption {
	return func(o *registerOpts) {
		o.validate = v
	}
}

// Register adds a route. Registering the same (method, pattern) twice
// replaces the earlier handler in place, keeping its original position in
// the match order.
func (t *Table) Register(method, pattern string, handler HandlerFunc, opts ...RouteOption) error {
	if handler == nil {
		return fmt.Errorf("route %s %s has a nil handler", method, pattern)
	}
	upper := strings.ToUpper(method)
	if !allowedMethods[upper] {
		return fmt.Errorf("unsupported method %q", method)
	}

	var o registerOpts
	for _, opt := range opts {
		opt(&o)
	}

	route, err := newRoute(upper, pattern, handler, o.validate)
	if err != nil {
		return err
	}

	for i, existing := range t.routes {
		if existing.Method == route.Method && existing.Pattern == route.Pattern {
			t.routes[i] = route
			return nil
		}
	}
	t.routes = append(t.routes, route)
	return nil
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// RouteInfo describes a registered route for diagnostics.
type RouteInfo struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}

// Routes lists registered routes in registration order.
func (t *Table) Routes() []RouteInfo {
	infos := make([]RouteInfo, len(t.routes))
	for i, r := range t.routes {
		infos[i] = RouteInfo{Method: r.Method, Pattern: r.Pattern}
	}
	return infos
}

// match walks routes in registration order and returns the first whose
// method and pattern both match.
func (t *Table) match(method, path string) (*Route, map[string]string, bool) {
	upper := strings.ToUpper(method)
	for _, r := range t.routes {
		if r.Method != upper {
			continue
		}
		if params, ok := r.match(path); ok {
			return r, params, true
		}
	}
	return nil, nil, false
}
