package routing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/getstubd/stubd/pkg/schema"
)

// HandlerFunc is the signature of a route handler. Handlers signal their
// result through the Responder; a panic is recovered at the dispatch
// boundary and becomes a fault outcome.
type HandlerFunc func(req *Request, res Responder) Outcome

// Validation holds optional per-route validators. Params and Query validate
// individual fields; Body validates the decoded body as a whole and its
// validated (coerced, defaulted) value replaces the original.
type Validation struct {
	Params map[string]schema.Validator
	Query  map[string]schema.Validator
	Body   schema.Validator
}

// Route is a registered (method, pattern, handler) triple. Identity is
// (method, pattern); routes are registered at startup or reload and are
// immutable afterwards.
type Route struct {
	Method   string
	Pattern  string
	Handler  HandlerFunc
	Validate *Validation

	re         *regexp.Regexp
	paramNames []string
}

var paramSegment = regexp.MustCompile(`^\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// newRoute compiles the path pattern. Each {name} segment becomes a capture
// group matching a single path segment (no slashes); everything else is
// matched literally. The whole pattern is anchored.
func newRoute(method, pattern string, handler HandlerFunc, validate *Validation) (*Route, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern %q must start with /", pattern)
	}

	var (
		names []string
		expr  strings.Builder
	)
	expr.WriteString("^")
	for _, seg := range strings.Split(strings.TrimPrefix(pattern, "/"), "/") {
		expr.WriteString("/")
		if m := paramSegment.FindStringSubmatch(seg); m != nil {
			names = append(names, m[1])
			expr.WriteString("([^/]+)")
			continue
		}
		if strings.ContainsAny(seg, "{}") {
			return nil, fmt.Errorf("pattern %q has a malformed parameter segment %q", pattern, seg)
		}
		expr.WriteString(regexp.QuoteMeta(seg))
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("pattern %q did not compile: %w", pattern, err)
	}

	return &Route{
		Method:     strings.ToUpper(method),
		Pattern:    pattern,
		Handler:    handler,
		Validate:   validate,
		re:         re,
		paramNames: names,
	}, nil
}

// match tests path against the compiled pattern and extracts parameter
// values positionally, paired with the {name}s in left-to-right order.
func (r *Route) match(path string) (map[string]string, bool) {
	m := r.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string, len(r.paramNames))
	for i, name := range r.paramNames {
		params[name] = m[i+1]
	}
	return params, true
}
