package engine

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/getstubd/stubd/internal/routing"
	"github.com/getstubd/stubd/pkg/httputil"
)

// reservedPrefix namespaces the diagnostics endpoints so they can never
// collide with registered routes.
const reservedPrefix = "/__stubd/"

// httpAdapter translates HTTP requests into dispatches and outcomes back
// into HTTP responses.
type httpAdapter struct {
	srv *Server
}

func (a *httpAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, reservedPrefix) {
		a.serveDiagnostics(w, r)
		return
	}

	req, ok := a.buildRequest(w, r)
	if !ok {
		return
	}

	out := a.srv.dispatcher.Dispatch(req)
	a.srv.metrics.RecordDispatch(string(out.Kind))

	for k, v := range out.Headers {
		w.Header().Set(k, v)
	}
	if out.Status == http.StatusNoContent || out.Body == nil {
		w.WriteHeader(out.Status)
		return
	}
	httputil.WriteJSON(w, out.Status, out.Body)
}

// buildRequest normalizes the HTTP request. Query parameters with one
// value become a string, repeated ones a []string. A JSON body is
// decoded; a body that is present but not valid JSON is a 400 before
// dispatch.
func (a *httpAdapter) buildRequest(w http.ResponseWriter, r *http.Request) (*routing.Request, bool) {
	req := &routing.Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   make(map[string]any),
		Headers: make(map[string]string, len(r.Header)),
	}

	for name, values := range r.URL.Query() {
		if len(values) == 1 {
			req.Query[name] = values[0]
		} else {
			req.Query[name] = values
		}
	}

	for name := range r.Header {
		req.Headers[name] = r.Header.Get(name)
	}

	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			httputil.WriteBadRequest(w, "body_read_failed", err.Error())
			return nil, false
		}
		if len(data) > 0 {
			var body any
			if err := json.Unmarshal(data, &body); err != nil {
				httputil.WriteBadRequest(w, "invalid_json", "request body is not valid JSON")
				return nil, false
			}
			req.Body = body
		}
	}

	return req, true
}

func (a *httpAdapter) serveDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "diagnostics endpoints are GET only")
		return
	}

	switch strings.TrimPrefix(r.URL.Path, reservedPrefix) {
	case "health":
		httputil.WriteOK(w, map[string]any{"status": "ok"})
	case "ready":
		httputil.WriteOK(w, map[string]any{
			"status": "ready",
			"routes": a.srv.dispatcher.Table().Len(),
		})
	case "routes":
		httputil.WriteOK(w, map[string]any{"routes": a.srv.Routes()})
	case "metrics":
		httputil.WriteOK(w, a.srv.metrics.Snapshot())
	case "store":
		httputil.WriteOK(w, map[string]any{"objects": a.srv.store.Count()})
	default:
		httputil.WriteNotFound(w, "not_found", "unknown diagnostics endpoint")
	}
}
