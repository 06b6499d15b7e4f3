package routing

import (
	"testing"
)

func nopHandler(_ *Request, res Responder) Outcome {
	return res.Ok(nil)
}

func TestNewRoutePatternCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"static", "/api/ping", false},
		{"single param", "/api/items/{id}", false},
		{"multiple params", "/api/{type}/{id}/refs", false},
		{"underscore name", "/x/{item_id}", false},
		{"root", "/", false},
		{"missing leading slash", "api/ping", true},
		{"unbalanced brace", "/api/{id", true},
		{"empty name", "/api/{}", true},
		{"name starting with digit", "/api/{1abc}", true},
		{"brace mid-segment", "/api/it{em}s", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRoute("GET", tt.pattern, nopHandler, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("newRoute(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
		})
	}
}

func TestRouteMatch(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		path       string
		wantMatch  bool
		wantParams map[string]string
	}{
		{"exact", "/api/ping", "/api/ping", true, map[string]string{}},
		{"exact mismatch", "/api/ping", "/api/pong", false, nil},
		{"param extraction", "/api/items/{id}", "/api/items/42", true, map[string]string{"id": "42"}},
		{"param does not span segments", "/api/items/{id}", "/api/items/42/extra", false, nil},
		{"param must be nonempty", "/api/items/{id}", "/api/items/", false, nil},
		{"two params", "/api/{type}/{id}", "/api/doc/abc", true, map[string]string{"type": "doc", "id": "abc"}},
		{"prefix is not enough", "/api", "/api/items", false, nil},
		{"regex metacharacters are literal", "/a.b/{id}", "/axb/1", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := newRoute("GET", tt.pattern, nopHandler, nil)
			if err != nil {
				t.Fatalf("newRoute: %v", err)
			}
			params, ok := r.match(tt.path)
			if ok != tt.wantMatch {
				t.Fatalf("match(%q) = %v, want %v", tt.path, ok, tt.wantMatch)
			}
			if !ok {
				return
			}
			if len(params) != len(tt.wantParams) {
				t.Fatalf("params = %v, want %v", params, tt.wantParams)
			}
			for k, v := range tt.wantParams {
				if params[k] != v {
					t.Errorf("params[%q] = %q, want %q", k, params[k], v)
				}
			}
		})
	}
}

func TestTableRegister(t *testing.T) {
	table := NewTable()

	if err := table.Register("GET", "/a", nopHandler); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := table.Register("get", "/b", nopHandler); err != nil {
		t.Fatalf("Register lowercase method: %v", err)
	}
	if err := table.Register("TRACE", "/c", nopHandler); err == nil {
		t.Error("unsupported method should be rejected")
	}
	if err := table.Register("GET", "/d", nil); err == nil {
		t.Error("nil handler should be rejected")
	}
	if table.Len() != 2 {
		t.Errorf("Len = %d, want 2", table.Len())
	}
}

func TestTableDuplicateReplacesInPlace(t *testing.T) {
	table := NewTable()

	first := func(_ *Request, res Responder) Outcome { return res.Ok(map[string]any{"v": 1}) }
	second := func(_ *Request, res Responder) Outcome { return res.Ok(map[string]any{"v": 2}) }

	table.Register("GET", "/items/{id}", first)   //nolint:errcheck
	table.Register("GET", "/other", nopHandler)   //nolint:errcheck
	table.Register("GET", "/items/{id}", second)  //nolint:errcheck

	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (duplicate replaced, not appended)", table.Len())
	}

	route, _, ok := table.match("GET", "/items/9")
	if !ok {
		t.Fatal("no match")
	}
	out := route.Handler(&Request{}, Responder{})
	body := out.Body.(map[string]any)
	if body["v"] != 2 {
		t.Errorf("duplicate registration did not replace the handler: %v", body)
	}

	// The replaced route keeps its original position.
	infos := table.Routes()
	if infos[0].Pattern != "/items/{id}" || infos[1].Pattern != "/other" {
		t.Errorf("order = %v", infos)
	}
}

func TestTableFirstMatchWins(t *testing.T) {
	table := NewTable()
	table.Register("GET", "/items/{id}", func(_ *Request, res Responder) Outcome { //nolint:errcheck
		return res.Ok(map[string]any{"which": "param"})
	})
	table.Register("GET", "/items/special", func(_ *Request, res Responder) Outcome { //nolint:errcheck
		return res.Ok(map[string]any{"which": "literal"})
	})

	// /items/special structurally matches both; the earlier registration wins.
	route, _, _ := table.match("GET", "/items/special")
	out := route.Handler(&Request{}, Responder{})
	if out.Body.(map[string]any)["which"] != "param" {
		t.Error("registration order must be the tie-break for overlapping patterns")
	}
}

func TestTableMethodMismatch(t *testing.T) {
	table := NewTable()
	table.Register("POST", "/items", nopHandler) //nolint:errcheck

	if _, _, ok := table.match("GET", "/items"); ok {
		t.Error("GET must not match a POST route")
	}
	if _, _, ok := table.match("post", "/items"); !ok {
		t.Error("method match must be case-insensitive")
	}
}
