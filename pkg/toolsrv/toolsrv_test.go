package toolsrv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func stubRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"stubd.yaml":        "routes:\n  - method: GET\n    path: /api/ping\n",
		"routes/extra.yaml": "routes:\n  - method: POST\n    path: /api/docs\n",
		"notes.txt":         "unrelated notes\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestSearchToolFindsMatches(t *testing.T) {
	tool := NewSearchTool(stubRoot(t))

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"pattern": `path: /api/\w+`,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(r)
	if !strings.Contains(text, "stubd.yaml:3") {
		t.Errorf("missing stubd.yaml match: %q", text)
	}
	if !strings.Contains(text, "routes/extra.yaml:3") {
		t.Errorf("missing nested match: %q", text)
	}
}

func TestSearchToolGlobFilter(t *testing.T) {
	tool := NewSearchTool(stubRoot(t))

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"pattern": ".",
		"glob":    "*.txt",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(r)
	if !strings.Contains(text, "notes.txt") {
		t.Errorf("glob should include notes.txt: %q", text)
	}
	if strings.Contains(text, "stubd.yaml") {
		t.Errorf("glob should exclude yaml files: %q", text)
	}
}

func TestSearchToolLimit(t *testing.T) {
	tool := NewSearchTool(stubRoot(t))

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"pattern": ".",
		"limit":   float64(2),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(r)
	if !strings.HasPrefix(text, "Found 2 matching lines") {
		t.Errorf("limit not applied: %q", text)
	}
}

func TestSearchToolErrors(t *testing.T) {
	tool := NewSearchTool(stubRoot(t))

	r, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if !r.IsError {
		t.Error("missing pattern should be a tool error")
	}

	r, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"pattern": "[unclosed",
	}))
	if !r.IsError {
		t.Error("invalid regex should be a tool error")
	}
}

func TestSearchToolNoMatches(t *testing.T) {
	tool := NewSearchTool(stubRoot(t))

	r, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"pattern": "zzz-never-present",
	}))
	if got := resultText(r); got != "No matches found." {
		t.Errorf("text = %q", got)
	}
}

func TestReadToolReadsFile(t *testing.T) {
	tool := NewReadTool(stubRoot(t))

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"path": "stubd.yaml",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(r)
	if !strings.Contains(text, "1\troutes:") {
		t.Errorf("missing numbered first line: %q", text)
	}
}

func TestReadToolOffsetLimit(t *testing.T) {
	tool := NewReadTool(stubRoot(t))

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"path":   "stubd.yaml",
		"offset": float64(2),
		"limit":  float64(1),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(r)
	if strings.Contains(text, "1\troutes:") {
		t.Errorf("offset not applied: %q", text)
	}
	if !strings.Contains(text, "2\t") {
		t.Errorf("line 2 missing: %q", text)
	}
	if strings.Count(text, "\n") != 1 {
		t.Errorf("limit not applied: %q", text)
	}
}

func TestReadToolRejectsEscape(t *testing.T) {
	tool := NewReadTool(stubRoot(t))

	r, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"path": "../outside.yaml",
	}))
	if !r.IsError {
		t.Error("path escape should be a tool error")
	}
}

func TestReadToolMissingFile(t *testing.T) {
	tool := NewReadTool(stubRoot(t))

	r, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"path": "nope.yaml",
	}))
	if !r.IsError {
		t.Error("missing file should be a tool error")
	}
}

func TestRouteListTool(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/__stubd/routes" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[{"method":"GET","pattern":"/api/ping"},{"method":"POST","pattern":"/api/docs"}]}`))
	}))
	defer ts.Close()

	tool := NewRouteListTool(ts.URL)
	r, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(r)
	if !strings.Contains(text, "2 routes") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "[1] GET /api/ping") || !strings.Contains(text, "[2] POST /api/docs") {
		t.Errorf("routes missing or out of order: %q", text)
	}
}

func TestRouteListToolServerDown(t *testing.T) {
	tool := NewRouteListTool("http://127.0.0.1:1")
	r, _ := tool.Handle(context.Background(), makeReq(nil))
	if !r.IsError {
		t.Error("unreachable server should be a tool error")
	}
}

func TestNewRegistersTools(t *testing.T) {
	s := New(Options{Root: t.TempDir()})
	if s == nil {
		t.Fatal("New returned nil")
	}
}
