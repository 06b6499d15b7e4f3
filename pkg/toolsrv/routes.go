package toolsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// RouteListTool handles the route_list MCP tool: lists the routes of a
// running stubd server via its diagnostics endpoint.
type RouteListTool struct {
	baseURL string
	client  *http.Client
}

// NewRouteListTool creates a RouteListTool talking to baseURL.
func NewRouteListTool(baseURL string) *RouteListTool {
	return &RouteListTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Definition returns the MCP tool definition for route_list.
func (t *RouteListTool) Definition() mcp.Tool {
	return mcp.NewTool("route_list",
		mcp.WithDescription(
			"List the routes currently registered on the running stubd "+
				"server, in match order.",
		),
	)
}

// Handle processes the route_list tool call.
func (t *RouteListTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/__stubd/routes", nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build request: %v", err)), nil
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("server not reachable at %s: %v", t.baseURL, err)), nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
	}
	if resp.StatusCode != http.StatusOK {
		return mcp.NewToolResultError(fmt.Sprintf("server returned %d: %s", resp.StatusCode, data)), nil
	}

	var body struct {
		Routes []struct {
			Method  string `json:"method"`
			Pattern string `json:"pattern"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unexpected response: %v", err)), nil
	}

	if len(body.Routes) == 0 {
		return mcp.NewToolResultText("The server has no registered routes."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d routes in match order:\n\n", len(body.Routes))
	for i, r := range body.Routes {
		fmt.Fprintf(&b, "[%d] %s %s\n", i+1, r.Method, r.Pattern)
	}
	return mcp.NewToolResultText(b.String()), nil
}
