// Package toolsrv exposes stubd to AI coding tools over MCP (stdio
// transport). The tools let an assistant search the stub definitions,
// read them, and inspect the routes of a running server.
//
// Each tool follows the same pattern: a struct with its dependencies
// injected via constructor, Definition() returning the schema, and
// Handle() processing the request.
package toolsrv

import (
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Options configures the tool server.
type Options struct {
	// Root is the directory the source tools operate in. Defaults to
	// the current working directory.
	Root string

	// ServerURL is the base URL of a running stubd instance for the
	// route_list tool, e.g. "http://127.0.0.1:4178".
	ServerURL string
}

// New creates the MCP server with all tools registered.
func New(opts Options) *server.MCPServer {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.ServerURL == "" {
		opts.ServerURL = "http://127.0.0.1:4178"
	}

	s := server.NewMCPServer(
		"stubd",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	searchTool := NewSearchTool(opts.Root)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	readTool := NewReadTool(opts.Root)
	s.AddTool(readTool.Definition(), readTool.Handle)

	routeTool := NewRouteListTool(opts.ServerURL)
	s.AddTool(routeTool.Definition(), routeTool.Handle)

	return s
}

// Serve runs the MCP server on stdio until the client disconnects.
func Serve(opts Options) error {
	return server.ServeStdio(New(opts))
}
