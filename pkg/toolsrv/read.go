package toolsrv

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const maxReadLines = 2000

// ReadTool handles the source_read MCP tool: reads a stub definition
// file, optionally a slice of it.
type ReadTool struct {
	root string
}

// NewReadTool creates a ReadTool rooted at dir.
func NewReadTool(dir string) *ReadTool {
	return &ReadTool{root: dir}
}

// Definition returns the MCP tool definition for source_read.
func (t *ReadTool) Definition() mcp.Tool {
	return mcp.NewTool("source_read",
		mcp.WithDescription(
			"Read a stub definition file. Returns numbered lines; use "+
				"offset and limit for large files.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path relative to the stub root"),
		),
		mcp.WithNumber("offset",
			mcp.Description("1-based line to start from (default: 1)"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Max lines to return (default: %d)", maxReadLines)),
		),
	)
}

// Handle processes the source_read tool call.
func (t *ReadTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rel := req.GetString("path", "")
	if rel == "" {
		return mcp.NewToolResultError("'path' is required"), nil
	}

	path, err := t.resolve(rel)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	offset := intArg(req, "offset", 1)
	if offset < 1 {
		offset = 1
	}
	limit := intArg(req, "limit", maxReadLines)
	if limit <= 0 || limit > maxReadLines {
		limit = maxReadLines
	}

	data, err := readLines(path, offset, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", rel, err)), nil
	}
	if data == "" {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no lines at offset %d.", rel, offset)), nil
	}
	return mcp.NewToolResultText(data), nil
}

// resolve joins rel onto the root and rejects escapes from it.
func (t *ReadTool) resolve(rel string) (string, error) {
	path := filepath.Join(t.root, filepath.FromSlash(rel))
	absRoot, err := filepath.Abs(t.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root: %v", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %v", rel, err)
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s escapes the stub root", rel)
	}
	return absPath, nil
}

// readLines returns lines [offset, offset+limit) of the file, numbered.
func readLines(path string, offset, limit int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	emitted := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		if line < offset {
			continue
		}
		fmt.Fprintf(&b, "%6d\t%s\n", line, scanner.Text())
		emitted++
		if emitted >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
