package toolsrv

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	maxSearchResults = 100
	maxLineLength    = 400
)

// skipDirs are directories a source search never descends into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// SearchTool handles the source_search MCP tool: a regex search over the
// stub definition tree.
type SearchTool struct {
	root string
}

// NewSearchTool creates a SearchTool rooted at dir.
func NewSearchTool(dir string) *SearchTool {
	return &SearchTool{root: dir}
}

// Definition returns the MCP tool definition for source_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("source_search",
		mcp.WithDescription(
			"Search the stub definition files with a regular expression. "+
				"Returns matching lines as path:line: text.",
		),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Go regular expression to search for"),
		),
		mcp.WithString("glob",
			mcp.Description("Filter files by name glob, e.g. *.yaml (default: all files)"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Max matching lines (default: 20, max: %d)", maxSearchResults)),
		),
	)
}

// Handle processes the source_search tool call.
func (t *SearchTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern := req.GetString("pattern", "")
	if pattern == "" {
		return mcp.NewToolResultError("'pattern' is required"), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pattern: %v", err)), nil
	}

	glob := req.GetString("glob", "")
	limit := intArg(req, "limit", 20)
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	var b strings.Builder
	matches := 0
	walkErr := filepath.WalkDir(t.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if glob != "" {
			if ok, _ := filepath.Match(glob, d.Name()); !ok {
				return nil
			}
		}
		if matches >= limit {
			return filepath.SkipAll
		}

		rel, err := filepath.Rel(t.root, path)
		if err != nil {
			rel = path
		}
		n, err := searchFile(re, path, rel, limit-matches, &b)
		if err != nil {
			return nil //nolint:nilerr // unreadable files are skipped
		}
		matches += n
		return nil
	})
	if walkErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", walkErr)), nil
	}

	if matches == 0 {
		return mcp.NewToolResultText("No matches found."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d matching lines:\n\n%s", matches, b.String())), nil
}

func searchFile(re *regexp.Regexp, path, rel string, budget int, b *strings.Builder) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	matches := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		// Binary files have no business in search results.
		if strings.ContainsRune(text, '\x00') {
			return matches, nil
		}
		if !re.MatchString(text) {
			continue
		}
		if len(text) > maxLineLength {
			text = text[:maxLineLength] + "..."
		}
		fmt.Fprintf(b, "%s:%d: %s\n", filepath.ToSlash(rel), line, text)
		matches++
		if matches >= budget {
			return matches, nil
		}
	}
	return matches, scanner.Err()
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are
// float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}
