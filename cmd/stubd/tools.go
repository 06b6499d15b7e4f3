package main

import (
	"github.com/spf13/cobra"

	"github.com/getstubd/stubd/pkg/toolsrv"
)

var (
	toolsRoot      string
	toolsServerURL string
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Run the MCP tool server (stdio transport)",
	Long: `Run an MCP server exposing stubd to AI coding tools. The tools can
search and read the stub definitions under --root and list the routes of
a running stubd instance at --server.`,
	RunE: func(*cobra.Command, []string) error {
		toolsrv.Version = version
		return toolsrv.Serve(toolsrv.Options{
			Root:      toolsRoot,
			ServerURL: toolsServerURL,
		})
	},
}

func init() {
	toolsCmd.Flags().StringVar(&toolsRoot, "root", ".", "directory containing the stub definitions")
	toolsCmd.Flags().StringVar(&toolsServerURL, "server", "http://127.0.0.1:4178", "base URL of the running stubd server")
	rootCmd.AddCommand(toolsCmd)
}
