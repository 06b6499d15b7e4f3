// stubd serves stub HTTP APIs from declarative route definitions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "stubd",
	Short: "A stub HTTP server for testing route handlers",
	Long: `stubd serves stub HTTP APIs from declarative route definitions.
Routes are matched in registration order, support {name} path parameters,
and can reply with canned responses or operate on an in-memory object
store. Definitions reload without dropping in-flight requests.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("stubd %s (commit %s, built %s)\n", version, commit, buildDate))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
