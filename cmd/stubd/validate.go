package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getstubd/stubd/internal/routing"
	"github.com/getstubd/stubd/pkg/config"
	"github.com/getstubd/stubd/pkg/objectstore"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config>",
	Short: "Check a route definition file without starting the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}

		// A dry registration run catches pattern and validator errors
		// the structural checks cannot see.
		table := routing.NewTable()
		registrar := config.BuildRegistrar(cfg, objectstore.NewInMemoryStore())
		if err := registrar(table); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d routes\n", args[0], table.Len())
		for _, r := range table.Routes() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %s\n", r.Method, r.Pattern)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
