// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/p12pem/internal/pin"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the PIN patterns in the order they are tried",
	Long: `Patterns prints the PIN matchers in priority order: the built-in labels
first, then any extra expressions from the "patterns" configuration key.
The first matcher that finds a value in a document wins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		extra, err := pin.Compile(cfg.Patterns)
		if err != nil {
			return err
		}
		for i, name := range pin.Default().With(extra...).Names() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
