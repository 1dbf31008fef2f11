// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/p12pem/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [stem]",
	Short: "Show recorded outcomes from previous runs",
	Long: `History lists outcomes stored in the database named by the "history"
configuration key, newest first. Give a bundle stem (acme for acme.p12) to
see only that bundle.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.History == "" {
			return fmt.Errorf("history is disabled: set the history key (or P12PEM_HISTORY) to a database path")
		}
		stem := ""
		if len(args) == 1 {
			stem = args[0]
		}
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(context.Background(), stem, limit)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, "No history found.")
			return nil
		}
		fmt.Fprintf(w, "%-5s  %-20s  %-20s  %-26s  %s\n", "Run", "Started", "Bundle", "Status", "Detail")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for _, e := range entries {
			fmt.Fprintf(w, "%-5d  %-20s  %-20s  %-26s  %s\n",
				e.RunID, e.StartedAt.Local().Format("2006-01-02 15:04:05"), e.Stem, e.Status, e.Detail)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of outcomes to show")

	rootCmd.AddCommand(historyCmd)
}
