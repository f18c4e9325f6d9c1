// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-pipeline/internal/archive"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived collection runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(pipelineCfg.Archive)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer store.Close()

		runs, err := store.Runs(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No archived runs.")
			return nil
		}
		formatRuns(runs, cmd.OutOrStdout())
		return nil
	},
}

// formatRuns writes one line per run.
func formatRuns(runs []archive.Run, w io.Writer) {
	fmt.Fprintf(w, "%-4s  %-24s  %-16s  %6s  %-6s  %s\n", "ID", "Period", "Collected", "Papers", "Failed", "Keywords")
	fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n",
		strings.Repeat("-", 4), strings.Repeat("-", 24), strings.Repeat("-", 16),
		strings.Repeat("-", 6), strings.Repeat("-", 6), strings.Repeat("-", 8))
	for _, r := range runs {
		keywords := r.Keywords
		if keywords == "" {
			keywords = "-"
		}
		fmt.Fprintf(w, "%-4d  %-24s  %-16s  %6d  %-6d  %s\n",
			r.ID, r.Range.Period(), r.CollectedAt.Local().Format("2006-01-02 15:04"),
			r.PaperCount, len(r.FailedJournals), keywords)
	}
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
