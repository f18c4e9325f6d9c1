// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-pipeline/internal/highlight"
	"github.com/pdiddy/paper-pipeline/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Regenerate the Excel report of an archived run",
	Long: `Report rebuilds the workbook of an archived run without querying PubMed.
By default the latest run and its original keywords are used; --keywords
replaces them, so the same papers can be re-sliced into new keyword sheets.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	id, _ := cmd.Flags().GetInt64("run")

	store, run, papers, err := openArchiveRun(ctx, id)
	if err != nil {
		return err
	}
	defer store.Close()

	keywords := run.Keywords
	if cmd.Flags().Changed("keywords") {
		keywords, _ = cmd.Flags().GetString("keywords")
	}

	fmt.Fprintf(out, "Run %d: %d papers, %s\n", run.ID, len(papers), run.Range.Period())
	meta := report.Meta{Range: run.Range, Collected: run.CollectedAt}
	path, err := report.Write(papers, highlight.Parse(keywords), meta, pipelineCfg.Report, out)
	if err != nil {
		return err
	}
	return store.SetReportPath(ctx, run.ID, path)
}

func init() {
	reportCmd.Flags().Int64("run", 0, "archived run ID (default: latest)")
	reportCmd.Flags().String("keywords", "", "keywords replacing the ones the run was collected with")

	rootCmd.AddCommand(reportCmd)
}
