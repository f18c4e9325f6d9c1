// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-pipeline/internal/collect"
	"github.com/pdiddy/paper-pipeline/internal/highlight"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect papers for a date range and write the Excel report",
	Long: `Collect searches every configured journal on PubMed for papers published
in the date range, writes the Excel report to the output directory, archives
the run and, when a bucket is configured, publishes the report.

The range is given with --from/--to (YYYY/MM/DD) or --days N. Without either,
collect asks for it interactively. Keywords ("enzyme, protein+fold, ML")
add one highlighted sheet per comma-separated entry; "+" joins alternatives
within one sheet.`,
	RunE: runCollect,
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	interactive := isInteractive(os.Stdin)
	p := newPrompter(cmd.InOrStdin(), out)

	fmt.Fprintln(out, "--- PubMed Paper Pipeline ---")

	rng, ok, err := rangeFromFlags(cmd, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		if !interactive {
			return fmt.Errorf("no date range: pass --from and --to, or --days")
		}
		if rng, err = p.dateRange(time.Now()); err != nil {
			return err
		}
	}

	keywords, _ := cmd.Flags().GetString("keywords")
	if !cmd.Flags().Changed("keywords") && interactive {
		if keywords, err = p.keywords(); err != nil {
			return err
		}
	}
	if specs := highlight.Parse(keywords); len(specs) > 0 {
		fmt.Fprintf(out, "Keywords to search for: %s\n", describeSpecs(specs))
	}

	res, err := collectRange(ctx, rng, out)
	if err != nil {
		return err
	}

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		fmt.Fprintln(out)
		collect.FormatTable(res, out)
	}
	if noArchive, _ := cmd.Flags().GetBool("no-archive"); noArchive {
		pipelineCfg.Archive.Disabled = true
	}
	return deliver(ctx, res, keywords, out)
}

// rangeFromFlags returns the range given by --from/--to or --days, and
// false when neither was set.
func rangeFromFlags(cmd *cobra.Command, now time.Time) (types.DateRange, bool, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	days, _ := cmd.Flags().GetInt("days")
	daysSet := cmd.Flags().Changed("days")

	switch {
	case from != "" || to != "":
		if daysSet {
			return types.DateRange{}, false, fmt.Errorf("use either --from/--to or --days, not both")
		}
		if from == "" || to == "" {
			return types.DateRange{}, false, fmt.Errorf("--from and --to must be given together")
		}
		rng, err := types.ParseDateRange(from, to)
		return rng, err == nil, err
	case daysSet:
		rng, err := types.RecentDays(now, days)
		return rng, err == nil, err
	}
	return types.DateRange{}, false, nil
}

func init() {
	collectCmd.Flags().String("from", "", "publication date range start (YYYY/MM/DD)")
	collectCmd.Flags().String("to", "", "publication date range end (YYYY/MM/DD)")
	collectCmd.Flags().Int("days", 0, "collect the last N days instead of --from/--to")
	collectCmd.Flags().String("keywords", "", `title keywords, comma-separated; "+" joins alternatives (e.g. "enzyme, protein+fold")`)
	collectCmd.Flags().Bool("no-archive", false, "do not store the run in the archive")
	collectCmd.Flags().Bool("summary", false, "print a per-journal table after collecting")

	rootCmd.AddCommand(collectCmd)
}
