// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-pipeline/internal/schedule"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Collect papers on a cron schedule",
	Long: `Watch runs a collection of the last --days days on every tick of the
--cron schedule (standard 5-field expression or a descriptor such as
@daily), writing, archiving and publishing a report each time. It runs
until interrupted. A failed tick is logged and the next tick runs as usual.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := pipelineCfg.Schedule
	keywords, _ := cmd.Flags().GetString("keywords")
	now, _ := cmd.Flags().GetBool("now")

	if cfg.Days <= 0 {
		return fmt.Errorf("--days must be positive, got %d", cfg.Days)
	}
	runner, err := schedule.New(cfg.Cron, logger)
	if err != nil {
		return err
	}
	runner.Immediate = now

	fmt.Fprintf(out, "Watching: collecting the last %d days on %q, next run at %s.\n",
		cfg.Days, cfg.Cron, runner.Next(time.Now()).Format("2006-01-02 15:04"))

	return runner.Run(cmd.Context(), func(ctx context.Context) error {
		rng, err := types.RecentDays(time.Now(), cfg.Days)
		if err != nil {
			return err
		}
		logger.Info("scheduled collection", zap.String("period", rng.Period()))

		res, err := collectRange(ctx, rng, out)
		if err != nil {
			return err
		}
		return deliver(ctx, res, keywords, out)
	})
}

func init() {
	watchCmd.Flags().String("cron", "0 6 * * 1", "cron schedule of collections")
	watchCmd.Flags().Int("days", 7, "look-back window collected on every tick")
	watchCmd.Flags().String("keywords", "", "title keywords for the keyword sheets")
	watchCmd.Flags().Bool("now", false, "also collect once immediately on start")

	bindFlags(watchCmd.Flags(), map[string]string{
		"schedule.cron": "cron",
		"schedule.days": "days",
	})

	rootCmd.AddCommand(watchCmd)
}
