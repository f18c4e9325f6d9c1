// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-pipeline/internal/archive"
	"github.com/pdiddy/paper-pipeline/internal/collect"
	"github.com/pdiddy/paper-pipeline/internal/highlight"
	"github.com/pdiddy/paper-pipeline/internal/journals"
	"github.com/pdiddy/paper-pipeline/internal/publish"
	"github.com/pdiddy/paper-pipeline/internal/pubmed"
	"github.com/pdiddy/paper-pipeline/internal/report"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// collectRange runs the collection loop over the configured journals.
func collectRange(ctx context.Context, rng types.DateRange, out io.Writer) (collect.Result, error) {
	list, err := journals.Resolve(pipelineCfg.Collect.JournalsFile)
	if err != nil {
		return collect.Result{}, err
	}
	client := pubmed.New(nil, pipelineCfg.PubMed, logger)

	fmt.Fprintf(out, "Searching for papers from %s to %s.\n\n", rng.StartString(), rng.EndString())
	return collect.Run(ctx, client, list, rng, pipelineCfg.Collect, logger, out)
}

// deliver writes the report of a finished collection, archives the run and
// publishes the workbook when a bucket is configured.
func deliver(ctx context.Context, res collect.Result, keywords string, out io.Writer) error {
	specs := highlight.Parse(keywords)

	var (
		path string
		data []byte
		err  error
	)
	if len(res.Papers) == 0 {
		fmt.Fprintln(out, "\nNo papers found for the given criteria.")
	} else {
		fmt.Fprintf(out, "\nFound a total of %d papers.\n", len(res.Papers))
		meta := report.Meta{Range: res.Range, Collected: res.Finished}
		data, err = report.Render(res.Papers, specs, meta, pipelineCfg.Report, out)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
		if path, err = report.Save(data, res.Range, pipelineCfg.Report, out); err != nil {
			return err
		}
	}

	if !pipelineCfg.Archive.Disabled {
		if err := archiveRun(ctx, res, keywords, path, out); err != nil {
			return err
		}
	}

	if path != "" && pipelineCfg.Publish.Enabled() {
		u, err := publish.New(ctx, pipelineCfg.Publish, logger)
		if err != nil {
			return err
		}
		loc, err := u.Upload(ctx, filepath.Base(path), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Published report to %s\n", loc)
	}
	return nil
}

func archiveRun(ctx context.Context, res collect.Result, keywords, reportPath string, out io.Writer) error {
	store, err := archive.Open(pipelineCfg.Archive)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer store.Close()

	var failed []string
	for _, s := range res.Failed() {
		failed = append(failed, s.Journal)
	}

	id, err := store.SaveRun(ctx, archive.Run{
		Range:          res.Range,
		Keywords:       keywords,
		CollectedAt:    res.Finished,
		FailedJournals: failed,
		ReportPath:     reportPath,
	}, res.Papers)
	if err != nil {
		return fmt.Errorf("archiving run: %w", err)
	}
	logger.Debug("run archived", zap.Int64("run", id), zap.String("path", pipelineCfg.Archive.Path))
	fmt.Fprintf(out, "Archived as run %d.\n", id)
	return nil
}

// openArchiveRun loads a run and its papers; id 0 selects the latest run.
func openArchiveRun(ctx context.Context, id int64) (*archive.Store, archive.Run, []types.Paper, error) {
	store, err := archive.Open(pipelineCfg.Archive)
	if err != nil {
		return nil, archive.Run{}, nil, fmt.Errorf("opening archive: %w", err)
	}

	var run archive.Run
	if id == 0 {
		run, err = store.LatestRun(ctx)
	} else {
		run, err = store.Run(ctx, id)
	}
	if err != nil {
		store.Close()
		if errors.Is(err, archive.ErrRunNotFound) {
			return nil, archive.Run{}, nil, fmt.Errorf("%w (collect papers first or check `paper-pipeline runs`)", err)
		}
		return nil, archive.Run{}, nil, err
	}

	papers, err := store.Papers(ctx, run.ID)
	if err != nil {
		store.Close()
		return nil, archive.Run{}, nil, err
	}
	return store, run, papers, nil
}
