// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect runs the per-journal search, fetch and extract loop
// that gathers the papers of one collection run.
package collect

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-pipeline/internal/extract"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// DefaultDelay is the pause between journals when none is configured.
const DefaultDelay = time.Second

// Source lists and downloads PubMed records. *pubmed.Client implements it.
type Source interface {
	Search(ctx context.Context, journal string, rng types.DateRange) ([]string, error)
	Fetch(ctx context.Context, ids []string) ([]byte, error)
}

// JournalStat records what one journal contributed to a run.
type JournalStat struct {
	Journal string
	IDs     int
	Papers  int
	Err     error
}

// Result holds the papers of a run and per-journal statistics.
type Result struct {
	Range    types.DateRange
	Papers   []types.Paper
	Journals []JournalStat
	Started  time.Time
	Finished time.Time
}

// Failed returns the journals that could not be collected.
func (r Result) Failed() []JournalStat {
	var out []JournalStat
	for _, s := range r.Journals {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Run collects papers for each journal in order. A journal whose search,
// fetch or parse fails is logged and recorded in its JournalStat; the loop
// moves on to the next one. Only cancellation of ctx stops the run early,
// in which case the partial result is returned with ctx.Err().
func Run(ctx context.Context, src Source, journals []string, rng types.DateRange, cfg types.CollectConfig, log *zap.Logger, w io.Writer) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("collect")

	delay := cfg.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	res := Result{
		Range:   rng,
		Papers:  []types.Paper{},
		Started: time.Now(),
	}

	fmt.Fprintf(w, "Collecting papers from %d journals (%s)\n", len(journals), rng.Period())

	for i, journal := range journals {
		if i > 0 {
			select {
			case <-ctx.Done():
				res.Finished = time.Now()
				return res, ctx.Err()
			case <-time.After(delay):
			}
		}

		stat, papers := collectJournal(ctx, src, journal, rng, log)
		if stat.Err != nil && ctx.Err() != nil {
			res.Finished = time.Now()
			return res, ctx.Err()
		}

		res.Journals = append(res.Journals, stat)
		res.Papers = append(res.Papers, papers...)

		if stat.Err != nil {
			fmt.Fprintf(w, "[%d/%d] %s: failed: %v\n", i+1, len(journals), journal, stat.Err)
			continue
		}
		fmt.Fprintf(w, "[%d/%d] %s: %d papers\n", i+1, len(journals), journal, stat.Papers)
	}

	res.Finished = time.Now()
	log.Info("collection finished",
		zap.Int("journals", len(journals)),
		zap.Int("failed", len(res.Failed())),
		zap.Int("papers", len(res.Papers)),
		zap.Duration("elapsed", res.Finished.Sub(res.Started)),
	)
	return res, nil
}

func collectJournal(ctx context.Context, src Source, journal string, rng types.DateRange, log *zap.Logger) (JournalStat, []types.Paper) {
	stat := JournalStat{Journal: journal}
	log = log.With(zap.String("journal", journal))

	ids, err := src.Search(ctx, journal, rng)
	if err != nil {
		log.Warn("search failed", zap.Error(err))
		stat.Err = fmt.Errorf("searching: %w", err)
		return stat, nil
	}
	stat.IDs = len(ids)
	if len(ids) == 0 {
		return stat, nil
	}

	data, err := src.Fetch(ctx, ids)
	if err != nil {
		log.Warn("fetch failed", zap.Int("ids", len(ids)), zap.Error(err))
		stat.Err = fmt.Errorf("fetching: %w", err)
		return stat, nil
	}

	papers, err := extract.Papers(data)
	if err != nil {
		log.Warn("unparseable record batch", zap.Int("bytes", len(data)), zap.Error(err))
		stat.Err = err
		return stat, nil
	}
	stat.Papers = len(papers)
	return stat, papers
}

// FormatTable writes the per-journal statistics of res as a table to w.
func FormatTable(res Result, w io.Writer) {
	if len(res.Journals) == 0 {
		fmt.Fprintln(w, "No journals collected.")
		return
	}

	fmt.Fprintf(w, "%-45s  %6s  %6s  %s\n", "Journal", "IDs", "Papers", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 75))

	for _, s := range res.Journals {
		name := s.Journal
		if utf8.RuneCountInString(name) > journalWidth {
			name = string([]rune(name)[:journalWidth-3]) + "..."
		}
		status := "ok"
		if s.Err != nil {
			status = "failed"
		}
		fmt.Fprintf(w, "%s  %6d  %6d  %s\n", padRight(name, journalWidth), s.IDs, s.Papers, status)
	}
	fmt.Fprintln(w, strings.Repeat("-", 75))
	fmt.Fprintf(w, "%s  %6s  %6d\n", padRight("Total", journalWidth), "", len(res.Papers))
}

// journalWidth is the width of the journal column of FormatTable.
const journalWidth = 45

// padRight pads s with spaces to n runes; fmt pads by bytes.
func padRight(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}
