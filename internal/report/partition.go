// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"sort"

	"github.com/pdiddy/paper-pipeline/internal/highlight"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// Section is the subset of papers whose titles match one keyword spec.
type Section struct {
	Spec   highlight.Spec
	Papers []types.Paper
}

// Partition filters papers once per spec, in spec order. A paper belongs to
// a section when its title contains the spec's term, or any of its terms
// for a compound spec, ignoring case. A paper may appear in several
// sections. Specs with no matching papers are returned in empty instead.
func Partition(papers []types.Paper, specs []highlight.Spec) (sections []Section, empty []highlight.Spec) {
	for _, spec := range specs {
		var subset []types.Paper
		for _, p := range papers {
			if spec.Matches(p.Title) {
				subset = append(subset, p)
			}
		}
		if len(subset) == 0 {
			empty = append(empty, spec)
			continue
		}
		sections = append(sections, Section{Spec: spec, Papers: subset})
	}
	return sections, empty
}

// JournalCount is one row of the summary's per-journal table.
type JournalCount struct {
	Journal string
	Papers  int
}

// CountByJournal tallies papers per journal, most papers first and ties in
// alphabetical order.
func CountByJournal(papers []types.Paper) []JournalCount {
	counts := make(map[string]int)
	for _, p := range papers {
		counts[p.Journal]++
	}
	out := make([]JournalCount, 0, len(counts))
	for j, n := range counts {
		out = append(out, JournalCount{Journal: j, Papers: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Papers != out[j].Papers {
			return out[i].Papers > out[j].Papers
		}
		return out[i].Journal < out[j].Journal
	})
	return out
}
