// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package highlight finds keyword occurrences in report cells and splits
// the cell text into highlighted and plain runs.
//
// Matching ignores case rune by rune, so every offset refers to the
// original string and a highlighted run keeps the source casing.
package highlight

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// Match is one keyword occurrence. Start and End are byte offsets into the
// searched text, End exclusive, Start < End.
type Match struct {
	Start int
	End   int
	Text  string
}

// Run is a slice of the source text and whether it is highlighted.
type Run struct {
	Text        string
	Highlighted bool
}

// FindAll returns the non-overlapping occurrences of term in text, scanning
// left to right and resuming after each match. An empty term has no
// occurrences.
func FindAll(text, term string) []Match {
	if term == "" {
		return nil
	}
	var matches []Match
	for i := 0; i < len(text); {
		if end, ok := matchAt(text, i, term); ok {
			matches = append(matches, Match{Start: i, End: end, Text: text[i:end]})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return matches
}

// Find returns the matches of every term of s in text, ordered by start
// offset with ties kept in term order. A match that starts before the end
// of an already accepted match is dropped.
func (s Spec) Find(text string) []Match {
	var all []Match
	for _, term := range s.Terms {
		all = append(all, FindAll(text, term)...)
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	kept := all[:0]
	lastEnd := 0
	for _, m := range all {
		if m.Start >= lastEnd {
			kept = append(kept, m)
			lastEnd = m.End
		}
	}
	return kept
}

// Segment splits text into runs, highlighting every match of s.
// Empty text yields no runs. The "N/A" placeholder, a spec without terms,
// or text without matches yields a single plain run.
// Joining the run texts always reproduces text.
func Segment(text string, s Spec) []Run {
	if text == "" {
		return nil
	}
	if text == types.NotAvailable || s.IsEmpty() {
		return []Run{{Text: text}}
	}
	return Runs(text, s.Find(text))
}

// Runs builds the run sequence for text from sorted, non-overlapping matches.
func Runs(text string, matches []Match) []Run {
	if len(matches) == 0 {
		if text == "" {
			return nil
		}
		return []Run{{Text: text}}
	}

	runs := make([]Run, 0, 2*len(matches)+1)
	pos := 0
	for _, m := range matches {
		if m.Start > pos {
			runs = append(runs, Run{Text: text[pos:m.Start]})
		}
		runs = append(runs, Run{Text: text[m.Start:m.End], Highlighted: true})
		pos = m.End
	}
	if pos < len(text) {
		runs = append(runs, Run{Text: text[pos:]})
	}
	return runs
}

// Join concatenates run texts.
func Join(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// matchAt reports whether term matches text starting at byte offset i,
// ignoring case, and returns the end offset of the match. Bytes that are
// not valid UTF-8 only match the identical byte.
func matchAt(text string, i int, term string) (int, bool) {
	j := i
	for k := 0; k < len(term); {
		if j >= len(text) {
			return 0, false
		}
		tr, tsize := utf8.DecodeRuneInString(term[k:])
		r, size := utf8.DecodeRuneInString(text[j:])
		invalid := tr == utf8.RuneError && tsize == 1
		if invalid != (r == utf8.RuneError && size == 1) {
			return 0, false
		}
		if invalid {
			if text[j] != term[k] {
				return 0, false
			}
		} else if !foldEqual(r, tr) {
			return 0, false
		}
		j += size
		k += tsize
	}
	return j, true
}

func containsFold(text, term string) bool {
	if term == "" {
		return false
	}
	for i := 0; i < len(text); {
		if _, ok := matchAt(text, i, term); ok {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return false
}

// foldEqual reports whether a and b are equal under Unicode simple case folding.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
