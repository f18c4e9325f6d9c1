// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package highlight

import (
	"strings"
)

const (
	// specSeparator splits user input into independent keyword specs.
	specSeparator = ","

	// orSeparator joins alternative terms inside one compound spec.
	orSeparator = "+"
)

// Spec is one keyword filter. A plain spec has a single term; a compound
// spec ("protein+fold") matches when any of its terms does.
type Spec struct {
	// Raw is the trimmed user input for this spec, used for sheet names.
	Raw string

	// Terms are the non-empty, trimmed alternatives.
	Terms []string

	// Compound is set when Raw contained the OR separator.
	Compound bool
}

// Parse splits input like "enzyme, protein+fold, ML" into specs.
// Empty pieces are dropped. Within a compound piece empty sub-terms are
// dropped too; a compound piece with none left is kept with no terms and
// matches nothing.
func Parse(input string) []Spec {
	var specs []Spec
	for _, piece := range strings.Split(input, specSeparator) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		specs = append(specs, NewSpec(piece))
	}
	return specs
}

// NewSpec builds a spec from a single piece of input (no comma handling).
func NewSpec(piece string) Spec {
	piece = strings.TrimSpace(piece)
	if !strings.Contains(piece, orSeparator) {
		s := Spec{Raw: piece}
		if piece != "" {
			s.Terms = []string{piece}
		}
		return s
	}

	s := Spec{Raw: piece, Compound: true}
	for _, sub := range strings.Split(piece, orSeparator) {
		if sub = strings.TrimSpace(sub); sub != "" {
			s.Terms = append(s.Terms, sub)
		}
	}
	return s
}

// IsEmpty reports whether the spec has no usable terms.
func (s Spec) IsEmpty() bool { return len(s.Terms) == 0 }

// Matches reports whether text contains any of the terms, ignoring case.
func (s Spec) Matches(text string) bool {
	for _, term := range s.Terms {
		if containsFold(text, term) {
			return true
		}
	}
	return false
}

// Describe renders the spec the way the CLI echoes parsed keywords,
// e.g. "protein+fold (OR: protein, fold)".
func (s Spec) Describe() string {
	if !s.Compound {
		return s.Raw
	}
	return s.Raw + " (OR: " + strings.Join(s.Terms, ", ") + ")"
}

// String returns the raw input of the spec.
func (s Spec) String() string { return s.Raw }
