// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package highlight

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	specs := Parse("enzyme, protein+fold, ML")
	require.Len(t, specs, 3)

	assert.Equal(t, Spec{Raw: "enzyme", Terms: []string{"enzyme"}}, specs[0])
	assert.Equal(t, Spec{Raw: "protein+fold", Terms: []string{"protein", "fold"}, Compound: true}, specs[1])
	assert.Equal(t, Spec{Raw: "ML", Terms: []string{"ML"}}, specs[2])
}

func TestParseDropsEmptyPieces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Spec
	}{
		{"empty input", "", nil},
		{"only separators", " , ,, ", nil},
		{"trailing comma", "enzyme,", []Spec{{Raw: "enzyme", Terms: []string{"enzyme"}}}},
		{
			"empty sub-terms dropped",
			"alpha+ +beta+",
			[]Spec{{Raw: "alpha+ +beta+", Terms: []string{"alpha", "beta"}, Compound: true}},
		},
		{
			"compound without terms kept",
			"+",
			[]Spec{{Raw: "+", Compound: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestSpecMatches(t *testing.T) {
	tests := []struct {
		name  string
		spec  Spec
		title string
		want  bool
	}{
		{"plain case-insensitive", NewSpec("enzyme"), "Directed ENZYME evolution", true},
		{"plain absent", NewSpec("enzyme"), "Protein design", false},
		{"compound second term", NewSpec("AlphaFold+ESMFold"), "Benchmarking esmfold", true},
		{"compound none", NewSpec("AlphaFold+ESMFold"), "RoseTTAFold", false},
		{"no terms matches nothing", NewSpec("+"), "anything", false},
		{"empty spec matches nothing", NewSpec(""), "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Matches(tt.title))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "ML", NewSpec("ML").Describe())
	assert.Equal(t, "protein + fold (OR: protein, fold)", NewSpec("protein + fold").Describe())
	assert.Equal(t, "protein+fold (OR: protein, fold)", NewSpec(" protein+fold ").Describe())
}

func TestFindAllInvalidUTF8(t *testing.T) {
	// Distinct invalid bytes both decode to RuneError but must not match each other.
	assert.Empty(t, FindAll("a\xfeb", "\xff"))
	assert.Equal(t, []Match{{Start: 1, End: 2, Text: "\xff"}}, FindAll("a\xffb", "\xff"))
	assert.Empty(t, FindAll("a\uFFFDb", "\xff"))
	assert.Equal(t, []Match{{Start: 0, End: 3, Text: "A\xffB"}}, FindAll("A\xffB", "a\xffb"))
}

func TestFindAllNonOverlapping(t *testing.T) {
	got := FindAll("aaa", "aa")
	assert.Equal(t, []Match{{Start: 0, End: 2, Text: "aa"}}, got)

	got = FindAll("aaaa", "aa")
	assert.Equal(t, []Match{{Start: 0, End: 2, Text: "aa"}, {Start: 2, End: 4, Text: "aa"}}, got)

	assert.Nil(t, FindAll("abc", ""))
	assert.Nil(t, FindAll("", "abc"))
}

func TestSegmentSingleTermOverlap(t *testing.T) {
	runs := Segment("aaa", NewSpec("aa"))
	assert.Equal(t, []Run{
		{Text: "aa", Highlighted: true},
		{Text: "a"},
	}, runs)
}

func TestSegmentCompoundPreservesCase(t *testing.T) {
	runs := Segment("AlphaFold and ESMFold are tools", NewSpec("Alphafold+ESMfold"))
	assert.Equal(t, []Run{
		{Text: "AlphaFold", Highlighted: true},
		{Text: " and "},
		{Text: "ESMFold", Highlighted: true},
		{Text: " are tools"},
	}, runs)
}

func TestSegmentCompoundOverlapResolution(t *testing.T) {
	spec := NewSpec("abc+bcd")
	assert.Equal(t, []Match{{Start: 0, End: 3, Text: "abc"}}, spec.Find("abcdef"))
	assert.Equal(t, []Run{
		{Text: "abc", Highlighted: true},
		{Text: "def"},
	}, Segment("abcdef", spec))
}

func TestSegmentTieKeepsTermOrder(t *testing.T) {
	// Both terms start at 0; the first listed term wins.
	spec := NewSpec("pro+protein")
	assert.Equal(t, []Match{{Start: 0, End: 3, Text: "Pro"}}, spec.Find("Protein"))

	spec = NewSpec("protein+pro")
	assert.Equal(t, []Match{{Start: 0, End: 7, Text: "Protein"}}, spec.Find("Protein"))
}

func TestSegmentDegenerate(t *testing.T) {
	assert.Empty(t, Segment("", NewSpec("x")))
	assert.Equal(t, []Run{{Text: "N/A"}}, Segment("N/A", NewSpec("N")))
	assert.Equal(t, []Run{{Text: "some text"}}, Segment("some text", Spec{}))
	assert.Equal(t, []Run{{Text: "some text"}}, Segment("some text", NewSpec("+")))
	assert.Equal(t, []Run{{Text: "some text"}}, Segment("some text", NewSpec("absent")))
}

func TestSegmentWholeText(t *testing.T) {
	assert.Equal(t, []Run{{Text: "CRISPR", Highlighted: true}}, Segment("CRISPR", NewSpec("crispr")))
}

func TestSegmentMultibyteOffsets(t *testing.T) {
	// "Ä" is two bytes in UTF-8; offsets must stay in the original string.
	text := "Über ÄRGER und ärger"
	runs := Segment(text, NewSpec("ärger"))
	assert.Equal(t, []Run{
		{Text: "Über "},
		{Text: "ÄRGER", Highlighted: true},
		{Text: " und "},
		{Text: "ärger", Highlighted: true},
	}, runs)

	// Kelvin sign folds to k; the match keeps the 3-byte source rune.
	runs = Segment("5 \u212a units", NewSpec("k"))
	require.Len(t, runs, 3)
	assert.Equal(t, "\u212a", runs[1].Text)
	assert.True(t, runs[1].Highlighted)
}

func TestSegmentRoundTrip(t *testing.T) {
	alphabet := []rune("abAB cé+Éß")
	rng := rand.New(rand.NewSource(42))
	randString := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		return b.String()
	}

	for i := 0; i < 2000; i++ {
		text := randString(rng.Intn(40))
		spec := NewSpec(randString(rng.Intn(6)))

		runs := Segment(text, spec)
		require.Equal(t, text, Join(runs), "text=%q spec=%q", text, spec.Raw)

		for j, r := range runs {
			require.NotEmpty(t, r.Text, "empty run %d for text=%q spec=%q", j, text, spec.Raw)
			if j > 0 && !runs[j-1].Highlighted {
				require.True(t, r.Highlighted, "adjacent plain runs for text=%q spec=%q", text, spec.Raw)
			}
		}

		matches := spec.Find(text)
		for j, m := range matches {
			require.Less(t, m.Start, m.End)
			require.Equal(t, text[m.Start:m.End], m.Text)
			if j > 0 {
				require.GreaterOrEqual(t, m.Start, matches[j-1].End)
			}
		}
	}
}
