// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// Format selects an export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSL  Format = "csl"
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON, FormatCSL:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want yaml, json or csl)", s)
}

// Export is the document written for the yaml and json formats.
type Export struct {
	Run    Run           `json:"run" yaml:"run"`
	Papers []types.Paper `json:"papers" yaml:"papers"`
}

// WriteExport encodes a run and its papers to w in the given format.
func WriteExport(w io.Writer, run Run, papers []types.Paper, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(Export{Run: run, Papers: papers}); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(Export{Run: run, Papers: papers}); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatCSL:
		return FormatCSLItems(papers, w)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format, consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	PMID           string    `yaml:"PMID,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family string `yaml:"family,omitempty"`
	Given  string `yaml:"given,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSLItems writes papers as a CSL-YAML list to w.
func FormatCSLItems(papers []types.Paper, w io.Writer) error {
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = toCSLItem(p, i)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL: %w", err)
	}
	return nil
}

func toCSLItem(p types.Paper, i int) CSLItem {
	item := CSLItem{
		ID:             "pmid:" + p.PMID,
		Type:           "article-journal",
		Title:          known(p.Title),
		ContainerTitle: known(p.Journal),
		Author:         parseAuthors(p.Authors),
		Abstract:       known(p.Abstract),
		Issued:         parseIssued(p.PublishedDate),
		PMID:           p.PMID,
	}
	if p.PMID == "" {
		item.ID = "paper-" + strconv.Itoa(i+1)
	}
	if p.HasLink() {
		item.URL = p.URL
	}
	return item
}

// parseAuthors splits the "Last, First, Last, First" author field back into
// family/given pairs. "N/A" yields no authors.
func parseAuthors(s string) []CSLName {
	if s == "" || s == types.NotAvailable {
		return nil
	}
	parts := strings.Split(s, ", ")
	var names []CSLName
	for i := 0; i < len(parts); i += 2 {
		n := CSLName{Family: strings.TrimSpace(parts[i])}
		if i+1 < len(parts) {
			n.Given = strings.TrimSpace(parts[i+1])
		}
		names = append(names, n)
	}
	return names
}

// parseIssued converts "YYYY-MM-DD" to date-parts, keeping the leading
// numeric parts when month or day are not numbers (e.g. "2023-Spring-01").
func parseIssued(date string) *CSLDate {
	var parts []int
	for _, f := range strings.Split(date, "-") {
		n, err := strconv.Atoi(f)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return nil
	}
	return &CSLDate{DateParts: [][]int{parts}}
}

func known(s string) string {
	if s == types.NotAvailable {
		return ""
	}
	return s
}
