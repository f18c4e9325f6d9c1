// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes collected papers to an Excel workbook: a summary
// sheet, a sheet with every paper, and one sheet per keyword whose title
// and abstract cells highlight the keyword matches.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/paper-pipeline/internal/highlight"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// ErrNoPapers is returned when there is nothing to write.
var ErrNoPapers = errors.New("no papers to write")

// Sheet names and layout constants.
const (
	SummarySheet = "Summary"
	PapersSheet  = "Papers"

	DefaultOutputDir      = "output"
	DefaultHighlightColor = "FF0000"

	timestampLayout = "2006-01-02 15:04:05"
	defaultColWidth = 20
	linkText        = "Link"
)

// Columns of the papers and keyword sheets, in order.
var Columns = []string{"Title", "Journal", "Published Date", "Authors", "Abstract", "URL"}

var columnWidths = map[string]float64{
	"Title":          60,
	"Journal":        25,
	"Published Date": 15,
	"Authors":        40,
	"Abstract":       80,
	"URL":            15,
}

// Meta describes the run a workbook reports on.
type Meta struct {
	Range     types.DateRange
	Collected time.Time
}

// FileName returns "<YYMMDD>_<YYMMDD>_Papers.xlsx" for rng.
func FileName(rng types.DateRange) string {
	return rng.FileStem() + "_Papers.xlsx"
}

// Write renders the workbook and saves it under cfg.OutputDir. It returns
// the path written, or ErrNoPapers.
func Write(papers []types.Paper, specs []highlight.Spec, meta Meta, cfg types.ReportConfig, w io.Writer) (string, error) {
	data, err := Render(papers, specs, meta, cfg, w)
	if err != nil {
		return "", err
	}
	return Save(data, meta.Range, cfg, w)
}

// Render returns the workbook as xlsx bytes without touching the filesystem.
func Render(papers []types.Paper, specs []highlight.Spec, meta Meta, cfg types.ReportConfig, w io.Writer) ([]byte, error) {
	f, err := build(papers, specs, meta, cfg, w)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes rendered workbook bytes to cfg.OutputDir under FileName(rng),
// creating the directory if needed, and returns the path.
func Save(data []byte, rng types.DateRange, cfg types.ReportConfig, w io.Writer) (string, error) {
	dir := cfg.OutputDir
	if dir == "" {
		dir = DefaultOutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(rng))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("saving workbook %s: %w", path, err)
	}
	fmt.Fprintf(w, "Successfully created Excel file: %s\n", path)
	return path, nil
}

// builder carries the workbook and its shared styles while sheets are added.
type builder struct {
	f         *excelize.File
	cfg       types.ReportConfig
	header    int
	wrap      int
	link      int
	highlight *excelize.Font
	names     map[string]bool
}

func build(papers []types.Paper, specs []highlight.Spec, meta Meta, cfg types.ReportConfig, w io.Writer) (*excelize.File, error) {
	if len(papers) == 0 {
		return nil, ErrNoPapers
	}
	if cfg.HighlightColor == "" {
		cfg.HighlightColor = DefaultHighlightColor
	}

	b := &builder{
		f:         excelize.NewFile(),
		cfg:       cfg,
		highlight: &excelize.Font{Bold: true, Color: cfg.HighlightColor},
		names:     map[string]bool{strings.ToLower(SummarySheet): true, strings.ToLower(PapersSheet): true},
	}
	if err := b.write(papers, specs, meta, w); err != nil {
		b.f.Close()
		return nil, err
	}
	return b.f, nil
}

func (b *builder) write(papers []types.Paper, specs []highlight.Spec, meta Meta, w io.Writer) error {
	var err error
	if b.header, err = b.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if b.wrap, err = b.f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}}); err != nil {
		return fmt.Errorf("creating wrap style: %w", err)
	}
	if b.link, err = b.f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "0563C1", Underline: "single"}}); err != nil {
		return fmt.Errorf("creating link style: %w", err)
	}

	sections, empty := Partition(papers, specs)
	for _, spec := range empty {
		fmt.Fprintf(w, "No papers found for keyword %q; skipping sheet.\n", spec.Raw)
	}

	// A new file starts with "Sheet1", which becomes the summary.
	if err := b.f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	if err := b.writeSummary(papers, specs, meta); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if _, err := b.f.NewSheet(PapersSheet); err != nil {
		return fmt.Errorf("adding papers sheet: %w", err)
	}
	if err := b.writePapers(PapersSheet, papers, nil); err != nil {
		return fmt.Errorf("writing papers: %w", err)
	}

	for i := range sections {
		sec := &sections[i]
		name := b.sheetName(sec.Spec.Raw)
		if _, err := b.f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet for keyword %q: %w", sec.Spec.Raw, err)
		}
		if err := b.writePapers(name, sec.Papers, &sec.Spec); err != nil {
			return fmt.Errorf("writing sheet for keyword %q: %w", sec.Spec.Raw, err)
		}
		fmt.Fprintf(w, "Keyword %q: %d papers\n", sec.Spec.Describe(), len(sec.Papers))
	}

	b.f.SetActiveSheet(0)
	return nil
}

// writeSummary lays out the run metadata from row 2, then the journal table
// two rows below it, then the keyword table when keywords were given.
func (b *builder) writeSummary(papers []types.Paper, specs []highlight.Spec, meta Meta) error {
	sheet := SummarySheet
	rows := [][]any{
		{"Collection Period", meta.Range.Period()},
		{"Total Papers", len(papers)},
		{"Collection Timestamp", meta.Collected.Format(timestampLayout)},
	}
	row := 2
	for _, r := range rows {
		if err := b.f.SetSheetRow(sheet, cellName(1, row), &r); err != nil {
			return err
		}
		row++
	}

	row += 2
	if err := b.tableHeader(sheet, row, "Journal Name", "Number of Papers"); err != nil {
		return err
	}
	for _, jc := range CountByJournal(papers) {
		row++
		if err := b.f.SetSheetRow(sheet, cellName(1, row), &[]any{jc.Journal, jc.Papers}); err != nil {
			return err
		}
	}

	if len(specs) > 0 {
		row += 2
		if err := b.tableHeader(sheet, row, "Keyword", "Matching Papers"); err != nil {
			return err
		}
		for _, spec := range specs {
			row++
			n := 0
			for _, p := range papers {
				if spec.Matches(p.Title) {
					n++
				}
			}
			if err := b.f.SetSheetRow(sheet, cellName(1, row), &[]any{spec.Describe(), n}); err != nil {
				return err
			}
		}
	}

	if err := b.f.SetColWidth(sheet, "A", "A", 25); err != nil {
		return err
	}
	return b.f.SetColWidth(sheet, "B", "B", 40)
}

func (b *builder) tableHeader(sheet string, row int, titles ...string) error {
	vals := make([]any, len(titles))
	for i, t := range titles {
		vals[i] = t
	}
	if err := b.f.SetSheetRow(sheet, cellName(1, row), &vals); err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, cellName(1, row), cellName(len(titles), row), b.header)
}

// writePapers fills sheet with one row per paper. With a spec, title and
// abstract cells become rich text highlighting the spec's matches.
func (b *builder) writePapers(sheet string, papers []types.Paper, spec *highlight.Spec) error {
	if err := b.tableHeader(sheet, 1, Columns...); err != nil {
		return err
	}

	for i, p := range papers {
		row := i + 2
		values := []any{p.Title, p.Journal, p.PublishedDate, p.Authors, p.Abstract}
		if err := b.f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return err
		}
		if spec != nil {
			if err := b.richText(sheet, cellName(1, row), p.Title, *spec); err != nil {
				return err
			}
			if err := b.richText(sheet, cellName(5, row), p.Abstract, *spec); err != nil {
				return err
			}
		}
		if err := b.linkCell(sheet, cellName(6, row), p); err != nil {
			return err
		}
	}

	for i, col := range Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width, ok := columnWidths[col]
		if !ok {
			width = defaultColWidth
		}
		if err := b.f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}

	if len(papers) > 0 {
		last := len(papers) + 1
		if err := b.f.SetCellStyle(sheet, "A2", cellName(1, last), b.wrap); err != nil {
			return err
		}
		if err := b.f.SetCellStyle(sheet, "E2", cellName(5, last), b.wrap); err != nil {
			return err
		}
	}
	return nil
}

// richText writes text as runs, the matches of spec in bold highlight color.
// Text without matches stays a plain cell.
func (b *builder) richText(sheet, cell, text string, spec highlight.Spec) error {
	runs := highlight.Segment(text, spec)
	if !hasHighlight(runs) {
		return nil
	}
	rich := make([]excelize.RichTextRun, len(runs))
	for i, r := range runs {
		rich[i] = excelize.RichTextRun{Text: r.Text}
		if r.Highlighted {
			rich[i].Font = b.highlight
		}
	}
	return b.f.SetCellRichText(sheet, cell, rich)
}

// linkCell shows "Link" with an external hyperlink for http(s) URLs and
// leaves the cell empty otherwise.
func (b *builder) linkCell(sheet, cell string, p types.Paper) error {
	if !p.HasLink() {
		return nil
	}
	if err := b.f.SetCellValue(sheet, cell, linkText); err != nil {
		return err
	}
	if err := b.f.SetCellHyperLink(sheet, cell, p.URL, "External"); err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, cell, cell, b.link)
}

// sheetName returns a unique, valid sheet name for a keyword.
func (b *builder) sheetName(keyword string) string {
	base := SanitizeSheetName(keyword)
	name := base
	for n := 2; b.names[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	b.names[strings.ToLower(name)] = true
	return name
}

func hasHighlight(runs []highlight.Run) bool {
	for _, r := range runs {
		if r.Highlighted {
			return true
		}
	}
	return false
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
