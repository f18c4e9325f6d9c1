// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns PubMed EFetch XML into Paper records.
// Missing fields are replaced by documented defaults, never reported as
// errors; only a batch that cannot be parsed at all fails.
package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/paper-pipeline/internal/markup"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// ErrParseFailure marks a record batch whose envelope could not be parsed.
var ErrParseFailure = errors.New("malformed record batch")

// PubMedURLTemplate builds the landing page URL from a PMID.
const PubMedURLTemplate = "https://pubmed.ncbi.nlm.nih.gov/%s/"

const defaultDatePart = "01"

var yearRe = regexp.MustCompile(`\d{4}`)

// EFetch XML structures. Only the fields the report needs are decoded;
// ArticleTitle and AbstractText keep their inline markup as trees.
type articleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string     `xml:"PMID"`
	Article xmlArticle `xml:"Article"`
}

type xmlArticle struct {
	Journal      xmlJournal   `xml:"Journal"`
	ArticleTitle *markup.Node `xml:"ArticleTitle"`
	Abstract     *xmlAbstract `xml:"Abstract"`
	Authors      []xmlAuthor  `xml:"AuthorList>Author"`
}

type xmlJournal struct {
	ISOAbbreviation string     `xml:"ISOAbbreviation"`
	PubDate         xmlPubDate `xml:"JournalIssue>PubDate"`
}

type xmlPubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type xmlAbstract struct {
	Texts []markup.Node `xml:"AbstractText"`
}

type xmlAuthor struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

// Papers parses an EFetch response into one Paper per PubmedArticle.
// Empty input yields no papers. If the document cannot be parsed the
// result is empty and the error wraps ErrParseFailure.
func Papers(data []byte) ([]types.Paper, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []types.Paper{}, nil
	}

	d := xml.NewDecoder(bytes.NewReader(data))
	d.Entity = xml.HTMLEntity

	var set articleSet
	if err := d.Decode(&set); err != nil {
		return []types.Paper{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	papers := make([]types.Paper, 0, len(set.Articles))
	for _, a := range set.Articles {
		papers = append(papers, convert(a))
	}
	return papers, nil
}

func convert(a pubmedArticle) types.Paper {
	mc := a.Citation
	art := mc.Article

	p := types.Paper{
		PMID:          strings.TrimSpace(mc.PMID),
		Title:         types.NotAvailable,
		Journal:       orNA(art.Journal.ISOAbbreviation),
		PublishedDate: PublishedDate(art.Journal.PubDate.Year, art.Journal.PubDate.Month, art.Journal.PubDate.Day, art.Journal.PubDate.MedlineDate),
		Authors:       formatAuthors(art.Authors),
		Abstract:      types.NotAvailable,
		URL:           types.NotAvailable,
	}

	if art.ArticleTitle != nil {
		p.Title = nfc(markup.Flatten(art.ArticleTitle))
	}

	if art.Abstract != nil {
		parts := make([]string, 0, len(art.Abstract.Texts))
		for i := range art.Abstract.Texts {
			parts = append(parts, markup.Flatten(&art.Abstract.Texts[i]))
		}
		p.Abstract = nfc(strings.Join(parts, " "))
	}

	if p.PMID != "" {
		p.URL = fmt.Sprintf(PubMedURLTemplate, p.PMID)
	}
	return p
}

// PublishedDate joins year, month and day with "-". Month and day default
// to "01" and single characters are zero-padded; month names become their
// number. Without a Year element the first four-digit year of medlineDate
// is used, and "N/A" when there is none.
func PublishedDate(year, month, day, medlineDate string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		year = yearRe.FindString(medlineDate)
	}
	if year == "" {
		year = types.NotAvailable
	}
	return year + "-" + datePart(monthNumber(month)) + "-" + datePart(day)
}

func datePart(s string) string {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 0:
		return defaultDatePart
	case 1:
		return "0" + s
	default:
		return s
	}
}

var months = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// monthNumber maps English month names and abbreviations to "01".."12";
// anything else is returned unchanged.
func monthNumber(m string) string {
	m = strings.TrimSpace(m)
	if len(m) < 3 {
		return m
	}
	lower := strings.ToLower(m)
	if n, ok := months[lower[:3]]; ok && isMonthName(lower) {
		return n
	}
	return m
}

func isMonthName(lower string) bool {
	for _, r := range lower {
		if r < 'a' || r > 'z' {
			return r == '.'
		}
	}
	return true
}

// formatAuthors formats authors as "LastName, ForeName" joined by ", ".
// Entries without a last name are skipped; no qualifying author gives "N/A".
func formatAuthors(authors []xmlAuthor) string {
	var names []string
	for _, a := range authors {
		last := strings.TrimSpace(a.LastName)
		if last == "" {
			continue
		}
		names = append(names, last+", "+strings.TrimSpace(a.ForeName))
	}
	if len(names) == 0 {
		return types.NotAvailable
	}
	return nfc(strings.Join(names, ", "))
}

func orNA(s string) string {
	if s == "" {
		return types.NotAvailable
	}
	return s
}

func nfc(s string) string {
	return norm.NFC.String(s)
}
