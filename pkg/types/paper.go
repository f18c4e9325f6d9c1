// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-pipeline.
// Paper is produced by record extraction and consumed by the report writer,
// the archive and the exporters; the config structs are built once at
// start-up and passed by value.
package types

// NotAvailable is the placeholder for absent data. It is distinct from the
// empty string: an abstract that exists but carries no text is "".
const NotAvailable = "N/A"

// Paper is one bibliographic record parsed from a PubMed article.
// Fields are formatted for the report and are not changed after extraction.
type Paper struct {
	// PMID is the PubMed identifier, empty when the record has none.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// Title is the flattened article title, "N/A" when missing.
	Title string `json:"title" yaml:"title"`

	// Journal is the ISO journal abbreviation as given by PubMed.
	Journal string `json:"journal" yaml:"journal"`

	// PublishedDate is YYYY-MM-DD; missing month or day default to "01".
	PublishedDate string `json:"published_date" yaml:"published_date"`

	// Authors is a comma-joined list of "Last, First" entries, "N/A" if none.
	Authors string `json:"authors" yaml:"authors"`

	// Abstract is the space-joined abstract text, "N/A" when the record
	// has no abstract element.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the PubMed landing page, "N/A" when the PMID is missing.
	URL string `json:"url" yaml:"url"`
}

// HasLink reports whether URL is an http(s) link rather than the placeholder.
func (p Paper) HasLink() bool {
	return len(p.URL) > 4 && p.URL[:4] == "http"
}
