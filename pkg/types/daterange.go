// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// PubMedDateLayout is the date format PubMed's [Date - Publication] field
// and the interactive prompts use.
const PubMedDateLayout = "2006/01/02"

// DateRange is the publication window of a collection run.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// ParseDateRange parses two YYYY/MM/DD dates. The end must not precede the start.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(PubMedDateLayout, strings.TrimSpace(start))
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: use YYYY/MM/DD", start)
	}
	e, err := time.Parse(PubMedDateLayout, strings.TrimSpace(end))
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: use YYYY/MM/DD", end)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return DateRange{Start: s, End: e}, nil
}

// RecentDays returns the window ending at now and starting days earlier.
func RecentDays(now time.Time, days int) (DateRange, error) {
	if days <= 0 {
		return DateRange{}, fmt.Errorf("number of days must be positive, got %d", days)
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return DateRange{Start: end.AddDate(0, 0, -days), End: end}, nil
}

// StartString returns the start date as YYYY/MM/DD.
func (r DateRange) StartString() string { return r.Start.Format(PubMedDateLayout) }

// EndString returns the end date as YYYY/MM/DD.
func (r DateRange) EndString() string { return r.End.Format(PubMedDateLayout) }

// Period returns "YYYY-MM-DD to YYYY-MM-DD" for report summaries.
func (r DateRange) Period() string {
	return r.Start.Format("2006-01-02") + " to " + r.End.Format("2006-01-02")
}

// FileStem returns "YYMMDD_YYMMDD", the prefix of report file names.
func (r DateRange) FileStem() string {
	return r.Start.Format("060102") + "_" + r.End.Format("060102")
}
