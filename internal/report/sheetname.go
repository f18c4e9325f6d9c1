// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"strings"
	"unicode/utf8"
)

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

const fallbackSheetName = "Keyword"

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_",
	"*", "_", "[", "_", "]", "_",
)

// SanitizeSheetName makes s usable as a sheet name: characters Excel
// rejects become "_", surrounding apostrophes and spaces are removed and
// the result is cut to 31 characters. An empty result becomes "Keyword".
func SanitizeSheetName(s string) string {
	s = sheetNameReplacer.Replace(s)
	s = strings.Trim(s, "' ")
	s = strings.TrimSpace(truncateRunes(s, maxSheetName))
	s = strings.TrimRight(s, "'")
	if s == "" {
		return fallbackSheetName
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
