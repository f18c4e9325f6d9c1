//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Collect builds the CLI and collects the last DAYS days (default 7) with
// the keywords in KEYWORDS.
func Collect() error {
	mg.Deps(Init, Build)
	days := os.Getenv("DAYS")
	if days == "" {
		days = "7"
	}
	return sh.RunV(binPath(), "collect", "--days", days, "--keywords", os.Getenv("KEYWORDS"), "--summary")
}

// Runs lists the archived collection runs.
func Runs() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "runs")
}

// Report regenerates the workbook of the latest archived run.
func Report() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "report")
}
