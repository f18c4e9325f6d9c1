// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-pipeline/internal/highlight"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// prompter asks questions on out and reads answers line by line from in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints prompt and returns the trimmed answer. A final line without a
// newline is accepted; closed input is an error.
func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("input closed before an answer was given")
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// dateRange asks for either an explicit range or a number of recent days,
// repeating each question until the answer is valid.
func (p *prompter) dateRange(now time.Time) (types.DateRange, error) {
	fmt.Fprintln(p.out, "Select date range mode:")
	fmt.Fprintln(p.out, "1. Specific date range (YYYY/MM/DD)")
	fmt.Fprintln(p.out, "2. Recent N days")

	var choice string
	for {
		c, err := p.ask("Enter your choice (1 or 2): ")
		if err != nil {
			return types.DateRange{}, err
		}
		if c == "1" || c == "2" {
			choice = c
			break
		}
		fmt.Fprintln(p.out, "Invalid choice. Please enter 1 or 2.")
	}

	if choice == "1" {
		for {
			start, err := p.ask("Enter start date (YYYY/MM/DD): ")
			if err != nil {
				return types.DateRange{}, err
			}
			if _, err := time.Parse(types.PubMedDateLayout, start); err != nil {
				fmt.Fprintln(p.out, "Invalid date format. Please use YYYY/MM/DD.")
				continue
			}
			end, err := p.ask("Enter end date (YYYY/MM/DD): ")
			if err != nil {
				return types.DateRange{}, err
			}
			if _, err := time.Parse(types.PubMedDateLayout, end); err != nil {
				fmt.Fprintln(p.out, "Invalid date format. Please use YYYY/MM/DD.")
				continue
			}
			rng, err := types.ParseDateRange(start, end)
			if err != nil {
				fmt.Fprintf(p.out, "Invalid date range: %v.\n", err)
				continue
			}
			return rng, nil
		}
	}

	for {
		answer, err := p.ask("Enter number of recent days to search: ")
		if err != nil {
			return types.DateRange{}, err
		}
		days, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid input. Please enter a number.")
			continue
		}
		if days <= 0 {
			fmt.Fprintln(p.out, "Please enter a positive number.")
			continue
		}
		return types.RecentDays(now, days)
	}
}

// keywords explains the keyword syntax and returns the raw answer.
func (p *prompter) keywords() (string, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Enter keywords to filter papers by title.")
	fmt.Fprintln(p.out, "You can enter multiple keywords separated by commas for separate sheets (e.g., enzyme, e. coli, deep learning)")
	fmt.Fprintln(p.out, "Use + to connect keywords for OR logic in a single sheet (e.g., Alphafold+ESMfold)")
	fmt.Fprintln(p.out, "You can mix both: enzyme, protein+fold, ML creates 3 sheets")
	fmt.Fprintln(p.out, "Leave empty to skip keyword filtering.")
	return p.ask("Enter keywords: ")
}

// describeSpecs renders parsed keywords for echoing back to the user.
func describeSpecs(specs []highlight.Spec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = s.Describe()
	}
	return strings.Join(parts, "; ")
}

// isInteractive reports whether f is a terminal rather than a pipe or file.
func isInteractive(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
