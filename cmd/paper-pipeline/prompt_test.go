// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-pipeline/internal/highlight"
)

func TestPromptDateRangeExplicit(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("3\n1\n2024-01-01\n2024/01/01\n2024/01/31\n"), &out)

	rng, err := p.dateRange(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "2024/01/01", rng.StartString())
	assert.Equal(t, "2024/01/31", rng.EndString())

	assert.Contains(t, out.String(), "Invalid choice. Please enter 1 or 2.")
	assert.Contains(t, out.String(), "Invalid date format. Please use YYYY/MM/DD.")
}

func TestPromptDateRangeRejectsReversedRange(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("1\n2024/02/01\n2024/01/01\n2024/01/01\n2024/02/01"), &out)

	rng, err := p.dateRange(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "2024/01/01", rng.StartString())
	assert.Contains(t, out.String(), "Invalid date range")
}

func TestPromptDateRangeRecentDays(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("2\nseven\n0\n7\n"), &out)
	now := time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)

	rng, err := p.dateRange(now)
	require.NoError(t, err)
	assert.Equal(t, "2024/03/08", rng.StartString())
	assert.Equal(t, "2024/03/15", rng.EndString())
	assert.Contains(t, out.String(), "Invalid input. Please enter a number.")
	assert.Contains(t, out.String(), "Please enter a positive number.")
}

func TestPromptClosedInput(t *testing.T) {
	p := newPrompter(strings.NewReader("5\n"), &bytes.Buffer{})
	_, err := p.dateRange(time.Now())
	assert.ErrorContains(t, err, "input closed")
}

func TestPromptKeywords(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("  enzyme, protein+fold  \n"), &out)
	kw, err := p.keywords()
	require.NoError(t, err)
	assert.Equal(t, "enzyme, protein+fold", kw)
	assert.Contains(t, out.String(), "Leave empty to skip keyword filtering.")
}

func TestDescribeSpecs(t *testing.T) {
	got := describeSpecs(highlight.Parse("enzyme, protein+fold, ML"))
	assert.Equal(t, "enzyme; protein+fold (OR: protein, fold); ML", got)
}
