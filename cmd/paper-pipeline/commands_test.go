// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-pipeline/internal/archive"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

func rangeCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "collect"}
	cmd.Flags().String("from", "", "")
	cmd.Flags().String("to", "", "")
	cmd.Flags().Int("days", 0, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestRangeFromFlags(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		args    []string
		ok      bool
		want    types.DateRange
		wantErr string
	}{
		{name: "none"},
		{
			name: "explicit",
			args: []string{"--from", "2024/01/01", "--to", "2024/01/31"},
			ok:   true,
			want: types.DateRange{
				Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "days",
			args: []string{"--days", "7"},
			ok:   true,
			want: types.DateRange{
				Start: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			},
		},
		{name: "both", args: []string{"--from", "2024/01/01", "--to", "2024/01/31", "--days", "7"}, wantErr: "not both"},
		{name: "from only", args: []string{"--from", "2024/01/01"}, wantErr: "together"},
		{name: "reversed", args: []string{"--from", "2024/02/01", "--to", "2024/01/01"}, wantErr: "before"},
		{name: "bad format", args: []string{"--from", "2024-01-01", "--to", "2024/01/31"}, wantErr: "YYYY/MM/DD"},
		{name: "zero days", args: []string{"--days", "0"}, wantErr: "positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, ok, err := rangeFromFlags(rangeCmd(t, tt.args...), now)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, rng)
		})
	}
}

func TestFormatRuns(t *testing.T) {
	runs := []archive.Run{
		{
			ID: 2,
			Range: types.DateRange{
				Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			},
			CollectedAt:    time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
			PaperCount:     120,
			FailedJournals: []string{"Cell"},
			Keywords:       "enzyme",
		},
		{ID: 1, CollectedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	formatRuns(runs, &buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Period")
	assert.Contains(t, lines[2], "2024-01-01 to 2024-01-31")
	assert.Contains(t, lines[2], "120")
	assert.True(t, strings.HasSuffix(lines[2], "enzyme"))
	assert.True(t, strings.HasSuffix(lines[3], "-"))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"collect", "export", "journals", "report", "runs", "version", "watch"}
	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}
