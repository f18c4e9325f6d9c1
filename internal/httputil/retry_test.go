// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// scripted answers each request with the next status of its script and
// repeats the last one once the script runs out. It records request bodies.
type scripted struct {
	mu       sync.Mutex
	statuses []int
	bodies   []string
}

func (s *scripted) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	n := len(s.bodies)
	s.bodies = append(s.bodies, string(data))
	s.mu.Unlock()

	if n >= len(s.statuses) {
		n = len(s.statuses) - 1
	}
	w.WriteHeader(s.statuses[n])
}

func (s *scripted) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int
	}{
		{"ok first time", []int{200}, 5, 200, 1},
		{"esearch throttled twice", []int{429, 429, 200}, 5, 200, 3},
		{"efetch outage", []int{503, 200}, 5, 200, 2},
		{"gives up after max retries", []int{429}, 3, 429, 4},
		{"default max retries", []int{503}, 0, 503, 6},
		{"server error not retried", []int{500, 200}, 5, 500, 1},
		{"bad request not retried", []int{400}, 5, 400, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &scripted{statuses: tt.statuses}
			ts := httptest.NewServer(srv)
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL+"/esearch.fcgi?db=pubmed", nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries, zaptest.NewLogger(t))
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, srv.calls())
		})
	}
}

func TestDoWithRetryReplaysFormBody(t *testing.T) {
	srv := &scripted{statuses: []int{429, 503, 200}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	form := "db=pubmed&id=38012345%2C38012346&retmode=xml"
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/efetch.fcgi", strings.NewReader(form))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{form, form, form}, srv.bodies)
}

func TestDoWithRetryBodyNotReplayable(t *testing.T) {
	srv := &scripted{statuses: []int{429, 200}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL, io.NopCloser(strings.NewReader("id=1")))
	require.NoError(t, err)
	require.Nil(t, req.GetBody)

	_, err = DoWithRetry(context.Background(), ts.Client(), req, 5, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "not replayable")
	assert.Equal(t, 1, srv.calls())
}

func TestDoWithRetryCancelledDuringBackoff(t *testing.T) {
	srv := &scripted{statuses: []int{429}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, srv.calls())
}

func TestRetryable(t *testing.T) {
	for status, want := range map[int]bool{
		http.StatusTooManyRequests:     true,
		http.StatusServiceUnavailable:  true,
		http.StatusOK:                  false,
		http.StatusInternalServerError: false,
		http.StatusBadGateway:          false,
	} {
		assert.Equal(t, want, Retryable(status), "status %d", status)
	}
}
