// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/paper-pipeline/internal/httputil"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

func testRange(t *testing.T) types.DateRange {
	t.Helper()
	rng, err := types.ParseDateRange("2024/01/01", "2024/01/31")
	require.NoError(t, err)
	return rng
}

func newTestClient(t *testing.T, srv *httptest.Server, cfg types.PubMedConfig) *Client {
	t.Helper()
	cfg.BaseURL = srv.URL + "/"
	return New(srv.Client(), cfg, zaptest.NewLogger(t))
}

func TestSearchTerm(t *testing.T) {
	got := SearchTerm("Nat Biotechnol", testRange(t))
	assert.Equal(t, `"Nat Biotechnol"[Journal] AND ("2024/01/01"[Date - Publication] : "2024/01/31"[Date - Publication])`, got)
}

func TestSearch(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/esearch.fcgi", r.URL.Path)
		assert.Equal(t, "paper-pipeline/test", r.Header.Get("User-Agent"))
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"header":{"type":"esearch"},"esearchresult":{"count":"2","retmax":"2","idlist":["111","222"]}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "paper-pipeline/test"},
		Email:      "me@example.org",
		APIKey:     "secret",
	})

	ids, err := c.Search(context.Background(), "Cell Syst", testRange(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, ids)

	assert.Equal(t, "pubmed", query.Get("db"))
	assert.Equal(t, "json", query.Get("retmode"))
	assert.Equal(t, "1000", query.Get("retmax"))
	assert.Equal(t, "PaperPipeline", query.Get("tool"))
	assert.Equal(t, "me@example.org", query.Get("email"))
	assert.Equal(t, "secret", query.Get("api_key"))
	assert.Equal(t, SearchTerm("Cell Syst", testRange(t)), query.Get("term"))
}

func TestSearchOmitsOptionalParams(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		io.WriteString(w, `{"esearchresult":{"count":"0","idlist":[]}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.PubMedConfig{Tool: "custom", RetMax: 50})
	ids, err := c.Search(context.Background(), "Cell", testRange(t))
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.False(t, query.Has("email"))
	assert.False(t, query.Has("api_key"))
	assert.Equal(t, "custom", query.Get("tool"))
	assert.Equal(t, "50", query.Get("retmax"))
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad term", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.PubMedConfig{})
	_, err := c.Search(context.Background(), "Cell", testRange(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, err.Error(), "bad term")
}

func TestSearchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.PubMedConfig{})
	_, err := c.Search(context.Background(), "Cell", testRange(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing esearch response")
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/efetch.fcgi", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pubmed", r.PostForm.Get("db"))
		assert.Equal(t, "111,222,333", r.PostForm.Get("id"))
		assert.Equal(t, "xml", r.PostForm.Get("retmode"))
		io.WriteString(w, `<PubmedArticleSet></PubmedArticleSet>`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.PubMedConfig{})
	body, err := c.Fetch(context.Background(), []string{"111", "222", "333"})
	require.NoError(t, err)
	assert.Equal(t, `<PubmedArticleSet></PubmedArticleSet>`, string(body))
}

func TestFetchNoIDs(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.PubMedConfig{})
	body, err := c.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, body)
	assert.False(t, called)
}

func TestFetchRetriesThrottledPost(t *testing.T) {
	orig := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = orig }()

	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		ids = append(ids, r.PostForm.Get("id"))
		if len(ids) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `<PubmedArticleSet/>`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, types.PubMedConfig{HTTPConfig: types.HTTPConfig{MaxRetries: 3}})
	_, err := c.Fetch(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1,2", "1,2"}, ids)
}

func TestNewDefaults(t *testing.T) {
	c := New(nil, types.PubMedConfig{}, nil)
	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, "PaperPipeline", c.cfg.Tool)
	assert.Equal(t, 1000, c.cfg.RetMax)
	assert.NotNil(t, c.http)
	assert.NotNil(t, c.log)
}
