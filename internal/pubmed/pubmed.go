// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is a small client for the NCBI E-utilities endpoints the
// pipeline needs: ESearch to list article IDs of a journal in a date range
// and EFetch to download the records as XML.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-pipeline/internal/httputil"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// DefaultBaseURL is the public E-utilities root.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const (
	defaultRetMax = 1000
	defaultTool   = "PaperPipeline"
)

// Client talks to E-utilities. The zero value is not usable; use New.
type Client struct {
	http *http.Client
	cfg  types.PubMedConfig
	log  *zap.Logger
}

// New returns a client for cfg. Empty fields fall back to the public
// endpoint, tool name "PaperPipeline" and retmax 1000.
func New(client *http.Client, cfg types.PubMedConfig, log *zap.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Tool == "" {
		cfg.Tool = defaultTool
	}
	if cfg.RetMax <= 0 {
		cfg.RetMax = defaultRetMax
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{http: client, cfg: cfg, log: log.Named("pubmed")}
}

// esearchResponse is the JSON shape of an ESearch reply.
type esearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// SearchTerm builds the ESearch term for one journal and publication window.
func SearchTerm(journal string, rng types.DateRange) string {
	return fmt.Sprintf(`"%s"[Journal] AND ("%s"[Date - Publication] : "%s"[Date - Publication])`,
		journal, rng.StartString(), rng.EndString())
}

// Search returns the PMIDs of articles published in journal within rng.
func (c *Client) Search(ctx context.Context, journal string, rng types.DateRange) ([]string, error) {
	params := c.baseParams()
	params.Set("term", SearchTerm(journal, rng))
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(c.cfg.RetMax))

	endpoint := c.cfg.BaseURL + "/esearch.fcgi?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	log := c.log.With(zap.String("journal", journal))
	log.Debug("esearch", zap.String("url", req.URL.Redacted()))

	body, err := c.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("esearch for %s: %w", journal, err)
	}

	var out esearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing esearch response for %s: %w", journal, err)
	}

	log.Debug("esearch done", zap.Int("ids", len(out.Result.IDList)), zap.String("count", out.Result.Count))
	return out.Result.IDList, nil
}

// Fetch downloads the records for ids as EFetch XML. The IDs are posted as
// a form so long lists do not hit URL length limits. No IDs means no request
// and a nil result.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	form := c.baseParams()
	form.Set("id", strings.Join(ids, ","))
	form.Set("retmode", "xml")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/efetch.fcgi", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.log.Debug("efetch", zap.Int("ids", len(ids)))

	body, err := c.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("efetch of %d ids: %w", len(ids), err)
	}
	return body, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("tool", c.cfg.Tool)
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	return params
}

func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries, c.log)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("E-utilities returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
