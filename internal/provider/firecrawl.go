// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// firecrawlAPIBase is the Firecrawl v1 API root. Declared as a var so tests
// can substitute an httptest server.
var firecrawlAPIBase = "https://api.firecrawl.dev/v1"

// Firecrawl is the managed search-and-scrape API strategy.
type Firecrawl struct {
	Client *http.Client
	APIKey string
	Config types.HTTPConfig
}

// Name returns the strategy identifier.
func (f *Firecrawl) Name() string { return "firecrawl" }

type firecrawlSearchRequest struct {
	Query         string               `json:"query"`
	Limit         int                  `json:"limit"`
	ScrapeOptions *firecrawlScrapeOpts `json:"scrapeOptions,omitempty"`
}

type firecrawlScrapeOpts struct {
	Formats []string `json:"formats"`
}

type firecrawlSearchResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Data    []firecrawlResult `json:"data"`
}

type firecrawlResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
}

type firecrawlScrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type firecrawlScrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// Search runs a web search and asks the API to return page markdown with
// each hit.
func (f *Firecrawl) Search(ctx context.Context, phrase string, limit int) ([]Result, error) {
	var sr firecrawlSearchResponse
	err := f.post(ctx, "/search", firecrawlSearchRequest{
		Query:         phrase,
		Limit:         limit,
		ScrapeOptions: &firecrawlScrapeOpts{Formats: []string{"markdown"}},
	}, &sr)
	if err != nil {
		return nil, err
	}
	if !sr.Success {
		return nil, fmt.Errorf("firecrawl search: %s", sr.Error)
	}

	results := make([]Result, 0, len(sr.Data))
	for _, d := range sr.Data {
		text := d.Markdown
		if text == "" {
			text = d.Description
		}
		results = append(results, Result{URL: d.URL, Title: d.Title, Text: text})
	}
	return results, nil
}

// Scrape fetches one page as markdown.
func (f *Firecrawl) Scrape(ctx context.Context, pageURL string) (string, error) {
	var sr firecrawlScrapeResponse
	if err := f.post(ctx, "/scrape", firecrawlScrapeRequest{URL: pageURL, Formats: []string{"markdown"}}, &sr); err != nil {
		return "", err
	}
	if !sr.Success {
		return "", fmt.Errorf("firecrawl scrape: %s", sr.Error)
	}
	return sr.Data.Markdown, nil
}

func (f *Firecrawl) post(ctx context.Context, path string, body, out any) error {
	if f.APIKey == "" {
		return errors.New("firecrawl API key is not configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, firecrawlAPIBase+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.APIKey)
	if f.Config.UserAgent != "" {
		req.Header.Set("User-Agent", f.Config.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, f.client(), req, 0)
	if err != nil {
		return fmt.Errorf("firecrawl %s request: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("firecrawl %s returned HTTP %d: %s", path, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing firecrawl %s response: %w", path, err)
	}
	return nil
}

func (f *Firecrawl) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: f.Config.Timeout}
}
