// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields   = "title,abstract,url,year,tldr"
	semanticPaperURL = "https://www.semanticscholar.org/paper/"
)

// Scholar searches Semantic Scholar and returns abstracts as raw text. It
// suits technical and educational research; it cannot scrape.
type Scholar struct {
	Client *http.Client
	APIKey string
	Config types.HTTPConfig
}

// Name returns the strategy identifier.
func (s *Scholar) Name() string { return "semantic_scholar" }

// Search queries the paper search endpoint.
func (s *Scholar) Search(ctx context.Context, phrase string, limit int) ([]Result, error) {
	params := url.Values{
		"query":  {phrase},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.Config.UserAgent != "" {
		req.Header.Set("User-Agent", s.Config.UserAgent)
	}
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: s.Config.Timeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	results := make([]Result, 0, len(sr.Data))
	for _, paper := range sr.Data {
		link := paper.URL
		if link == "" && paper.PaperID != "" {
			link = semanticPaperURL + paper.PaperID
		}
		text := paper.Abstract
		if text == "" && paper.TLDR != nil {
			text = paper.TLDR.Text
		}
		results = append(results, Result{URL: link, Title: paper.Title, Text: text})
	}
	return results, nil
}

// Scrape is not offered by the paper search API.
func (s *Scholar) Scrape(context.Context, string) (string, error) {
	return "", ErrUnsupported
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID  string        `json:"paperId"`
	Title    string        `json:"title"`
	Abstract string        `json:"abstract"`
	URL      string        `json:"url"`
	Year     int           `json:"year"`
	TLDR     *semanticTLDR `json:"tldr"`
}

type semanticTLDR struct {
	Text string `json:"text"`
}
