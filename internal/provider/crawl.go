// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// duckDuckGoURL is the HTML search endpoint. Declared as a var so tests can
// substitute an httptest server.
var duckDuckGoURL = "https://html.duckduckgo.com/html/"

const defaultMaxPageBytes = 512 << 10

// Crawl searches DuckDuckGo's HTML endpoint and fetches pages directly.
// Search returns snippets only; page text comes from Scrape so callers can
// account for every page download. Searches are spaced at least
// MinInterval apart across all goroutines sharing a Crawl.
type Crawl struct {
	Client       *http.Client
	Config       types.HTTPConfig
	Endpoint     string // defaults to the DuckDuckGo HTML endpoint
	MaxPageBytes int64
	MinInterval  time.Duration

	mu   sync.Mutex
	next time.Time
}

// Name returns the strategy identifier.
func (c *Crawl) Name() string { return "crawl" }

// Search returns up to limit DuckDuckGo results in page order.
func (c *Crawl) Search(ctx context.Context, phrase string, limit int) ([]Result, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	form := url.Values{"q": {phrase}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setHeaders(req)

	resp, err := httputil.DoWithRetry(ctx, c.client(), req, 0)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned HTTP %d", resp.StatusCode)
	}

	results, err := parseDuckDuckGo(io.LimitReader(resp.Body, c.maxBytes()), limit)
	if err != nil {
		return nil, fmt.Errorf("parsing duckduckgo results: %w", err)
	}

	return results, nil
}

func (c *Crawl) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return duckDuckGoURL
}

// Scrape downloads a page and returns its visible text.
func (c *Crawl) Scrape(ctx context.Context, pageURL string) (string, error) {
	return c.fetch(ctx, pageURL)
}

func (c *Crawl) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := httputil.DoWithRetry(ctx, c.client(), req, 1)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP %d", pageURL, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, c.maxBytes())
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch {
	case mediaType == "" || strings.Contains(mediaType, "html"):
		_, text, err := extractText(body)
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", pageURL, err)
		}
		return text, nil
	case strings.HasPrefix(mediaType, "text/"):
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", pageURL, err)
		}
		return collapseLines(string(data)), nil
	default:
		return "", fmt.Errorf("fetching %s: unsupported content type %s", pageURL, mediaType)
	}
}

// throttle reserves the next search slot and waits for it.
func (c *Crawl) throttle(ctx context.Context) error {
	if c.MinInterval <= 0 {
		return nil
	}
	c.mu.Lock()
	now := time.Now()
	slot := c.next
	if slot.Before(now) {
		slot = now
	}
	c.next = slot.Add(c.MinInterval)
	c.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Crawl) setHeaders(req *http.Request) {
	ua := c.Config.UserAgent
	if ua == "" {
		ua = "research-agent/0.1"
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")
}

func (c *Crawl) maxBytes() int64 {
	if c.MaxPageBytes > 0 {
		return c.MaxPageBytes
	}
	return defaultMaxPageBytes
}

func (c *Crawl) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return &http.Client{Timeout: c.Config.Timeout}
}
