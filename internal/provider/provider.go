// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider acquires external content for a research run. Concrete
// strategies (managed search API, DuckDuckGo crawl, Semantic Scholar,
// headless browser) implement Backend and may fail; Degrade adapts a Backend
// to Provider, which never fails. Composite merges several providers.
package provider

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-agent/internal/logging"
)

// ErrUnsupported is returned by a strategy that does not implement an operation.
var ErrUnsupported = errors.New("operation not supported by this provider")

// Result is one search hit: the page URL, its title and the raw text the
// strategy obtained for it (snippet, abstract or page markdown).
type Result struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Backend is a content acquisition strategy that reports its failures.
type Backend interface {
	Name() string
	Search(ctx context.Context, phrase string, limit int) ([]Result, error)
	Scrape(ctx context.Context, pageURL string) (string, error)
}

// Provider is the failure-free content capability consumed by the pipeline.
// Search returns at most limit results; Scrape reports false when no text
// could be obtained.
type Provider interface {
	Name() string
	Search(ctx context.Context, phrase string, limit int) []Result
	Scrape(ctx context.Context, pageURL string) (string, bool)
}

type degraded struct {
	backend Backend
	log     *zap.Logger
}

// Degrade wraps b so every error becomes an empty result, logged at warn.
func Degrade(b Backend, log *zap.Logger) Provider {
	return &degraded{backend: b, log: logging.OrNop(log).With(zap.String("provider", b.Name()))}
}

func (d *degraded) Name() string { return d.backend.Name() }

func (d *degraded) Search(ctx context.Context, phrase string, limit int) []Result {
	if limit <= 0 || strings.TrimSpace(phrase) == "" {
		return nil
	}
	results, err := d.backend.Search(ctx, phrase, limit)
	if err != nil {
		if !errors.Is(err, ErrUnsupported) {
			d.log.Warn("search failed", zap.String("phrase", phrase), zap.Error(err))
		}
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (d *degraded) Scrape(ctx context.Context, pageURL string) (string, bool) {
	if pageURL == "" {
		return "", false
	}
	text, err := d.backend.Scrape(ctx, pageURL)
	if err != nil {
		if !errors.Is(err, ErrUnsupported) {
			d.log.Warn("scrape failed", zap.String("url", pageURL), zap.Error(err))
		}
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

// OrEmpty returns p, or a provider that never returns content when p is nil.
func OrEmpty(p Provider) Provider {
	if p == nil {
		return NewComposite()
	}
	return p
}

// Composite queries several providers and merges their results.
type Composite struct {
	providers []Provider
}

// NewComposite returns a provider over ps, queried in the given order.
func NewComposite(ps ...Provider) *Composite {
	return &Composite{providers: ps}
}

// Name returns "hybrid(<sub-provider names>)".
func (c *Composite) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return "hybrid(" + strings.Join(names, ",") + ")"
}

// Search queries all sub-providers concurrently, concatenates their lists in
// provider order and removes duplicate URLs keeping the first occurrence.
func (c *Composite) Search(ctx context.Context, phrase string, limit int) []Result {
	if limit <= 0 {
		return nil
	}

	lists := make([][]Result, len(c.providers))
	var g errgroup.Group
	for i, p := range c.providers {
		g.Go(func() error {
			lists[i] = p.Search(ctx, phrase, limit)
			return nil
		})
	}
	g.Wait()

	var all []Result
	for _, l := range lists {
		all = append(all, l...)
	}
	merged := Dedup(all)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Scrape returns the text from the first sub-provider that yields any.
func (c *Composite) Scrape(ctx context.Context, pageURL string) (string, bool) {
	for _, p := range c.providers {
		if text, ok := p.Scrape(ctx, pageURL); ok {
			return text, true
		}
	}
	return "", false
}

// Dedup removes results whose normalized URL was already seen, preserving
// first-seen order. Results without a URL are dropped.
func Dedup(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		key := NormalizeURL(r.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// NormalizeURL lowercases scheme and host, drops the fragment and a trailing
// slash so trivially different spellings of one page compare equal.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	return u.String()
}
