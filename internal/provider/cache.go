// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"strconv"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const defaultScrapeWorkers = 4

// RunCache memoizes a provider's searches and scrapes for the lifetime of
// one pipeline run. Entries never expire and no janitor goroutine runs; the
// cache is dropped with the run.
type RunCache struct {
	next  Provider
	items *cache.Cache
}

// NewRunCache wraps p with an empty cache.
func NewRunCache(p Provider) *RunCache {
	return &RunCache{next: p, items: cache.New(cache.NoExpiration, 0)}
}

// Name returns the wrapped provider's name.
func (r *RunCache) Name() string { return r.next.Name() }

// Search returns the cached result list for (phrase, limit) when present.
func (r *RunCache) Search(ctx context.Context, phrase string, limit int) []Result {
	key := "search:" + strconv.Itoa(limit) + ":" + phrase
	if v, ok := r.items.Get(key); ok {
		return append([]Result(nil), v.([]Result)...)
	}
	results := r.next.Search(ctx, phrase, limit)
	r.items.SetDefault(key, results)
	return append([]Result(nil), results...)
}

// Scrape returns the cached text for pageURL when present. Failed scrapes
// are cached too so a run never retries the same dead page.
func (r *RunCache) Scrape(ctx context.Context, pageURL string) (string, bool) {
	key := "scrape:" + NormalizeURL(pageURL)
	if v, ok := r.items.Get(key); ok {
		text := v.(string)
		return text, text != ""
	}
	text, ok := r.next.Scrape(ctx, pageURL)
	if !ok {
		text = ""
	}
	r.items.SetDefault(key, text)
	return text, ok
}

// Cached returns the stored outcome for pageURL without calling the
// provider. hit is false when the page was never scraped in this run.
func (r *RunCache) Cached(pageURL string) (text string, ok, hit bool) {
	v, hit := r.items.Get("scrape:" + NormalizeURL(pageURL))
	if !hit {
		return "", false, false
	}
	text = v.(string)
	return text, text != "", true
}

// ScrapeAll scrapes urls with at most workers calls in flight. texts[i]
// holds the page text for urls[i], or "" when that scrape failed.
func (r *RunCache) ScrapeAll(ctx context.Context, urls []string, workers int) []string {
	if workers <= 0 {
		workers = defaultScrapeWorkers
	}
	texts := make([]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, u := range urls {
		g.Go(func() error {
			texts[i], _ = r.Scrape(gctx, u)
			return nil
		})
	}
	g.Wait()
	return texts
}

// Len reports the number of cached entries.
func (r *RunCache) Len() int { return r.items.ItemCount() }
