// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunCache(t *testing.T) {
	stub := &stubBackend{
		name:    "stub",
		results: results("https://a", "https://b"),
		pages:   map[string]string{"https://a": "page a"},
	}
	c := NewRunCache(Degrade(stub, nil))
	ctx := context.Background()

	first := c.Search(ctx, "q", 4)
	second := c.Search(ctx, "q", 4)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.searches))

	// a different limit is a different call
	c.Search(ctx, "q", 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.searches))

	for i := 0; i < 3; i++ {
		text, ok := c.Scrape(ctx, "https://a")
		assert.True(t, ok)
		assert.Equal(t, "page a", text)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.scrapes))

	for i := 0; i < 2; i++ {
		_, ok := c.Scrape(ctx, "https://dead")
		assert.False(t, ok)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.scrapes))
	assert.Equal(t, "stub", c.Name())
	assert.Equal(t, 4, c.Len())
}

func TestRunCache_CallerCannotMutateCachedResults(t *testing.T) {
	stub := &stubBackend{name: "stub", results: results("https://a")}
	c := NewRunCache(Degrade(stub, nil))

	got := c.Search(context.Background(), "q", 4)
	got[0].URL = "mutated"

	again := c.Search(context.Background(), "q", 4)
	assert.Equal(t, "https://a", again[0].URL)
}

func TestRunCache_Cached(t *testing.T) {
	stub := &stubBackend{name: "stub", pages: map[string]string{"https://a": "page a"}}
	c := NewRunCache(Degrade(stub, nil))
	ctx := context.Background()

	_, _, hit := c.Cached("https://a")
	assert.False(t, hit)

	c.Scrape(ctx, "https://a")
	c.Scrape(ctx, "https://dead")

	text, ok, hit := c.Cached("https://a/")
	assert.True(t, hit)
	assert.True(t, ok)
	assert.Equal(t, "page a", text)

	_, ok, hit = c.Cached("https://dead")
	assert.True(t, hit)
	assert.False(t, ok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.scrapes))
}

func TestRunCache_ScrapeAll(t *testing.T) {
	stub := &stubBackend{name: "stub", pages: map[string]string{
		"https://a": "page a",
		"https://c": "page c",
	}}
	c := NewRunCache(Degrade(stub, nil))

	got := c.ScrapeAll(context.Background(), []string{"https://a", "https://b", "https://c"}, 2)
	assert.Equal(t, []string{"page a", "", "page c"}, got)
	assert.Equal(t, int32(3), atomic.LoadInt32(&stub.scrapes))

	again := c.ScrapeAll(context.Background(), []string{"https://c"}, 0)
	assert.Equal(t, []string{"page c"}, again)
	assert.Equal(t, int32(3), atomic.LoadInt32(&stub.scrapes))
}
