// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/analyze"
	"github.com/pdiddy/research-agent/internal/docstore"
	"github.com/pdiddy/research-agent/internal/extract"
	"github.com/pdiddy/research-agent/internal/provider"
	"github.com/pdiddy/research-agent/pkg/types"
)

func (r *run) classify(ctx context.Context, s State) Update {
	q, err := r.o.classifier.Classify(ctx, s.Query.Original)
	if err != nil {
		// The query was validated before the run started.
		r.log.Warn("classifier rejected a validated query", zap.Error(err))
		q = s.Query.Classified(types.CategoryMarket, "", types.StrategyHints{})
	}
	r.log.Info("classified",
		zap.String("category", string(q.Category)),
		zap.String("refined", q.Refined))
	return Update{Query: &q}
}

func (r *run) acquire(ctx context.Context, s State) Update {
	cfg := r.o.cfg.Orchestrator
	limit := SearchLimit(s.Query.Category)
	if cfg.MaxSources > 0 {
		limit = min(limit, cfg.MaxSources)
	}
	phrase := SearchPhrase(s.Query)
	results := r.cache.Search(ctx, phrase, limit)

	titles := []string{}
	var urls []string
	claimed := map[string]bool{}
	for _, res := range results {
		if res.Title != "" {
			titles = append(titles, res.Title)
		}
		key := provider.NormalizeURL(res.URL)
		if res.URL == "" || claimed[key] {
			continue
		}
		if _, _, hit := r.cache.Cached(res.URL); hit || !r.budget.take() {
			continue
		}
		claimed[key] = true
		urls = append(urls, res.URL)
	}
	r.cache.ScrapeAll(ctx, urls, cfg.ScrapeWorkers)

	content := types.AcquiredContent{}
	for _, res := range results {
		item := searchItem(res)
		r.fromCache(&item)
		if cfg.ContentChars > 0 {
			item.Text = analyze.Truncate(item.Text, cfg.ContentChars)
		}
		if item.Text == "" {
			continue
		}
		content = append(content, item)
	}
	r.log.Info("content acquired",
		zap.String("phrase", phrase),
		zap.Int("results", len(results)),
		zap.Int("scraped", len(urls)),
		zap.Int("items", len(content)))
	return Update{Content: content, SearchTitles: titles}
}

func searchItem(res provider.Result) types.ContentItem {
	return types.ContentItem{URL: res.URL, Title: res.Title, Text: res.Text, Kind: types.SourceSearch}
}

// fromCache fills item from a page already scraped in this run.
func (r *run) fromCache(item *types.ContentItem) bool {
	if item.URL == "" {
		return false
	}
	text, ok, hit := r.cache.Cached(item.URL)
	if ok {
		item.Text = text
		item.Kind = types.SourceScrape
	}
	return hit
}

// fetch scrapes res when the page is not cached and budget remains, and
// falls back to the search text otherwise. Cache hits cost no budget.
func (r *run) fetch(ctx context.Context, res provider.Result) types.ContentItem {
	item := searchItem(res)
	if r.fromCache(&item) || res.URL == "" || !r.budget.take() {
		return item
	}
	if text, ok := r.cache.Scrape(ctx, res.URL); ok {
		item.Text = text
		item.Kind = types.SourceScrape
	}
	return item
}

func (r *run) selectDocuments(ctx context.Context, s State) Update {
	docs := r.documents(ctx, s.Query)
	notes := r.o.analyzer.Notes(ctx, s.Query.Original, docs)
	summary := analyze.NotesSummary(notes)
	r.log.Info("documents selected",
		zap.Bool("override", r.opts.override),
		zap.Int("documents", len(docs)))
	return Update{Documents: docs, DocumentNotes: notes, NotesSummary: &summary}
}

func (r *run) documents(ctx context.Context, q types.ResearchQuery) []types.StoredDocument {
	store := r.o.store
	if store == nil || (r.opts.override && len(r.opts.selected) == 0) {
		return []types.StoredDocument{}
	}
	if r.opts.override {
		docs, err := store.GetMany(ctx, r.opts.selected)
		if err != nil {
			r.log.Warn("loading selected documents failed", zap.Error(err))
			return []types.StoredDocument{}
		}
		return docs
	}

	dc := r.o.cfg.Documents
	docs, err := docstore.Relevant(ctx, store, r.o.ranker, q.Original, dc.MinScore, dc.MaxSelected)
	if err != nil {
		r.log.Warn("document relevance filter failed", zap.Error(err))
		return []types.StoredDocument{}
	}
	if docs == nil {
		docs = []types.StoredDocument{}
	}
	return docs
}

func (r *run) extractEntities(ctx context.Context, s State) Update {
	c := s.Query.Category
	entities := r.o.extractor.Extract(ctx, c, s.Content, s.Query.Original)
	if len(entities) == 0 {
		// Fall back to titles from a direct search on the query itself.
		var titles []string
		for _, res := range r.cache.Search(ctx, s.Query.Text(), extract.Cap(c)) {
			titles = append(titles, res.Title)
		}
		entities = extract.FromTitles(titles, c, s.Query.Original)
		r.log.Info("extraction empty, using search titles", zap.Int("entities", len(entities)))
	}
	if entities == nil {
		entities = []types.CandidateEntity{}
	}
	return Update{Entities: entities}
}

func (r *run) analyzeEntities(ctx context.Context, s State) Update {
	c := s.Query.Category
	v := r.o.analyzer.For(c)

	records := make([]types.EntityRecord, 0, len(s.Entities))
	for _, e := range s.Entities {
		src := r.lookup(ctx, c, e.Name, s.Content)
		records = append(records, v.Analyze(ctx, e.Name, src))
	}

	u := Update{}
	if ma, ok := v.(analyze.MarketAnalyzer); ok {
		u.Insights = ma.AnalyzeMarket(ctx, s.Query.Original, s.Content.Joined())
	}
	if se, ok := v.(analyze.SyntheticEntity); ok && len(records) == 0 {
		records = append(records, se.Synthetic(s.Query.Text()))
	}
	u.Records = records
	r.log.Info("domain analyzed",
		zap.String("variant", string(v.ID())),
		zap.Int("records", len(records)),
		zap.Bool("insights", u.Insights != nil))
	return u
}

// lookup finds per-entity content. Without a search hit the acquired
// content stands in.
func (r *run) lookup(ctx context.Context, c types.Category, name string, acquired types.AcquiredContent) types.ContentItem {
	results := r.cache.Search(ctx, LookupPhrase(c, name), 1)
	if len(results) == 0 {
		return types.ContentItem{Text: acquired.Joined(), Kind: types.SourceSearch}
	}
	return r.fetch(ctx, results[0])
}

func (r *run) synthesize(ctx context.Context, s State) Update {
	text := r.o.analyzer.Synthesize(ctx, s.Query, s.Records, s.Insights, s.NotesSummary)
	return Update{Analysis: &text}
}
