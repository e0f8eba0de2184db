// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the research pipeline
// stages: the query and its classification, acquired content, candidate
// entities, stored documents, per-category entity records and the final
// research result.
package types

import (
	"errors"
	"strings"
)

// ErrEmptyQuery is returned when a research query is empty after trimming.
var ErrEmptyQuery = errors.New("research query is empty")

// Unknown is the sentinel value for record fields that could not be determined.
const Unknown = "Unknown"

// Category is the closed set of research types that drives routing.
type Category string

const (
	CategoryDeveloperTools Category = "developer_tools"
	CategoryProduct        Category = "product"
	CategoryEducational    Category = "educational"
	CategoryFinancial      Category = "financial"
	CategoryTechnical      Category = "technical"
	CategoryIndustry       Category = "industry"
	CategoryMarket         Category = "market"
	CategoryGeneral        Category = "general"
)

// Categories lists every category in a fixed order.
var Categories = []Category{
	CategoryDeveloperTools,
	CategoryProduct,
	CategoryEducational,
	CategoryFinancial,
	CategoryTechnical,
	CategoryIndustry,
	CategoryMarket,
	CategoryGeneral,
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// StrategyHints describes how a category is researched. The fixed part comes
// from the category table; the parsed part comes from the classifier response.
type StrategyHints struct {
	SearchApproach  string   `json:"search_approach,omitempty" yaml:"search_approach,omitempty"`
	AnalysisFocus   string   `json:"analysis_focus,omitempty" yaml:"analysis_focus,omitempty"`
	OutputFormat    string   `json:"output_format,omitempty" yaml:"output_format,omitempty"`
	PriorityMetrics []string `json:"priority_metrics,omitempty" yaml:"priority_metrics,omitempty"`

	ResearchFocus  string `json:"research_focus,omitempty" yaml:"research_focus,omitempty"`
	ExpectedOutput string `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`
	Keywords       string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	ContextNotes   string `json:"context_notes,omitempty" yaml:"context_notes,omitempty"`
}

// ResearchQuery is the immutable query value threaded through a run. Refined
// and Category are set once by the classifier via Classified.
type ResearchQuery struct {
	Original string        `json:"original" yaml:"original"`
	Refined  string        `json:"refined,omitempty" yaml:"refined,omitempty"`
	Category Category      `json:"category,omitempty" yaml:"category,omitempty"`
	Hints    StrategyHints `json:"hints" yaml:"hints"`
}

// NewResearchQuery validates text and returns an unclassified query.
func NewResearchQuery(text string) (ResearchQuery, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ResearchQuery{}, ErrEmptyQuery
	}
	return ResearchQuery{Original: text}, nil
}

// Classified returns a copy of q carrying the classification outcome. An
// empty refined text falls back to the original query.
func (q ResearchQuery) Classified(category Category, refined string, hints StrategyHints) ResearchQuery {
	if strings.TrimSpace(refined) == "" {
		refined = q.Original
	}
	q.Category = category
	q.Refined = refined
	q.Hints = hints
	return q
}

// Text returns the refined query when set, otherwise the original.
func (q ResearchQuery) Text() string {
	if q.Refined != "" {
		return q.Refined
	}
	return q.Original
}

// SourceKind identifies where a piece of acquired content came from.
type SourceKind string

const (
	SourceSearch SourceKind = "search"
	SourceScrape SourceKind = "scrape"
)

// ContentItem is one acquired (url, text) pair.
type ContentItem struct {
	URL   string     `json:"url" yaml:"url"`
	Title string     `json:"title,omitempty" yaml:"title,omitempty"`
	Text  string     `json:"text" yaml:"text"`
	Kind  SourceKind `json:"kind" yaml:"kind"`
}

// AcquiredContent is the ordered, capped batch of content produced during
// acquisition. It lives only for the duration of one run.
type AcquiredContent []ContentItem

// Joined concatenates all item texts separated by blank lines.
func (c AcquiredContent) Joined() string {
	parts := make([]string, 0, len(c))
	for _, item := range c {
		if item.Text != "" {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// CandidateEntity is a name extracted for per-entity analysis.
type CandidateEntity struct {
	Name  string `json:"name" yaml:"name"`
	Query string `json:"query" yaml:"query"`
}

// DocumentInfo is the listing metadata for a stored document.
type DocumentInfo struct {
	Key      string            `json:"key" yaml:"key"`
	Name     string            `json:"name" yaml:"name"`
	Size     int64             `json:"size" yaml:"size"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// StoredDocument is a document loaded from a document store. Score is set by
// a ranker for the active query and is never carried across queries.
type StoredDocument struct {
	Key   string   `json:"key" yaml:"key"`
	Name  string   `json:"name" yaml:"name"`
	Text  string   `json:"-" yaml:"-"`
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// WithScore returns a copy of d carrying score.
func (d StoredDocument) WithScore(score float64) StoredDocument {
	d.Score = &score
	return d
}

// ScoreValue returns the relevance score, or 0 when unscored.
func (d StoredDocument) ScoreValue() float64 {
	if d.Score == nil {
		return 0
	}
	return *d.Score
}

// Field is one named value of an entity record.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// EntityRecord is the structured result for one analyzed entity. Fields hold
// the category's schema in schema order; absent values are Unknown.
type EntityRecord struct {
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Website     string   `json:"website" yaml:"website"`
	Fields      []Field  `json:"fields" yaml:"fields"`
}

// Get returns the value stored under key, or Unknown.
func (r EntityRecord) Get(key string) string {
	for _, f := range r.Fields {
		if f.Key == key {
			if f.Value == "" {
				return Unknown
			}
			return f.Value
		}
	}
	return Unknown
}

// Has reports whether key is part of the record's schema.
func (r EntityRecord) Has(key string) bool {
	for _, f := range r.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// MarketInsights is the aggregate market-level view produced by the market
// and industry analyzers.
type MarketInsights struct {
	MarketSize            string   `json:"market_size" yaml:"market_size"`
	GrowthRate            string   `json:"growth_rate" yaml:"growth_rate"`
	KeyDrivers            []string `json:"key_drivers" yaml:"key_drivers"`
	MarketTrends          []string `json:"market_trends" yaml:"market_trends"`
	RegulatoryEnvironment string   `json:"regulatory_environment" yaml:"regulatory_environment"`
	CustomerSegments      []string `json:"customer_segments" yaml:"customer_segments"`
	DistributionChannels  []string `json:"distribution_channels" yaml:"distribution_channels"`
}

// DocumentNote summarizes one selected stored document.
type DocumentNote struct {
	Key              string   `json:"key" yaml:"key"`
	Name             string   `json:"name" yaml:"name"`
	Summary          string   `json:"summary" yaml:"summary"`
	KeyPoints        []string `json:"key_points,omitempty" yaml:"key_points,omitempty"`
	BusinessInsights []string `json:"business_insights,omitempty" yaml:"business_insights,omitempty"`
	Entities         []string `json:"entities,omitempty" yaml:"entities,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	RelevanceScore   float64  `json:"relevance_score" yaml:"relevance_score"`
}

// ResearchResult is the terminal artifact of a run.
type ResearchResult struct {
	Query         ResearchQuery   `json:"query" yaml:"query"`
	Category      Category        `json:"category" yaml:"category"`
	Sources       []string        `json:"sources,omitempty" yaml:"sources,omitempty"`
	Entities      []EntityRecord  `json:"entities" yaml:"entities"`
	Insights      *MarketInsights `json:"market_insights,omitempty" yaml:"market_insights,omitempty"`
	DocumentNotes []DocumentNote  `json:"document_notes,omitempty" yaml:"document_notes,omitempty"`
	NotesSummary  string          `json:"notes_summary,omitempty" yaml:"notes_summary,omitempty"`
	Analysis      string          `json:"analysis" yaml:"analysis"`
}
