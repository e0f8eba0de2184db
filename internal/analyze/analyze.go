// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze holds the per-category analysis variants, the routing
// table that selects them, document notes and the final synthesis call.
// Every inference failure degrades to a documented fallback value.
package analyze

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/internal/logging"
	"github.com/pdiddy/research-agent/pkg/types"
)

// FailedDescription marks a record whose analysis call failed.
const FailedDescription = "Analysis failed"

// DefaultMaxChars bounds the content sent with each analysis call.
const DefaultMaxChars = 2000

// VariantID names one analysis variant.
type VariantID string

const (
	VariantDeveloperTools VariantID = "developer_tools_analysis"
	VariantProduct        VariantID = "product_analysis"
	VariantEducational    VariantID = "educational_analysis"
	VariantFinancial      VariantID = "financial_analysis"
	VariantTechnical      VariantID = "technical_analysis"
	VariantIndustry       VariantID = "industry_analysis"
	VariantMarket         VariantID = "market_analysis"
	VariantGeneral        VariantID = "general_analysis"
)

// Route selects the variant for a category. Every enumerated category has
// exactly one variant; values outside the enumeration route to general.
func Route(c types.Category) VariantID {
	switch c {
	case types.CategoryDeveloperTools:
		return VariantDeveloperTools
	case types.CategoryProduct:
		return VariantProduct
	case types.CategoryEducational:
		return VariantEducational
	case types.CategoryFinancial:
		return VariantFinancial
	case types.CategoryTechnical:
		return VariantTechnical
	case types.CategoryIndustry:
		return VariantIndustry
	case types.CategoryMarket:
		return VariantMarket
	case types.CategoryGeneral:
		return VariantGeneral
	}
	return VariantGeneral
}

// Variant analyzes one entity for one category.
type Variant interface {
	ID() VariantID
	// Keys lists the record's field keys in order.
	Keys() []string
	// Analyze never fails: an inference error yields a record whose
	// description is FailedDescription and whose fields are all Unknown.
	Analyze(ctx context.Context, name string, src types.ContentItem) types.EntityRecord
}

// MarketAnalyzer is implemented by variants that also produce market-level
// insights. A nil result means the insights call failed.
type MarketAnalyzer interface {
	AnalyzeMarket(ctx context.Context, query, content string) *types.MarketInsights
}

// SyntheticEntity is implemented by variants that stand in a single record
// for the whole query when no entities were analyzed.
type SyntheticEntity interface {
	Synthetic(query string) types.EntityRecord
}

// Analyzer builds variants bound to one inference backend.
type Analyzer struct {
	Backend  inference.Backend
	Log      *zap.Logger
	MaxChars int
}

// New returns an Analyzer; a nil logger discards output.
func New(b inference.Backend, log *zap.Logger) *Analyzer {
	return &Analyzer{Backend: b, Log: logging.OrNop(log), MaxChars: DefaultMaxChars}
}

// For returns the variant routed to from c.
func (a *Analyzer) For(c types.Category) Variant {
	return a.variant(Route(c))
}

func (a *Analyzer) variant(id VariantID) Variant {
	switch id {
	case VariantDeveloperTools:
		return &devToolsVariant{a: a}
	case VariantMarket:
		return &marketVariant{a: a}
	case VariantIndustry:
		return &insightVariant{fieldVariant: a.fields(industrySchema)}
	case VariantGeneral:
		return &generalVariant{fieldVariant: a.fields(generalSchema)}
	case VariantProduct:
		return a.fields(productSchema)
	case VariantEducational:
		return a.fields(educationalSchema)
	case VariantFinancial:
		return a.fields(financialSchema)
	case VariantTechnical:
		return a.fields(technicalSchema)
	}
	return &generalVariant{fieldVariant: a.fields(generalSchema)}
}

func (a *Analyzer) log() *zap.Logger { return logging.OrNop(a.Log) }

func (a *Analyzer) clip(s string) string {
	n := a.MaxChars
	if n <= 0 {
		n = DefaultMaxChars
	}
	return Truncate(s, n)
}

// Truncate cuts s to at most n bytes on a rune boundary.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// failedRecord is the uniform degraded record for any variant.
func failedRecord(name string, c types.Category, src types.ContentItem, keys []string) types.EntityRecord {
	fields := make([]types.Field, len(keys))
	for i, k := range keys {
		fields[i] = types.Field{Key: k, Value: types.Unknown}
	}
	return types.EntityRecord{
		Name:        name,
		Category:    c,
		Description: FailedDescription,
		Website:     src.URL,
		Fields:      fields,
	}
}

// orUnknown returns v, or Unknown when v is blank.
func orUnknown(v string) string {
	if v == "" {
		return types.Unknown
	}
	return v
}

// describe falls back to the first characters of the content.
func describe(desc string, src types.ContentItem) string {
	if desc != "" {
		return desc
	}
	if src.Text == "" {
		return "No description available"
	}
	return Truncate(src.Text, 200)
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
