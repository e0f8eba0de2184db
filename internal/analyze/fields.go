// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/pkg/types"
)

type fieldSpec struct {
	Key   string
	About string
}

// schema describes a key-value variant: the prompt wording and the ordered
// field keys of its records.
type schema struct {
	id       VariantID
	category types.Category
	system   string
	subject  string
	focus    string
	fields   []fieldSpec
}

var productSchema = schema{
	id:       VariantProduct,
	category: types.CategoryProduct,
	system:   "You are a product review analyst specializing in consumer products and gadgets. Focus on features, value for money, user experience, and alternatives.",
	subject:  "Product",
	focus:    "Focus on helping consumers make informed purchase decisions.",
	fields: []fieldSpec{
		{"price", "current price and value proposition"},
		{"rating", "user rating or expert score"},
		{"features", "key features and capabilities"},
		{"pros", "advantages and strengths"},
		{"cons", "disadvantages and limitations"},
		{"alternatives", "similar products to consider"},
		{"brand", "brand reputation and reliability"},
		{"warranty", "warranty and support information"},
	},
}

var educationalSchema = schema{
	id:       VariantEducational,
	category: types.CategoryEducational,
	system:   "You are an educational consultant specializing in university and program comparisons. Focus on academic quality, career outcomes, admission requirements, and value for money.",
	subject:  "Institution",
	focus:    "Focus on factors that help students make informed educational decisions.",
	fields: []fieldSpec{
		{"ranking", "academic ranking or reputation level"},
		{"admission_rate", "acceptance rate if mentioned"},
		{"cost", "tuition and fees"},
		{"location", "geographic location"},
		{"programs", "notable academic programs"},
		{"career_outcomes", "career prospects and outcomes"},
		{"faculty_quality", "quality of faculty and teaching"},
		{"research_opportunities", "research and internship opportunities"},
	},
}

var financialSchema = schema{
	id:       VariantFinancial,
	category: types.CategoryFinancial,
	system:   "You are a financial analyst specializing in investment analysis and market research. Focus on financial performance, risk assessment, and investment potential.",
	subject:  "Financial Instrument",
	focus:    "Focus on investment analysis and risk assessment.",
	fields: []fieldSpec{
		{"symbol", "trading symbol if applicable"},
		{"current_price", "current market price"},
		{"market_cap", "market capitalization"},
		{"pe_ratio", "price-to-earnings ratio"},
		{"dividend_yield", "dividend yield if applicable"},
		{"risk_level", "Low, Medium or High"},
		{"sector", "industry sector"},
		{"performance_history", "recent performance trends"},
		{"analyst_ratings", "analyst recommendations"},
	},
}

var technicalSchema = schema{
	id:       VariantTechnical,
	category: types.CategoryTechnical,
	system:   "You are a technical documentation analyst specializing in API documentation, code documentation, and technical specifications. Focus on implementation details and developer guidance.",
	subject:  "Technical Specification",
	focus:    "Focus on practical implementation guidance for developers.",
	fields: []fieldSpec{
		{"api_endpoints", "available API endpoints and methods"},
		{"authentication_methods", "authentication requirements"},
		{"sdk_availability", "SDK and library availability"},
		{"documentation_quality", "quality and completeness of docs"},
		{"code_examples", "implementation examples and patterns"},
		{"rate_limits", "rate limits or quotas"},
		{"best_practices", "recommended implementation approaches"},
	},
}

var industrySchema = schema{
	id:       VariantIndustry,
	category: types.CategoryIndustry,
	system:   "You are an industry analyst specializing in market research and sector analysis. Focus on market size, growth trends, key players, and industry dynamics.",
	subject:  "Industry Sector",
	focus:    "Focus on comprehensive industry analysis and market insights.",
	fields: []fieldSpec{
		{"market_size", "total market size and value"},
		{"growth_rate", "industry growth rate"},
		{"key_players", "major companies"},
		{"trends", "current industry trends"},
		{"opportunities", "market opportunities"},
		{"threats", "industry threats and challenges"},
		{"regulatory_environment", "regulatory factors"},
		{"technology_drivers", "technology trends driving the sector"},
	},
}

var generalSchema = schema{
	id:       VariantGeneral,
	category: types.CategoryGeneral,
	system:   "You are a comprehensive research specialist. Analyze the subject and provide well-structured research findings.",
	subject:  "Subject",
	focus:    "Focus on actionable, well-researched information.",
	fields: []fieldSpec{
		{"key_findings", "the main findings"},
		{"related_topics", "related entities or topics"},
		{"background", "context and background information"},
		{"conclusions", "conclusions or recommendations"},
	},
}

var fieldPromptTmpl = template.Must(template.New("fields").Parse(`{{.Subject}}: {{.Name}}
Content: {{.Content}}

Analyze this {{.Lower}} and reply with one "key: value" line per field:
- description: one sentence describing it
{{- range .Fields}}
- {{.Key}}: {{.About}}
{{- end}}

Write "Unknown" for any field the content does not cover. {{.Focus}}
`))

// fieldVariant asks for `key: value` lines and maps them onto its schema.
type fieldVariant struct {
	a *Analyzer
	s schema
}

func (a *Analyzer) fields(s schema) *fieldVariant {
	return &fieldVariant{a: a, s: s}
}

func (v *fieldVariant) ID() VariantID { return v.s.id }

func (v *fieldVariant) Keys() []string {
	keys := make([]string, len(v.s.fields))
	for i, f := range v.s.fields {
		keys[i] = f.Key
	}
	return keys
}

func (v *fieldVariant) Analyze(ctx context.Context, name string, src types.ContentItem) types.EntityRecord {
	var buf bytes.Buffer
	err := fieldPromptTmpl.Execute(&buf, map[string]any{
		"Subject": v.s.subject,
		"Lower":   lower(v.s.subject),
		"Name":    name,
		"Content": v.a.clip(src.Text),
		"Fields":  v.s.fields,
		"Focus":   v.s.focus,
	})
	if err != nil {
		v.a.log().Warn("rendering analysis prompt", zap.Error(err))
		return failedRecord(name, v.s.category, src, v.Keys())
	}

	reply, err := v.a.Backend.Invoke(ctx, v.s.system, buf.String())
	if err != nil {
		v.a.log().Warn("entity analysis failed",
			zap.String("variant", string(v.s.id)),
			zap.String("entity", name),
			zap.Error(err))
		return failedRecord(name, v.s.category, src, v.Keys())
	}

	parsed := inference.ParseFields(reply)
	fields := make([]types.Field, len(v.s.fields))
	for i, f := range v.s.fields {
		fields[i] = types.Field{Key: f.Key, Value: known(parsed[f.Key])}
	}
	return types.EntityRecord{
		Name:        name,
		Category:    v.s.category,
		Description: describe(knownOrEmpty(parsed["description"]), src),
		Website:     src.URL,
		Fields:      fields,
	}
}

// known maps blank and "unknown"-like answers onto the sentinel.
func known(v string) string {
	return orUnknown(knownOrEmpty(v))
}

func knownOrEmpty(v string) string {
	switch lower(v) {
	case "", "unknown", "n/a", "none", "not mentioned", "not available":
		return ""
	}
	return v
}

// generalVariant adds the synthetic whole-query record.
type generalVariant struct {
	*fieldVariant
}

func (g *generalVariant) Synthetic(query string) types.EntityRecord {
	rec := failedRecord(query, types.CategoryGeneral, types.ContentItem{}, g.Keys())
	rec.Description = "Research results for: " + query
	return rec
}

// insightVariant is a key-value variant that also produces market insights.
type insightVariant struct {
	*fieldVariant
}

func (v *insightVariant) AnalyzeMarket(ctx context.Context, query, content string) *types.MarketInsights {
	return v.a.marketInsights(ctx, query, content)
}
