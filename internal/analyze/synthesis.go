// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/pkg/types"
)

// FailedSynthesis is the analysis text when the synthesis call fails.
const FailedSynthesis = "Recommendation generation failed"

type guidance struct {
	system string
	label  string
	points []string
}

var synthesisGuidance = map[types.Category]guidance{
	types.CategoryDeveloperTools: {
		system: "You are a senior software engineer providing concise tech recommendations. Keep responses brief and actionable.",
		label:  "Developer Query",
		points: []string{"which tool is best and why", "the key cost or pricing consideration", "the main technical advantage"},
	},
	types.CategoryProduct: {
		system: "You are a consumer product advisor providing purchase recommendations. Consider value for money, features, user needs, and alternatives.",
		label:  "Product Query",
		points: []string{"best product for the use case", "value for money", "feature comparison with alternatives", "purchase timing and pricing advice", "potential issues"},
	},
	types.CategoryEducational: {
		system: "You are an educational advisor providing university and program recommendations. Consider academic fit, career goals, cost, and personal preferences.",
		label:  "Educational Query",
		points: []string{"best academic fit", "cost-benefit comparison", "career outcomes comparison", "admission strategy", "alternative options"},
	},
	types.CategoryFinancial: {
		system: "You are an investment advisor providing financial recommendations. Consider risk tolerance, investment goals, and market conditions.",
		label:  "Investment Query",
		points: []string{"best investment options", "risk assessment", "timeline and strategy", "portfolio allocation", "alternative investments"},
	},
	types.CategoryTechnical: {
		system: "You are a senior software engineer providing technical implementation guidance. Focus on integration patterns and best practices.",
		label:  "Technical Query",
		points: []string{"integration patterns", "authentication and security", "data model implementation", "error handling", "testing and deployment"},
	},
	types.CategoryIndustry: {
		system: "You are an industry consultant providing market insights and strategic recommendations.",
		label:  "Industry Query",
		points: []string{"market opportunities and entry strategies", "competitive positioning", "risk factors", "technology trends", "regulatory considerations"},
	},
	types.CategoryMarket: {
		system: "You are a senior market research analyst providing strategic market insights and recommendations.",
		label:  "Market Research Query",
		points: []string{"market opportunities and threats", "competitive positioning", "strategic recommendations", "key success factors and risks", "outlook"},
	},
	types.CategoryGeneral: {
		system: "You are a senior research analyst providing comprehensive recommendations from web research and document analysis.",
		label:  "Research Query",
		points: []string{"key findings", "best options", "trade-offs", "next steps"},
	},
}

var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`{{.Label}}: {{.Query}}
Research Data: {{.Data}}
{{- if .Notes}}
Document Insights:
{{.Notes}}
{{- end}}

Provide a recommendation covering:
{{- range .Points}}
- {{.}}
{{- end}}
`))

// Synthesize produces the final recommendation text with one inference
// call. Any failure yields FailedSynthesis.
func (a *Analyzer) Synthesize(ctx context.Context, q types.ResearchQuery, records []types.EntityRecord, insights *types.MarketInsights, notesSummary string) string {
	g, ok := synthesisGuidance[q.Category]
	if !ok {
		g = synthesisGuidance[types.CategoryGeneral]
	}

	data, err := json.Marshal(struct {
		Entities []types.EntityRecord  `json:"entities"`
		Insights *types.MarketInsights `json:"market_insights,omitempty"`
	}{records, insights})
	if err != nil {
		a.log().Warn("encoding synthesis input", zap.Error(err))
		return FailedSynthesis
	}

	var buf bytes.Buffer
	err = synthesisPromptTmpl.Execute(&buf, struct {
		Label, Query, Data, Notes string
		Points                    []string
	}{g.label, q.Original, string(data), notesSummary, g.points})
	if err != nil {
		a.log().Warn("rendering synthesis prompt", zap.Error(err))
		return FailedSynthesis
	}

	reply, err := a.Backend.Invoke(ctx, g.system, buf.String())
	if err != nil || strings.TrimSpace(reply) == "" {
		a.log().Warn("synthesis failed", zap.Error(err))
		return FailedSynthesis
	}
	return strings.TrimSpace(reply)
}
