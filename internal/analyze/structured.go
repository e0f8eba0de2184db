// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/pkg/types"
)

// text accepts a JSON string, number, boolean or null.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(strings.TrimSpace(s))
		return nil
	}
	*t = text(data)
	return nil
}

// list accepts a JSON array of scalars or a single comma separated string.
type list []string

func (l *list) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it != "" {
				out = append(out, string(it))
			}
		}
		*l = out
		return nil
	}
	var s text
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = inference.SplitList(string(s))
	return nil
}

func (l list) String() string { return strings.Join(l, ", ") }

// flag renders an optional boolean answer.
type flag struct {
	set, v bool
}

func (f *flag) UnmarshalJSON(data []byte) error {
	var t text
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	b, err := strconv.ParseBool(strings.ToLower(string(t)))
	if err != nil {
		*f = flag{}
		return nil
	}
	*f = flag{set: true, v: b}
	return nil
}

func (f flag) String() string {
	if !f.set {
		return types.Unknown
	}
	return strconv.FormatBool(f.v)
}

var devToolsSchema = inference.Schema{
	Name: "developer_tool_analysis",
	Fields: []inference.SchemaField{
		{Name: "pricing_model", Type: "string", Description: `one of "Free", "Freemium", "Paid", "Enterprise", "Unknown"`},
		{Name: "is_open_source", Type: "boolean", Description: "true if open source, false if proprietary, null if unclear"},
		{Name: "tech_stack", Type: "array", Description: "languages, frameworks, databases or technologies supported or used"},
		{Name: "description", Type: "string", Description: "one sentence on what the tool does for developers"},
		{Name: "api_available", Type: "boolean", Description: "true if a REST API, GraphQL, SDK or programmatic access is mentioned"},
		{Name: "language_support", Type: "array", Description: "programming languages explicitly supported"},
		{Name: "integration_capabilities", Type: "array", Description: "tools or platforms it integrates with"},
	},
}

type devToolsReply struct {
	PricingModel            text `json:"pricing_model"`
	IsOpenSource            flag `json:"is_open_source"`
	TechStack               list `json:"tech_stack"`
	Description             text `json:"description"`
	APIAvailable            flag `json:"api_available"`
	LanguageSupport         list `json:"language_support"`
	IntegrationCapabilities list `json:"integration_capabilities"`
}

const devToolsSystem = "You are analyzing developer tools and programming technologies. Focus on information relevant to programmers: languages, frameworks, APIs, SDKs, and development workflows."

type devToolsVariant struct {
	a *Analyzer
}

func (v *devToolsVariant) ID() VariantID { return VariantDeveloperTools }

func (v *devToolsVariant) Keys() []string {
	return []string{"pricing_model", "is_open_source", "tech_stack", "api_available", "language_support", "integration_capabilities"}
}

func (v *devToolsVariant) Analyze(ctx context.Context, name string, src types.ContentItem) types.EntityRecord {
	prompt := fmt.Sprintf("Company/Tool: %s\nWebsite Content: %s\n\nAnalyze this content from a developer's perspective.\n",
		name, v.a.clip(src.Text))

	var r devToolsReply
	if err := v.a.Backend.InvokeStructured(ctx, devToolsSystem, prompt, devToolsSchema, &r); err != nil {
		v.a.log().Warn("developer tool analysis failed", zap.String("entity", name), zap.Error(err))
		return failedRecord(name, types.CategoryDeveloperTools, src, v.Keys())
	}

	return types.EntityRecord{
		Name:        name,
		Category:    types.CategoryDeveloperTools,
		Description: describe(knownOrEmpty(string(r.Description)), src),
		Website:     src.URL,
		Fields: []types.Field{
			{Key: "pricing_model", Value: known(string(r.PricingModel))},
			{Key: "is_open_source", Value: r.IsOpenSource.String()},
			{Key: "tech_stack", Value: orUnknown(r.TechStack.String())},
			{Key: "api_available", Value: r.APIAvailable.String()},
			{Key: "language_support", Value: orUnknown(r.LanguageSupport.String())},
			{Key: "integration_capabilities", Value: orUnknown(r.IntegrationCapabilities.String())},
		},
	}
}

var competitiveSchema = inference.Schema{
	Name: "competitive_analysis",
	Fields: []inference.SchemaField{
		{Name: "description", Type: "string", Description: "one sentence describing the entity"},
		{Name: "market_position", Type: "string", Description: `one of "leader", "challenger", "niche", "emerging", "unknown"`},
		{Name: "competitive_advantages", Type: "array", Description: "competitive advantages or strengths"},
		{Name: "weaknesses", Type: "array", Description: "weaknesses or areas of concern"},
		{Name: "market_opportunities", Type: "array", Description: "market opportunities or growth areas"},
		{Name: "threats", Type: "array", Description: "threats or challenges"},
		{Name: "key_competitors", Type: "array", Description: "main competitors"},
		{Name: "strategic_initiatives", Type: "array", Description: "strategic initiatives or recent moves"},
		{Name: "risk_factors", Type: "array", Description: "risk factors"},
	},
}

type competitiveReply struct {
	Description           text `json:"description"`
	MarketPosition        text `json:"market_position"`
	CompetitiveAdvantages list `json:"competitive_advantages"`
	Weaknesses            list `json:"weaknesses"`
	MarketOpportunities   list `json:"market_opportunities"`
	Threats               list `json:"threats"`
	KeyCompetitors        list `json:"key_competitors"`
	StrategicInitiatives  list `json:"strategic_initiatives"`
	RiskFactors           list `json:"risk_factors"`
}

var financialMetricsSchema = inference.Schema{
	Name: "financial_metrics",
	Fields: []inference.SchemaField{
		{Name: "revenue", Type: "string", Description: "revenue figures"},
		{Name: "revenue_growth", Type: "string", Description: "revenue growth rate"},
		{Name: "profit_margin", Type: "string", Description: "profit margin"},
		{Name: "market_cap", Type: "string", Description: "market capitalization"},
		{Name: "pe_ratio", Type: "string", Description: "price-to-earnings ratio"},
		{Name: "debt_to_equity", Type: "string", Description: "debt-to-equity ratio"},
		{Name: "cash_flow", Type: "string", Description: "cash flow information"},
	},
}

type financialReply struct {
	Revenue       text `json:"revenue"`
	RevenueGrowth text `json:"revenue_growth"`
	ProfitMargin  text `json:"profit_margin"`
	MarketCap     text `json:"market_cap"`
	PERatio       text `json:"pe_ratio"`
	DebtToEquity  text `json:"debt_to_equity"`
	CashFlow      text `json:"cash_flow"`
}

const (
	competitiveSystem = "You are a competitive intelligence analyst. Focus on market positioning, competitive advantages, and strategic analysis."
	financialSystem   = "You are a financial analyst specializing in company financial performance. Extract quantitative financial metrics and performance indicators."
)

// marketVariant runs a competitive and a financial call per entity.
type marketVariant struct {
	a *Analyzer
}

func (v *marketVariant) ID() VariantID { return VariantMarket }

func (v *marketVariant) Keys() []string {
	return []string{
		"market_position", "competitive_advantages", "weaknesses", "market_opportunities",
		"threats", "key_competitors", "strategic_initiatives", "risk_factors",
		"revenue", "revenue_growth", "profit_margin", "market_cap", "pe_ratio",
		"debt_to_equity", "cash_flow",
	}
}

func (v *marketVariant) Analyze(ctx context.Context, name string, src types.ContentItem) types.EntityRecord {
	content := v.a.clip(src.Text)

	var comp competitiveReply
	prompt := fmt.Sprintf("Entity: %s\nContent: %s\n\nAnalyze this content from a competitive intelligence perspective.\n", name, content)
	if err := v.a.Backend.InvokeStructured(ctx, competitiveSystem, prompt, competitiveSchema, &comp); err != nil {
		v.a.log().Warn("competitive analysis failed", zap.String("entity", name), zap.Error(err))
		return failedRecord(name, types.CategoryMarket, src, v.Keys())
	}

	var fin financialReply
	prompt = fmt.Sprintf("Entity: %s\nContent: %s\n\nExtract financial metrics and performance indicators.\n", name, content)
	if err := v.a.Backend.InvokeStructured(ctx, financialSystem, prompt, financialMetricsSchema, &fin); err != nil {
		v.a.log().Warn("financial analysis failed", zap.String("entity", name), zap.Error(err))
		return failedRecord(name, types.CategoryMarket, src, v.Keys())
	}

	values := []string{
		known(string(comp.MarketPosition)),
		comp.CompetitiveAdvantages.String(), comp.Weaknesses.String(), comp.MarketOpportunities.String(),
		comp.Threats.String(), comp.KeyCompetitors.String(), comp.StrategicInitiatives.String(),
		comp.RiskFactors.String(),
		string(fin.Revenue), string(fin.RevenueGrowth), string(fin.ProfitMargin), string(fin.MarketCap),
		string(fin.PERatio), string(fin.DebtToEquity), string(fin.CashFlow),
	}
	keys := v.Keys()
	fields := make([]types.Field, len(keys))
	for i, k := range keys {
		fields[i] = types.Field{Key: k, Value: known(values[i])}
	}
	return types.EntityRecord{
		Name:        name,
		Category:    types.CategoryMarket,
		Description: describe(knownOrEmpty(string(comp.Description)), src),
		Website:     src.URL,
		Fields:      fields,
	}
}

func (v *marketVariant) AnalyzeMarket(ctx context.Context, query, content string) *types.MarketInsights {
	return v.a.marketInsights(ctx, query, content)
}
