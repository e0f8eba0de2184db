// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-agent/internal/inference/inferencetest"
	"github.com/pdiddy/research-agent/pkg/types"
)

var src = types.ContentItem{URL: "https://asu.example", Text: "Arizona State University is a public research university in Tempe."}

func TestRoute_Total(t *testing.T) {
	a := New(&inferencetest.Scripted{}, nil)
	seen := map[VariantID]types.Category{}
	for _, c := range types.Categories {
		id := Route(c)
		require.NotEmpty(t, id, c)
		if prev, dup := seen[id]; dup {
			t.Fatalf("%s and %s share variant %s", prev, c, id)
		}
		seen[id] = c

		v := a.For(c)
		require.NotNil(t, v, c)
		assert.Equal(t, id, v.ID())
		assert.NotEmpty(t, v.Keys())
	}
	assert.Len(t, seen, len(types.Categories))
	assert.Equal(t, VariantGeneral, Route(types.Category("bogus")))
}

func TestRoute_Capabilities(t *testing.T) {
	a := New(&inferencetest.Scripted{}, nil)
	for _, c := range types.Categories {
		_, market := a.For(c).(MarketAnalyzer)
		assert.Equal(t, c == types.CategoryMarket || c == types.CategoryIndustry, market, c)
		_, synthetic := a.For(c).(SyntheticEntity)
		assert.Equal(t, c == types.CategoryGeneral, synthetic, c)
	}
}

func TestFieldVariant_Educational(t *testing.T) {
	stub := &inferencetest.Scripted{Rules: []inferencetest.Rule{{
		Match: "educational consultant",
		Reply: "Description: Large public university\nRanking: Top 100 nationally\nAdmission Rate: 88%\nCost: unknown\n- Location: Tempe, AZ",
	}}}
	rec := New(stub, nil).For(types.CategoryEducational).Analyze(context.Background(), "Arizona State University", src)

	assert.Equal(t, "Arizona State University", rec.Name)
	assert.Equal(t, types.CategoryEducational, rec.Category)
	assert.Equal(t, "Large public university", rec.Description)
	assert.Equal(t, "https://asu.example", rec.Website)
	assert.Equal(t, "Top 100 nationally", rec.Get("ranking"))
	assert.Equal(t, "88%", rec.Get("admission_rate"))
	assert.Equal(t, types.Unknown, rec.Get("cost"))
	assert.Equal(t, "Tempe, AZ", rec.Get("location"))
	assert.Equal(t, types.Unknown, rec.Get("faculty_quality"))
	for _, k := range []string{"ranking", "admission_rate", "cost"} {
		assert.True(t, rec.Has(k), k)
	}

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].User, "Institution: Arizona State University")
	assert.Contains(t, calls[0].User, "- admission_rate:")
	assert.False(t, calls[0].Structured)
}

func TestFieldVariant_TruncatesContent(t *testing.T) {
	stub := &inferencetest.Scripted{Default: "Price: $10"}
	a := New(stub, nil)
	a.MaxChars = 10
	long := types.ContentItem{Text: strings.Repeat("x", 50)}
	rec := a.For(types.CategoryProduct).Analyze(context.Background(), "Widget", long)

	assert.Equal(t, "$10", rec.Get("price"))
	assert.Contains(t, stub.Calls()[0].User, "Content: xxxxxxxxxx\n")
	assert.Equal(t, strings.Repeat("x", 50), rec.Description, "description falls back to content")
}

func TestVariants_FailureContract(t *testing.T) {
	stub := &inferencetest.Scripted{DefaultErr: errors.New("model overloaded")}
	a := New(stub, nil)
	for _, c := range types.Categories {
		v := a.For(c)
		rec := v.Analyze(context.Background(), "Thing", src)
		assert.Equal(t, FailedDescription, rec.Description, c)
		assert.Equal(t, "Thing", rec.Name)
		require.Len(t, rec.Fields, len(v.Keys()), c)
		for _, f := range rec.Fields {
			assert.Equal(t, types.Unknown, f.Value, "%s.%s", c, f.Key)
		}
	}
}

func TestDevToolsVariant(t *testing.T) {
	stub := &inferencetest.Scripted{Default: "```json\n" + `{
		"pricing_model": "Free",
		"is_open_source": true,
		"tech_stack": ["Python", "ASGI"],
		"description": "Async Python web framework",
		"api_available": null,
		"language_support": "Python",
		"integration_capabilities": []
	}` + "\n```"}
	rec := New(stub, nil).For(types.CategoryDeveloperTools).Analyze(context.Background(), "FastAPI", src)

	assert.Equal(t, "Async Python web framework", rec.Description)
	assert.Equal(t, "Free", rec.Get("pricing_model"))
	assert.Equal(t, "true", rec.Get("is_open_source"))
	assert.Equal(t, "Python, ASGI", rec.Get("tech_stack"))
	assert.Equal(t, types.Unknown, rec.Get("api_available"))
	assert.Equal(t, "Python", rec.Get("language_support"))
	assert.Equal(t, types.Unknown, rec.Get("integration_capabilities"))
	assert.True(t, stub.Calls()[0].Structured)
}

func TestDevToolsVariant_MalformedReply(t *testing.T) {
	stub := &inferencetest.Scripted{Default: "not json at all"}
	rec := New(stub, nil).For(types.CategoryDeveloperTools).Analyze(context.Background(), "FastAPI", src)
	assert.Equal(t, FailedDescription, rec.Description)
}

func TestMarketVariant(t *testing.T) {
	competitive := `{"description": "EV maker", "market_position": "leader", "competitive_advantages": ["brand", "scale"], "key_competitors": ["BYD"]}`
	financial := `{"revenue": "$97B", "pe_ratio": 60.5, "cash_flow": null}`

	t.Run("both calls succeed", func(t *testing.T) {
		stub := &inferencetest.Scripted{Rules: []inferencetest.Rule{
			{Match: "competitive intelligence", Reply: competitive},
			{Match: "financial analyst", Reply: financial},
		}}
		rec := New(stub, nil).For(types.CategoryMarket).Analyze(context.Background(), "Tesla", src)

		assert.Equal(t, "EV maker", rec.Description)
		assert.Equal(t, "leader", rec.Get("market_position"))
		assert.Equal(t, "brand, scale", rec.Get("competitive_advantages"))
		assert.Equal(t, "BYD", rec.Get("key_competitors"))
		assert.Equal(t, types.Unknown, rec.Get("weaknesses"))
		assert.Equal(t, "$97B", rec.Get("revenue"))
		assert.Equal(t, "60.5", rec.Get("pe_ratio"))
		assert.Equal(t, types.Unknown, rec.Get("cash_flow"))
		assert.Equal(t, 2, stub.CallCount())
	})

	t.Run("second call failure fails the record", func(t *testing.T) {
		stub := &inferencetest.Scripted{Rules: []inferencetest.Rule{
			{Match: "competitive intelligence", Reply: competitive},
			{Match: "financial analyst", Err: errors.New("timeout")},
		}}
		rec := New(stub, nil).For(types.CategoryMarket).Analyze(context.Background(), "Tesla", src)
		assert.Equal(t, FailedDescription, rec.Description)
		assert.Equal(t, types.Unknown, rec.Get("market_position"))
	})
}

func TestAnalyzeMarket(t *testing.T) {
	stub := &inferencetest.Scripted{Rules: []inferencetest.Rule{{
		Match: "market research analyst specializing in industry analysis",
		Reply: `{"market_size": "$500B", "growth_rate": 12.5, "key_drivers": ["policy", "battery cost"], "market_trends": "fast charging; solid state", "customer_segments": null}`,
	}}}
	ma := New(stub, nil).For(types.CategoryIndustry).(MarketAnalyzer)

	got := ma.AnalyzeMarket(context.Background(), "EV market", "content")
	require.NotNil(t, got)
	assert.Equal(t, "$500B", got.MarketSize)
	assert.Equal(t, "12.5", got.GrowthRate)
	assert.Equal(t, []string{"policy", "battery cost"}, got.KeyDrivers)
	assert.Equal(t, []string{"fast charging", "solid state"}, got.MarketTrends)
	assert.Equal(t, types.Unknown, got.RegulatoryEnvironment)
	assert.Empty(t, got.CustomerSegments)

	assert.Nil(t, ma.AnalyzeMarket(context.Background(), "EV market", ""))
	failing := New(&inferencetest.Scripted{DefaultErr: errors.New("x")}, nil).For(types.CategoryMarket).(MarketAnalyzer)
	assert.Nil(t, failing.AnalyzeMarket(context.Background(), "q", "content"))
}

func TestGeneralSynthetic(t *testing.T) {
	g := New(&inferencetest.Scripted{}, nil).For(types.CategoryGeneral).(SyntheticEntity)
	rec := g.Synthetic("weather in Paris")
	assert.Equal(t, "weather in Paris", rec.Name)
	assert.Equal(t, types.CategoryGeneral, rec.Category)
	assert.Equal(t, "Research results for: weather in Paris", rec.Description)
	assert.Equal(t, types.Unknown, rec.Get("key_findings"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "h", Truncate("hé", 2), "never splits a rune")
}
