// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	insightsSystem = "You are a market research analyst specializing in industry analysis and market insights. Focus on market size, growth trends, key drivers, and market dynamics."

	// insightsMaxChars is larger than the per-entity limit because the
	// insights call sees all acquired content at once.
	insightsMaxChars = 3000
)

var insightsSchema = inference.Schema{
	Name: "market_insights",
	Fields: []inference.SchemaField{
		{Name: "market_size", Type: "string", Description: "market size if mentioned"},
		{Name: "growth_rate", Type: "string", Description: "growth rate if available"},
		{Name: "key_drivers", Type: "array", Description: "key market drivers"},
		{Name: "market_trends", Type: "array", Description: "market trends"},
		{Name: "regulatory_environment", Type: "string", Description: "regulatory environment if relevant"},
		{Name: "customer_segments", Type: "array", Description: "customer segments if mentioned"},
		{Name: "distribution_channels", Type: "array", Description: "distribution channels if relevant"},
	},
}

type insightsReply struct {
	MarketSize            text `json:"market_size"`
	GrowthRate            text `json:"growth_rate"`
	KeyDrivers            list `json:"key_drivers"`
	MarketTrends          list `json:"market_trends"`
	RegulatoryEnvironment text `json:"regulatory_environment"`
	CustomerSegments      list `json:"customer_segments"`
	DistributionChannels  list `json:"distribution_channels"`
}

// marketInsights returns nil when content is empty or the call fails.
func (a *Analyzer) marketInsights(ctx context.Context, query, content string) *types.MarketInsights {
	if content == "" {
		return nil
	}
	prompt := fmt.Sprintf("Market Query: %s\nContent: %s\n\nProvide market-level insights, not individual company analysis.\n",
		query, Truncate(content, insightsMaxChars))

	var r insightsReply
	if err := a.Backend.InvokeStructured(ctx, insightsSystem, prompt, insightsSchema, &r); err != nil {
		a.log().Warn("market insights failed", zap.Error(err))
		return nil
	}
	return &types.MarketInsights{
		MarketSize:            known(string(r.MarketSize)),
		GrowthRate:            known(string(r.GrowthRate)),
		KeyDrivers:            r.KeyDrivers,
		MarketTrends:          r.MarketTrends,
		RegulatoryEnvironment: known(string(r.RegulatoryEnvironment)),
		CustomerSegments:      r.CustomerSegments,
		DistributionChannels:  r.DistributionChannels,
	}
}
