// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "github.com/pdiddy/research-agent/pkg/types"

var strategies = map[types.Category]types.StrategyHints{
	types.CategoryDeveloperTools: {
		SearchApproach:  "Find developer tools, frameworks, and technical alternatives",
		AnalysisFocus:   "Technical capabilities, APIs, integrations, developer experience",
		OutputFormat:    "Tool comparison with technical specifications",
		PriorityMetrics: []string{"API availability", "Tech stack", "Language support", "Integration capabilities"},
	},
	types.CategoryProduct: {
		SearchApproach:  "Find product reviews, specifications, and consumer feedback",
		AnalysisFocus:   "Product features, value for money, user experience, alternatives",
		OutputFormat:    "Product analysis with purchase recommendations",
		PriorityMetrics: []string{"Price", "Features", "User ratings", "Value for money", "Alternatives"},
	},
	types.CategoryEducational: {
		SearchApproach:  "Find educational institutions, programs, and academic comparisons",
		AnalysisFocus:   "Academic reputation, program quality, admission requirements, career outcomes",
		OutputFormat:    "Educational institution comparison with recommendations",
		PriorityMetrics: []string{"Academic ranking", "Program quality", "Admission rate", "Career outcomes", "Cost"},
	},
	types.CategoryFinancial: {
		SearchApproach:  "Find financial data, market analysis, and investment information",
		AnalysisFocus:   "Financial performance, market trends, risk assessment, investment potential",
		OutputFormat:    "Financial analysis with investment recommendations",
		PriorityMetrics: []string{"Revenue", "Growth rate", "Market cap", "Risk factors", "Investment potential"},
	},
	types.CategoryTechnical: {
		SearchApproach:  "Find technical documentation, API docs, wikis, and technical specifications",
		AnalysisFocus:   "Technical implementation, API endpoints, system architecture, code structure",
		OutputFormat:    "Technical documentation analysis with implementation guidance",
		PriorityMetrics: []string{"API endpoints", "Authentication", "Data models", "Integration points", "Code examples"},
	},
	types.CategoryIndustry: {
		SearchApproach:  "Find industry trends, market data, and sector analysis",
		AnalysisFocus:   "Market size, growth trends, key players, industry dynamics",
		OutputFormat:    "Industry analysis with market insights",
		PriorityMetrics: []string{"Market size", "Growth rate", "Key players", "Trends", "Opportunities"},
	},
	types.CategoryMarket: {
		SearchApproach:  "Find companies, products, market information, and competitive analysis",
		AnalysisFocus:   "Market position, competitive advantages, financial metrics, consumer value",
		OutputFormat:    "Market analysis with recommendations",
		PriorityMetrics: []string{"Market position", "Competitive advantages", "Financial performance", "Consumer value"},
	},
	types.CategoryGeneral: {
		SearchApproach:  "Find authoritative general information on the topic",
		AnalysisFocus:   "Key facts, context, and practical takeaways",
		OutputFormat:    "Concise overview with actionable recommendations",
		PriorityMetrics: []string{"Key facts", "Sources", "Practical implications"},
	},
}

// HintsFor returns the fixed strategy hints for c. The returned value does
// not share its metric slice with the table.
func HintsFor(c types.Category) types.StrategyHints {
	h := strategies[c]
	h.PriorityMetrics = append([]string(nil), h.PriorityMetrics...)
	return h
}
