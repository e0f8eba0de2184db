// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"regexp"
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

var searchSuffix = map[types.Category]string{
	types.CategoryDeveloperTools: "tools comparison best alternatives",
	types.CategoryProduct:        "product review comparison",
	types.CategoryEducational:    "university college institution",
	types.CategoryFinancial:      "stock investment analysis",
	types.CategoryTechnical:      "API documentation technical",
	types.CategoryIndustry:       "industry market analysis",
	types.CategoryMarket:         "market analysis companies competitors",
	types.CategoryGeneral:        "information facts details",
}

var lookupSuffix = map[types.Category]string{
	types.CategoryDeveloperTools: "official site",
	types.CategoryProduct:        "review specifications",
	types.CategoryEducational:    "admissions ranking tuition",
	types.CategoryFinancial:      "stock financial performance",
	types.CategoryTechnical:      "API documentation",
	types.CategoryIndustry:       "industry analysis market trends",
	types.CategoryMarket:         "company profile financial",
}

// Tickers is the set of symbols that switch a financial search to a
// symbol-specific phrase.
var Tickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META"}

var tickerPattern = regexp.MustCompile(`\b(` + strings.Join(Tickers, "|") + `)\b`)

// FindTickers returns known ticker symbols written in upper case in text,
// in order of appearance and without repeats.
func FindTickers(text string) []string {
	var found []string
	seen := map[string]bool{}
	for _, m := range tickerPattern.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			found = append(found, m)
		}
	}
	return found
}

// SearchPhrase builds the acquisition search for a classified query: the
// model's keywords (or the refined query) plus the category suffix.
func SearchPhrase(q types.ResearchQuery) string {
	if q.Category == types.CategoryFinancial {
		if t := FindTickers(q.Original); len(t) > 0 {
			return strings.Join(t, " ") + " stock price analysis financial"
		}
	}
	base := strings.TrimSpace(q.Hints.Keywords)
	if base == "" {
		base = q.Text()
	}
	if suffix := searchSuffix[q.Category]; suffix != "" {
		return base + " " + suffix
	}
	return base
}

// SearchLimit is the number of acquisition results requested for c.
func SearchLimit(c types.Category) int {
	if c == types.CategoryMarket {
		return 2
	}
	return 4
}

// LookupPhrase is the per-entity search used before analysis.
func LookupPhrase(c types.Category, name string) string {
	if suffix := lookupSuffix[c]; suffix != "" {
		return name + " " + suffix
	}
	return name
}
