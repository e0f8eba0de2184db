// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores documents against a query and selects the relevant
// subset. The Lexical ranker is a cheap term-overlap heuristic; any Ranker
// can replace it without changing callers.
package rank

import (
	"sort"
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

// Ranker assigns each document a relevance score in [0,1] for a query.
type Ranker interface {
	Score(query, text string) float64
}

// Lexical scores a document by the fraction of query terms that occur in it
// as case-insensitive substrings.
type Lexical struct{}

// Terms splits a query into lowercase whitespace-delimited terms.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Score returns matched terms over total terms, or 0 for an empty query.
func (Lexical) Score(query, text string) float64 {
	terms := Terms(query)
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return clip(float64(matched) / float64(len(terms)))
}

func clip(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Rank scores docs with r, keeps those scoring at least minScore and returns
// them sorted by descending score. Equal scores keep their input order.
// Scores from a previous query are always overwritten.
func Rank(r Ranker, docs []types.StoredDocument, query string, minScore float64) []types.StoredDocument {
	scored := make([]types.StoredDocument, 0, len(docs))
	for _, d := range docs {
		s := clip(r.Score(query, d.Text))
		if s < minScore {
			continue
		}
		scored = append(scored, d.WithScore(s))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ScoreValue() > scored[j].ScoreValue()
	})
	return scored
}

// Top returns at most n documents from ranked; n <= 0 keeps all.
func Top(ranked []types.StoredDocument, n int) []types.StoredDocument {
	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}
