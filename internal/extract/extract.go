// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls candidate entity names out of acquired content with
// one inference call per run. Instructions differ per category; the output
// is one name per line.
package extract

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/internal/logging"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Cap returns the maximum number of candidates kept for c. Market analysis
// runs two structured calls per entity, so it keeps fewer.
func Cap(c types.Category) int {
	switch c {
	case types.CategoryMarket:
		return 2
	case types.CategoryDeveloperTools:
		return 4
	default:
		return 3
	}
}

type instruction struct {
	system string
	target string
	extra  string
}

var instructions = map[types.Category]instruction{
	types.CategoryDeveloperTools: {
		system: "You are a tech researcher. Extract specific tool, library, platform, or service names from articles. Focus on actual products developers can use, not general concepts or features.",
		target: "specific tool, library, platform, or service names",
		extra:  "Include both open source and commercial options.",
	},
	types.CategoryProduct: {
		system: "You are a product analyst. Extract product names and brands from articles.",
		target: "product names and brands",
	},
	types.CategoryEducational: {
		system: "You are an education researcher. Extract educational institutions from articles.",
		target: "universities, colleges and other academic institutions",
	},
	types.CategoryFinancial: {
		system: "You are a financial researcher. Extract financial instruments and companies from articles.",
		target: "stocks, funds and publicly traded companies",
		extra:  "If the query names a ticker symbol, list that instrument first.",
	},
	types.CategoryTechnical: {
		system: "You are a technical documentation researcher. Extract technical tools and APIs from articles.",
		target: "technical tools, APIs and specifications",
	},
	types.CategoryIndustry: {
		system: "You are an industry analyst. Extract industry sectors and market segments from articles.",
		target: "industries and sectors",
	},
	types.CategoryMarket: {
		system: "You are a market research analyst. Extract specific company, product, or market entity names from articles.",
		target: "companies, products or market entities",
		extra:  "Include both established and emerging players.",
	},
	types.CategoryGeneral: {
		system: "You are a content extraction specialist. Extract relevant entities from the provided content.",
		target: "relevant entities or topics",
	},
}

var extractPromptTmpl = template.Must(template.New("extract").Parse(`Research Query: {{.Query}}

Content:
{{.Content}}

List the {{.Target}} mentioned in this content that are relevant to "{{.Query}}".
Only include actual names, not generic terms. {{.Extra}}
Return at most {{.Limit}} names, one per line, with no numbering or descriptions.
`))

// Extractor turns content into candidate entities.
type Extractor struct {
	Backend inference.Backend
	Log     *zap.Logger
}

// New returns an Extractor; a nil logger discards output.
func New(b inference.Backend, log *zap.Logger) *Extractor {
	return &Extractor{Backend: b, Log: logging.OrNop(log)}
}

// Extract returns at most Cap(category) unique candidate names. Empty
// content, an inference error and an empty reply all return nil; the caller
// decides on the fallback.
func (e *Extractor) Extract(ctx context.Context, category types.Category, content types.AcquiredContent, query string) []types.CandidateEntity {
	log := logging.OrNop(e.Log)
	text := content.Joined()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	inst, ok := instructions[category]
	if !ok {
		inst = instructions[types.CategoryGeneral]
	}
	limit := Cap(category)

	var buf bytes.Buffer
	err := extractPromptTmpl.Execute(&buf, struct {
		Query, Content, Target, Extra string
		Limit                         int
	}{query, text, inst.target, inst.extra, limit})
	if err != nil {
		log.Warn("rendering extraction prompt", zap.Error(err))
		return nil
	}

	reply, err := e.Backend.Invoke(ctx, inst.system, buf.String())
	if err != nil {
		log.Warn("entity extraction failed", zap.String("category", string(category)), zap.Error(err))
		return nil
	}

	names := Names(reply, limit)
	out := make([]types.CandidateEntity, len(names))
	for i, n := range names {
		out[i] = types.CandidateEntity{Name: n, Query: query}
	}
	log.Debug("entities extracted", zap.Strings("names", names))
	return out
}

// Names parses one name per line: whitespace and list markers are trimmed,
// empty lines dropped, exact duplicates removed in first-seen order, and the
// result truncated to limit.
func Names(text string, limit int) []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		name := stripMarker(strings.TrimSpace(line))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if len(names) == limit {
			break
		}
	}
	return names
}

func stripMarker(s string) string {
	s = strings.TrimLeft(s, "-*• ")
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// FromTitles builds candidates from search result titles. It is the
// fallback when extraction yields nothing.
func FromTitles(titles []string, category types.Category, query string) []types.CandidateEntity {
	names := Names(strings.Join(titles, "\n"), Cap(category))
	out := make([]types.CandidateEntity, len(names))
	for i, n := range names {
		out[i] = types.CandidateEntity{Name: n, Query: query}
	}
	return out
}
