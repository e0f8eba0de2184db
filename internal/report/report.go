// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders research results for the terminal and persists
// them as YAML result files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/pkg/types"
)

// FormatMarkdown writes res as a markdown report: the recommendation first,
// then one section per entity, market insights, document notes and sources.
func FormatMarkdown(res types.ResearchResult, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", res.Query.Original)
	fmt.Fprintf(&b, "Category: %s\n", res.Category)
	if res.Query.Refined != "" && res.Query.Refined != res.Query.Original {
		fmt.Fprintf(&b, "Refined query: %s\n", res.Query.Refined)
	}

	b.WriteString("\n## Recommendation\n\n")
	b.WriteString(strings.TrimSpace(res.Analysis))
	b.WriteString("\n")

	if len(res.Entities) > 0 {
		b.WriteString("\n## Entities\n")
		for _, e := range res.Entities {
			fmt.Fprintf(&b, "\n### %s\n\n", e.Name)
			if e.Description != "" && e.Description != types.Unknown {
				fmt.Fprintf(&b, "%s\n\n", e.Description)
			}
			if e.Website != "" && e.Website != types.Unknown {
				fmt.Fprintf(&b, "- **website**: %s\n", e.Website)
			}
			for _, f := range e.Fields {
				fmt.Fprintf(&b, "- **%s**: %s\n", f.Key, e.Get(f.Key))
			}
		}
	}

	if mi := res.Insights; mi != nil {
		b.WriteString("\n## Market Insights\n\n")
		writeItem(&b, "Market size", mi.MarketSize)
		writeItem(&b, "Growth rate", mi.GrowthRate)
		writeList(&b, "Key drivers", mi.KeyDrivers)
		writeList(&b, "Trends", mi.MarketTrends)
		writeItem(&b, "Regulation", mi.RegulatoryEnvironment)
		writeList(&b, "Customer segments", mi.CustomerSegments)
		writeList(&b, "Distribution channels", mi.DistributionChannels)
	}

	if len(res.DocumentNotes) > 0 {
		b.WriteString("\n## Documents\n")
		for _, n := range res.DocumentNotes {
			fmt.Fprintf(&b, "\n### %s (relevance %.2f)\n\n%s\n", n.Name, n.RelevanceScore, n.Summary)
			for _, p := range n.KeyPoints {
				fmt.Fprintf(&b, "- %s\n", p)
			}
		}
	}

	if len(res.Sources) > 0 {
		b.WriteString("\n## Sources\n\n")
		for i, s := range res.Sources {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeItem(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- **%s**: %s\n", label, value)
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	writeItem(b, label, strings.Join(values, ", "))
}

// FormatJSON writes res as indented JSON.
func FormatJSON(res types.ResearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteFile saves res as YAML at path, creating parent directories.
func WriteFile(path string, res types.ResearchResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a result saved by WriteFile.
func ReadFile(path string) (types.ResearchResult, error) {
	var res types.ResearchResult
	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res, nil
}
