// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/research-agent/internal/secrets"
	"github.com/pdiddy/research-agent/pkg/types"
)

func TestPipelineConfig_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("FIRECRAWL_API_KEY", "")
	t.Setenv("SEMANTIC_SCHOLAR_API_KEY", "")

	v := viper.New()
	setDefaults(v)
	got := pipelineConfig(v, secrets.Set{})

	assert.Equal(t, types.DefaultPipelineConfig(), got)
}

func TestPipelineConfig_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("FIRECRAWL_API_KEY", "")

	v := viper.New()
	setDefaults(v)
	v.Set("ai.backend", "gemini")
	v.Set("ai.timeout", "45s")
	v.Set("provider.strategy", "crawl")
	v.Set("documents.backend", "dir")
	v.Set("documents.min_score", 0.5)
	v.Set("pipeline.scrape_budget", 2)

	s := secrets.Set{secrets.GeminiAPIKey: "g-key", secrets.AnthropicAPIKey: "a-key", secrets.FirecrawlAPIKey: "fc"}
	got := pipelineConfig(v, s)

	assert.Equal(t, types.AIBackendGemini, got.AI.Backend)
	assert.Equal(t, "g-key", got.AI.APIKey)
	assert.Equal(t, 45*time.Second, got.AI.Timeout)
	assert.Equal(t, types.StrategyCrawl, got.Provider.Strategy)
	assert.Equal(t, "fc", got.Provider.FirecrawlAPIKey)
	assert.Equal(t, types.DocumentsDir, got.Documents.Backend)
	assert.Equal(t, 0.5, got.Documents.MinScore)
	assert.Equal(t, 2, got.Orchestrator.ScrapeBudget)
	assert.Equal(t, 4, got.Orchestrator.MaxSources)
}

func TestPipelineConfig_ExplicitKeyWins(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	v := viper.New()
	setDefaults(v)
	v.Set("ai.api_key", "from-config")
	got := pipelineConfig(v, secrets.Set{secrets.AnthropicAPIKey: "from-file"})
	assert.Equal(t, "from-config", got.AI.APIKey)

	v.Set("ai.api_key", "")
	got = pipelineConfig(v, secrets.Set{secrets.AnthropicAPIKey: "from-file"})
	assert.Equal(t, "from-env", got.AI.APIKey)
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, []string{}, nonEmpty(nil))
	assert.Equal(t, []string{}, nonEmpty([]string{"", "  "}))
	assert.Equal(t, []string{"a.md", "b.md"}, nonEmpty([]string{" a.md", "", "b.md"}))
}
