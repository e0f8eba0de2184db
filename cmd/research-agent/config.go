// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/research-agent/internal/secrets"
	"github.com/pdiddy/research-agent/pkg/types"
)

// setDefaults registers every config key with its default so env variables
// such as RESEARCH_AGENT_PIPELINE_SCRAPE_BUDGET resolve without a file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()

	v.SetDefault("ai.backend", string(d.AI.Backend))
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)

	v.SetDefault("provider.strategy", string(d.Provider.Strategy))
	v.SetDefault("provider.timeout", d.Provider.Timeout)
	v.SetDefault("provider.user_agent", d.Provider.UserAgent)
	v.SetDefault("provider.browser", d.Provider.Browser)
	v.SetDefault("provider.browser_control_url", "")
	v.SetDefault("provider.max_page_bytes", d.Provider.MaxPageBytes)
	v.SetDefault("provider.firecrawl_api_key", "")
	v.SetDefault("provider.semantic_scholar_api_key", "")

	v.SetDefault("documents.backend", string(d.Documents.Backend))
	v.SetDefault("documents.path", d.Documents.Path)
	v.SetDefault("documents.min_score", d.Documents.MinScore)
	v.SetDefault("documents.max_selected", d.Documents.MaxSelected)

	v.SetDefault("pipeline.max_sources", d.Orchestrator.MaxSources)
	v.SetDefault("pipeline.scrape_budget", d.Orchestrator.ScrapeBudget)
	v.SetDefault("pipeline.scrape_workers", d.Orchestrator.ScrapeWorkers)
	v.SetDefault("pipeline.content_chars", d.Orchestrator.ContentChars)
	v.SetDefault("pipeline.analysis_chars", d.Orchestrator.AnalysisChars)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
}

// pipelineConfig reads the full configuration from v, resolving API keys
// through s (flag or config value, then environment, then .secrets/).
func pipelineConfig(v *viper.Viper, s secrets.Set) types.PipelineConfig {
	backend := types.AIBackendName(v.GetString("ai.backend"))
	aiKey := secrets.AnthropicAPIKey
	if backend == types.AIBackendGemini {
		aiKey = secrets.GeminiAPIKey
	}

	return types.PipelineConfig{
		AI: types.AIConfig{
			Backend:    backend,
			Model:      v.GetString("ai.model"),
			APIKey:     s.Resolve(aiKey, v.GetString("ai.api_key")),
			MaxRetries: v.GetInt("ai.max_retries"),
			Timeout:    v.GetDuration("ai.timeout"),
			MaxTokens:  v.GetInt("ai.max_tokens"),
		},
		Provider: types.ProviderConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("provider.timeout"),
				UserAgent: v.GetString("provider.user_agent"),
			},
			Strategy:              types.ProviderStrategy(v.GetString("provider.strategy")),
			FirecrawlAPIKey:       s.Resolve(secrets.FirecrawlAPIKey, v.GetString("provider.firecrawl_api_key")),
			SemanticScholarAPIKey: s.Resolve(secrets.SemanticScholarAPIKey, v.GetString("provider.semantic_scholar_api_key")),
			Browser:               v.GetBool("provider.browser"),
			BrowserControlURL:     v.GetString("provider.browser_control_url"),
			MaxPageBytes:          v.GetInt64("provider.max_page_bytes"),
		},
		Documents: types.DocumentConfig{
			Backend:     types.DocumentBackend(v.GetString("documents.backend")),
			Path:        v.GetString("documents.path"),
			MinScore:    v.GetFloat64("documents.min_score"),
			MaxSelected: v.GetInt("documents.max_selected"),
		},
		Orchestrator: types.OrchestratorConfig{
			MaxSources:    v.GetInt("pipeline.max_sources"),
			ScrapeBudget:  v.GetInt("pipeline.scrape_budget"),
			ScrapeWorkers: v.GetInt("pipeline.scrape_workers"),
			ContentChars:  v.GetInt("pipeline.content_chars"),
			AnalysisChars: v.GetInt("pipeline.analysis_chars"),
		},
		Log:     logConfig(v),
		Tracing: tracingConfig(v),
	}
}

func logConfig(v *viper.Viper) types.LogConfig {
	return types.LogConfig{
		Level:      v.GetString("log.level"),
		File:       v.GetString("log.file"),
		MaxSizeMB:  v.GetInt("log.max_size_mb"),
		MaxBackups: v.GetInt("log.max_backups"),
		MaxAgeDays: v.GetInt("log.max_age_days"),
		Compress:   v.GetBool("log.compress"),
	}
}

func tracingConfig(v *viper.Viper) types.TracingConfig {
	return types.TracingConfig{
		Enabled:  v.GetBool("tracing.enabled"),
		Endpoint: v.GetString("tracing.endpoint"),
		Insecure: v.GetBool("tracing.insecure"),
	}
}
