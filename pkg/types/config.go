package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIBackendName selects the inference provider.
type AIBackendName string

const (
	AIBackendClaude AIBackendName = "claude"
	AIBackendGemini AIBackendName = "gemini"
)

// AIConfig holds settings for the inference capability.
type AIConfig struct {
	// Backend selects the inference provider: claude or gemini.
	Backend AIBackendName `json:"backend" yaml:"backend"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the inference API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout bounds a single inference call, retries included.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxTokens caps the response length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ProviderStrategy selects the content acquisition strategy.
type ProviderStrategy string

const (
	StrategyAPI     ProviderStrategy = "api"
	StrategyCrawl   ProviderStrategy = "crawl"
	StrategyScholar ProviderStrategy = "scholar"
	StrategyHybrid  ProviderStrategy = "hybrid"
)

// ProviderConfig holds settings for content acquisition.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// Strategy selects api, crawl, scholar or hybrid (api + crawl).
	Strategy ProviderStrategy `json:"strategy" yaml:"strategy"`

	// FirecrawlAPIKey authenticates the managed search/scrape API.
	FirecrawlAPIKey string `json:"firecrawl_api_key,omitempty" yaml:"firecrawl_api_key,omitempty"`

	// SemanticScholarAPIKey is optional and raises the scholar rate limit.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// Browser adds a headless browser scraper ahead of plain HTTP scraping.
	Browser bool `json:"browser" yaml:"browser"`

	// BrowserControlURL connects to an existing browser instead of launching one.
	BrowserControlURL string `json:"browser_control_url,omitempty" yaml:"browser_control_url,omitempty"`

	// MaxPageBytes caps the bytes read from a scraped page (default 512 KiB).
	MaxPageBytes int64 `json:"max_page_bytes" yaml:"max_page_bytes"`
}

// DocumentBackend selects the document store implementation.
type DocumentBackend string

const (
	DocumentsSQLite DocumentBackend = "sqlite"
	DocumentsDir    DocumentBackend = "dir"
)

// DocumentConfig holds settings for the document store and selection.
type DocumentConfig struct {
	// Backend selects sqlite or dir.
	Backend DocumentBackend `json:"backend" yaml:"backend"`

	// Path is the SQLite database file or the document directory.
	Path string `json:"path" yaml:"path"`

	// MinScore is the relevance threshold for automatic selection (default 0.3).
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// MaxSelected caps the number of documents analyzed per run (default 3).
	MaxSelected int `json:"max_selected" yaml:"max_selected"`
}

// OrchestratorConfig holds per-run limits enforced by the pipeline.
type OrchestratorConfig struct {
	// MaxSources caps the acquired content batch (default 4).
	MaxSources int `json:"max_sources" yaml:"max_sources"`

	// ScrapeBudget caps scrape calls per run across all stages (default 4).
	ScrapeBudget int `json:"scrape_budget" yaml:"scrape_budget"`

	// ScrapeWorkers bounds concurrent page scrapes during acquisition (default 4).
	ScrapeWorkers int `json:"scrape_workers" yaml:"scrape_workers"`

	// ContentChars truncates each acquired text (default 1500).
	ContentChars int `json:"content_chars" yaml:"content_chars"`

	// AnalysisChars truncates the content handed to an analyzer (default 2000).
	AnalysisChars int `json:"analysis_chars" yaml:"analysis_chars"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is a zap level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// File enables a rotated JSON log file in addition to the console.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	MaxSizeMB  int  `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int  `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int  `json:"max_age_days" yaml:"max_age_days"`
	Compress   bool `json:"compress" yaml:"compress"`
}

// TracingConfig holds OpenTelemetry export settings.
type TracingConfig struct {
	// Enabled installs an OTLP/HTTP exporter. OTEL_ENABLED=true also enables it.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Endpoint is the collector host:port (default localhost:4318).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Insecure sends spans over plain HTTP.
	Insecure bool `json:"insecure" yaml:"insecure"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	AI           AIConfig           `json:"ai" yaml:"ai"`
	Provider     ProviderConfig     `json:"provider" yaml:"provider"`
	Documents    DocumentConfig     `json:"documents" yaml:"documents"`
	Orchestrator OrchestratorConfig `json:"pipeline" yaml:"pipeline"`
	Log          LogConfig          `json:"log" yaml:"log"`
	Tracing      TracingConfig      `json:"tracing" yaml:"tracing"`
}

// DefaultPipelineConfig returns the configuration used when nothing is set.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		AI: AIConfig{
			Backend:    AIBackendClaude,
			Model:      "claude-sonnet-4-5-20250929",
			MaxRetries: 3,
			Timeout:    90 * time.Second,
			MaxTokens:  2048,
		},
		Provider: ProviderConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "research-agent/0.1",
			},
			Strategy:     StrategyHybrid,
			MaxPageBytes: 512 << 10,
		},
		Documents: DocumentConfig{
			Backend:     DocumentsSQLite,
			Path:        "data/documents.db",
			MinScore:    0.3,
			MaxSelected: 3,
		},
		Orchestrator: OrchestratorConfig{
			MaxSources:    4,
			ScrapeBudget:  4,
			ScrapeWorkers: 4,
			ContentChars:  1500,
			AnalysisChars: 2000,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Tracing: TracingConfig{
			Endpoint: "localhost:4318",
			Insecure: true,
		},
	}
}
