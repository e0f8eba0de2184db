// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/logging"
	"github.com/pdiddy/research-agent/pkg/types"
)

// duckDuckGoInterval spaces crawl searches; the HTML endpoint throttles
// clients that exceed roughly one query per second.
const duckDuckGoInterval = time.Second

// Build assembles the provider selected by cfg. The returned close function
// releases browser resources and is safe to call when none were allocated.
func Build(cfg types.ProviderConfig, log *zap.Logger) (Provider, func() error, error) {
	log = logging.OrNop(log)
	client := &http.Client{Timeout: cfg.Timeout}
	noop := func() error { return nil }

	firecrawl := func() (Provider, error) {
		if cfg.FirecrawlAPIKey == "" {
			return nil, errors.New("api strategy requires a Firecrawl API key")
		}
		return Degrade(&Firecrawl{Client: client, APIKey: cfg.FirecrawlAPIKey, Config: cfg.HTTPConfig}, log), nil
	}
	crawl := Degrade(&Crawl{
		Client:       client,
		Config:       cfg.HTTPConfig,
		MaxPageBytes: cfg.MaxPageBytes,
		MinInterval:  duckDuckGoInterval,
	}, log)

	var parts []Provider
	switch cfg.Strategy {
	case types.StrategyAPI:
		p, err := firecrawl()
		if err != nil {
			return nil, noop, err
		}
		parts = append(parts, p)
	case types.StrategyCrawl:
		parts = append(parts, crawl)
	case types.StrategyScholar:
		parts = append(parts, Degrade(&Scholar{Client: client, APIKey: cfg.SemanticScholarAPIKey, Config: cfg.HTTPConfig}, log))
	case types.StrategyHybrid, "":
		if p, err := firecrawl(); err == nil {
			parts = append(parts, p)
		} else {
			log.Info("hybrid strategy without managed API", zap.Error(err))
		}
		parts = append(parts, crawl)
	default:
		return nil, noop, fmt.Errorf("unknown provider strategy %q", cfg.Strategy)
	}

	closeFn := noop
	if cfg.Browser {
		b := &Browser{ControlURL: cfg.BrowserControlURL, Timeout: cfg.Timeout}
		parts = append(parts, Degrade(b, log))
		closeFn = b.Close
	}

	if len(parts) == 1 {
		return parts[0], closeFn, nil
	}
	return NewComposite(parts...), closeFn, nil
}
