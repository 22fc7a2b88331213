package datasource

import (
	"log"
	"time"

	"github.com/yourusername/propedge/internal/config"
)

// NewFromConfig builds the configured stats source together with its
// rate-limited HTTP client.
func NewFromConfig(cfg *config.StatsAPIConfig, logger *log.Logger) (StatsSource, *RateLimitedHTTPClient) {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.MaxRetries > 0 {
		httpCfg.MaxRetries = cfg.MaxRetries
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}

	httpClient := NewRateLimitedHTTPClient(httpCfg, logger)
	source := NewNBAStatsClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Season, cfg.Enabled, logger)

	return source, httpClient
}
