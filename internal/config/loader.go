// Package config provides configuration management for the PropEdge application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("PROPEDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers defaults for optional fields so a minimal config
// file still produces a runnable application.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "propedge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("stats_api.timeout_seconds", 30)
	v.SetDefault("stats_api.max_retries", 3)
	v.SetDefault("stats_api.rate_limit", 1.5)
	v.SetDefault("stats_api.enabled", true)

	v.SetDefault("prediction.lookback_games", 10)
	v.SetDefault("prediction.decay_factor", 0.9)
	v.SetDefault("prediction.league_avg_def_rating", 112.0)
	v.SetDefault("prediction.rating_cache_ttl_seconds", 3600)

	v.SetDefault("paper_trading.user_id", "default_user")
	v.SetDefault("paper_trading.starting_bankroll", 1000.0)
	v.SetDefault("paper_trading.min_parlay_probability", 0.05)
	v.SetDefault("paper_trading.kelly_fraction", 0.25)

	v.SetDefault("ingestion.max_games_per_player", 0)
	v.SetDefault("ingestion.defensive_refresh_cron", "0 6 * * *")
	v.SetDefault("ingestion.auto_resolve_cron", "30 6 * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("backtest.initial_bankroll", 1000.0)
	v.SetDefault("backtest.stake_fraction", 0.02)
	v.SetDefault("backtest.min_edge", 0.0)
	v.SetDefault("backtest.monte_carlo_iterations", 1000)
}
