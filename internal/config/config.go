// Package config provides configuration management for the PropEdge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	StatsAPI     StatsAPIConfig     `mapstructure:"stats_api" validate:"required"`
	Prediction   PredictionConfig   `mapstructure:"prediction" validate:"required"`
	PaperTrading PaperTradingConfig `mapstructure:"paper_trading" validate:"required"`
	Ingestion    IngestionConfig    `mapstructure:"ingestion" validate:"required"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
	Health       HealthConfig       `mapstructure:"health"`
	Backtest     BacktestConfig     `mapstructure:"backtest"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// StatsAPIConfig represents the external stats provider configuration
type StatsAPIConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	Season         string  `mapstructure:"season" validate:"required"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	Enabled        bool    `mapstructure:"enabled"`
}

// PredictionConfig represents estimator tuning parameters
type PredictionConfig struct {
	LookbackGames       int     `mapstructure:"lookback_games" validate:"required,min=3,max=30"`
	DecayFactor         float64 `mapstructure:"decay_factor" validate:"required,gt=0,lte=1"`
	LeagueAvgDefRating  float64 `mapstructure:"league_avg_def_rating" validate:"required,gt=0"`
	RatingCacheTTLSecs  int     `mapstructure:"rating_cache_ttl_seconds" validate:"required,gt=0"`
}

// PaperTradingConfig represents ledger configuration
type PaperTradingConfig struct {
	UserID               string  `mapstructure:"user_id" validate:"required"`
	StartingBankroll     float64 `mapstructure:"starting_bankroll" validate:"required,gt=0"`
	MinParlayProbability float64 `mapstructure:"min_parlay_probability" validate:"gte=0,lte=1"`
	KellyFraction        float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	Players              []string `mapstructure:"players"`
	MaxGamesPerPlayer    int      `mapstructure:"max_games_per_player" validate:"gte=0"`
	DefensiveRefreshCron string   `mapstructure:"defensive_refresh_cron"`
	AutoResolveCron      string   `mapstructure:"auto_resolve_cron"`
}

// BacktestConfig represents historical replay configuration
type BacktestConfig struct {
	InitialBankroll      float64 `mapstructure:"initial_bankroll" validate:"omitempty,gt=0"`
	StakeFraction        float64 `mapstructure:"stake_fraction" validate:"omitempty,gt=0,lte=1"`
	MinEdge              float64 `mapstructure:"min_edge" validate:"gte=0"`
	MonteCarloIterations int     `mapstructure:"monte_carlo_iterations" validate:"omitempty,gt=0"`
	OutputPath           string  `mapstructure:"output_path"`
}

// MetricsConfig represents Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// HealthConfig represents health check server configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// GetDatabaseDSN returns a postgres connection string for the configured database
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
