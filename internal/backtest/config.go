// Package backtest replays a player's historical game log through the
// estimator without lookahead and simulates a paper-trading bankroll
// against synthesized lines at standard -110 odds.
package backtest

import (
	"fmt"

	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/predictor"
)

// ReplayConfig controls a historical replay run
type ReplayConfig struct {
	LookbackGames        int
	DecayFactor          float64
	InitialBankroll      float64
	StakeFraction        float64
	MinEdge              float64
	MonteCarloIterations int
	OutputPath           string
}

// FromConfig builds a replay config from the application configuration
func FromConfig(cfg *config.Config) (ReplayConfig, error) {
	if cfg == nil {
		return ReplayConfig{}, fmt.Errorf("configuration is required")
	}

	rc := ReplayConfig{
		LookbackGames:        cfg.Prediction.LookbackGames,
		DecayFactor:          cfg.Prediction.DecayFactor,
		InitialBankroll:      cfg.Backtest.InitialBankroll,
		StakeFraction:        cfg.Backtest.StakeFraction,
		MinEdge:              cfg.Backtest.MinEdge,
		MonteCarloIterations: cfg.Backtest.MonteCarloIterations,
		OutputPath:           cfg.Backtest.OutputPath,
	}

	return rc, rc.Validate()
}

// Validate validates replay config parameters
func (r ReplayConfig) Validate() error {
	if r.LookbackGames < predictor.MinLookbackGames || r.LookbackGames > predictor.MaxLookbackGames {
		return fmt.Errorf("lookback must be between %d and %d games", predictor.MinLookbackGames, predictor.MaxLookbackGames)
	}
	if r.DecayFactor <= 0 || r.DecayFactor > 1 {
		return fmt.Errorf("decay factor must be in (0,1]")
	}
	if r.InitialBankroll <= 0 {
		return fmt.Errorf("initial bankroll must be positive")
	}
	if r.StakeFraction <= 0 || r.StakeFraction > 1 {
		return fmt.Errorf("stake fraction must be in (0,1]")
	}
	if r.MinEdge < 0 {
		return fmt.Errorf("minimum edge cannot be negative")
	}
	if r.MonteCarloIterations <= 0 {
		return fmt.Errorf("monte carlo iterations must be positive")
	}
	return nil
}
