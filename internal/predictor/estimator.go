// Package predictor implements the recency-weighted performance estimator
// and the line evaluation math used by single bets and parlays.
package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/repository"
)

// Lookback window bounds. Requests outside the range are clamped.
const (
	MinLookbackGames = 3
	MaxLookbackGames = 30
)

// Estimate is a point estimate with its dispersion and the source rows it
// was computed from.
type Estimate struct {
	Prediction float64
	StdDev     float64
	Games      []*models.GameRecord
}

// Estimator produces performance estimates from a player's recent games
type Estimator struct {
	players repository.PlayerRepository
	games   repository.GameRepository
	teams   repository.TeamRepository
	ratings *RatingCache
	cfg     *config.PredictionConfig
	logger  *logrus.Logger
}

// NewEstimator creates an estimator backed by the given repositories
func NewEstimator(
	players repository.PlayerRepository,
	games repository.GameRepository,
	teams repository.TeamRepository,
	ratings *RatingCache,
	cfg *config.PredictionConfig,
	logger *logrus.Logger,
) *Estimator {
	return &Estimator{
		players: players,
		games:   games,
		teams:   teams,
		ratings: ratings,
		cfg:     cfg,
		logger:  logger,
	}
}

// Estimate computes a recency-weighted prediction for a player's stat over
// the last lookback games. Game 0 (most recent) gets raw weight decay^0,
// game i gets decay^i; weights are normalized to sum to 1. The dispersion
// is the population-style weighted standard deviation around the weighted
// mean. decay=1.0 reduces to equal weights.
//
// Returns models.ErrNoData when the player has no usable rows.
func (e *Estimator) Estimate(ctx context.Context, playerName string, stat models.StatCategory, lookback int, decay float64) (*Estimate, error) {
	values, games, err := e.statWindow(ctx, playerName, stat, lookback)
	if err != nil {
		return nil, err
	}

	prediction, stdDev, err := WeightedEstimate(values, decay)
	if err != nil {
		return nil, err
	}

	return &Estimate{
		Prediction: prediction,
		StdDev:     stdDev,
		Games:      games,
	}, nil
}

// WeightedEstimate computes the recency-weighted mean and weighted standard
// deviation over a newest-first series of stat values. Value 0 (most recent)
// gets raw weight decay^0, value i gets decay^i; weights are normalized to
// sum to 1. decay=1.0 reduces to equal weights.
func WeightedEstimate(values []float64, decay float64) (float64, float64, error) {
	if len(values) == 0 {
		return 0, 0, models.ErrNoData
	}
	if decay <= 0 || decay > 1 {
		return 0, 0, fmt.Errorf("decay factor must be in (0,1], got %v", decay)
	}

	weights := make([]float64, len(values))
	sum := 0.0
	for i := range values {
		weights[i] = math.Pow(decay, float64(i))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}

	prediction := 0.0
	for i, v := range values {
		prediction += v * weights[i]
	}

	variance := 0.0
	for i, v := range values {
		diff := v - prediction
		variance += weights[i] * diff * diff
	}

	return prediction, math.Sqrt(variance), nil
}

// EstimateSimple computes the unweighted arithmetic mean with a
// Bessel-corrected sample standard deviation (0 for a single game).
func (e *Estimator) EstimateSimple(ctx context.Context, playerName string, stat models.StatCategory, lookback int) (*Estimate, error) {
	values, games, err := e.statWindow(ctx, playerName, stat, lookback)
	if err != nil {
		return nil, err
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	stdDev := 0.0
	if len(values) > 1 {
		variance := 0.0
		for _, v := range values {
			diff := v - mean
			variance += diff * diff
		}
		variance /= float64(len(values) - 1)
		stdDev = math.Sqrt(variance)
	}

	return &Estimate{
		Prediction: mean,
		StdDev:     stdDev,
		Games:      games,
	}, nil
}

// statWindow retrieves the N most recent games for the player, newest
// first, and extracts the values for the requested stat.
func (e *Estimator) statWindow(ctx context.Context, playerName string, stat models.StatCategory, lookback int) ([]float64, []*models.GameRecord, error) {
	if !stat.IsValid() {
		return nil, nil, fmt.Errorf("unknown stat category %q", stat)
	}

	if lookback < MinLookbackGames {
		lookback = MinLookbackGames
	} else if lookback > MaxLookbackGames {
		lookback = MaxLookbackGames
	}

	player, err := e.players.GetByName(ctx, playerName)
	if err != nil {
		if err == models.ErrNotFound {
			return nil, nil, models.ErrNoData
		}
		return nil, nil, fmt.Errorf("failed to look up player: %w", err)
	}

	games, err := e.games.GetRecentByPlayer(ctx, player.ID, lookback)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch recent games: %w", err)
	}

	values := make([]float64, 0, len(games))
	used := make([]*models.GameRecord, 0, len(games))
	for _, g := range games {
		if v, ok := g.StatValue(stat); ok {
			values = append(values, v)
			used = append(used, g)
		}
	}

	if len(values) == 0 {
		return nil, nil, models.ErrNoData
	}

	return values, used, nil
}

// LookbackGames returns the configured default lookback window size
func (e *Estimator) LookbackGames() int {
	return e.cfg.LookbackGames
}

// DecayFactor returns the configured default decay factor
func (e *Estimator) DecayFactor() float64 {
	return e.cfg.DecayFactor
}

// LeagueAvgDefRating returns the configured league average defensive rating
func (e *Estimator) LeagueAvgDefRating() float64 {
	return e.cfg.LeagueAvgDefRating
}
