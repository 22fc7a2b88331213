// Package parlay scores multi-pick wagers: joint probability under
// independence, expected value, ROI and fractional Kelly sizing.
package parlay

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/predictor"
)

// Recommendation labels for an analyzed parlay. Skips carry the reason
// so callers can surface it directly.
const (
	RecommendBet              = "BET"
	RecommendSkipLowProb      = "SKIP - Positive EV but probability too low"
	RecommendSkipNegativeEV   = "SKIP - Negative expected value"
	RecommendInsufficientData = "SKIP - Insufficient data"
)

// PredictionModel is the estimator surface the analyzer needs. Satisfied
// by predictor.Estimator.
type PredictionModel interface {
	Estimate(ctx context.Context, playerName string, stat models.StatCategory, lookback int, decay float64) (*predictor.Estimate, error)
	ApplyOpponentAdjustment(ctx context.Context, prediction float64, opponent string, leagueAvg float64) float64
	ApplyRestAdjustment(prediction float64, daysRest *int) float64
}

// Analyzer evaluates picks through a prediction model and aggregates them
// into parlay-level economics.
type Analyzer struct {
	model   PredictionModel
	predCfg *config.PredictionConfig
	tradCfg *config.PaperTradingConfig
	logger  *logrus.Logger
}

// NewAnalyzer creates a parlay analyzer
func NewAnalyzer(model PredictionModel, predCfg *config.PredictionConfig, tradCfg *config.PaperTradingConfig, logger *logrus.Logger) *Analyzer {
	return &Analyzer{
		model:   model,
		predCfg: predCfg,
		tradCfg: tradCfg,
		logger:  logger,
	}
}

// EvaluatePick fills the pick's prediction, probability and confidence.
// The prediction is adjusted for the opponent first, then rest; the
// dispersion is never adjusted. Returns models.ErrNoData when the player
// has no usable history.
func (a *Analyzer) EvaluatePick(ctx context.Context, pick *models.Pick) error {
	est, err := a.model.Estimate(ctx, pick.PlayerName, pick.Stat, a.predCfg.LookbackGames, a.predCfg.DecayFactor)
	if err != nil {
		return err
	}

	prediction := est.Prediction
	if pick.Opponent != nil {
		prediction = a.model.ApplyOpponentAdjustment(ctx, prediction, *pick.Opponent, a.predCfg.LeagueAvgDefRating)
	}
	prediction = a.model.ApplyRestAdjustment(prediction, pick.DaysRest)

	eval, err := predictor.EvaluateAgainstLine(prediction, est.StdDev, pick.Line)
	if err != nil {
		return err
	}

	probability := eval.DirectionalProbability(pick.Direction)

	pick.Prediction = &prediction
	pick.Probability = &probability
	pick.Confidence = &eval.Confidence

	a.logger.WithFields(logrus.Fields{
		"player":      pick.PlayerName,
		"stat":        pick.Stat,
		"line":        pick.Line,
		"direction":   pick.Direction,
		"prediction":  prediction,
		"probability": probability,
	}).Debug("Evaluated pick")

	return nil
}

// AnalyzeParlay evaluates every pick and derives the parlay economics.
// If any pick cannot be evaluated the whole parlay is marked
// "SKIP - Insufficient data" with no partial scoring. The joint
// probability treats legs as independent.
func (a *Analyzer) AnalyzeParlay(ctx context.Context, parlay *models.Parlay) error {
	if len(parlay.Picks) < 2 {
		return fmt.Errorf("parlay requires at least 2 picks, got %d", len(parlay.Picks))
	}
	if parlay.Stake <= 0 {
		return fmt.Errorf("stake must be positive, got %v", parlay.Stake)
	}
	if parlay.PayoutMultiplier <= 0 {
		return fmt.Errorf("payout multiplier must be positive, got %v", parlay.PayoutMultiplier)
	}

	for i := range parlay.Picks {
		if err := a.EvaluatePick(ctx, &parlay.Picks[i]); err != nil {
			if err == models.ErrNoData {
				a.logger.WithField("player", parlay.Picks[i].PlayerName).
					Warn("No data for pick, skipping parlay")
				parlay.ParlayProbability = nil
				parlay.ExpectedValue = nil
				parlay.ROI = nil
				parlay.QuarterKelly = nil
				parlay.Recommendation = RecommendInsufficientData
				return nil
			}
			return fmt.Errorf("failed to evaluate pick for %s: %w", parlay.Picks[i].PlayerName, err)
		}
	}

	probability := 1.0
	for i := range parlay.Picks {
		probability *= *parlay.Picks[i].Probability
	}

	ev := probability*parlay.Stake*parlay.PayoutMultiplier - (1-probability)*parlay.Stake
	roi := ev / parlay.Stake * 100
	kelly := quarterKelly(probability, parlay.PayoutMultiplier, a.tradCfg.KellyFraction)

	recommendation := RecommendSkipNegativeEV
	switch {
	case ev > 0 && probability > a.tradCfg.MinParlayProbability:
		recommendation = RecommendBet
	case ev > 0:
		recommendation = RecommendSkipLowProb
	}

	parlay.ParlayProbability = &probability
	parlay.ExpectedValue = &ev
	parlay.ROI = &roi
	parlay.QuarterKelly = &kelly
	parlay.Recommendation = recommendation

	return nil
}

// CompareParlays analyzes each candidate and returns them ordered by
// expected value, best first. Unevaluable parlays sort last.
func (a *Analyzer) CompareParlays(ctx context.Context, parlays []*models.Parlay) ([]*models.Parlay, error) {
	for _, p := range parlays {
		if err := a.AnalyzeParlay(ctx, p); err != nil {
			return nil, err
		}
	}

	sorted := make([]*models.Parlay, len(parlays))
	copy(sorted, parlays)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parlayEV(sorted[i]) > parlayEV(sorted[j])
	})

	return sorted, nil
}

func parlayEV(p *models.Parlay) float64 {
	if p.ExpectedValue == nil {
		return math.Inf(-1)
	}
	return *p.ExpectedValue
}

// quarterKelly computes the fractional Kelly stake share for a bet paying
// b times the stake on a win. Full Kelly is (p*b - 1)/(b - 1); the
// fraction scales it down and the result is floored at zero. A multiplier
// of 1 or less can never have edge.
func quarterKelly(probability, multiplier, fraction float64) float64 {
	if multiplier <= 1 {
		return 0
	}
	full := (probability*multiplier - 1) / (multiplier - 1)
	scaled := full * fraction
	if scaled < 0 {
		return 0
	}
	return scaled
}
