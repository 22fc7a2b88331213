package parlay

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/predictor"
)

// stubModel returns canned estimates per player and applies configurable
// adjustment deltas, standing in for the full estimator.
type stubModel struct {
	estimates      map[string]*predictor.Estimate
	errs           map[string]error
	opponentFactor float64
	restDelta      float64
}

func (s *stubModel) Estimate(ctx context.Context, playerName string, stat models.StatCategory, lookback int, decay float64) (*predictor.Estimate, error) {
	if err, ok := s.errs[playerName]; ok {
		return nil, err
	}
	est, ok := s.estimates[playerName]
	if !ok {
		return nil, models.ErrNoData
	}
	return est, nil
}

func (s *stubModel) ApplyOpponentAdjustment(ctx context.Context, prediction float64, opponent string, leagueAvg float64) float64 {
	if s.opponentFactor == 0 {
		return prediction
	}
	return prediction * s.opponentFactor
}

func (s *stubModel) ApplyRestAdjustment(prediction float64, daysRest *int) float64 {
	if daysRest == nil {
		return prediction
	}
	return prediction + s.restDelta
}

func newTestAnalyzer(model PredictionModel) *Analyzer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	predCfg := &config.PredictionConfig{
		LookbackGames:      10,
		DecayFactor:        0.9,
		LeagueAvgDefRating: 112.0,
	}
	tradCfg := &config.PaperTradingConfig{
		UserID:               "test_user",
		StartingBankroll:     1000,
		MinParlayProbability: 0.05,
		KellyFraction:        0.25,
	}
	return NewAnalyzer(model, predCfg, tradCfg, logger)
}

func twoLegParlay() *models.Parlay {
	return &models.Parlay{
		Picks: []models.Pick{
			{PlayerName: "Player A", Stat: models.StatPoints, Line: 24.5, Direction: models.DirectionOver},
			{PlayerName: "Player B", Stat: models.StatAssists, Line: 9.5, Direction: models.DirectionUnder},
		},
		PayoutMultiplier: 3.0,
		Stake:            10.0,
	}
}

func twoLegModel() *stubModel {
	return &stubModel{
		estimates: map[string]*predictor.Estimate{
			"Player A": {Prediction: 28.0, StdDev: 4.0},
			"Player B": {Prediction: 8.0, StdDev: 2.0},
		},
	}
}

func TestEvaluatePick(t *testing.T) {
	a := newTestAnalyzer(twoLegModel())

	pick := &models.Pick{PlayerName: "Player A", Stat: models.StatPoints, Line: 24.5, Direction: models.DirectionOver}
	require.NoError(t, a.EvaluatePick(context.Background(), pick))

	require.True(t, pick.IsEvaluated())
	assert.InDelta(t, 28.0, *pick.Prediction, 1e-9)
	assert.InDelta(t, 0.8092, *pick.Probability, 0.0001)
	assert.InDelta(t, 0.875, *pick.Confidence, 1e-9) // |28-24.5|/4
}

func TestEvaluatePickAppliesAdjustments(t *testing.T) {
	model := twoLegModel()
	model.opponentFactor = 1.05
	model.restDelta = -1.5
	a := newTestAnalyzer(model)

	opponent := "BOS"
	rest := 0
	pick := &models.Pick{
		PlayerName: "Player A",
		Stat:       models.StatPoints,
		Line:       24.5,
		Direction:  models.DirectionOver,
		Opponent:   &opponent,
		DaysRest:   &rest,
	}
	require.NoError(t, a.EvaluatePick(context.Background(), pick))

	// opponent scaling first, then the additive rest shift
	assert.InDelta(t, 28.0*1.05-1.5, *pick.Prediction, 1e-9)
}

func TestAnalyzeParlay(t *testing.T) {
	a := newTestAnalyzer(twoLegModel())

	p := twoLegParlay()
	require.NoError(t, a.AnalyzeParlay(context.Background(), p))

	require.NotNil(t, p.ParlayProbability)
	assert.InDelta(t, 0.6258, *p.ParlayProbability, 0.0001)
	assert.InDelta(t, 15.033, *p.ExpectedValue, 0.001)
	assert.InDelta(t, 150.33, *p.ROI, 0.01)
	assert.InDelta(t, 0.1097, *p.QuarterKelly, 0.0001)
	assert.Equal(t, RecommendBet, p.Recommendation)

	// joint probability is the product of the evaluated legs
	product := *p.Picks[0].Probability * *p.Picks[1].Probability
	assert.InDelta(t, product, *p.ParlayProbability, 1e-12)
}

func TestAnalyzeParlaySkipOnNegativeEV(t *testing.T) {
	model := &stubModel{
		estimates: map[string]*predictor.Estimate{
			"Player A": {Prediction: 24.5, StdDev: 4.0},
			"Player B": {Prediction: 9.5, StdDev: 2.0},
		},
	}
	a := newTestAnalyzer(model)

	// coin-flip legs: joint 0.25, EV at x3 is negative
	p := twoLegParlay()
	require.NoError(t, a.AnalyzeParlay(context.Background(), p))

	assert.Equal(t, RecommendSkipNegativeEV, p.Recommendation)
	assert.Less(t, *p.ExpectedValue, 0.0)
	assert.Equal(t, 0.0, *p.QuarterKelly)
}

func TestAnalyzeParlaySkipOnLowProbability(t *testing.T) {
	model := &stubModel{
		estimates: map[string]*predictor.Estimate{
			"Player A": {Prediction: 21.13, StdDev: 4.0},
			"Player B": {Prediction: 11.18, StdDev: 2.0},
		},
	}
	a := newTestAnalyzer(model)

	// each leg sits around 20%, the joint lands near 0.04, under the
	// 0.05 floor; a x50 payout still leaves the EV positive
	p := twoLegParlay()
	p.PayoutMultiplier = 50.0
	require.NoError(t, a.AnalyzeParlay(context.Background(), p))

	assert.Equal(t, RecommendSkipLowProb, p.Recommendation)
	assert.Greater(t, *p.ExpectedValue, 0.0)
	assert.Less(t, *p.ParlayProbability, a.tradCfg.MinParlayProbability)
}

func TestAnalyzeParlayInsufficientData(t *testing.T) {
	model := twoLegModel()
	model.errs = map[string]error{"Player B": models.ErrNoData}
	a := newTestAnalyzer(model)

	p := twoLegParlay()
	require.NoError(t, a.AnalyzeParlay(context.Background(), p))

	assert.Equal(t, RecommendInsufficientData, p.Recommendation)
	assert.Nil(t, p.ParlayProbability)
	assert.Nil(t, p.ExpectedValue)
	assert.Nil(t, p.ROI)
	assert.Nil(t, p.QuarterKelly)
}

func TestAnalyzeParlayValidation(t *testing.T) {
	a := newTestAnalyzer(twoLegModel())
	ctx := context.Background()

	t.Run("too few picks", func(t *testing.T) {
		p := twoLegParlay()
		p.Picks = p.Picks[:1]
		assert.Error(t, a.AnalyzeParlay(ctx, p))
	})

	t.Run("non-positive stake", func(t *testing.T) {
		p := twoLegParlay()
		p.Stake = 0
		assert.Error(t, a.AnalyzeParlay(ctx, p))
	})

	t.Run("non-positive multiplier", func(t *testing.T) {
		p := twoLegParlay()
		p.PayoutMultiplier = -2
		assert.Error(t, a.AnalyzeParlay(ctx, p))
	})
}

func TestCompareParlays(t *testing.T) {
	model := twoLegModel()
	model.estimates["Player C"] = &predictor.Estimate{Prediction: 30.0, StdDev: 3.0}
	model.errs = map[string]error{"Player X": models.ErrNoData}
	a := newTestAnalyzer(model)

	strong := twoLegParlay()
	strong.Picks[0].PlayerName = "Player C" // bigger edge on the first leg

	weak := twoLegParlay()

	unevaluable := twoLegParlay()
	unevaluable.Picks[1].PlayerName = "Player X"

	sorted, err := a.CompareParlays(context.Background(), []*models.Parlay{unevaluable, weak, strong})
	require.NoError(t, err)
	require.Len(t, sorted, 3)

	assert.Equal(t, strong, sorted[0])
	assert.Equal(t, weak, sorted[1])
	assert.Equal(t, unevaluable, sorted[2])
	assert.GreaterOrEqual(t, *sorted[0].ExpectedValue, *sorted[1].ExpectedValue)
}

func TestQuarterKelly(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		multiplier  float64
		fraction    float64
		expected    float64
	}{
		{"positive edge", 0.5, 3.0, 0.25, 0.0625},
		{"no edge floors at zero", 0.2, 2.0, 0.25, 0},
		{"multiplier of one", 0.9, 1.0, 0.25, 0},
		{"multiplier below one", 0.9, 0.5, 0.25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, quarterKelly(tt.probability, tt.multiplier, tt.fraction), 1e-9)
		})
	}
}
