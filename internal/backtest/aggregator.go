package backtest

import (
	"encoding/json"
	"math"
)

// AggregatedResult combines the replay and its resampling into one verdict
type AggregatedResult struct {
	Player           string           `json:"player"`
	Stat             string           `json:"stat"`
	ReplayMetrics    Metrics          `json:"replay_metrics"`
	MonteCarloResult MonteCarloResult `json:"monte_carlo_result"`
	CompositeScore   float64          `json:"composite_score"`
	Recommendation   string           `json:"recommendation"`
}

// AggregateResults scores a replay together with its Monte Carlo resampling
func AggregateResults(player string, stat string, metrics Metrics, monteCarlo MonteCarloResult) AggregatedResult {
	replayScore := CompositeScore(metrics)
	monteCarloScore := normalize(monteCarlo.MeanReturn, -0.5, 1.0)
	composite := replayScore*0.7 + monteCarloScore*0.3

	return AggregatedResult{
		Player:           player,
		Stat:             stat,
		ReplayMetrics:    metrics,
		MonteCarloResult: monteCarlo,
		CompositeScore:   composite,
		Recommendation:   GenerateRecommendation(composite, metrics, monteCarlo),
	}
}

// CompositeScore collapses replay metrics into a single 0..1 score
func CompositeScore(metrics Metrics) float64 {
	sharpeScore := normalize(metrics.SharpeRatio, -2, 3)
	returnScore := normalize(metrics.TotalReturn, -0.5, 1.0)
	profitFactorScore := normalize(metrics.ProfitFactor, 0, 3)
	drawdownPenalty := 1.0 - normalize(metrics.MaxDrawdown, 0, 0.5)
	// Break-even at -110 needs 52.38%, so center the win rate band there
	winRateScore := normalize(metrics.WinRate, 0.40, 0.65)

	weighted := 0.0
	weighted += sharpeScore * 0.30
	weighted += returnScore * 0.20
	weighted += profitFactorScore * 0.20
	weighted += drawdownPenalty * 0.15
	weighted += winRateScore * 0.15
	return weighted
}

// GenerateRecommendation labels whether the estimator configuration beats
// the vig on this player and stat.
func GenerateRecommendation(score float64, metrics Metrics, monteCarlo MonteCarloResult) string {
	if score > 0.7 && metrics.TotalReturn > 0 && monteCarlo.ProbabilityOfRuin < 0.05 {
		return "ACCEPT"
	}
	if score < 0.4 || metrics.TotalReturn < 0 || monteCarlo.ProbabilityOfRuin > 0.25 {
		return "REJECT"
	}
	return "NEEDS_REVIEW"
}

// ToJSON exports the aggregated result to JSON
func (a AggregatedResult) ToJSON() string {
	data, _ := json.Marshal(a)
	return string(data)
}

func normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	v := (value - min) / (max - min)
	return math.Max(0, math.Min(1, v))
}
