package predictor

import (
	"math"

	"github.com/yourusername/propedge/internal/models"
)

// Recommendation labels produced by line evaluation
const (
	RecommendOver  = "OVER"
	RecommendUnder = "UNDER"
	RecommendSkip  = "SKIP"
)

// Net return per unit staked on a winning bet at standard -110 odds.
const payoutPerUnit = 100.0 / 110.0

// Evaluation is the probabilistic assessment of a prediction against a
// bookmaker line, assuming performance is normally distributed around the
// prediction with the estimate's dispersion.
type Evaluation struct {
	Prediction     float64 `json:"prediction"`
	Line           float64 `json:"line"`
	StdDev         float64 `json:"std_dev"`
	ZScore         float64 `json:"z_score"`
	ProbOver       float64 `json:"prob_over"`
	ProbUnder      float64 `json:"prob_under"`
	EVOver         float64 `json:"ev_over"`
	EVUnder        float64 `json:"ev_under"`
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

// EvaluateAgainstLine scores a prediction against a line at standard -110
// odds. Expected values are per dollar staked. The recommendation is the
// side with positive EV, or SKIP when neither side clears zero. A zero
// dispersion degenerates to z=0, a coin flip.
func EvaluateAgainstLine(prediction, stdDev, line float64) (*Evaluation, error) {
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return nil, models.ErrNoData
	}
	if math.IsNaN(stdDev) || stdDev < 0 {
		return nil, models.ErrNoData
	}

	zScore := 0.0
	if stdDev > 0 {
		zScore = (prediction - line) / stdDev
	}

	probOver := 1.0 - normalCDF(line, prediction, stdDev)
	probUnder := 1.0 - probOver

	evOver := probOver*payoutPerUnit - probUnder
	evUnder := probUnder*payoutPerUnit - probOver

	recommendation := RecommendSkip
	if evOver > 0 {
		recommendation = RecommendOver
	} else if evUnder > 0 {
		recommendation = RecommendUnder
	}

	return &Evaluation{
		Prediction:     prediction,
		Line:           line,
		StdDev:         stdDev,
		ZScore:         zScore,
		ProbOver:       probOver,
		ProbUnder:      probUnder,
		EVOver:         evOver,
		EVUnder:        evUnder,
		Recommendation: recommendation,
		Confidence:     math.Abs(zScore),
	}, nil
}

// DirectionalProbability returns the modeled probability that the stated
// direction wins against the line.
func (ev *Evaluation) DirectionalProbability(direction models.Direction) float64 {
	if direction == models.DirectionOver {
		return ev.ProbOver
	}
	return ev.ProbUnder
}

// DirectionalEV returns the per-dollar expected value of the stated side.
func (ev *Evaluation) DirectionalEV(direction models.Direction) float64 {
	if direction == models.DirectionOver {
		return ev.EVOver
	}
	return ev.EVUnder
}

// normalCDF evaluates the cumulative distribution function of
// Normal(mean, stdDev) at x. A zero stdDev collapses to a step at the
// mean, with 0.5 at the mean itself.
func normalCDF(x, mean, stdDev float64) float64 {
	if stdDev == 0 {
		switch {
		case x < mean:
			return 0
		case x > mean:
			return 1
		default:
			return 0.5
		}
	}
	return 0.5 * (1 + math.Erf((x-mean)/(stdDev*math.Sqrt2)))
}
