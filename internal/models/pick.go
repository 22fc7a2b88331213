package models

// Direction represents the side of an over/under line
type Direction string

const (
	DirectionOver  Direction = "OVER"
	DirectionUnder Direction = "UNDER"
)

// Wins reports whether a realized stat value beats the line in this
// direction. A push (exact equality) is neither a win nor a loss and is
// handled by DecideOutcome.
func (d Direction) Wins(actual, line float64) bool {
	if d == DirectionOver {
		return actual > line
	}
	return actual < line
}

// DecideOutcome maps a realized stat value against a line to a terminal bet
// status. Exact equality with the line is a push and resolves void.
func DecideOutcome(direction Direction, actual, line float64) BetStatus {
	if actual == line {
		return BetStatusVoid
	}
	if direction.Wins(actual, line) {
		return BetStatusWon
	}
	return BetStatusLost
}

// Pick is one proposed wager: a player, a stat category, a posted line and a
// direction. Prediction and Probability start unset and are filled in by
// evaluation; a pick with either unset cannot participate in parlay
// aggregation.
type Pick struct {
	PlayerName  string       `json:"player_name" validate:"required"`
	Stat        StatCategory `json:"stat" validate:"required"`
	Line        float64      `json:"line" validate:"required"`
	Direction   Direction    `json:"direction" validate:"required,oneof=OVER UNDER"`
	// Optional game context driving the opponent and rest adjustments
	Opponent *string `json:"opponent,omitempty"`
	DaysRest *int    `json:"days_rest,omitempty"`

	Prediction  *float64 `json:"prediction,omitempty"`
	Probability *float64 `json:"probability,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// IsEvaluated reports whether the pick has been scored by the estimator
func (p *Pick) IsEvaluated() bool {
	return p.Prediction != nil && p.Probability != nil
}

// Parlay is an ordered collection of picks sharing one stake and one payout
// multiplier. The derived fields are computed by the analyzer, never input.
type Parlay struct {
	Picks            []Pick  `json:"picks" validate:"required,min=2"`
	PayoutMultiplier float64 `json:"payout_multiplier" validate:"required,gt=0"`
	Stake            float64 `json:"stake" validate:"required,gt=0"`

	ParlayProbability *float64 `json:"parlay_probability,omitempty"`
	ExpectedValue     *float64 `json:"expected_value,omitempty"`
	ROI               *float64 `json:"roi,omitempty"`
	QuarterKelly      *float64 `json:"quarter_kelly,omitempty"`
	Recommendation    string   `json:"recommendation,omitempty"`
}
