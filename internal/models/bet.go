package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetStatus represents the lifecycle state of a bet. A bet starts pending
// and transitions exactly once to won, lost or void.
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
	BetStatusVoid    BetStatus = "void"
)

// BetKind distinguishes single bets from parlays for operations that accept either
type BetKind string

const (
	BetKindSingle BetKind = "single"
	BetKindParlay BetKind = "parlay"
)

// DefaultAmericanOdds is the fixed price every paper bet is struck at
const DefaultAmericanOdds = -110.0

// SingleBet is an immutable snapshot of a pick and its prediction context at
// placement time, plus the mutable resolution outcome.
type SingleBet struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	AccountID uuid.UUID `db:"account_id" json:"account_id" validate:"required,uuid4"`
	PlayerID  uuid.UUID `db:"player_id" json:"player_id" validate:"required,uuid4"`

	PlayerName string       `db:"player_name" json:"player_name" validate:"required"`
	Stat       StatCategory `db:"stat" json:"stat" validate:"required"`
	Line       float64      `db:"line" json:"line" validate:"required"`
	Direction  Direction    `db:"direction" json:"direction" validate:"required,oneof=OVER UNDER"`

	Stake           decimal.Decimal `db:"stake" json:"stake"`
	Odds            float64         `db:"odds" json:"odds"`
	PotentialPayout decimal.Decimal `db:"potential_payout" json:"potential_payout"`

	// Prediction snapshot at placement time
	Prediction    float64         `db:"prediction" json:"prediction"`
	Probability   float64         `db:"probability" json:"probability" validate:"gte=0,lte=1"`
	ExpectedValue decimal.Decimal `db:"expected_value" json:"expected_value"`
	Confidence    float64         `db:"confidence" json:"confidence"`
	StdDev        *float64        `db:"std_dev" json:"std_dev"`

	// Game context snapshot
	Opponent *string    `db:"opponent" json:"opponent"`
	DaysRest *int       `db:"days_rest" json:"days_rest"`
	GameDate *time.Time `db:"game_date" json:"game_date"`

	Status       BetStatus       `db:"status" json:"status"`
	ActualResult *float64        `db:"actual_result" json:"actual_result"`
	ProfitLoss   decimal.Decimal `db:"profit_loss" json:"profit_loss"`

	PlacedAt   time.Time  `db:"placed_at" json:"placed_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at"`
}

// IsPending reports whether the bet can still be resolved or voided
func (b *SingleBet) IsPending() bool {
	return b.Status == BetStatusPending
}

// ParlayBet aggregates multiple legs under one stake and payout multiplier
type ParlayBet struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	AccountID uuid.UUID `db:"account_id" json:"account_id" validate:"required,uuid4"`

	Stake            decimal.Decimal `db:"stake" json:"stake"`
	PayoutMultiplier float64         `db:"payout_multiplier" json:"payout_multiplier" validate:"gt=0"`
	PotentialPayout  decimal.Decimal `db:"potential_payout" json:"potential_payout"`

	ParlayProbability float64         `db:"parlay_probability" json:"parlay_probability" validate:"gte=0,lte=1"`
	ExpectedValue     decimal.Decimal `db:"expected_value" json:"expected_value"`
	NumPicks          int             `db:"num_picks" json:"num_picks" validate:"gte=2"`

	Status     BetStatus       `db:"status" json:"status"`
	ProfitLoss decimal.Decimal `db:"profit_loss" json:"profit_loss"`

	PlacedAt   time.Time  `db:"placed_at" json:"placed_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at"`

	Legs []*ParlayLeg `db:"-" json:"legs,omitempty"`
}

// IsPending reports whether the parlay can still be resolved or voided
func (p *ParlayBet) IsPending() bool {
	return p.Status == BetStatusPending
}

// ParlayLeg is one pick inside a parlay, snapshotted with the same
// discipline as a single bet.
type ParlayLeg struct {
	ID       uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	ParlayID uuid.UUID `db:"parlay_id" json:"parlay_id" validate:"required,uuid4"`
	PlayerID uuid.UUID `db:"player_id" json:"player_id" validate:"required,uuid4"`

	PlayerName string       `db:"player_name" json:"player_name" validate:"required"`
	Stat       StatCategory `db:"stat" json:"stat" validate:"required"`
	Line       float64      `db:"line" json:"line" validate:"required"`
	Direction  Direction    `db:"direction" json:"direction" validate:"required,oneof=OVER UNDER"`

	Prediction  float64 `db:"prediction" json:"prediction"`
	Probability float64 `db:"probability" json:"probability" validate:"gte=0,lte=1"`
	Confidence  float64 `db:"confidence" json:"confidence"`

	Opponent *string    `db:"opponent" json:"opponent"`
	DaysRest *int       `db:"days_rest" json:"days_rest"`
	GameDate *time.Time `db:"game_date" json:"game_date"`

	Status       BetStatus `db:"status" json:"status"`
	ActualResult *float64  `db:"actual_result" json:"actual_result"`
}

// SinglePayout returns the total credited on a winning single stake at
// -110: the stake back plus stake*(100/110) profit.
func SinglePayout(stake decimal.Decimal) decimal.Decimal {
	return stake.Add(SingleProfit(stake))
}

// SingleProfit returns the profit component of a winning single stake at -110
func SingleProfit(stake decimal.Decimal) decimal.Decimal {
	return stake.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(110))
}
