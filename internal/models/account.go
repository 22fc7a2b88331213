package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultStartingBankroll is the paper bankroll a lazily-created account opens with
var DefaultStartingBankroll = decimal.NewFromInt(1000)

// Account tracks the paper-trading bankroll and running counters. One row
// per user identity; created lazily on first use.
type Account struct {
	ID               uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	UserID           string          `db:"user_id" json:"user_id" validate:"required"`
	StartingBankroll decimal.Decimal `db:"starting_bankroll" json:"starting_bankroll"`
	CurrentBankroll  decimal.Decimal `db:"current_bankroll" json:"current_bankroll"`
	TotalBetsPlaced  int             `db:"total_bets_placed" json:"total_bets_placed"`
	TotalBetsWon     int             `db:"total_bets_won" json:"total_bets_won"`
	TotalBetsLost    int             `db:"total_bets_lost" json:"total_bets_lost"`
	TotalBetsVoid    int             `db:"total_bets_void" json:"total_bets_void"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	LastUpdated      time.Time       `db:"last_updated" json:"last_updated"`
}

// TotalProfit returns cumulative profit relative to the starting bankroll
func (a *Account) TotalProfit() decimal.Decimal {
	return a.CurrentBankroll.Sub(a.StartingBankroll)
}

// WinRate returns the win percentage over resolved (won+lost) bets
func (a *Account) WinRate() float64 {
	resolved := a.TotalBetsWon + a.TotalBetsLost
	if resolved == 0 {
		return 0
	}
	return float64(a.TotalBetsWon) / float64(resolved) * 100
}

// ROI returns cumulative profit as a percentage of the starting bankroll
func (a *Account) ROI() float64 {
	if a.StartingBankroll.IsZero() {
		return 0
	}
	roi, _ := a.TotalProfit().Div(a.StartingBankroll).Mul(decimal.NewFromInt(100)).Float64()
	return roi
}

// BankrollSnapshot is an append-only point in the bankroll time series,
// taken after every balance-affecting operation. It is the only substrate
// for historical bankroll charting.
type BankrollSnapshot struct {
	ID          uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	AccountID   uuid.UUID       `db:"account_id" json:"account_id" validate:"required,uuid4"`
	Bankroll    decimal.Decimal `db:"bankroll" json:"bankroll"`
	TotalProfit decimal.Decimal `db:"total_profit" json:"total_profit"`
	TotalBets   int             `db:"total_bets" json:"total_bets"`
	WinRate     float64         `db:"win_rate" json:"win_rate"`
	Timestamp   time.Time       `db:"timestamp" json:"timestamp"`
}
