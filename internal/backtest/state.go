package backtest

import (
	"time"

	"github.com/yourusername/propedge/internal/models"
)

// SimBet is one simulated wager settled during a replay
type SimBet struct {
	GameDate    time.Time             `json:"game_date"`
	Opponent    string                `json:"opponent"`
	Stat        models.StatCategory   `json:"stat"`
	Line        float64               `json:"line"`
	Direction   models.Direction      `json:"direction"`
	Prediction  float64               `json:"prediction"`
	StdDev      float64               `json:"std_dev"`
	Probability float64               `json:"probability"`
	Actual      float64               `json:"actual"`
	Stake       float64               `json:"stake"`
	PnL         float64               `json:"pnl"`
	Outcome     models.BetStatus      `json:"outcome"`
}

// ReplayState tracks bankroll and settled bets for one replay run
type ReplayState struct {
	CurrentBankroll float64
	PeakBankroll    float64
	Bets            []*SimBet
	EquityCurve     EquityCurve
	DailyPnL        map[time.Time]float64
}

// NewReplayState initializes replay state at the starting bankroll
func NewReplayState(initialBankroll float64) *ReplayState {
	return &ReplayState{
		CurrentBankroll: initialBankroll,
		PeakBankroll:    initialBankroll,
		Bets:            []*SimBet{},
		EquityCurve:     EquityCurve{},
		DailyPnL:        make(map[time.Time]float64),
	}
}

// Settle applies a settled bet's PnL and records an equity point at the
// game date.
func (s *ReplayState) Settle(bet *SimBet) {
	s.CurrentBankroll += bet.PnL
	if s.CurrentBankroll > s.PeakBankroll {
		s.PeakBankroll = s.CurrentBankroll
	}
	s.Bets = append(s.Bets, bet)

	day := bet.GameDate.UTC().Truncate(24 * time.Hour)
	s.DailyPnL[day] += bet.PnL

	s.RecordEquityPoint(bet.GameDate, s.CurrentBankroll)
}

// CurrentDrawdown returns the peak-to-current drawdown fraction
func (s *ReplayState) CurrentDrawdown() float64 {
	if s.PeakBankroll == 0 {
		return 0
	}
	drawdown := (s.PeakBankroll - s.CurrentBankroll) / s.PeakBankroll
	if drawdown < 0 {
		return 0
	}
	return drawdown
}

// RecordEquityPoint appends an equity point to the curve
func (s *ReplayState) RecordEquityPoint(t time.Time, value float64) {
	drawdown := 0.0
	if value < s.PeakBankroll && s.PeakBankroll > 0 {
		drawdown = (s.PeakBankroll - value) / s.PeakBankroll
	}

	s.EquityCurve = append(s.EquityCurve, EquityPoint{
		Time:     t,
		Value:    value,
		Drawdown: drawdown,
	})
}
