package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/propedge/internal/models"
)

// AccountSummary is a point-in-time view of the paper account
type AccountSummary struct {
	UserID           string          `json:"user_id"`
	StartingBankroll decimal.Decimal `json:"starting_bankroll"`
	CurrentBankroll  decimal.Decimal `json:"current_bankroll"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	ROI              float64         `json:"roi"`
	WinRate          float64         `json:"win_rate"`
	TotalBetsPlaced  int             `json:"total_bets_placed"`
	TotalBetsWon     int             `json:"total_bets_won"`
	TotalBetsLost    int             `json:"total_bets_lost"`
	TotalBetsVoid    int             `json:"total_bets_void"`
	PendingSingles   int             `json:"pending_singles"`
	PendingParlays   int             `json:"pending_parlays"`
}

// Summary returns the account's aggregate standing including pending
// exposure.
func (m *Manager) Summary(ctx context.Context) (*AccountSummary, error) {
	account, err := m.Account(ctx)
	if err != nil {
		return nil, err
	}

	singles, err := m.singles.GetPending(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending singles: %w", err)
	}
	parlays, err := m.parlays.GetPending(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending parlays: %w", err)
	}

	return &AccountSummary{
		UserID:           account.UserID,
		StartingBankroll: account.StartingBankroll,
		CurrentBankroll:  account.CurrentBankroll,
		TotalProfit:      account.TotalProfit(),
		ROI:              account.ROI(),
		WinRate:          account.WinRate(),
		TotalBetsPlaced:  account.TotalBetsPlaced,
		TotalBetsWon:     account.TotalBetsWon,
		TotalBetsLost:    account.TotalBetsLost,
		TotalBetsVoid:    account.TotalBetsVoid,
		PendingSingles:   len(singles),
		PendingParlays:   len(parlays),
	}, nil
}

// StatPerformance aggregates resolved single bets for one stat category
type StatPerformance struct {
	Stat       models.StatCategory `json:"stat"`
	Bets       int                 `json:"bets"`
	Won        int                 `json:"won"`
	Lost       int                 `json:"lost"`
	Void       int                 `json:"void"`
	WinRate    float64             `json:"win_rate"`
	ProfitLoss decimal.Decimal     `json:"profit_loss"`
}

// PerformanceByStat groups resolved single bets by stat category
func (m *Manager) PerformanceByStat(ctx context.Context) (map[models.StatCategory]*StatPerformance, error) {
	bets, err := m.resolvedSingles(ctx)
	if err != nil {
		return nil, err
	}

	perf := make(map[models.StatCategory]*StatPerformance)
	for _, bet := range bets {
		p, ok := perf[bet.Stat]
		if !ok {
			p = &StatPerformance{Stat: bet.Stat, ProfitLoss: decimal.Zero}
			perf[bet.Stat] = p
		}

		p.Bets++
		p.ProfitLoss = p.ProfitLoss.Add(bet.ProfitLoss)
		switch bet.Status {
		case models.BetStatusWon:
			p.Won++
		case models.BetStatusLost:
			p.Lost++
		case models.BetStatusVoid:
			p.Void++
		}
	}

	for _, p := range perf {
		if resolved := p.Won + p.Lost; resolved > 0 {
			p.WinRate = float64(p.Won) / float64(resolved) * 100
		}
	}

	return perf, nil
}

// ConfidenceBucket aggregates resolved single bets whose placement-time
// confidence fell in [Low, High).
type ConfidenceBucket struct {
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
	Bets    int     `json:"bets"`
	Won     int     `json:"won"`
	WinRate float64 `json:"win_rate"`
}

// confidenceBucketEdges partition the |z| confidence axis
var confidenceBucketEdges = []float64{0, 0.5, 1.0, 1.5, 2.0}

// WinRateByConfidence buckets resolved single bets by their
// placement-time confidence score, a calibration check for the model.
func (m *Manager) WinRateByConfidence(ctx context.Context) ([]*ConfidenceBucket, error) {
	bets, err := m.resolvedSingles(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make([]*ConfidenceBucket, len(confidenceBucketEdges))
	for i, low := range confidenceBucketEdges {
		high := +1e18
		if i+1 < len(confidenceBucketEdges) {
			high = confidenceBucketEdges[i+1]
		}
		buckets[i] = &ConfidenceBucket{Low: low, High: high}
	}

	for _, bet := range bets {
		if bet.Status == models.BetStatusVoid {
			continue
		}
		for i := len(buckets) - 1; i >= 0; i-- {
			if bet.Confidence >= buckets[i].Low {
				buckets[i].Bets++
				if bet.Status == models.BetStatusWon {
					buckets[i].Won++
				}
				break
			}
		}
	}

	for _, b := range buckets {
		if b.Bets > 0 {
			b.WinRate = float64(b.Won) / float64(b.Bets) * 100
		}
	}

	return buckets, nil
}

// BankrollHistory returns the bankroll time series for the last N days
func (m *Manager) BankrollHistory(ctx context.Context, days int) ([]*models.BankrollSnapshot, error) {
	account, err := m.Account(ctx)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	return m.snapshots.GetByAccountSince(ctx, account.ID, since)
}

// PendingBets returns all unresolved bets for display
func (m *Manager) PendingBets(ctx context.Context) ([]*models.SingleBet, []*models.ParlayBet, error) {
	account, err := m.Account(ctx)
	if err != nil {
		return nil, nil, err
	}

	singles, err := m.singles.GetPending(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}
	parlays, err := m.parlays.GetPending(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	return singles, parlays, nil
}

// BetHistory returns settled and pending single bets, newest first
func (m *Manager) BetHistory(ctx context.Context, status *models.BetStatus, limit int) ([]*models.SingleBet, error) {
	account, err := m.Account(ctx)
	if err != nil {
		return nil, err
	}
	return m.singles.GetHistory(ctx, account.ID, status, limit)
}

// ParlayHistory returns settled and pending parlays, newest first
func (m *Manager) ParlayHistory(ctx context.Context, status *models.BetStatus, limit int) ([]*models.ParlayBet, error) {
	account, err := m.Account(ctx)
	if err != nil {
		return nil, err
	}
	return m.parlays.GetHistory(ctx, account.ID, status, limit)
}

func (m *Manager) resolvedSingles(ctx context.Context) ([]*models.SingleBet, error) {
	account, err := m.Account(ctx)
	if err != nil {
		return nil, err
	}

	all, err := m.singles.GetHistory(ctx, account.ID, nil, 0)
	if err != nil {
		return nil, err
	}

	resolved := make([]*models.SingleBet, 0, len(all))
	for _, bet := range all {
		if !bet.IsPending() {
			resolved = append(resolved, bet)
		}
	}
	return resolved, nil
}
