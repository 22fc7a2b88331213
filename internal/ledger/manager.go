// Package ledger is the paper-trading bookkeeper: accounts, bet placement,
// resolution, voiding and bankroll history. Every balance-affecting
// operation runs in a single transaction and appends a bankroll snapshot.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/logger"
	"github.com/yourusername/propedge/internal/metrics"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/repository"
)

// TxRunner runs a function inside a database transaction. Satisfied by
// *database.DB; tests substitute a pass-through.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// Manager owns all paper-trading state transitions
type Manager struct {
	tx        TxRunner
	accounts  repository.AccountRepository
	players   repository.PlayerRepository
	singles   repository.SingleBetRepository
	parlays   repository.ParlayBetRepository
	snapshots repository.SnapshotRepository
	cfg       *config.PaperTradingConfig
	logger    *logrus.Logger
	betLog    *logger.BetLogger
}

// NewManager creates a ledger manager
func NewManager(
	tx TxRunner,
	accounts repository.AccountRepository,
	players repository.PlayerRepository,
	singles repository.SingleBetRepository,
	parlays repository.ParlayBetRepository,
	snapshots repository.SnapshotRepository,
	cfg *config.PaperTradingConfig,
	log *logrus.Logger,
) *Manager {
	return &Manager{
		tx:        tx,
		accounts:  accounts,
		players:   players,
		singles:   singles,
		parlays:   parlays,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    log,
		betLog:    logger.NewBetLogger(log),
	}
}

// Account returns the configured user's account, creating it with the
// starting bankroll on first use.
func (m *Manager) Account(ctx context.Context) (*models.Account, error) {
	account, err := m.accounts.GetByUserID(ctx, m.cfg.UserID)
	if err == nil {
		return account, nil
	}
	if err != models.ErrNotFound {
		return nil, err
	}

	starting := decimal.NewFromFloat(m.cfg.StartingBankroll)
	if starting.LessThanOrEqual(decimal.Zero) {
		starting = models.DefaultStartingBankroll
	}

	account = &models.Account{
		ID:               uuid.New(),
		UserID:           m.cfg.UserID,
		StartingBankroll: starting,
		CurrentBankroll:  starting,
	}

	if err := m.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"user_id":  account.UserID,
		"bankroll": account.StartingBankroll,
	}).Info("Created paper trading account")

	return account, nil
}

// SingleBetRequest carries everything snapshotted onto a single bet at
// placement time.
type SingleBetRequest struct {
	PlayerName  string
	Stat        models.StatCategory
	Line        float64
	Direction   models.Direction
	Stake       decimal.Decimal
	Prediction  float64
	Probability float64
	Confidence  float64
	StdDev      *float64
	Opponent    *string
	DaysRest    *int
	GameDate    *time.Time
}

// PlaceSingleBet debits the stake and records a pending single bet.
// Returns models.ErrInsufficientFunds when the stake exceeds the bankroll.
func (m *Manager) PlaceSingleBet(ctx context.Context, req SingleBetRequest) (uuid.UUID, error) {
	if req.Stake.LessThanOrEqual(decimal.Zero) {
		return uuid.Nil, fmt.Errorf("stake must be positive, got %s", req.Stake)
	}
	if !req.Stat.IsValid() {
		return uuid.Nil, fmt.Errorf("unknown stat category %q", req.Stat)
	}

	player, err := m.players.GetByName(ctx, req.PlayerName)
	if err != nil {
		return uuid.Nil, err
	}

	probWin := decimal.NewFromFloat(req.Probability)
	ev := probWin.Mul(models.SingleProfit(req.Stake)).
		Sub(decimal.NewFromInt(1).Sub(probWin).Mul(req.Stake))

	bet := &models.SingleBet{
		ID:              uuid.New(),
		PlayerID:        player.ID,
		PlayerName:      req.PlayerName,
		Stat:            req.Stat,
		Line:            req.Line,
		Direction:       req.Direction,
		Stake:           req.Stake,
		Odds:            models.DefaultAmericanOdds,
		PotentialPayout: models.SinglePayout(req.Stake),
		Prediction:      req.Prediction,
		Probability:     req.Probability,
		ExpectedValue:   ev,
		Confidence:      req.Confidence,
		StdDev:          req.StdDev,
		Opponent:        req.Opponent,
		DaysRest:        req.DaysRest,
		GameDate:        req.GameDate,
		Status:          models.BetStatusPending,
		ProfitLoss:      decimal.Zero,
		PlacedAt:        time.Now().UTC(),
	}

	err = m.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		account, err := m.Account(txCtx)
		if err != nil {
			return err
		}

		if req.Stake.GreaterThan(account.CurrentBankroll) {
			return models.ErrInsufficientFunds
		}

		bet.AccountID = account.ID
		account.CurrentBankroll = account.CurrentBankroll.Sub(req.Stake)
		account.TotalBetsPlaced++

		if err := m.singles.Create(txCtx, bet); err != nil {
			return err
		}
		if err := m.accounts.Update(txCtx, account); err != nil {
			return err
		}
		return m.snapshot(txCtx, account)
	})
	if err != nil {
		return uuid.Nil, err
	}

	m.betLog.LogBetPlaced(bet.ID.String(), string(models.BetKindSingle), req.Stake, req.PlayerName)
	metrics.BetsPlacedTotal.WithLabelValues(string(models.BetKindSingle)).Inc()

	return bet.ID, nil
}

// ParlayLegRequest is one leg of a parlay placement
type ParlayLegRequest struct {
	PlayerName  string
	Stat        models.StatCategory
	Line        float64
	Direction   models.Direction
	Prediction  float64
	Probability float64
	Confidence  float64
	Opponent    *string
	DaysRest    *int
	GameDate    *time.Time
}

// ParlayBetRequest carries a parlay placement
type ParlayBetRequest struct {
	Stake            decimal.Decimal
	PayoutMultiplier float64
	Probability      float64
	ExpectedValue    decimal.Decimal
	Legs             []ParlayLegRequest
}

// PlaceParlayBet debits the stake and records a pending parlay with its legs
func (m *Manager) PlaceParlayBet(ctx context.Context, req ParlayBetRequest) (uuid.UUID, error) {
	if req.Stake.LessThanOrEqual(decimal.Zero) {
		return uuid.Nil, fmt.Errorf("stake must be positive, got %s", req.Stake)
	}
	if len(req.Legs) < 2 {
		return uuid.Nil, fmt.Errorf("parlay requires at least 2 legs, got %d", len(req.Legs))
	}
	if req.PayoutMultiplier <= 0 {
		return uuid.Nil, fmt.Errorf("payout multiplier must be positive, got %v", req.PayoutMultiplier)
	}

	bet := &models.ParlayBet{
		ID:                uuid.New(),
		Stake:             req.Stake,
		PayoutMultiplier:  req.PayoutMultiplier,
		PotentialPayout:   req.Stake.Mul(decimal.NewFromFloat(req.PayoutMultiplier)),
		ParlayProbability: req.Probability,
		ExpectedValue:     req.ExpectedValue,
		NumPicks:          len(req.Legs),
		Status:            models.BetStatusPending,
		ProfitLoss:        decimal.Zero,
		PlacedAt:          time.Now().UTC(),
	}

	for _, legReq := range req.Legs {
		if !legReq.Stat.IsValid() {
			return uuid.Nil, fmt.Errorf("unknown stat category %q", legReq.Stat)
		}
		player, err := m.players.GetByName(ctx, legReq.PlayerName)
		if err != nil {
			return uuid.Nil, err
		}
		bet.Legs = append(bet.Legs, &models.ParlayLeg{
			ID:          uuid.New(),
			ParlayID:    bet.ID,
			PlayerID:    player.ID,
			PlayerName:  legReq.PlayerName,
			Stat:        legReq.Stat,
			Line:        legReq.Line,
			Direction:   legReq.Direction,
			Prediction:  legReq.Prediction,
			Probability: legReq.Probability,
			Confidence:  legReq.Confidence,
			Opponent:    legReq.Opponent,
			DaysRest:    legReq.DaysRest,
			GameDate:    legReq.GameDate,
			Status:      models.BetStatusPending,
		})
	}

	err := m.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		account, err := m.Account(txCtx)
		if err != nil {
			return err
		}

		if req.Stake.GreaterThan(account.CurrentBankroll) {
			return models.ErrInsufficientFunds
		}

		bet.AccountID = account.ID
		account.CurrentBankroll = account.CurrentBankroll.Sub(req.Stake)
		account.TotalBetsPlaced++

		if err := m.parlays.Create(txCtx, bet); err != nil {
			return err
		}
		if err := m.accounts.Update(txCtx, account); err != nil {
			return err
		}
		return m.snapshot(txCtx, account)
	})
	if err != nil {
		return uuid.Nil, err
	}

	m.betLog.LogBetPlaced(bet.ID.String(), string(models.BetKindParlay), req.Stake, fmt.Sprintf("%d legs", len(req.Legs)))
	metrics.BetsPlacedTotal.WithLabelValues(string(models.BetKindParlay)).Inc()

	return bet.ID, nil
}

// ResolveSingleBet settles a pending single bet against the realized stat
// value. A push refunds the stake as void; a win credits the full
// potential payout. Returns the profit/loss and models.ErrAlreadyResolved
// if the bet is no longer pending.
func (m *Manager) ResolveSingleBet(ctx context.Context, betID uuid.UUID, actual float64) (decimal.Decimal, error) {
	var profitLoss decimal.Decimal

	err := m.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		bet, err := m.singles.GetByID(txCtx, betID)
		if err != nil {
			return err
		}
		if !bet.IsPending() {
			return models.ErrAlreadyResolved
		}

		account, err := m.Account(txCtx)
		if err != nil {
			return err
		}

		outcome := models.DecideOutcome(bet.Direction, actual, bet.Line)
		now := time.Now().UTC()
		bet.Status = outcome
		bet.ActualResult = &actual
		bet.ResolvedAt = &now

		switch outcome {
		case models.BetStatusWon:
			bet.ProfitLoss = models.SingleProfit(bet.Stake)
			account.CurrentBankroll = account.CurrentBankroll.Add(bet.PotentialPayout)
			account.TotalBetsWon++
		case models.BetStatusLost:
			bet.ProfitLoss = bet.Stake.Neg()
			account.TotalBetsLost++
		case models.BetStatusVoid:
			bet.ProfitLoss = decimal.Zero
			account.CurrentBankroll = account.CurrentBankroll.Add(bet.Stake)
			account.TotalBetsVoid++
		}
		profitLoss = bet.ProfitLoss

		if err := m.singles.Update(txCtx, bet); err != nil {
			return err
		}
		if err := m.accounts.Update(txCtx, account); err != nil {
			return err
		}
		if err := m.snapshot(txCtx, account); err != nil {
			return err
		}

		m.betLog.LogBetResolved(bet.ID.String(), string(outcome), actual, bet.Line, profitLoss)
		metrics.BetsResolvedTotal.WithLabelValues(string(outcome)).Inc()
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return profitLoss, nil
}

// ResolveParlayBet settles a pending parlay given the realized value for
// every leg, keyed by leg ID. A push on any leg voids the whole parlay and
// refunds the stake; otherwise the parlay wins only if every leg wins.
func (m *Manager) ResolveParlayBet(ctx context.Context, parlayID uuid.UUID, legResults map[uuid.UUID]float64) (decimal.Decimal, error) {
	var profitLoss decimal.Decimal

	err := m.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		bet, err := m.parlays.GetByID(txCtx, parlayID)
		if err != nil {
			return err
		}
		if !bet.IsPending() {
			return models.ErrAlreadyResolved
		}

		account, err := m.Account(txCtx)
		if err != nil {
			return err
		}

		anyPush := false
		allWon := true
		for _, leg := range bet.Legs {
			actual, ok := legResults[leg.ID]
			if !ok {
				return fmt.Errorf("missing result for parlay leg %s (%s %s)", leg.ID, leg.PlayerName, leg.Stat)
			}

			outcome := models.DecideOutcome(leg.Direction, actual, leg.Line)
			v := actual
			leg.ActualResult = &v
			leg.Status = outcome

			switch outcome {
			case models.BetStatusVoid:
				anyPush = true
			case models.BetStatusLost:
				allWon = false
			}
		}

		now := time.Now().UTC()
		bet.ResolvedAt = &now

		switch {
		case anyPush:
			bet.Status = models.BetStatusVoid
			bet.ProfitLoss = decimal.Zero
			account.CurrentBankroll = account.CurrentBankroll.Add(bet.Stake)
			account.TotalBetsVoid++
		case allWon:
			bet.Status = models.BetStatusWon
			bet.ProfitLoss = bet.PotentialPayout.Sub(bet.Stake)
			account.CurrentBankroll = account.CurrentBankroll.Add(bet.PotentialPayout)
			account.TotalBetsWon++
		default:
			bet.Status = models.BetStatusLost
			bet.ProfitLoss = bet.Stake.Neg()
			account.TotalBetsLost++
		}
		profitLoss = bet.ProfitLoss

		for _, leg := range bet.Legs {
			if err := m.parlays.UpdateLeg(txCtx, leg); err != nil {
				return err
			}
		}
		if err := m.parlays.Update(txCtx, bet); err != nil {
			return err
		}
		if err := m.accounts.Update(txCtx, account); err != nil {
			return err
		}
		if err := m.snapshot(txCtx, account); err != nil {
			return err
		}

		m.betLog.LogParlayResolved(bet.ID.String(), string(bet.Status), bet.NumPicks, profitLoss)
		metrics.BetsResolvedTotal.WithLabelValues(string(bet.Status)).Inc()
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return profitLoss, nil
}

// VoidBet cancels a pending bet and refunds its stake. Used for DNPs and
// markets that never settle.
func (m *Manager) VoidBet(ctx context.Context, betID uuid.UUID, kind models.BetKind, reason string) error {
	err := m.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		account, err := m.Account(txCtx)
		if err != nil {
			return err
		}

		var stake decimal.Decimal
		now := time.Now().UTC()

		switch kind {
		case models.BetKindSingle:
			bet, err := m.singles.GetByID(txCtx, betID)
			if err != nil {
				return err
			}
			if !bet.IsPending() {
				return models.ErrAlreadyResolved
			}
			bet.Status = models.BetStatusVoid
			bet.ProfitLoss = decimal.Zero
			bet.ResolvedAt = &now
			stake = bet.Stake
			if err := m.singles.Update(txCtx, bet); err != nil {
				return err
			}

		case models.BetKindParlay:
			bet, err := m.parlays.GetByID(txCtx, betID)
			if err != nil {
				return err
			}
			if !bet.IsPending() {
				return models.ErrAlreadyResolved
			}
			bet.Status = models.BetStatusVoid
			bet.ProfitLoss = decimal.Zero
			bet.ResolvedAt = &now
			stake = bet.Stake
			for _, leg := range bet.Legs {
				if leg.Status == models.BetStatusPending {
					leg.Status = models.BetStatusVoid
					if err := m.parlays.UpdateLeg(txCtx, leg); err != nil {
						return err
					}
				}
			}
			if err := m.parlays.Update(txCtx, bet); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown bet kind %q", kind)
		}

		account.CurrentBankroll = account.CurrentBankroll.Add(stake)
		account.TotalBetsVoid++

		if err := m.accounts.Update(txCtx, account); err != nil {
			return err
		}
		return m.snapshot(txCtx, account)
	})
	if err != nil {
		return err
	}

	m.betLog.LogBetVoided(betID.String(), string(kind), reason)
	metrics.BetsResolvedTotal.WithLabelValues(string(models.BetStatusVoid)).Inc()
	return nil
}

// ResetAccount wipes the account back to a fresh state: both bankrolls
// set to newBankroll, all counters zeroed, and a snapshot appended.
// Previously placed bets keep their rows and are not touched.
func (m *Manager) ResetAccount(ctx context.Context, newBankroll decimal.Decimal) error {
	if newBankroll.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("new bankroll must be positive, got %s", newBankroll)
	}

	err := m.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		account, err := m.Account(txCtx)
		if err != nil {
			return err
		}

		account.StartingBankroll = newBankroll
		account.CurrentBankroll = newBankroll
		account.TotalBetsPlaced = 0
		account.TotalBetsWon = 0
		account.TotalBetsLost = 0
		account.TotalBetsVoid = 0

		if err := m.accounts.Update(txCtx, account); err != nil {
			return err
		}
		return m.snapshot(txCtx, account)
	})
	if err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"user_id":  m.cfg.UserID,
		"bankroll": newBankroll,
	}).Info("Reset paper trading account")
	return nil
}

// snapshot appends a bankroll snapshot for the account's current state.
// Must run inside the same transaction as the balance mutation.
func (m *Manager) snapshot(ctx context.Context, account *models.Account) error {
	bankroll, _ := account.CurrentBankroll.Float64()
	metrics.CurrentBankroll.Set(bankroll)

	return m.snapshots.Append(ctx, &models.BankrollSnapshot{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Bankroll:    account.CurrentBankroll,
		TotalProfit: account.TotalProfit(),
		TotalBets:   account.TotalBetsPlaced,
		WinRate:     account.WinRate(),
		Timestamp:   time.Now().UTC(),
	})
}
