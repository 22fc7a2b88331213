package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/propedge/internal/config"
	"github.com/yourusername/propedge/internal/models"
)

// passTx runs the function directly, standing in for a real transaction
type passTx struct{}

func (passTx) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeAccounts struct {
	byUser map[string]*models.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byUser: make(map[string]*models.Account)}
}

func (f *fakeAccounts) Create(ctx context.Context, account *models.Account) error {
	f.byUser[account.UserID] = account
	return nil
}

func (f *fakeAccounts) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	account, ok := f.byUser[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return account, nil
}

func (f *fakeAccounts) Update(ctx context.Context, account *models.Account) error {
	if _, ok := f.byUser[account.UserID]; !ok {
		return models.ErrNotFound
	}
	f.byUser[account.UserID] = account
	return nil
}

type fakePlayers struct {
	byName map[string]*models.Player
}

func newFakePlayers(names ...string) *fakePlayers {
	f := &fakePlayers{byName: make(map[string]*models.Player)}
	for i, name := range names {
		f.byName[name] = &models.Player{ID: uuid.New(), LeagueID: int64(i + 1), Name: name}
	}
	return f
}

func (f *fakePlayers) Upsert(ctx context.Context, player *models.Player) error {
	f.byName[player.Name] = player
	return nil
}

func (f *fakePlayers) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	for _, p := range f.byName {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakePlayers) GetByName(ctx context.Context, name string) (*models.Player, error) {
	p, ok := f.byName[name]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (f *fakePlayers) GetByLeagueID(ctx context.Context, leagueID int64) (*models.Player, error) {
	for _, p := range f.byName {
		if p.LeagueID == leagueID {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakePlayers) List(ctx context.Context) ([]*models.Player, error) {
	players := make([]*models.Player, 0, len(f.byName))
	for _, p := range f.byName {
		players = append(players, p)
	}
	return players, nil
}

type fakeSingles struct {
	byID map[uuid.UUID]*models.SingleBet
}

func newFakeSingles() *fakeSingles {
	return &fakeSingles{byID: make(map[uuid.UUID]*models.SingleBet)}
}

func (f *fakeSingles) Create(ctx context.Context, bet *models.SingleBet) error {
	f.byID[bet.ID] = bet
	return nil
}

func (f *fakeSingles) GetByID(ctx context.Context, id uuid.UUID) (*models.SingleBet, error) {
	bet, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return bet, nil
}

func (f *fakeSingles) Update(ctx context.Context, bet *models.SingleBet) error {
	if _, ok := f.byID[bet.ID]; !ok {
		return models.ErrNotFound
	}
	f.byID[bet.ID] = bet
	return nil
}

func (f *fakeSingles) GetPending(ctx context.Context, accountID uuid.UUID) ([]*models.SingleBet, error) {
	var pending []*models.SingleBet
	for _, bet := range f.byID {
		if bet.AccountID == accountID && bet.IsPending() {
			pending = append(pending, bet)
		}
	}
	return pending, nil
}

func (f *fakeSingles) GetHistory(ctx context.Context, accountID uuid.UUID, status *models.BetStatus, limit int) ([]*models.SingleBet, error) {
	var history []*models.SingleBet
	for _, bet := range f.byID {
		if bet.AccountID != accountID || bet.IsPending() {
			continue
		}
		if status != nil && bet.Status != *status {
			continue
		}
		history = append(history, bet)
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

type fakeParlays struct {
	byID map[uuid.UUID]*models.ParlayBet
}

func newFakeParlays() *fakeParlays {
	return &fakeParlays{byID: make(map[uuid.UUID]*models.ParlayBet)}
}

func (f *fakeParlays) Create(ctx context.Context, bet *models.ParlayBet) error {
	f.byID[bet.ID] = bet
	return nil
}

func (f *fakeParlays) GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayBet, error) {
	bet, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return bet, nil
}

func (f *fakeParlays) Update(ctx context.Context, bet *models.ParlayBet) error {
	if _, ok := f.byID[bet.ID]; !ok {
		return models.ErrNotFound
	}
	f.byID[bet.ID] = bet
	return nil
}

func (f *fakeParlays) UpdateLeg(ctx context.Context, leg *models.ParlayLeg) error {
	bet, ok := f.byID[leg.ParlayID]
	if !ok {
		return models.ErrNotFound
	}
	for i, l := range bet.Legs {
		if l.ID == leg.ID {
			bet.Legs[i] = leg
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeParlays) GetPending(ctx context.Context, accountID uuid.UUID) ([]*models.ParlayBet, error) {
	var pending []*models.ParlayBet
	for _, bet := range f.byID {
		if bet.AccountID == accountID && bet.IsPending() {
			pending = append(pending, bet)
		}
	}
	return pending, nil
}

func (f *fakeParlays) GetHistory(ctx context.Context, accountID uuid.UUID, status *models.BetStatus, limit int) ([]*models.ParlayBet, error) {
	var history []*models.ParlayBet
	for _, bet := range f.byID {
		if bet.AccountID != accountID || bet.IsPending() {
			continue
		}
		if status != nil && bet.Status != *status {
			continue
		}
		history = append(history, bet)
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

type fakeSnapshots struct {
	rows []*models.BankrollSnapshot
}

func (f *fakeSnapshots) Append(ctx context.Context, snapshot *models.BankrollSnapshot) error {
	f.rows = append(f.rows, snapshot)
	return nil
}

func (f *fakeSnapshots) GetByAccountSince(ctx context.Context, accountID uuid.UUID, since time.Time) ([]*models.BankrollSnapshot, error) {
	var rows []*models.BankrollSnapshot
	for _, s := range f.rows {
		if s.AccountID == accountID && !s.Timestamp.Before(since) {
			rows = append(rows, s)
		}
	}
	return rows, nil
}

type ledgerFixture struct {
	manager   *Manager
	accounts  *fakeAccounts
	players   *fakePlayers
	singles   *fakeSingles
	parlays   *fakeParlays
	snapshots *fakeSnapshots
}

func newLedgerFixture(t *testing.T, playerNames ...string) *ledgerFixture {
	t.Helper()
	if len(playerNames) == 0 {
		playerNames = []string{"Test Player"}
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &ledgerFixture{
		accounts:  newFakeAccounts(),
		players:   newFakePlayers(playerNames...),
		singles:   newFakeSingles(),
		parlays:   newFakeParlays(),
		snapshots: &fakeSnapshots{},
	}
	cfg := &config.PaperTradingConfig{
		UserID:               "test_user",
		StartingBankroll:     1000,
		MinParlayProbability: 0.05,
		KellyFraction:        0.25,
	}
	f.manager = NewManager(passTx{}, f.accounts, f.players, f.singles, f.parlays, f.snapshots, cfg, log)
	return f
}

func singleRequest(stake float64) SingleBetRequest {
	return SingleBetRequest{
		PlayerName:  "Test Player",
		Stat:        models.StatPoints,
		Line:        24.5,
		Direction:   models.DirectionOver,
		Stake:       decimal.NewFromFloat(stake),
		Prediction:  27.2,
		Probability: 0.71,
		Confidence:  0.9,
	}
}

func TestAccountCreatedLazily(t *testing.T) {
	f := newLedgerFixture(t)

	account, err := f.manager.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test_user", account.UserID)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(1000)))

	again, err := f.manager.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID)
}

func TestPlaceSingleBetDebitsStake(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, betID)

	account, err := f.manager.Account(ctx)
	require.NoError(t, err)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(950)),
		"bankroll should be 950, got %s", account.CurrentBankroll)
	assert.Equal(t, 1, account.TotalBetsPlaced)

	bet, err := f.singles.GetByID(ctx, betID)
	require.NoError(t, err)
	assert.Equal(t, models.BetStatusPending, bet.Status)
	assert.True(t, bet.PotentialPayout.Equal(models.SinglePayout(bet.Stake)))

	require.Len(t, f.snapshots.rows, 1)
	assert.True(t, f.snapshots.rows[0].Bankroll.Equal(decimal.NewFromInt(950)))
}

func TestPlaceSingleBetInsufficientFunds(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.manager.PlaceSingleBet(context.Background(), singleRequest(1500))
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	account, err := f.manager.Account(context.Background())
	require.NoError(t, err)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 0, account.TotalBetsPlaced)
}

func TestPlaceSingleBetValidation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	t.Run("non-positive stake", func(t *testing.T) {
		req := singleRequest(0)
		_, err := f.manager.PlaceSingleBet(ctx, req)
		assert.Error(t, err)
	})

	t.Run("unknown stat", func(t *testing.T) {
		req := singleRequest(10)
		req.Stat = "dunks"
		_, err := f.manager.PlaceSingleBet(ctx, req)
		assert.Error(t, err)
	})

	t.Run("unknown player", func(t *testing.T) {
		req := singleRequest(10)
		req.PlayerName = "Nobody"
		_, err := f.manager.PlaceSingleBet(ctx, req)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestResolveSingleBetWin(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(110))
	require.NoError(t, err)

	profitLoss, err := f.manager.ResolveSingleBet(ctx, betID, 30.0)
	require.NoError(t, err)

	// -110 odds: $110 stake wins $100
	assert.True(t, profitLoss.Equal(decimal.NewFromInt(100)),
		"profit should be 100, got %s", profitLoss)

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(1100)),
		"bankroll should be 1100, got %s", account.CurrentBankroll)
	assert.Equal(t, 1, account.TotalBetsWon)

	bet, _ := f.singles.GetByID(ctx, betID)
	assert.Equal(t, models.BetStatusWon, bet.Status)
	assert.Equal(t, 30.0, *bet.ActualResult)
	assert.NotNil(t, bet.ResolvedAt)
}

func TestResolveSingleBetLoss(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)

	profitLoss, err := f.manager.ResolveSingleBet(ctx, betID, 20.0)
	require.NoError(t, err)
	assert.True(t, profitLoss.Equal(decimal.NewFromInt(-50)))

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(950)))
	assert.Equal(t, 1, account.TotalBetsLost)
}

func TestResolveSingleBetPushRefundsStake(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)

	// actual exactly on the line
	profitLoss, err := f.manager.ResolveSingleBet(ctx, betID, 24.5)
	require.NoError(t, err)
	assert.True(t, profitLoss.IsZero())

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, account.TotalBetsVoid)

	bet, _ := f.singles.GetByID(ctx, betID)
	assert.Equal(t, models.BetStatusVoid, bet.Status)
}

func TestResolveSingleBetTwiceFails(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)

	_, err = f.manager.ResolveSingleBet(ctx, betID, 30.0)
	require.NoError(t, err)

	_, err = f.manager.ResolveSingleBet(ctx, betID, 30.0)
	assert.ErrorIs(t, err, models.ErrAlreadyResolved)

	account, _ := f.manager.Account(ctx)
	assert.Equal(t, 1, account.TotalBetsWon)
}

func parlayRequest(stake float64, legs ...ParlayLegRequest) ParlayBetRequest {
	return ParlayBetRequest{
		Stake:            decimal.NewFromFloat(stake),
		PayoutMultiplier: 3.0,
		Probability:      0.4,
		ExpectedValue:    decimal.NewFromFloat(6.0),
		Legs:             legs,
	}
}

func parlayLeg(player string, stat models.StatCategory, line float64, direction models.Direction) ParlayLegRequest {
	return ParlayLegRequest{
		PlayerName:  player,
		Stat:        stat,
		Line:        line,
		Direction:   direction,
		Prediction:  line + 2,
		Probability: 0.65,
		Confidence:  0.8,
	}
}

func TestPlaceParlayBet(t *testing.T) {
	f := newLedgerFixture(t, "Player A", "Player B")
	ctx := context.Background()

	req := parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatAssists, 7.5, models.DirectionUnder),
	)

	parlayID, err := f.manager.PlaceParlayBet(ctx, req)
	require.NoError(t, err)

	bet, err := f.parlays.GetByID(ctx, parlayID)
	require.NoError(t, err)
	assert.Equal(t, 2, bet.NumPicks)
	require.Len(t, bet.Legs, 2)
	assert.True(t, bet.PotentialPayout.Equal(decimal.NewFromInt(60)))

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(980)))
}

func TestPlaceParlayBetValidation(t *testing.T) {
	f := newLedgerFixture(t, "Player A", "Player B")
	ctx := context.Background()

	t.Run("single leg rejected", func(t *testing.T) {
		req := parlayRequest(20, parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver))
		_, err := f.manager.PlaceParlayBet(ctx, req)
		assert.Error(t, err)
	})

	t.Run("unknown leg player", func(t *testing.T) {
		req := parlayRequest(20,
			parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
			parlayLeg("Nobody", models.StatAssists, 7.5, models.DirectionUnder),
		)
		_, err := f.manager.PlaceParlayBet(ctx, req)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestResolveParlayBetAllWon(t *testing.T) {
	f := newLedgerFixture(t, "Player A", "Player B")
	ctx := context.Background()

	parlayID, err := f.manager.PlaceParlayBet(ctx, parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatAssists, 7.5, models.DirectionUnder),
	))
	require.NoError(t, err)

	bet, _ := f.parlays.GetByID(ctx, parlayID)
	results := map[uuid.UUID]float64{
		bet.Legs[0].ID: 30.0, // over 24.5
		bet.Legs[1].ID: 5.0,  // under 7.5
	}

	profitLoss, err := f.manager.ResolveParlayBet(ctx, parlayID, results)
	require.NoError(t, err)
	assert.True(t, profitLoss.Equal(decimal.NewFromInt(40)),
		"payout 60 minus stake 20, got %s", profitLoss)

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(1040)))
	assert.Equal(t, 1, account.TotalBetsWon)

	bet, _ = f.parlays.GetByID(ctx, parlayID)
	assert.Equal(t, models.BetStatusWon, bet.Status)
	for _, leg := range bet.Legs {
		assert.Equal(t, models.BetStatusWon, leg.Status)
	}
}

func TestResolveParlayBetOneLossLosesAll(t *testing.T) {
	f := newLedgerFixture(t, "Player A", "Player B")
	ctx := context.Background()

	parlayID, err := f.manager.PlaceParlayBet(ctx, parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatAssists, 7.5, models.DirectionUnder),
	))
	require.NoError(t, err)

	bet, _ := f.parlays.GetByID(ctx, parlayID)
	results := map[uuid.UUID]float64{
		bet.Legs[0].ID: 30.0, // over 24.5: win
		bet.Legs[1].ID: 9.0,  // over 7.5: loss
	}

	profitLoss, err := f.manager.ResolveParlayBet(ctx, parlayID, results)
	require.NoError(t, err)
	assert.True(t, profitLoss.Equal(decimal.NewFromInt(-20)))

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(980)))
	assert.Equal(t, 1, account.TotalBetsLost)
}

func TestResolveParlayBetPushVoidsWholeParlay(t *testing.T) {
	f := newLedgerFixture(t, "Player A", "Player B")
	ctx := context.Background()

	parlayID, err := f.manager.PlaceParlayBet(ctx, parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatAssists, 7.5, models.DirectionUnder),
	))
	require.NoError(t, err)

	bet, _ := f.parlays.GetByID(ctx, parlayID)
	results := map[uuid.UUID]float64{
		bet.Legs[0].ID: 30.0, // would have won
		bet.Legs[1].ID: 7.5,  // push
	}

	profitLoss, err := f.manager.ResolveParlayBet(ctx, parlayID, results)
	require.NoError(t, err)
	assert.True(t, profitLoss.IsZero())

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(1000)),
		"push should refund the full stake, got %s", account.CurrentBankroll)
	assert.Equal(t, 1, account.TotalBetsVoid)

	bet, _ = f.parlays.GetByID(ctx, parlayID)
	assert.Equal(t, models.BetStatusVoid, bet.Status)
}

func TestResolveParlayBetMissingLegResult(t *testing.T) {
	f := newLedgerFixture(t, "Player A", "Player B")
	ctx := context.Background()

	parlayID, err := f.manager.PlaceParlayBet(ctx, parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatAssists, 7.5, models.DirectionUnder),
	))
	require.NoError(t, err)

	bet, _ := f.parlays.GetByID(ctx, parlayID)
	results := map[uuid.UUID]float64{bet.Legs[0].ID: 30.0}

	_, err = f.manager.ResolveParlayBet(ctx, parlayID, results)
	require.Error(t, err)

	// no mutation on failure
	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(980)))
	bet, _ = f.parlays.GetByID(ctx, parlayID)
	assert.Equal(t, models.BetStatusPending, bet.Status)
}

func TestVoidBetRefundsStake(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(75))
	require.NoError(t, err)

	require.NoError(t, f.manager.VoidBet(ctx, betID, models.BetKindSingle, "player did not play"))

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, account.TotalBetsVoid)

	bet, _ := f.singles.GetByID(ctx, betID)
	assert.Equal(t, models.BetStatusVoid, bet.Status)

	err = f.manager.VoidBet(ctx, betID, models.BetKindSingle, "again")
	assert.ErrorIs(t, err, models.ErrAlreadyResolved)
}

func TestVoidParlayVoidsPendingLegs(t *testing.T) {
	f := newLedgerFixture(t, "Player A", "Player B")
	ctx := context.Background()

	parlayID, err := f.manager.PlaceParlayBet(ctx, parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatAssists, 7.5, models.DirectionUnder),
	))
	require.NoError(t, err)

	require.NoError(t, f.manager.VoidBet(ctx, parlayID, models.BetKindParlay, "game cancelled"))

	bet, _ := f.parlays.GetByID(ctx, parlayID)
	assert.Equal(t, models.BetStatusVoid, bet.Status)
	for _, leg := range bet.Legs {
		assert.Equal(t, models.BetStatusVoid, leg.Status)
	}

	account, _ := f.manager.Account(ctx)
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(1000)))
}

func TestSnapshotAppendedPerOperation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)
	_, err = f.manager.ResolveSingleBet(ctx, betID, 30.0)
	require.NoError(t, err)

	require.Len(t, f.snapshots.rows, 2)
	assert.True(t, f.snapshots.rows[0].Bankroll.Equal(decimal.NewFromInt(950)))
	assert.True(t, f.snapshots.rows[1].Bankroll.GreaterThan(decimal.NewFromInt(990)))
	assert.Equal(t, 1, f.snapshots.rows[1].TotalBets)
	assert.InDelta(t, 100.0, f.snapshots.rows[1].WinRate, 1e-9)
}

func TestSummaryAndHistory(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	win, err := f.manager.PlaceSingleBet(ctx, singleRequest(110))
	require.NoError(t, err)
	loss, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)
	_, err = f.manager.PlaceSingleBet(ctx, singleRequest(25))
	require.NoError(t, err)

	_, err = f.manager.ResolveSingleBet(ctx, win, 30.0)
	require.NoError(t, err)
	_, err = f.manager.ResolveSingleBet(ctx, loss, 20.0)
	require.NoError(t, err)

	summary, err := f.manager.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalBetsPlaced)
	assert.Equal(t, 1, summary.TotalBetsWon)
	assert.Equal(t, 1, summary.TotalBetsLost)
	assert.Equal(t, 1, summary.PendingSingles)
	assert.InDelta(t, 50.0, summary.WinRate, 1e-9)
	// +100 won, -50 lost, -25 still staked
	assert.True(t, summary.CurrentBankroll.Equal(decimal.NewFromInt(1025)),
		"bankroll should be 1025, got %s", summary.CurrentBankroll)

	wonStatus := models.BetStatusWon
	history, err := f.manager.BetHistory(ctx, &wonStatus, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, win, history[0].ID)

	perf, err := f.manager.PerformanceByStat(ctx)
	require.NoError(t, err)
	points := perf[models.StatPoints]
	require.NotNil(t, points)
	assert.Equal(t, 2, points.Bets)
	assert.Equal(t, 1, points.Won)
	assert.InDelta(t, 50.0, points.WinRate, 1e-9)
}

func TestResetAccount(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	win, err := f.manager.PlaceSingleBet(ctx, singleRequest(110))
	require.NoError(t, err)
	_, err = f.manager.ResolveSingleBet(ctx, win, 30.0)
	require.NoError(t, err)

	require.NoError(t, f.manager.ResetAccount(ctx, decimal.NewFromInt(2000)))

	account, err := f.manager.Account(ctx)
	require.NoError(t, err)
	assert.True(t, account.StartingBankroll.Equal(decimal.NewFromInt(2000)))
	assert.True(t, account.CurrentBankroll.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 0, account.TotalBetsPlaced)
	assert.Equal(t, 0, account.TotalBetsWon)
	assert.Equal(t, 0, account.TotalBetsLost)
	assert.Equal(t, 0, account.TotalBetsVoid)

	// place, resolve, reset each append one
	require.Len(t, f.snapshots.rows, 3)
	last := f.snapshots.rows[2]
	assert.True(t, last.Bankroll.Equal(decimal.NewFromInt(2000)))
	assert.True(t, last.TotalProfit.IsZero())
	assert.Equal(t, 0, last.TotalBets)

	// resolved bet rows survive the reset
	bet, err := f.singles.GetByID(ctx, win)
	require.NoError(t, err)
	assert.Equal(t, models.BetStatusWon, bet.Status)
}

func TestResetAccountRejectsNonPositiveBankroll(t *testing.T) {
	f := newLedgerFixture(t)

	err := f.manager.ResetAccount(context.Background(), decimal.Zero)
	assert.Error(t, err)

	err = f.manager.ResetAccount(context.Background(), decimal.NewFromInt(-100))
	assert.Error(t, err)
}
