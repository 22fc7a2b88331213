package ledger

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/propedge/internal/models"
)

type fakeGames struct {
	byPlayer map[uuid.UUID][]*models.GameRecord
}

func newFakeGames() *fakeGames {
	return &fakeGames{byPlayer: make(map[uuid.UUID][]*models.GameRecord)}
}

func (f *fakeGames) add(game *models.GameRecord) {
	f.byPlayer[game.PlayerID] = append(f.byPlayer[game.PlayerID], game)
}

func (f *fakeGames) Upsert(ctx context.Context, game *models.GameRecord) error {
	f.add(game)
	return nil
}

func (f *fakeGames) GetRecentByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.GameRecord, error) {
	games := f.byPlayer[playerID]
	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func matchesOpponent(game *models.GameRecord, opponent *string) bool {
	return opponent == nil || game.Opponent == *opponent
}

func (f *fakeGames) GetByPlayerAndDate(ctx context.Context, playerID uuid.UUID, date time.Time, opponent *string) (*models.GameRecord, error) {
	for _, game := range f.byPlayer[playerID] {
		if game.GameDate.Equal(date) && matchesOpponent(game, opponent) {
			return game, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeGames) GetFirstOnOrAfter(ctx context.Context, playerID uuid.UUID, from time.Time, opponent *string) (*models.GameRecord, error) {
	var candidates []*models.GameRecord
	for _, game := range f.byPlayer[playerID] {
		if !game.GameDate.Before(from) && matchesOpponent(game, opponent) {
			candidates = append(candidates, game)
		}
	}
	if len(candidates) == 0 {
		return nil, models.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].GameDate.Before(candidates[j].GameDate)
	})
	return candidates[0], nil
}

func (f *fakeGames) ListByPlayerAsc(ctx context.Context, playerID uuid.UUID) ([]*models.GameRecord, error) {
	games := append([]*models.GameRecord(nil), f.byPlayer[playerID]...)
	sort.Slice(games, func(i, j int) bool {
		return games[i].GameDate.Before(games[j].GameDate)
	})
	return games, nil
}

func (f *fakeGames) UpdateRest(ctx context.Context, id uuid.UUID, daysRest *int, isBackToBack bool) error {
	return nil
}

func newResolverFixture(t *testing.T, playerNames ...string) (*ledgerFixture, *fakeGames, *Resolver) {
	t.Helper()
	f := newLedgerFixture(t, playerNames...)
	games := newFakeGames()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return f, games, NewResolver(f.manager, games, log)
}

func playedGame(playerID uuid.UUID, date time.Time, opponent string, points float64) *models.GameRecord {
	minutes := 34.0
	return &models.GameRecord{
		ID:       uuid.New(),
		PlayerID: playerID,
		GameDate: date,
		Opponent: opponent,
		Points:   &points,
		Minutes:  &minutes,
	}
}

func TestAutoResolveExactDateMatch(t *testing.T) {
	f, games, resolver := newResolverFixture(t)
	ctx := context.Background()

	gameDate := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	opponent := "BOS"

	req := singleRequest(50)
	req.GameDate = &gameDate
	req.Opponent = &opponent
	betID, err := f.manager.PlaceSingleBet(ctx, req)
	require.NoError(t, err)

	player, _ := f.players.GetByName(ctx, "Test Player")
	games.add(playedGame(player.ID, gameDate, "BOS", 30.0))

	resolved, failed := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 0, failed)

	bet, _ := f.singles.GetByID(ctx, betID)
	assert.Equal(t, models.BetStatusWon, bet.Status)
	assert.Equal(t, 30.0, *bet.ActualResult)
}

func TestAutoResolveFallsBackToPlacementDate(t *testing.T) {
	f, games, resolver := newResolverFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)

	player, _ := f.players.GetByName(ctx, "Test Player")
	// first game after placement is the one the bet settles against
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	games.add(playedGame(player.ID, tomorrow.AddDate(0, 0, 2), "NYK", 40.0))
	games.add(playedGame(player.ID, tomorrow, "BOS", 20.0))

	resolved, failed := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 0, failed)

	bet, _ := f.singles.GetByID(ctx, betID)
	assert.Equal(t, models.BetStatusLost, bet.Status)
	assert.Equal(t, 20.0, *bet.ActualResult)
}

func TestAutoResolveRespectsOpponentFilter(t *testing.T) {
	f, games, resolver := newResolverFixture(t)
	ctx := context.Background()

	opponent := "NYK"
	req := singleRequest(50)
	req.Opponent = &opponent
	betID, err := f.manager.PlaceSingleBet(ctx, req)
	require.NoError(t, err)

	player, _ := f.players.GetByName(ctx, "Test Player")
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	games.add(playedGame(player.ID, tomorrow, "BOS", 20.0))
	games.add(playedGame(player.ID, tomorrow.AddDate(0, 0, 2), "NYK", 30.0))

	resolved, _ := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 1, resolved)

	bet, _ := f.singles.GetByID(ctx, betID)
	assert.Equal(t, 30.0, *bet.ActualResult, "should skip the BOS game and settle against NYK")
}

func TestAutoResolveDNPVoidsBet(t *testing.T) {
	f, games, resolver := newResolverFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)

	player, _ := f.players.GetByName(ctx, "Test Player")
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	dnp := playedGame(player.ID, tomorrow, "BOS", 0)
	zero := 0.0
	dnp.Minutes = &zero
	games.add(dnp)

	resolved, failed := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 0, failed)

	bet, _ := f.singles.GetByID(ctx, betID)
	assert.Equal(t, models.BetStatusVoid, bet.Status)

	account, _ := f.manager.Account(ctx)
	assert.Equal(t, "1000", account.CurrentBankroll.String())
}

func TestAutoResolveSkipsUningestedGames(t *testing.T) {
	f, _, resolver := newResolverFixture(t)
	ctx := context.Background()

	betID, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)

	resolved, failed := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 0, resolved)
	assert.Equal(t, 0, failed)

	bet, _ := f.singles.GetByID(ctx, betID)
	assert.Equal(t, models.BetStatusPending, bet.Status, "bet stays pending until its game is ingested")
}

func TestAutoResolveIsolatesFailures(t *testing.T) {
	f, games, resolver := newResolverFixture(t)
	ctx := context.Background()

	okBet, err := f.manager.PlaceSingleBet(ctx, singleRequest(50))
	require.NoError(t, err)

	badReq := singleRequest(25)
	badReq.Stat = models.StatRebounds
	badBet, err := f.manager.PlaceSingleBet(ctx, badReq)
	require.NoError(t, err)

	player, _ := f.players.GetByName(ctx, "Test Player")
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	// the ingested game has points but no rebounds recorded
	games.add(playedGame(player.ID, tomorrow, "BOS", 30.0))

	resolved, failed := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 1, failed)

	bet, _ := f.singles.GetByID(ctx, okBet)
	assert.Equal(t, models.BetStatusWon, bet.Status)
	bet, _ = f.singles.GetByID(ctx, badBet)
	assert.Equal(t, models.BetStatusPending, bet.Status)
}

func TestAutoResolveParlay(t *testing.T) {
	f, games, resolver := newResolverFixture(t, "Player A", "Player B")
	ctx := context.Background()

	parlayID, err := f.manager.PlaceParlayBet(ctx, parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatPoints, 19.5, models.DirectionUnder),
	))
	require.NoError(t, err)

	a, _ := f.players.GetByName(ctx, "Player A")
	b, _ := f.players.GetByName(ctx, "Player B")
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	games.add(playedGame(a.ID, tomorrow, "BOS", 30.0))
	games.add(playedGame(b.ID, tomorrow, "MIA", 15.0))

	resolved, failed := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 0, failed)

	bet, _ := f.parlays.GetByID(ctx, parlayID)
	assert.Equal(t, models.BetStatusWon, bet.Status)
}

func TestAutoResolveParlayWaitsForAllLegs(t *testing.T) {
	f, games, resolver := newResolverFixture(t, "Player A", "Player B")
	ctx := context.Background()

	parlayID, err := f.manager.PlaceParlayBet(ctx, parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatPoints, 19.5, models.DirectionUnder),
	))
	require.NoError(t, err)

	a, _ := f.players.GetByName(ctx, "Player A")
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	games.add(playedGame(a.ID, tomorrow, "BOS", 30.0))

	resolved, failed := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 0, resolved)
	assert.Equal(t, 0, failed)

	bet, _ := f.parlays.GetByID(ctx, parlayID)
	assert.Equal(t, models.BetStatusPending, bet.Status)
}

func TestAutoResolveParlayDNPLegVoidsParlay(t *testing.T) {
	f, games, resolver := newResolverFixture(t, "Player A", "Player B")
	ctx := context.Background()

	parlayID, err := f.manager.PlaceParlayBet(ctx, parlayRequest(20,
		parlayLeg("Player A", models.StatPoints, 24.5, models.DirectionOver),
		parlayLeg("Player B", models.StatPoints, 19.5, models.DirectionUnder),
	))
	require.NoError(t, err)

	a, _ := f.players.GetByName(ctx, "Player A")
	b, _ := f.players.GetByName(ctx, "Player B")
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	games.add(playedGame(a.ID, tomorrow, "BOS", 30.0))
	dnp := playedGame(b.ID, tomorrow, "MIA", 0)
	dnp.Minutes = nil
	games.add(dnp)

	resolved, failed := resolver.AutoResolveAll(ctx)
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 0, failed)

	bet, _ := f.parlays.GetByID(ctx, parlayID)
	assert.Equal(t, models.BetStatusVoid, bet.Status)

	account, _ := f.manager.Account(ctx)
	assert.Equal(t, "1000", account.CurrentBankroll.String())
}
