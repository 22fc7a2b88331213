package service

import (
	"context"
	"io"
	"log"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/propedge/internal/datasource"
	"github.com/yourusername/propedge/internal/models"
)

// fakeSource returns canned provider data
type fakeSource struct {
	players  []datasource.PlayerData
	teams    []datasource.TeamData
	defense  []datasource.TeamDefenseData
	gameLogs map[int64][]datasource.GameData
	disabled bool
	err      error
}

func (f *fakeSource) FetchPlayers(ctx context.Context) ([]datasource.PlayerData, error) {
	return f.players, f.err
}

func (f *fakeSource) FetchTeams(ctx context.Context) ([]datasource.TeamData, error) {
	return f.teams, f.err
}

func (f *fakeSource) FetchTeamDefense(ctx context.Context, season string) ([]datasource.TeamDefenseData, error) {
	return f.defense, f.err
}

func (f *fakeSource) FetchPlayerGameLog(ctx context.Context, leaguePlayerID int64, season string) ([]datasource.GameData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.gameLogs[leaguePlayerID], nil
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) IsEnabled() bool { return !f.disabled }

type memPlayers struct {
	byName map[string]*models.Player
}

func (m *memPlayers) Upsert(ctx context.Context, player *models.Player) error {
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	m.byName[player.Name] = player
	return nil
}

func (m *memPlayers) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	for _, p := range m.byName {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memPlayers) GetByName(ctx context.Context, name string) (*models.Player, error) {
	p, ok := m.byName[name]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (m *memPlayers) GetByLeagueID(ctx context.Context, leagueID int64) (*models.Player, error) {
	for _, p := range m.byName {
		if p.LeagueID == leagueID {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memPlayers) List(ctx context.Context) ([]*models.Player, error) {
	players := make([]*models.Player, 0, len(m.byName))
	for _, p := range m.byName {
		players = append(players, p)
	}
	return players, nil
}

type memTeams struct {
	byKey    map[string]*models.Team
	profiles map[uuid.UUID]*models.TeamDefensiveProfile
}

func (m *memTeams) Upsert(ctx context.Context, team *models.Team) error {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	m.byKey[team.Name] = team
	m.byKey[team.Abbreviation] = team
	return nil
}

func (m *memTeams) GetByNameOrAbbreviation(ctx context.Context, nameOrAbbrev string) (*models.Team, error) {
	team, ok := m.byKey[nameOrAbbrev]
	if !ok {
		return nil, models.ErrNotFound
	}
	return team, nil
}

func (m *memTeams) List(ctx context.Context) ([]*models.Team, error) {
	seen := make(map[uuid.UUID]bool)
	var teams []*models.Team
	for _, t := range m.byKey {
		if !seen[t.ID] {
			seen[t.ID] = true
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (m *memTeams) UpsertDefensiveProfile(ctx context.Context, profile *models.TeamDefensiveProfile) error {
	m.profiles[profile.TeamID] = profile
	return nil
}

func (m *memTeams) GetDefensiveProfileByTeam(ctx context.Context, nameOrAbbrev string) (*models.TeamDefensiveProfile, error) {
	team, err := m.GetByNameOrAbbreviation(ctx, nameOrAbbrev)
	if err != nil {
		return nil, err
	}
	profile, ok := m.profiles[team.ID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return profile, nil
}

type memGames struct {
	rows        []*models.GameRecord
	restUpdates int
}

func (m *memGames) Upsert(ctx context.Context, game *models.GameRecord) error {
	for _, g := range m.rows {
		if g.PlayerID == game.PlayerID && g.GameDate.Equal(game.GameDate) {
			// stat line replaced, identity and rest chain preserved
			id, rest, b2b := g.ID, g.DaysRest, g.IsBackToBack
			*g = *game
			g.ID, g.DaysRest, g.IsBackToBack = id, rest, b2b
			return nil
		}
	}
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	m.rows = append(m.rows, game)
	return nil
}

func (m *memGames) GetRecentByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.GameRecord, error) {
	games, _ := m.ListByPlayerAsc(ctx, playerID)
	sort.Slice(games, func(i, j int) bool {
		return games[i].GameDate.After(games[j].GameDate)
	})
	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func (m *memGames) GetByPlayerAndDate(ctx context.Context, playerID uuid.UUID, date time.Time, opponent *string) (*models.GameRecord, error) {
	for _, g := range m.rows {
		if g.PlayerID == playerID && g.GameDate.Equal(date) {
			return g, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memGames) GetFirstOnOrAfter(ctx context.Context, playerID uuid.UUID, from time.Time, opponent *string) (*models.GameRecord, error) {
	return nil, models.ErrNotFound
}

func (m *memGames) ListByPlayerAsc(ctx context.Context, playerID uuid.UUID) ([]*models.GameRecord, error) {
	var games []*models.GameRecord
	for _, g := range m.rows {
		if g.PlayerID == playerID {
			games = append(games, g)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].GameDate.Before(games[j].GameDate)
	})
	return games, nil
}

func (m *memGames) UpdateRest(ctx context.Context, id uuid.UUID, daysRest *int, isBackToBack bool) error {
	for _, g := range m.rows {
		if g.ID == id {
			g.DaysRest = daysRest
			g.IsBackToBack = isBackToBack
			m.restUpdates++
			return nil
		}
	}
	return models.ErrNotFound
}

type serviceFixture struct {
	svc     *IngestionService
	source  *fakeSource
	players *memPlayers
	teams   *memTeams
	games   *memGames
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		source:  &fakeSource{gameLogs: make(map[int64][]datasource.GameData)},
		players: &memPlayers{byName: make(map[string]*models.Player)},
		teams:   &memTeams{byKey: make(map[string]*models.Team), profiles: make(map[uuid.UUID]*models.TeamDefensiveProfile)},
		games:   &memGames{},
	}
	quiet := log.New(io.Discard, "", 0)
	f.svc = NewIngestionService(f.source, f.players, f.teams, f.games, quiet, "2025")
	return f
}

func (f *serviceFixture) trackPlayer(name string, leagueID int64) *models.Player {
	player := &models.Player{ID: uuid.New(), LeagueID: leagueID, Name: name}
	f.players.byName[name] = player
	return player
}

func gameOn(date time.Time, points float64) datasource.GameData {
	minutes := 33.0
	return datasource.GameData{
		GameDate: date,
		Opponent: "BOS",
		Points:   &points,
		Minutes:  &minutes,
	}
}

func TestSyncPlayers(t *testing.T) {
	f := newServiceFixture(t)
	team := "LAL"
	f.source.players = []datasource.PlayerData{
		{LeagueID: 1, Name: "Valid Player", Team: &team},
		{LeagueID: 0, Name: "Invalid Player"}, // bad league ID
		{LeagueID: 2, Name: ""},               // missing name
	}

	require.NoError(t, f.svc.SyncPlayers(context.Background()))

	assert.Len(t, f.players.byName, 1)
	assert.Contains(t, f.players.byName, "Valid Player")
	assert.Equal(t, 1, f.svc.Metrics().Players)
	assert.Equal(t, 2, f.svc.Metrics().ValidationErrors)
}

func TestSyncPlayersDisabledSource(t *testing.T) {
	f := newServiceFixture(t)
	f.source.disabled = true

	err := f.svc.SyncPlayers(context.Background())
	assert.Error(t, err)
}

func TestSyncDefensiveProfiles(t *testing.T) {
	f := newServiceFixture(t)
	require.NoError(t, f.teams.Upsert(context.Background(), &models.Team{LeagueID: 1, Name: "Boston Celtics", Abbreviation: "BOS"}))

	rating := 110.5
	f.source.defense = []datasource.TeamDefenseData{
		{TeamName: "BOS", DefRating: &rating},
		{TeamName: "Nowhere FC", DefRating: &rating}, // not a tracked team
	}

	require.NoError(t, f.svc.SyncDefensiveProfiles(context.Background()))

	profile, err := f.teams.GetDefensiveProfileByTeam(context.Background(), "BOS")
	require.NoError(t, err)
	assert.Equal(t, 110.5, *profile.DefRating)
	assert.Equal(t, "Boston Celtics", profile.TeamName)
}

func TestIngestPlayerGamesCapsAtNewest(t *testing.T) {
	f := newServiceFixture(t)
	player := f.trackPlayer("Test Player", 7)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// oldest first in the feed; the cap must keep the newest
	f.source.gameLogs[7] = []datasource.GameData{
		gameOn(base, 10),
		gameOn(base.AddDate(0, 0, 2), 20),
		gameOn(base.AddDate(0, 0, 4), 30),
		gameOn(base.AddDate(0, 0, 6), 40),
	}

	require.NoError(t, f.svc.IngestPlayerGames(context.Background(), "Test Player", 2))

	games, _ := f.games.ListByPlayerAsc(context.Background(), player.ID)
	require.Len(t, games, 2)
	assert.Equal(t, 30.0, *games[0].Points)
	assert.Equal(t, 40.0, *games[1].Points)
}

func TestIngestPlayerGamesSkipsInvalidRows(t *testing.T) {
	f := newServiceFixture(t)
	player := f.trackPlayer("Test Player", 7)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bad := gameOn(base.AddDate(0, 0, 2), 500) // impossible points total
	f.source.gameLogs[7] = []datasource.GameData{gameOn(base, 25), bad}

	require.NoError(t, f.svc.IngestPlayerGames(context.Background(), "Test Player", 0))

	games, _ := f.games.ListByPlayerAsc(context.Background(), player.ID)
	require.Len(t, games, 1)
	assert.Equal(t, 25.0, *games[0].Points)
	assert.Equal(t, 1, f.svc.Metrics().ValidationErrors)
}

func TestIngestPlayerGamesUnknownPlayer(t *testing.T) {
	f := newServiceFixture(t)
	err := f.svc.IngestPlayerGames(context.Background(), "Nobody", 0)
	assert.Error(t, err)
}

func TestRecomputeRest(t *testing.T) {
	f := newServiceFixture(t)
	player := f.trackPlayer("Test Player", 7)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.source.gameLogs[7] = []datasource.GameData{
		gameOn(base, 10),                 // first game: rest unknown
		gameOn(base.AddDate(0, 0, 1), 20), // next day: back-to-back
		gameOn(base.AddDate(0, 0, 3), 30), // one free day
		gameOn(base.AddDate(0, 0, 9), 40), // five free days
	}

	require.NoError(t, f.svc.IngestPlayerGames(context.Background(), "Test Player", 0))

	games, _ := f.games.ListByPlayerAsc(context.Background(), player.ID)
	require.Len(t, games, 4)

	assert.Nil(t, games[0].DaysRest)
	assert.False(t, games[0].IsBackToBack)

	require.NotNil(t, games[1].DaysRest)
	assert.Equal(t, 0, *games[1].DaysRest)
	assert.True(t, games[1].IsBackToBack)

	require.NotNil(t, games[2].DaysRest)
	assert.Equal(t, 1, *games[2].DaysRest)
	assert.False(t, games[2].IsBackToBack)

	require.NotNil(t, games[3].DaysRest)
	assert.Equal(t, 5, *games[3].DaysRest)
}

func TestRecomputeRestSkipsUnchangedRows(t *testing.T) {
	f := newServiceFixture(t)
	f.trackPlayer("Test Player", 7)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.source.gameLogs[7] = []datasource.GameData{
		gameOn(base, 10),
		gameOn(base.AddDate(0, 0, 2), 20),
	}

	require.NoError(t, f.svc.IngestPlayerGames(context.Background(), "Test Player", 0))
	writes := f.games.restUpdates

	// re-ingest the same feed: rest values are already correct
	require.NoError(t, f.svc.IngestPlayerGames(context.Background(), "Test Player", 0))
	assert.Equal(t, writes, f.games.restUpdates, "unchanged rest rows should not be rewritten")
}

func TestIngestAllConfiguredIsolatesFailures(t *testing.T) {
	f := newServiceFixture(t)
	f.trackPlayer("Known Player", 7)
	f.source.gameLogs[7] = []datasource.GameData{gameOn(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 22)}

	ok, failed := f.svc.IngestAllConfigured(context.Background(), []string{"Known Player", "Unknown Player"}, 0)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
}

func TestValidateGame(t *testing.T) {
	v := NewDataValidator(log.New(io.Discard, "", 0))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	valid := func() *models.GameRecord {
		pts, mins := 25.0, 33.0
		return &models.GameRecord{GameDate: base, Opponent: "BOS", Points: &pts, Minutes: &mins}
	}

	t.Run("valid game passes", func(t *testing.T) {
		assert.Empty(t, v.ValidateGame(valid()))
	})

	tests := []struct {
		name   string
		mutate func(*models.GameRecord)
	}{
		{"missing date", func(g *models.GameRecord) { g.GameDate = time.Time{} }},
		{"future date", func(g *models.GameRecord) { g.GameDate = time.Now().Add(72 * time.Hour) }},
		{"missing opponent", func(g *models.GameRecord) { g.Opponent = "" }},
		{"negative minutes", func(g *models.GameRecord) { m := -1.0; g.Minutes = &m }},
		{"excessive minutes", func(g *models.GameRecord) { m := 61.0; g.Minutes = &m }},
		{"excessive points", func(g *models.GameRecord) { p := 121.0; g.Points = &p }},
		{"excessive rebounds", func(g *models.GameRecord) { r := 41.0; g.Rebounds = &r }},
		{"excessive steals", func(g *models.GameRecord) { s := 16.0; g.Steals = &s }},
		{"excessive turnovers", func(g *models.GameRecord) { v := 21.0; g.Turnovers = &v }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := valid()
			tt.mutate(game)
			assert.NotEmpty(t, v.ValidateGame(game))
		})
	}
}

func TestValidatePlayer(t *testing.T) {
	v := NewDataValidator(log.New(io.Discard, "", 0))

	assert.Empty(t, v.ValidatePlayer(&models.Player{Name: "Valid", LeagueID: 1}))
	assert.NotEmpty(t, v.ValidatePlayer(&models.Player{Name: "", LeagueID: 1}))
	assert.NotEmpty(t, v.ValidatePlayer(&models.Player{Name: "No ID", LeagueID: 0}))
}

func TestSameRest(t *testing.T) {
	one, alsoOne, two := 1, 1, 2

	assert.True(t, sameRest(nil, nil))
	assert.True(t, sameRest(&one, &alsoOne))
	assert.False(t, sameRest(&one, &two))
	assert.False(t, sameRest(&one, nil))
	assert.False(t, sameRest(nil, &one))
}
