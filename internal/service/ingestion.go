// Package service implements the data ingestion workflow: syncing
// players and teams, refreshing defensive ratings and pulling per-player
// game logs from the stats provider.
package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/propedge/internal/datasource"
	"github.com/yourusername/propedge/internal/metrics"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/repository"
)

// IngestionService handles the data ingestion workflow
type IngestionService struct {
	source    datasource.StatsSource
	players   repository.PlayerRepository
	teams     repository.TeamRepository
	games     repository.GameRepository
	validator *DataValidator
	metrics   *IngestionMetrics
	logger    *log.Logger
	season    string
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source datasource.StatsSource,
	players repository.PlayerRepository,
	teams repository.TeamRepository,
	games repository.GameRepository,
	logger *log.Logger,
	season string,
) *IngestionService {
	return &IngestionService{
		source:    source,
		players:   players,
		teams:     teams,
		games:     games,
		validator: NewDataValidator(logger),
		metrics:   NewIngestionMetrics(),
		logger:    logger,
		season:    season,
	}
}

// Metrics returns the service's running counters
func (s *IngestionService) Metrics() *IngestionMetrics {
	return s.metrics
}

// SyncPlayers fetches the league's players and upserts them
func (s *IngestionService) SyncPlayers(ctx context.Context) error {
	if !s.source.IsEnabled() {
		return fmt.Errorf("data source %s is disabled", s.source.Name())
	}

	players, err := s.source.FetchPlayers(ctx)
	if err != nil {
		s.metrics.RecordError()
		return fmt.Errorf("failed to fetch players: %w", err)
	}

	for _, p := range players {
		player := &models.Player{
			LeagueID: p.LeagueID,
			Name:     p.Name,
			Team:     p.Team,
			Position: p.Position,
		}
		if errs := s.validator.ValidatePlayer(player); len(errs) > 0 {
			s.metrics.RecordValidationError()
			s.logger.Printf("Skipping invalid player %q: %v", p.Name, errs)
			continue
		}
		if err := s.players.Upsert(ctx, player); err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Failed to upsert player %q: %v", p.Name, err)
			continue
		}
		s.metrics.RecordPlayer()
	}

	s.logger.Printf("Synced %d players from %s", len(players), s.source.Name())
	return nil
}

// SyncTeams fetches all teams and upserts them
func (s *IngestionService) SyncTeams(ctx context.Context) error {
	teams, err := s.source.FetchTeams(ctx)
	if err != nil {
		s.metrics.RecordError()
		return fmt.Errorf("failed to fetch teams: %w", err)
	}

	for _, t := range teams {
		team := &models.Team{
			LeagueID:     t.LeagueID,
			Name:         t.Name,
			Abbreviation: t.Abbreviation,
		}
		if err := s.teams.Upsert(ctx, team); err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Failed to upsert team %q: %v", t.Name, err)
		}
	}

	s.logger.Printf("Synced %d teams from %s", len(teams), s.source.Name())
	return nil
}

// SyncDefensiveProfiles fetches the season's defensive ratings and stores
// one profile per team. Teams the provider reports but we do not track
// are skipped.
func (s *IngestionService) SyncDefensiveProfiles(ctx context.Context) error {
	ratings, err := s.source.FetchTeamDefense(ctx, s.season)
	if err != nil {
		s.metrics.RecordError()
		return fmt.Errorf("failed to fetch team defense: %w", err)
	}

	updated := 0
	for _, d := range ratings {
		team, err := s.teams.GetByNameOrAbbreviation(ctx, d.TeamName)
		if err != nil {
			s.logger.Printf("Unknown team in defense feed: %q", d.TeamName)
			continue
		}

		profile := &models.TeamDefensiveProfile{
			TeamID:              team.ID,
			TeamName:            team.Name,
			DefRating:           d.DefRating,
			DefRatingVsGuards:   d.DefRatingVsGuards,
			DefRatingVsForwards: d.DefRatingVsForwards,
			DefRatingVsCenters:  d.DefRatingVsCenters,
		}
		if err := s.teams.UpsertDefensiveProfile(ctx, profile); err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Failed to upsert defensive profile for %q: %v", team.Name, err)
			continue
		}
		updated++
	}

	s.logger.Printf("Refreshed %d defensive profiles from %s", updated, s.source.Name())
	return nil
}

// IngestPlayerGames pulls a player's season game log and upserts the
// newest maxGames rows, then recomputes the rest-day chain across the
// player's full stored history. A maxGames of 0 ingests everything.
func (s *IngestionService) IngestPlayerGames(ctx context.Context, playerName string, maxGames int) error {
	start := time.Now()

	player, err := s.players.GetByName(ctx, playerName)
	if err != nil {
		return fmt.Errorf("player %q is not tracked: %w", playerName, err)
	}

	gameLog, err := s.source.FetchPlayerGameLog(ctx, player.LeagueID, s.season)
	if err != nil {
		s.metrics.RecordError()
		metrics.RecordIngestionError()
		return fmt.Errorf("failed to fetch game log for %q: %w", playerName, err)
	}

	// Newest first so a cap keeps the most recent games
	sort.Slice(gameLog, func(i, j int) bool {
		return gameLog[i].GameDate.After(gameLog[j].GameDate)
	})
	if maxGames > 0 && len(gameLog) > maxGames {
		gameLog = gameLog[:maxGames]
	}

	for _, g := range gameLog {
		record := &models.GameRecord{
			PlayerID:               player.ID,
			GameDate:               g.GameDate,
			Opponent:               g.Opponent,
			IsHome:                 g.IsHome,
			Points:                 g.Points,
			Rebounds:               g.Rebounds,
			Assists:                g.Assists,
			Steals:                 g.Steals,
			Blocks:                 g.Blocks,
			Turnovers:              g.Turnovers,
			Minutes:                g.Minutes,
			FieldGoalsMade:         g.FieldGoalsMade,
			FieldGoalsAttempted:    g.FieldGoalsAttempted,
			ThreePointersMade:      g.ThreePointersMade,
			ThreePointersAttempted: g.ThreePointersAttempted,
			FreeThrowsMade:         g.FreeThrowsMade,
			FreeThrowsAttempted:    g.FreeThrowsAttempted,
		}
		if errs := s.validator.ValidateGame(record); len(errs) > 0 {
			s.metrics.RecordValidationError()
			s.logger.Printf("Skipping invalid game for %q on %s: %v", playerName, g.GameDate.Format("2006-01-02"), errs)
			continue
		}
		if err := s.games.Upsert(ctx, record); err != nil {
			s.metrics.RecordError()
			metrics.RecordIngestionError()
			s.logger.Printf("Failed to upsert game for %q on %s: %v", playerName, g.GameDate.Format("2006-01-02"), err)
			continue
		}
		s.metrics.RecordGame()
		metrics.RecordGameIngested()
	}

	if err := s.RecomputeRest(ctx, player.ID); err != nil {
		return fmt.Errorf("failed to recompute rest for %q: %w", playerName, err)
	}

	metrics.IngestionDuration.Observe(time.Since(start).Seconds())
	s.logger.Printf("Ingested %d games for %q in %v", len(gameLog), playerName, time.Since(start).Round(time.Millisecond))
	return nil
}

// RecomputeRest rewrites days_rest and is_back_to_back across a player's
// full game history. Rest is the count of free days between consecutive
// games: consecutive dates mean zero rest, a back-to-back. The first
// known game has unknown rest.
func (s *IngestionService) RecomputeRest(ctx context.Context, playerID uuid.UUID) error {
	games, err := s.games.ListByPlayerAsc(ctx, playerID)
	if err != nil {
		return err
	}

	for i, game := range games {
		var daysRest *int
		backToBack := false

		if i > 0 {
			gap := int(game.GameDate.Sub(games[i-1].GameDate).Hours()/24) - 1
			if gap < 0 {
				gap = 0
			}
			daysRest = &gap
			backToBack = gap == 0
		}

		if sameRest(game.DaysRest, daysRest) && game.IsBackToBack == backToBack {
			continue
		}
		if err := s.games.UpdateRest(ctx, game.ID, daysRest, backToBack); err != nil {
			return err
		}
	}

	return nil
}

// IngestAllConfigured ingests the configured player list, isolating
// per-player failures.
func (s *IngestionService) IngestAllConfigured(ctx context.Context, players []string, maxGames int) (int, int) {
	ok, failed := 0, 0
	for _, name := range players {
		if err := s.IngestPlayerGames(ctx, name, maxGames); err != nil {
			s.logger.Printf("Ingestion failed for %q: %v", name, err)
			failed++
			continue
		}
		ok++
	}
	return ok, failed
}

func sameRest(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
