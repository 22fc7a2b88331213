package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/propedge/internal/database"
	"github.com/yourusername/propedge/internal/models"
)

// PostgresTeamRepository implements TeamRepository using PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new PostgreSQL team repository
func NewPostgresTeamRepository(db *database.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Upsert inserts a team or refreshes its name and abbreviation
func (r *PostgresTeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, league_id, name, abbreviation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (league_id) DO UPDATE SET
			name = EXCLUDED.name,
			abbreviation = EXCLUDED.abbreviation,
			updated_at = NOW()`

	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}

	_, err := r.db.Runner(ctx).Exec(ctx, query,
		team.ID, team.LeagueID, team.Name, team.Abbreviation)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetByNameOrAbbreviation retrieves a team matching either its full name
// or its short code.
func (r *PostgresTeamRepository) GetByNameOrAbbreviation(ctx context.Context, nameOrAbbrev string) (*models.Team, error) {
	query := `
		SELECT id, league_id, name, abbreviation, created_at, updated_at
		FROM teams WHERE name = $1 OR abbreviation = $1`

	team := &models.Team{}
	err := r.db.Runner(ctx).QueryRow(ctx, query, nameOrAbbrev).Scan(
		&team.ID, &team.LeagueID, &team.Name, &team.Abbreviation,
		&team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// List returns all teams ordered by name
func (r *PostgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT id, league_id, name, abbreviation, created_at, updated_at
		FROM teams ORDER BY name`

	rows, err := r.db.Runner(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		err := rows.Scan(&team.ID, &team.LeagueID, &team.Name,
			&team.Abbreviation, &team.CreatedAt, &team.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// UpsertDefensiveProfile inserts or replaces a team's defensive ratings
func (r *PostgresTeamRepository) UpsertDefensiveProfile(ctx context.Context, profile *models.TeamDefensiveProfile) error {
	query := `
		INSERT INTO team_defensive_profiles
			(id, team_id, team_name, def_rating, def_rating_vs_guards,
			 def_rating_vs_forwards, def_rating_vs_centers, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (team_id) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			def_rating = EXCLUDED.def_rating,
			def_rating_vs_guards = EXCLUDED.def_rating_vs_guards,
			def_rating_vs_forwards = EXCLUDED.def_rating_vs_forwards,
			def_rating_vs_centers = EXCLUDED.def_rating_vs_centers,
			last_updated = NOW()`

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	_, err := r.db.Runner(ctx).Exec(ctx, query,
		profile.ID, profile.TeamID, profile.TeamName, profile.DefRating,
		profile.DefRatingVsGuards, profile.DefRatingVsForwards, profile.DefRatingVsCenters)
	if err != nil {
		return fmt.Errorf("failed to upsert defensive profile: %w", err)
	}

	return nil
}

// GetDefensiveProfileByTeam retrieves the defensive profile for a team
// identified by name or abbreviation.
func (r *PostgresTeamRepository) GetDefensiveProfileByTeam(ctx context.Context, nameOrAbbrev string) (*models.TeamDefensiveProfile, error) {
	query := `
		SELECT p.id, p.team_id, p.team_name, p.def_rating, p.def_rating_vs_guards,
		       p.def_rating_vs_forwards, p.def_rating_vs_centers, p.last_updated
		FROM team_defensive_profiles p
		JOIN teams t ON t.id = p.team_id
		WHERE t.name = $1 OR t.abbreviation = $1`

	profile := &models.TeamDefensiveProfile{}
	err := r.db.Runner(ctx).QueryRow(ctx, query, nameOrAbbrev).Scan(
		&profile.ID, &profile.TeamID, &profile.TeamName, &profile.DefRating,
		&profile.DefRatingVsGuards, &profile.DefRatingVsForwards,
		&profile.DefRatingVsCenters, &profile.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get defensive profile: %w", err)
	}

	return profile, nil
}
