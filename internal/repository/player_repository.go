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

// PostgresPlayerRepository implements PlayerRepository using PostgreSQL
type PostgresPlayerRepository struct {
	db *database.DB
}

// NewPostgresPlayerRepository creates a new PostgreSQL player repository
func NewPostgresPlayerRepository(db *database.DB) *PostgresPlayerRepository {
	return &PostgresPlayerRepository{db: db}
}

// Upsert inserts a player or refreshes its mutable fields, keyed on the
// provider's league-wide player ID.
func (r *PostgresPlayerRepository) Upsert(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (id, league_id, name, team, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (league_id) DO UPDATE SET
			name = EXCLUDED.name,
			team = EXCLUDED.team,
			position = EXCLUDED.position,
			updated_at = NOW()`

	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}

	_, err := r.db.Runner(ctx).Exec(ctx, query,
		player.ID, player.LeagueID, player.Name, player.Team, player.Position)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}

	return nil
}

// GetByID retrieves a player by internal ID
func (r *PostgresPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `
		SELECT id, league_id, name, team, position, created_at, updated_at
		FROM players WHERE id = $1`

	return r.scanPlayer(r.db.Runner(ctx).QueryRow(ctx, query, id))
}

// GetByName retrieves a player by exact name match
func (r *PostgresPlayerRepository) GetByName(ctx context.Context, name string) (*models.Player, error) {
	query := `
		SELECT id, league_id, name, team, position, created_at, updated_at
		FROM players WHERE name = $1`

	return r.scanPlayer(r.db.Runner(ctx).QueryRow(ctx, query, name))
}

// GetByLeagueID retrieves a player by the provider's league-wide ID
func (r *PostgresPlayerRepository) GetByLeagueID(ctx context.Context, leagueID int64) (*models.Player, error) {
	query := `
		SELECT id, league_id, name, team, position, created_at, updated_at
		FROM players WHERE league_id = $1`

	return r.scanPlayer(r.db.Runner(ctx).QueryRow(ctx, query, leagueID))
}

// List returns all tracked players ordered by name
func (r *PostgresPlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `
		SELECT id, league_id, name, team, position, created_at, updated_at
		FROM players ORDER BY name`

	rows, err := r.db.Runner(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		err := rows.Scan(&player.ID, &player.LeagueID, &player.Name,
			&player.Team, &player.Position, &player.CreatedAt, &player.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

func (r *PostgresPlayerRepository) scanPlayer(row pgx.Row) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(&player.ID, &player.LeagueID, &player.Name,
		&player.Team, &player.Position, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}
