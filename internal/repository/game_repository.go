package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/propedge/internal/database"
	"github.com/yourusername/propedge/internal/models"
)

const gameRecordColumns = `
	id, player_id, game_date, opponent, is_home, days_rest, is_back_to_back,
	points, rebounds, assists, steals, blocks, turnovers, minutes,
	field_goals_made, field_goals_attempted, three_pointers_made,
	three_pointers_attempted, free_throws_made, free_throws_attempted,
	created_at, updated_at`

// PostgresGameRepository implements GameRepository using PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new PostgreSQL game repository
func NewPostgresGameRepository(db *database.DB) *PostgresGameRepository {
	return &PostgresGameRepository{db: db}
}

// Upsert inserts a game record or replaces the stat line for the same
// player and date. Re-ingesting a feed is idempotent; days_rest and
// is_back_to_back are left untouched on conflict since RecomputeRest
// owns them.
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.GameRecord) error {
	query := `
		INSERT INTO game_records
			(id, player_id, game_date, opponent, is_home, days_rest, is_back_to_back,
			 points, rebounds, assists, steals, blocks, turnovers, minutes,
			 field_goals_made, field_goals_attempted, three_pointers_made,
			 three_pointers_attempted, free_throws_made, free_throws_attempted,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, NOW(), NOW())
		ON CONFLICT (player_id, game_date) DO UPDATE SET
			opponent = EXCLUDED.opponent,
			is_home = EXCLUDED.is_home,
			points = EXCLUDED.points,
			rebounds = EXCLUDED.rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			turnovers = EXCLUDED.turnovers,
			minutes = EXCLUDED.minutes,
			field_goals_made = EXCLUDED.field_goals_made,
			field_goals_attempted = EXCLUDED.field_goals_attempted,
			three_pointers_made = EXCLUDED.three_pointers_made,
			three_pointers_attempted = EXCLUDED.three_pointers_attempted,
			free_throws_made = EXCLUDED.free_throws_made,
			free_throws_attempted = EXCLUDED.free_throws_attempted,
			updated_at = NOW()`

	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}

	_, err := r.db.Runner(ctx).Exec(ctx, query,
		game.ID, game.PlayerID, game.GameDate, game.Opponent, game.IsHome,
		game.DaysRest, game.IsBackToBack,
		game.Points, game.Rebounds, game.Assists, game.Steals, game.Blocks,
		game.Turnovers, game.Minutes,
		game.FieldGoalsMade, game.FieldGoalsAttempted, game.ThreePointersMade,
		game.ThreePointersAttempted, game.FreeThrowsMade, game.FreeThrowsAttempted)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}

	return nil
}

// GetRecentByPlayer returns up to limit games for a player, newest first
func (r *PostgresGameRepository) GetRecentByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.GameRecord, error) {
	query := `
		SELECT ` + gameRecordColumns + `
		FROM game_records
		WHERE player_id = $1
		ORDER BY game_date DESC
		LIMIT $2`

	rows, err := r.db.Runner(ctx).Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent games: %w", err)
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

// GetByPlayerAndDate retrieves the game a player logged on an exact date,
// optionally requiring a specific opponent.
func (r *PostgresGameRepository) GetByPlayerAndDate(ctx context.Context, playerID uuid.UUID, date time.Time, opponent *string) (*models.GameRecord, error) {
	query := `
		SELECT ` + gameRecordColumns + `
		FROM game_records
		WHERE player_id = $1 AND game_date = $2
		  AND ($3::TEXT IS NULL OR opponent = $3)`

	return r.queryOne(ctx, query, playerID, date, opponent)
}

// GetFirstOnOrAfter retrieves the earliest game a player logged on or
// after the given date, optionally requiring a specific opponent.
func (r *PostgresGameRepository) GetFirstOnOrAfter(ctx context.Context, playerID uuid.UUID, from time.Time, opponent *string) (*models.GameRecord, error) {
	query := `
		SELECT ` + gameRecordColumns + `
		FROM game_records
		WHERE player_id = $1 AND game_date >= $2
		  AND ($3::TEXT IS NULL OR opponent = $3)
		ORDER BY game_date ASC
		LIMIT 1`

	return r.queryOne(ctx, query, playerID, from, opponent)
}

// ListByPlayerAsc returns every game for a player in chronological order,
// the ordering the rest-day recompute walks.
func (r *PostgresGameRepository) ListByPlayerAsc(ctx context.Context, playerID uuid.UUID) ([]*models.GameRecord, error) {
	query := `
		SELECT ` + gameRecordColumns + `
		FROM game_records
		WHERE player_id = $1
		ORDER BY game_date ASC`

	rows, err := r.db.Runner(ctx).Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player games: %w", err)
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

// UpdateRest rewrites the derived rest fields for one game record
func (r *PostgresGameRepository) UpdateRest(ctx context.Context, id uuid.UUID, daysRest *int, isBackToBack bool) error {
	query := `
		UPDATE game_records
		SET days_rest = $2, is_back_to_back = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Runner(ctx).Exec(ctx, query, id, daysRest, isBackToBack)
	if err != nil {
		return fmt.Errorf("failed to update rest fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostgresGameRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.GameRecord, error) {
	row := r.db.Runner(ctx).QueryRow(ctx, query, args...)

	game, err := scanGameRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game record: %w", err)
	}

	return game, nil
}

func scanGameRecord(row pgx.Row) (*models.GameRecord, error) {
	game := &models.GameRecord{}
	err := row.Scan(
		&game.ID, &game.PlayerID, &game.GameDate, &game.Opponent, &game.IsHome,
		&game.DaysRest, &game.IsBackToBack,
		&game.Points, &game.Rebounds, &game.Assists, &game.Steals, &game.Blocks,
		&game.Turnovers, &game.Minutes,
		&game.FieldGoalsMade, &game.FieldGoalsAttempted, &game.ThreePointersMade,
		&game.ThreePointersAttempted, &game.FreeThrowsMade, &game.FreeThrowsAttempted,
		&game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return game, nil
}

func scanGameRecords(rows pgx.Rows) ([]*models.GameRecord, error) {
	var games []*models.GameRecord
	for rows.Next() {
		game, err := scanGameRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game record: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
