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

const singleBetColumns = `
	id, account_id, player_id, player_name, stat, line, direction,
	stake, odds, potential_payout, prediction, probability, expected_value,
	confidence, std_dev, opponent, days_rest, game_date,
	status, actual_result, profit_loss, placed_at, resolved_at`

// PostgresSingleBetRepository implements SingleBetRepository using PostgreSQL
type PostgresSingleBetRepository struct {
	db *database.DB
}

// NewPostgresSingleBetRepository creates a new PostgreSQL single bet repository
func NewPostgresSingleBetRepository(db *database.DB) *PostgresSingleBetRepository {
	return &PostgresSingleBetRepository{db: db}
}

// Create inserts a new single bet
func (r *PostgresSingleBetRepository) Create(ctx context.Context, bet *models.SingleBet) error {
	query := `
		INSERT INTO single_bets
			(id, account_id, player_id, player_name, stat, line, direction,
			 stake, odds, potential_payout, prediction, probability, expected_value,
			 confidence, std_dev, opponent, days_rest, game_date,
			 status, actual_result, profit_loss, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	if bet.ID == uuid.Nil {
		bet.ID = uuid.New()
	}

	_, err := r.db.Runner(ctx).Exec(ctx, query,
		bet.ID, bet.AccountID, bet.PlayerID, bet.PlayerName, bet.Stat, bet.Line,
		bet.Direction, bet.Stake, bet.Odds, bet.PotentialPayout, bet.Prediction,
		bet.Probability, bet.ExpectedValue, bet.Confidence, bet.StdDev,
		bet.Opponent, bet.DaysRest, bet.GameDate,
		bet.Status, bet.ActualResult, bet.ProfitLoss, bet.PlacedAt)
	if err != nil {
		return fmt.Errorf("failed to create single bet: %w", err)
	}

	return nil
}

// GetByID retrieves a single bet
func (r *PostgresSingleBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SingleBet, error) {
	query := `SELECT ` + singleBetColumns + ` FROM single_bets WHERE id = $1`

	bet, err := scanSingleBet(r.db.Runner(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get single bet: %w", err)
	}

	return bet, nil
}

// Update rewrites a bet's resolution fields
func (r *PostgresSingleBetRepository) Update(ctx context.Context, bet *models.SingleBet) error {
	query := `
		UPDATE single_bets SET
			status = $2,
			actual_result = $3,
			profit_loss = $4,
			resolved_at = $5
		WHERE id = $1`

	tag, err := r.db.Runner(ctx).Exec(ctx, query,
		bet.ID, bet.Status, bet.ActualResult, bet.ProfitLoss, bet.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to update single bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetPending returns all unresolved bets for an account, oldest first
func (r *PostgresSingleBetRepository) GetPending(ctx context.Context, accountID uuid.UUID) ([]*models.SingleBet, error) {
	query := `
		SELECT ` + singleBetColumns + `
		FROM single_bets
		WHERE account_id = $1 AND status = $2
		ORDER BY placed_at ASC`

	rows, err := r.db.Runner(ctx).Query(ctx, query, accountID, models.BetStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending bets: %w", err)
	}
	defer rows.Close()

	return scanSingleBets(rows)
}

// GetHistory returns bets for an account, newest first, optionally
// filtered by status. A limit of 0 means no limit.
func (r *PostgresSingleBetRepository) GetHistory(ctx context.Context, accountID uuid.UUID, status *models.BetStatus, limit int) ([]*models.SingleBet, error) {
	query := `
		SELECT ` + singleBetColumns + `
		FROM single_bets
		WHERE account_id = $1
		  AND ($2::TEXT IS NULL OR status = $2)
		ORDER BY placed_at DESC`

	args := []interface{}{accountID, status}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.Runner(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bet history: %w", err)
	}
	defer rows.Close()

	return scanSingleBets(rows)
}

func scanSingleBet(row pgx.Row) (*models.SingleBet, error) {
	bet := &models.SingleBet{}
	err := row.Scan(
		&bet.ID, &bet.AccountID, &bet.PlayerID, &bet.PlayerName, &bet.Stat,
		&bet.Line, &bet.Direction, &bet.Stake, &bet.Odds, &bet.PotentialPayout,
		&bet.Prediction, &bet.Probability, &bet.ExpectedValue, &bet.Confidence,
		&bet.StdDev, &bet.Opponent, &bet.DaysRest, &bet.GameDate,
		&bet.Status, &bet.ActualResult, &bet.ProfitLoss, &bet.PlacedAt, &bet.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return bet, nil
}

func scanSingleBets(rows pgx.Rows) ([]*models.SingleBet, error) {
	var bets []*models.SingleBet
	for rows.Next() {
		bet, err := scanSingleBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan single bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}
