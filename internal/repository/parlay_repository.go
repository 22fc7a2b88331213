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

const parlayBetColumns = `
	id, account_id, stake, payout_multiplier, potential_payout,
	parlay_probability, expected_value, num_picks, status, profit_loss,
	placed_at, resolved_at`

const parlayLegColumns = `
	id, parlay_id, player_id, player_name, stat, line, direction,
	prediction, probability, confidence, opponent, days_rest, game_date,
	status, actual_result`

// PostgresParlayRepository implements ParlayBetRepository using PostgreSQL
type PostgresParlayRepository struct {
	db *database.DB
}

// NewPostgresParlayRepository creates a new PostgreSQL parlay repository
func NewPostgresParlayRepository(db *database.DB) *PostgresParlayRepository {
	return &PostgresParlayRepository{db: db}
}

// Create inserts a parlay together with its legs
func (r *PostgresParlayRepository) Create(ctx context.Context, bet *models.ParlayBet) error {
	query := `
		INSERT INTO parlay_bets
			(id, account_id, stake, payout_multiplier, potential_payout,
			 parlay_probability, expected_value, num_picks, status, profit_loss, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if bet.ID == uuid.Nil {
		bet.ID = uuid.New()
	}

	runner := r.db.Runner(ctx)

	_, err := runner.Exec(ctx, query,
		bet.ID, bet.AccountID, bet.Stake, bet.PayoutMultiplier, bet.PotentialPayout,
		bet.ParlayProbability, bet.ExpectedValue, bet.NumPicks, bet.Status,
		bet.ProfitLoss, bet.PlacedAt)
	if err != nil {
		return fmt.Errorf("failed to create parlay: %w", err)
	}

	legQuery := `
		INSERT INTO parlay_legs
			(id, parlay_id, player_id, player_name, stat, line, direction,
			 prediction, probability, confidence, opponent, days_rest, game_date,
			 status, actual_result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	for _, leg := range bet.Legs {
		if leg.ID == uuid.Nil {
			leg.ID = uuid.New()
		}
		leg.ParlayID = bet.ID

		_, err := runner.Exec(ctx, legQuery,
			leg.ID, leg.ParlayID, leg.PlayerID, leg.PlayerName, leg.Stat,
			leg.Line, leg.Direction, leg.Prediction, leg.Probability,
			leg.Confidence, leg.Opponent, leg.DaysRest, leg.GameDate,
			leg.Status, leg.ActualResult)
		if err != nil {
			return fmt.Errorf("failed to create parlay leg: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a parlay with its legs
func (r *PostgresParlayRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayBet, error) {
	query := `SELECT ` + parlayBetColumns + ` FROM parlay_bets WHERE id = $1`

	bet, err := scanParlayBet(r.db.Runner(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get parlay: %w", err)
	}

	if err := r.loadLegs(ctx, bet); err != nil {
		return nil, err
	}

	return bet, nil
}

// Update rewrites a parlay's resolution fields
func (r *PostgresParlayRepository) Update(ctx context.Context, bet *models.ParlayBet) error {
	query := `
		UPDATE parlay_bets SET
			status = $2,
			profit_loss = $3,
			resolved_at = $4
		WHERE id = $1`

	tag, err := r.db.Runner(ctx).Exec(ctx, query,
		bet.ID, bet.Status, bet.ProfitLoss, bet.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to update parlay: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateLeg rewrites one leg's resolution fields
func (r *PostgresParlayRepository) UpdateLeg(ctx context.Context, leg *models.ParlayLeg) error {
	query := `
		UPDATE parlay_legs SET
			status = $2,
			actual_result = $3
		WHERE id = $1`

	tag, err := r.db.Runner(ctx).Exec(ctx, query, leg.ID, leg.Status, leg.ActualResult)
	if err != nil {
		return fmt.Errorf("failed to update parlay leg: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetPending returns all unresolved parlays for an account with legs,
// oldest first.
func (r *PostgresParlayRepository) GetPending(ctx context.Context, accountID uuid.UUID) ([]*models.ParlayBet, error) {
	query := `
		SELECT ` + parlayBetColumns + `
		FROM parlay_bets
		WHERE account_id = $1 AND status = $2
		ORDER BY placed_at ASC`

	return r.queryParlays(ctx, query, accountID, models.BetStatusPending)
}

// GetHistory returns parlays for an account, newest first, optionally
// filtered by status. A limit of 0 means no limit.
func (r *PostgresParlayRepository) GetHistory(ctx context.Context, accountID uuid.UUID, status *models.BetStatus, limit int) ([]*models.ParlayBet, error) {
	query := `
		SELECT ` + parlayBetColumns + `
		FROM parlay_bets
		WHERE account_id = $1
		  AND ($2::TEXT IS NULL OR status = $2)
		ORDER BY placed_at DESC`

	args := []interface{}{accountID, status}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	return r.queryParlays(ctx, query, args...)
}

func (r *PostgresParlayRepository) queryParlays(ctx context.Context, query string, args ...interface{}) ([]*models.ParlayBet, error) {
	rows, err := r.db.Runner(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parlays: %w", err)
	}

	var bets []*models.ParlayBet
	for rows.Next() {
		bet, err := scanParlayBet(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan parlay: %w", err)
		}
		bets = append(bets, bet)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, bet := range bets {
		if err := r.loadLegs(ctx, bet); err != nil {
			return nil, err
		}
	}

	return bets, nil
}

func (r *PostgresParlayRepository) loadLegs(ctx context.Context, bet *models.ParlayBet) error {
	query := `
		SELECT ` + parlayLegColumns + `
		FROM parlay_legs
		WHERE parlay_id = $1
		ORDER BY player_name, stat`

	rows, err := r.db.Runner(ctx).Query(ctx, query, bet.ID)
	if err != nil {
		return fmt.Errorf("failed to query parlay legs: %w", err)
	}
	defer rows.Close()

	var legs []*models.ParlayLeg
	for rows.Next() {
		leg := &models.ParlayLeg{}
		err := rows.Scan(
			&leg.ID, &leg.ParlayID, &leg.PlayerID, &leg.PlayerName, &leg.Stat,
			&leg.Line, &leg.Direction, &leg.Prediction, &leg.Probability,
			&leg.Confidence, &leg.Opponent, &leg.DaysRest, &leg.GameDate,
			&leg.Status, &leg.ActualResult)
		if err != nil {
			return fmt.Errorf("failed to scan parlay leg: %w", err)
		}
		legs = append(legs, leg)
	}

	bet.Legs = legs
	return rows.Err()
}

func scanParlayBet(row pgx.Row) (*models.ParlayBet, error) {
	bet := &models.ParlayBet{}
	err := row.Scan(
		&bet.ID, &bet.AccountID, &bet.Stake, &bet.PayoutMultiplier,
		&bet.PotentialPayout, &bet.ParlayProbability, &bet.ExpectedValue,
		&bet.NumPicks, &bet.Status, &bet.ProfitLoss, &bet.PlacedAt, &bet.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return bet, nil
}
