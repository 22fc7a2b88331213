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

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	db *database.DB
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository
func NewPostgresAccountRepository(db *database.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Create inserts a new account
func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts
			(id, user_id, starting_bankroll, current_bankroll,
			 total_bets_placed, total_bets_won, total_bets_lost, total_bets_void,
			 created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	_, err := r.db.Runner(ctx).Exec(ctx, query,
		account.ID, account.UserID, account.StartingBankroll, account.CurrentBankroll,
		account.TotalBetsPlaced, account.TotalBetsWon, account.TotalBetsLost, account.TotalBetsVoid)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByUserID retrieves an account by its user identifier
func (r *PostgresAccountRepository) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	query := `
		SELECT id, user_id, starting_bankroll, current_bankroll,
		       total_bets_placed, total_bets_won, total_bets_lost, total_bets_void,
		       created_at, last_updated
		FROM accounts WHERE user_id = $1`

	account := &models.Account{}
	err := r.db.Runner(ctx).QueryRow(ctx, query, userID).Scan(
		&account.ID, &account.UserID, &account.StartingBankroll, &account.CurrentBankroll,
		&account.TotalBetsPlaced, &account.TotalBetsWon, &account.TotalBetsLost,
		&account.TotalBetsVoid, &account.CreatedAt, &account.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// Update rewrites an account's bankroll and counters
func (r *PostgresAccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts SET
			starting_bankroll = $2,
			current_bankroll = $3,
			total_bets_placed = $4,
			total_bets_won = $5,
			total_bets_lost = $6,
			total_bets_void = $7,
			last_updated = NOW()
		WHERE id = $1`

	tag, err := r.db.Runner(ctx).Exec(ctx, query,
		account.ID, account.StartingBankroll, account.CurrentBankroll,
		account.TotalBetsPlaced, account.TotalBetsWon, account.TotalBetsLost,
		account.TotalBetsVoid)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
