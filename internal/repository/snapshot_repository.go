package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/propedge/internal/database"
	"github.com/yourusername/propedge/internal/models"
)

// PostgresSnapshotRepository implements SnapshotRepository using PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new PostgreSQL snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Append records one bankroll snapshot. Snapshots are append-only.
func (r *PostgresSnapshotRepository) Append(ctx context.Context, snapshot *models.BankrollSnapshot) error {
	query := `
		INSERT INTO bankroll_snapshots
			(id, account_id, bankroll, total_profit, total_bets, win_rate, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}

	_, err := r.db.Runner(ctx).Exec(ctx, query,
		snapshot.ID, snapshot.AccountID, snapshot.Bankroll, snapshot.TotalProfit,
		snapshot.TotalBets, snapshot.WinRate, snapshot.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append bankroll snapshot: %w", err)
	}

	return nil
}

// GetByAccountSince returns snapshots for an account from the given time
// onward, in chronological order.
func (r *PostgresSnapshotRepository) GetByAccountSince(ctx context.Context, accountID uuid.UUID, since time.Time) ([]*models.BankrollSnapshot, error) {
	query := `
		SELECT id, account_id, bankroll, total_profit, total_bets, win_rate, timestamp
		FROM bankroll_snapshots
		WHERE account_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC`

	rows, err := r.db.Runner(ctx).Query(ctx, query, accountID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query bankroll snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.BankrollSnapshot
	for rows.Next() {
		s := &models.BankrollSnapshot{}
		err := rows.Scan(&s.ID, &s.AccountID, &s.Bankroll, &s.TotalProfit,
			&s.TotalBets, &s.WinRate, &s.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bankroll snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}
