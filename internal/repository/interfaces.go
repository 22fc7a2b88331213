// Package repository defines data access interfaces and their Postgres
// implementations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/propedge/internal/models"
)

// PlayerRepository manages tracked players
type PlayerRepository interface {
	Upsert(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetByName(ctx context.Context, name string) (*models.Player, error)
	GetByLeagueID(ctx context.Context, leagueID int64) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
}

// TeamRepository manages teams and their defensive profiles
type TeamRepository interface {
	Upsert(ctx context.Context, team *models.Team) error
	GetByNameOrAbbreviation(ctx context.Context, nameOrAbbrev string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	UpsertDefensiveProfile(ctx context.Context, profile *models.TeamDefensiveProfile) error
	GetDefensiveProfileByTeam(ctx context.Context, nameOrAbbrev string) (*models.TeamDefensiveProfile, error)
}

// GameRepository manages per-player game stat lines
type GameRepository interface {
	Upsert(ctx context.Context, game *models.GameRecord) error
	GetRecentByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.GameRecord, error)
	GetByPlayerAndDate(ctx context.Context, playerID uuid.UUID, date time.Time, opponent *string) (*models.GameRecord, error)
	GetFirstOnOrAfter(ctx context.Context, playerID uuid.UUID, from time.Time, opponent *string) (*models.GameRecord, error)
	ListByPlayerAsc(ctx context.Context, playerID uuid.UUID) ([]*models.GameRecord, error)
	UpdateRest(ctx context.Context, id uuid.UUID, daysRest *int, isBackToBack bool) error
}

// AccountRepository manages paper trading accounts
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByUserID(ctx context.Context, userID string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
}

// SingleBetRepository manages single-pick paper bets
type SingleBetRepository interface {
	Create(ctx context.Context, bet *models.SingleBet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SingleBet, error)
	Update(ctx context.Context, bet *models.SingleBet) error
	GetPending(ctx context.Context, accountID uuid.UUID) ([]*models.SingleBet, error)
	GetHistory(ctx context.Context, accountID uuid.UUID, status *models.BetStatus, limit int) ([]*models.SingleBet, error)
}

// ParlayBetRepository manages parlay bets and their legs
type ParlayBetRepository interface {
	Create(ctx context.Context, bet *models.ParlayBet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayBet, error)
	Update(ctx context.Context, bet *models.ParlayBet) error
	UpdateLeg(ctx context.Context, leg *models.ParlayLeg) error
	GetPending(ctx context.Context, accountID uuid.UUID) ([]*models.ParlayBet, error)
	GetHistory(ctx context.Context, accountID uuid.UUID, status *models.BetStatus, limit int) ([]*models.ParlayBet, error)
}

// SnapshotRepository appends and reads bankroll history
type SnapshotRepository interface {
	Append(ctx context.Context, snapshot *models.BankrollSnapshot) error
	GetByAccountSince(ctx context.Context, accountID uuid.UUID, since time.Time) ([]*models.BankrollSnapshot, error)
}
