package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/propedge/internal/metrics"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/repository"
)

// Resolver settles pending bets automatically from ingested game records
type Resolver struct {
	manager *Manager
	games   repository.GameRepository
	logger  *logrus.Logger
}

// NewResolver creates an auto-resolver on top of the ledger manager
func NewResolver(manager *Manager, games repository.GameRepository, logger *logrus.Logger) *Resolver {
	return &Resolver{
		manager: manager,
		games:   games,
		logger:  logger,
	}
}

// AutoResolveAll walks every pending bet and settles those whose games
// have been ingested. A failure on one bet is logged and does not stop
// the batch. Returns the number of bets resolved (or voided) and the
// number that errored.
func (r *Resolver) AutoResolveAll(ctx context.Context) (int, int) {
	start := time.Now()
	resolved, failed := 0, 0

	account, err := r.manager.Account(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Auto-resolve could not load account")
		return 0, 1
	}

	singles, err := r.manager.singles.GetPending(ctx, account.ID)
	if err != nil {
		r.logger.WithError(err).Error("Auto-resolve could not list pending single bets")
		failed++
	} else {
		for _, bet := range singles {
			settled, err := r.resolveSingle(ctx, bet)
			if err != nil {
				r.logger.WithError(err).WithField("bet_id", bet.ID).Warn("Failed to auto-resolve single bet")
				failed++
				continue
			}
			if settled {
				resolved++
			}
		}
	}

	parlays, err := r.manager.parlays.GetPending(ctx, account.ID)
	if err != nil {
		r.logger.WithError(err).Error("Auto-resolve could not list pending parlays")
		failed++
	} else {
		for _, bet := range parlays {
			settled, err := r.resolveParlay(ctx, bet)
			if err != nil {
				r.logger.WithError(err).WithField("bet_id", bet.ID).Warn("Failed to auto-resolve parlay")
				failed++
				continue
			}
			if settled {
				resolved++
			}
		}
	}

	metrics.AutoResolveDuration.Observe(time.Since(start).Seconds())
	r.manager.betLog.LogAutoResolveBatch(resolved, failed)

	return resolved, failed
}

// resolveSingle settles one pending single bet if its game has been
// ingested. Returns false with nil error when no matching game exists yet.
func (r *Resolver) resolveSingle(ctx context.Context, bet *models.SingleBet) (bool, error) {
	game, err := r.matchGame(ctx, bet.PlayerID, bet.GameDate, bet.PlacedAt, bet.Opponent)
	if err != nil {
		if err == models.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	if game.DidNotPlay() {
		if err := r.manager.VoidBet(ctx, bet.ID, models.BetKindSingle, "player did not play"); err != nil {
			return false, err
		}
		return true, nil
	}

	actual, ok := game.StatValue(bet.Stat)
	if !ok {
		return false, fmt.Errorf("game %s has no value for stat %s", game.ID, bet.Stat)
	}

	if _, err := r.manager.ResolveSingleBet(ctx, bet.ID, actual); err != nil {
		return false, err
	}
	return true, nil
}

// resolveParlay settles one pending parlay once every leg's game has been
// ingested. A DNP on any leg voids the whole parlay. Returns false with
// nil error while any leg's game is still missing.
func (r *Resolver) resolveParlay(ctx context.Context, bet *models.ParlayBet) (bool, error) {
	results := make(map[uuid.UUID]float64, len(bet.Legs))

	for _, leg := range bet.Legs {
		game, err := r.matchGame(ctx, leg.PlayerID, leg.GameDate, bet.PlacedAt, leg.Opponent)
		if err != nil {
			if err == models.ErrNotFound {
				return false, nil
			}
			return false, err
		}

		if game.DidNotPlay() {
			if err := r.manager.VoidBet(ctx, bet.ID, models.BetKindParlay, "player did not play"); err != nil {
				return false, err
			}
			return true, nil
		}

		actual, ok := game.StatValue(leg.Stat)
		if !ok {
			return false, fmt.Errorf("game %s has no value for stat %s", game.ID, leg.Stat)
		}
		results[leg.ID] = actual
	}

	if _, err := r.manager.ResolveParlayBet(ctx, bet.ID, results); err != nil {
		return false, err
	}
	return true, nil
}

// matchGame finds the game a bet shall settle against: the exact stored
// game date when the bet carries one, otherwise the first ingested game
// on or after the placement date. The stored opponent, when present,
// narrows both lookups.
func (r *Resolver) matchGame(ctx context.Context, playerID uuid.UUID, gameDate *time.Time, placedAt time.Time, opponent *string) (*models.GameRecord, error) {
	if gameDate != nil {
		return r.games.GetByPlayerAndDate(ctx, playerID, *gameDate, opponent)
	}

	from := placedAt.UTC().Truncate(24 * time.Hour)
	return r.games.GetFirstOnOrAfter(ctx, playerID, from, opponent)
}
