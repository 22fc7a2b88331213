package backtest

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/propedge/internal/models"
	"github.com/yourusername/propedge/internal/predictor"
	"github.com/yourusername/propedge/internal/repository"
)

// Net return per unit staked on a winning bet at standard -110 odds.
const winPayoutPerUnit = 100.0 / 110.0

// Stakes below this are not worth simulating.
const minViableStake = 0.01

// Engine replays a player's game log chronologically and simulates betting
// on the estimator's recommendations.
type Engine struct {
	players repository.PlayerRepository
	games   repository.GameRepository
	cfg     ReplayConfig
	logger  *logrus.Logger
}

// NewEngine creates a replay engine
func NewEngine(cfg ReplayConfig, players repository.PlayerRepository, games repository.GameRepository, logger *logrus.Logger) (*Engine, error) {
	if players == nil || games == nil {
		return nil, fmt.Errorf("player and game repositories are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Engine{
		players: players,
		games:   games,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Config returns the replay configuration
func (e *Engine) Config() ReplayConfig {
	return e.cfg
}

// Run replays the player's full game log for one stat category and returns
// the final state with its summary metrics.
func (e *Engine) Run(ctx context.Context, playerName string, stat models.StatCategory) (*ReplayState, Metrics, error) {
	state, err := e.Replay(ctx, playerName, stat)
	if err != nil {
		return nil, Metrics{}, err
	}
	return state, CalculateMetrics(state, e.cfg), nil
}

// Replay walks the game log in chronological order. Each game is predicted
// from the games strictly before it, so no estimate ever sees its own
// outcome. A bet is simulated whenever the evaluator finds an edge of at
// least MinEdge against a synthesized line.
//
// Returns models.ErrNoData when the player is unknown or never produced a
// bettable game.
func (e *Engine) Replay(ctx context.Context, playerName string, stat models.StatCategory) (*ReplayState, error) {
	if !stat.IsValid() {
		return nil, fmt.Errorf("unknown stat category %q", stat)
	}

	player, err := e.players.GetByName(ctx, playerName)
	if err != nil {
		if err == models.ErrNotFound {
			return nil, models.ErrNoData
		}
		return nil, fmt.Errorf("failed to look up player: %w", err)
	}

	rows, err := e.games.ListByPlayerAsc(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game log: %w", err)
	}
	if len(rows) == 0 {
		return nil, models.ErrNoData
	}

	state := NewReplayState(e.cfg.InitialBankroll)
	state.RecordEquityPoint(rows[0].GameDate, e.cfg.InitialBankroll)

	history := make([]float64, 0, len(rows))
	for _, game := range rows {
		if len(history) >= predictor.MinLookbackGames {
			e.simulateGame(state, game, stat, history)
		}

		if v, ok := game.StatValue(stat); ok && !game.DidNotPlay() {
			history = append(history, v)
		}
	}

	e.logger.WithFields(logrus.Fields{
		"player":   playerName,
		"stat":     stat,
		"games":    len(rows),
		"bets":     len(state.Bets),
		"bankroll": state.CurrentBankroll,
	}).Info("Replay finished")

	return state, nil
}

// simulateGame decides and settles at most one bet for a single game. The
// history slice holds all prior usable values in chronological order.
func (e *Engine) simulateGame(state *ReplayState, game *models.GameRecord, stat models.StatCategory, history []float64) {
	window := estimationWindow(history, e.cfg.LookbackGames)

	prediction, stdDev, err := predictor.WeightedEstimate(window, e.cfg.DecayFactor)
	if err != nil {
		return
	}

	line := synthesizeLine(window)
	eval, err := predictor.EvaluateAgainstLine(prediction, stdDev, line)
	if err != nil || eval.Recommendation == predictor.RecommendSkip {
		return
	}

	direction := models.DirectionOver
	if eval.Recommendation == predictor.RecommendUnder {
		direction = models.DirectionUnder
	}
	if eval.DirectionalEV(direction) < e.cfg.MinEdge {
		return
	}

	stake := e.cfg.StakeFraction * state.CurrentBankroll
	if stake < minViableStake {
		return
	}

	bet := &SimBet{
		GameDate:    game.GameDate,
		Opponent:    game.Opponent,
		Stat:        stat,
		Line:        line,
		Direction:   direction,
		Prediction:  prediction,
		StdDev:      stdDev,
		Probability: eval.DirectionalProbability(direction),
		Stake:       stake,
	}

	actual, hasStat := game.StatValue(stat)
	if !hasStat || game.DidNotPlay() {
		bet.Outcome = models.BetStatusVoid
	} else {
		bet.Actual = actual
		bet.Outcome = models.DecideOutcome(direction, actual, line)
	}

	switch bet.Outcome {
	case models.BetStatusWon:
		bet.PnL = stake * winPayoutPerUnit
	case models.BetStatusLost:
		bet.PnL = -stake
	}

	state.Settle(bet)
}

// estimationWindow returns the newest-first tail of the history, capped at
// the configured lookback.
func estimationWindow(history []float64, lookback int) []float64 {
	n := len(history)
	if n > lookback {
		n = lookback
	}
	window := make([]float64, n)
	for i := 0; i < n; i++ {
		window[i] = history[len(history)-1-i]
	}
	return window
}

// synthesizeLine builds a naive market proxy: the unweighted mean of the
// window snapped to the nearest half point. Any replay edge therefore comes
// from the recency weighting, not from beating a stale number.
func synthesizeLine(window []float64) float64 {
	return math.Round(average(window)*2) / 2
}
