package backtest

import (
	"context"
	"fmt"

	"github.com/yourusername/propedge/internal/models"
)

// SweepConfig configures a decay-factor sweep
type SweepConfig struct {
	Decays      []float64
	SegmentSize int
}

// CandidateResult is the outcome of one sweep candidate
type CandidateResult struct {
	Decay            float64 `json:"decay"`
	Metrics          Metrics `json:"metrics"`
	CompositeScore   float64 `json:"composite_score"`
	ConsistencyScore float64 `json:"consistency_score"`
}

// SweepResult ranks the swept candidates
type SweepResult struct {
	Candidates []CandidateResult `json:"candidates"`
	Best       CandidateResult   `json:"best"`
}

// RunSweep replays the same game log once per decay candidate and ranks the
// candidates by composite score. Consistency is the share of sequential bet
// segments that finished profitable, so a candidate that made all its money
// in one hot streak scores below one that ground it out.
func RunSweep(ctx context.Context, engine *Engine, playerName string, stat models.StatCategory, cfg SweepConfig) (SweepResult, error) {
	if engine == nil {
		return SweepResult{}, fmt.Errorf("engine is required")
	}
	if len(cfg.Decays) == 0 {
		cfg.Decays = []float64{0.7, 0.8, 0.9, 1.0}
	}
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = 10
	}

	candidates := make([]CandidateResult, 0, len(cfg.Decays))
	for _, decay := range cfg.Decays {
		replayCfg := engine.cfg
		replayCfg.DecayFactor = decay
		if err := replayCfg.Validate(); err != nil {
			return SweepResult{}, fmt.Errorf("invalid decay candidate %v: %w", decay, err)
		}

		candidate := &Engine{
			players: engine.players,
			games:   engine.games,
			cfg:     replayCfg,
			logger:  engine.logger,
		}
		state, metrics, err := candidate.Run(ctx, playerName, stat)
		if err != nil {
			return SweepResult{}, err
		}

		consistency := segmentConsistency(state.Bets, cfg.SegmentSize)
		candidates = append(candidates, CandidateResult{
			Decay:            decay,
			Metrics:          metrics,
			CompositeScore:   CompositeScore(metrics),
			ConsistencyScore: consistency,
		})
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.CompositeScore > best.CompositeScore {
			best = c
		}
	}

	return SweepResult{Candidates: candidates, Best: best}, nil
}

// segmentConsistency splits the bet sequence into consecutive segments and
// returns the fraction that finished with positive PnL.
func segmentConsistency(bets []*SimBet, segmentSize int) float64 {
	if len(bets) == 0 || segmentSize <= 0 {
		return 0
	}

	segments := 0
	profitable := 0
	for start := 0; start < len(bets); start += segmentSize {
		end := start + segmentSize
		if end > len(bets) {
			end = len(bets)
		}
		pnl := 0.0
		for _, bet := range bets[start:end] {
			pnl += bet.PnL
		}
		segments++
		if pnl > 0 {
			profitable++
		}
	}

	return float64(profitable) / float64(segments)
}
