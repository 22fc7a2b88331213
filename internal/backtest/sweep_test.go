package backtest

import (
	"context"
	"testing"

	"github.com/yourusername/propedge/internal/models"
)

func TestRunSweep(t *testing.T) {
	engine, _ := newTestEngine(t, gameLog(10, 12, 14, 16, 18, 20, 22, 24)...)

	result, err := RunSweep(context.Background(), engine, "Test Player", models.StatPoints, SweepConfig{
		Decays:      []float64{0.8, 1.0},
		SegmentSize: 3,
	})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}

	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}
	for _, c := range result.Candidates {
		if c.Decay != 0.8 && c.Decay != 1.0 {
			t.Errorf("unexpected decay candidate %f", c.Decay)
		}
	}

	best := result.Best
	for _, c := range result.Candidates {
		if c.CompositeScore > best.CompositeScore {
			t.Errorf("best candidate %f is not the highest composite score", best.Decay)
		}
	}
}

func TestRunSweepRejectsInvalidDecay(t *testing.T) {
	engine, _ := newTestEngine(t, gameLog(10, 12, 14, 16)...)

	_, err := RunSweep(context.Background(), engine, "Test Player", models.StatPoints, SweepConfig{
		Decays: []float64{1.5},
	})
	if err == nil {
		t.Fatal("expected error for decay above 1")
	}
}

func TestSegmentConsistency(t *testing.T) {
	bets := []*SimBet{
		{PnL: 10}, {PnL: 10}, // profitable segment
		{PnL: -5}, {PnL: -5}, // losing segment
		{PnL: 20}, // profitable tail
	}

	got := segmentConsistency(bets, 2)
	expected := 2.0 / 3.0
	if got != expected {
		t.Errorf("expected consistency %f, got %f", expected, got)
	}

	if segmentConsistency(nil, 2) != 0 {
		t.Error("expected zero consistency for no bets")
	}
}

func TestGenerateRecommendation(t *testing.T) {
	good := Metrics{TotalReturn: 0.4}
	if got := GenerateRecommendation(0.8, good, MonteCarloResult{ProbabilityOfRuin: 0.01}); got != "ACCEPT" {
		t.Errorf("expected ACCEPT, got %s", got)
	}

	bad := Metrics{TotalReturn: -0.2}
	if got := GenerateRecommendation(0.8, bad, MonteCarloResult{}); got != "REJECT" {
		t.Errorf("expected REJECT for a losing replay, got %s", got)
	}

	middling := Metrics{TotalReturn: 0.1}
	if got := GenerateRecommendation(0.5, middling, MonteCarloResult{ProbabilityOfRuin: 0.1}); got != "NEEDS_REVIEW" {
		t.Errorf("expected NEEDS_REVIEW, got %s", got)
	}
}
