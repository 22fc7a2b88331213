package backtest

import (
	"encoding/json"
	"math"
	"time"

	"github.com/yourusername/propedge/internal/models"
)

// Metrics summarizes replay performance
type Metrics struct {
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	TotalReturn  float64   `json:"total_return"`
	MaxDrawdown  float64   `json:"max_drawdown"`
	SharpeRatio  float64   `json:"sharpe_ratio"`
	SortinoRatio float64   `json:"sortino_ratio"`
	TotalBets    int       `json:"total_bets"`
	WinningBets  int       `json:"winning_bets"`
	LosingBets   int       `json:"losing_bets"`
	Pushes       int       `json:"pushes"`
	WinRate      float64   `json:"win_rate"`
	ProfitFactor float64   `json:"profit_factor"`
	Expectancy   float64   `json:"expectancy"`
	AverageWin   float64   `json:"average_win"`
	AverageLoss  float64   `json:"average_loss"`
	LargestWin   float64   `json:"largest_win"`
	LargestLoss  float64   `json:"largest_loss"`
	BrierScore   float64   `json:"brier_score"`
}

// CalculateMetrics computes summary metrics from a finished replay
func CalculateMetrics(state *ReplayState, cfg ReplayConfig) Metrics {
	metrics := Metrics{}
	if state == nil || len(state.EquityCurve) == 0 {
		return metrics
	}

	metrics.StartDate = state.EquityCurve[0].Time
	metrics.EndDate = state.EquityCurve[len(state.EquityCurve)-1].Time

	initial := cfg.InitialBankroll
	final := state.EquityCurve[len(state.EquityCurve)-1].Value
	if initial > 0 {
		metrics.TotalReturn = (final - initial) / initial
	}

	metrics.MaxDrawdown = maxDrawdown(state.EquityCurve)
	returns := state.EquityCurve.Returns()
	metrics.SharpeRatio = sharpeRatio(returns)
	metrics.SortinoRatio = sortinoRatio(returns)

	metrics.TotalBets = len(state.Bets)
	for _, bet := range state.Bets {
		switch bet.Outcome {
		case models.BetStatusWon:
			metrics.WinningBets++
		case models.BetStatusLost:
			metrics.LosingBets++
		case models.BetStatusVoid:
			metrics.Pushes++
		}
	}
	decided := metrics.WinningBets + metrics.LosingBets
	if decided > 0 {
		metrics.WinRate = float64(metrics.WinningBets) / float64(decided)
	}

	metrics.ProfitFactor = profitFactor(state.Bets)
	metrics.Expectancy = expectancy(state.Bets)
	metrics.AverageWin, metrics.AverageLoss, metrics.LargestWin, metrics.LargestLoss = betExtremes(state.Bets)
	metrics.BrierScore = brierScore(state.Bets)

	return metrics
}

// ToJSON exports metrics to JSON
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

// sharpeRatio scales the per-bet return ratio to an 82 game season
func sharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := average(returns)
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(82)
}

func sortinoRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := average(returns)
	std := downsideStddev(returns)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(82)
}

func maxDrawdown(curve EquityCurve) float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
		if peak == 0 {
			continue
		}
		drawdown := (peak - p.Value) / peak
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}
	return maxDD
}

func profitFactor(bets []*SimBet) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	for _, bet := range bets {
		if bet.PnL > 0 {
			grossProfit += bet.PnL
		} else {
			grossLoss += math.Abs(bet.PnL)
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return 999
		}
		return 0
	}
	return grossProfit / grossLoss
}

func expectancy(bets []*SimBet) float64 {
	if len(bets) == 0 {
		return 0
	}
	net := 0.0
	for _, bet := range bets {
		net += bet.PnL
	}
	return net / float64(len(bets))
}

func betExtremes(bets []*SimBet) (avgWin, avgLoss, largestWin, largestLoss float64) {
	wins := 0
	losses := 0
	winSum := 0.0
	lossSum := 0.0
	for _, bet := range bets {
		if bet.PnL > 0 {
			wins++
			winSum += bet.PnL
			if bet.PnL > largestWin {
				largestWin = bet.PnL
			}
		} else if bet.PnL < 0 {
			losses++
			lossSum += bet.PnL
			if bet.PnL < largestLoss {
				largestLoss = bet.PnL
			}
		}
	}
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}
	return avgWin, avgLoss, largestWin, largestLoss
}

// brierScore measures probability calibration over decided bets. Lower is
// better; 0.25 is the score of a constant coin flip.
func brierScore(bets []*SimBet) float64 {
	sum := 0.0
	count := 0
	for _, bet := range bets {
		if bet.Outcome == models.BetStatusVoid {
			continue
		}
		outcome := 0.0
		if bet.Outcome == models.BetStatusWon {
			outcome = 1.0
		}
		diff := bet.Probability - outcome
		sum += diff * diff
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func downsideStddev(values []float64) float64 {
	negatives := make([]float64, 0)
	for _, v := range values {
		if v < 0 {
			negatives = append(negatives, v)
		}
	}
	return stddev(negatives)
}

func sortFloats(values []float64) {
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if values[j] < values[i] {
				values[i], values[j] = values[j], values[i]
			}
		}
	}
}
