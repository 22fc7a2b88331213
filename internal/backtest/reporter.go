package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateConsoleReport formats an aggregated result for terminal output
func GenerateConsoleReport(result AggregatedResult) string {
	m := result.ReplayMetrics

	var builder strings.Builder
	builder.WriteString("Replay Report\n")
	builder.WriteString("=============\n")
	builder.WriteString(fmt.Sprintf("Player: %s (%s)\n", result.Player, result.Stat))
	builder.WriteString(fmt.Sprintf("Composite Score: %.2f\n", result.CompositeScore))
	builder.WriteString(fmt.Sprintf("Recommendation: %s\n", result.Recommendation))
	builder.WriteString(fmt.Sprintf("Total Return: %.2f%%\n", m.TotalReturn*100))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", m.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("Bets: %d (%d won, %d lost, %d pushed)\n", m.TotalBets, m.WinningBets, m.LosingBets, m.Pushes))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", m.WinRate*100))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", m.ProfitFactor))
	builder.WriteString(fmt.Sprintf("Expectancy: %.2f per bet\n", m.Expectancy))
	builder.WriteString(fmt.Sprintf("Brier Score: %.4f\n", m.BrierScore))
	builder.WriteString(fmt.Sprintf("P(ruin): %.2f%%\n", result.MonteCarloResult.ProbabilityOfRuin*100))
	return builder.String()
}

// ExportResultJSON writes the aggregated result to a JSON file
func ExportResultJSON(result AggregatedResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(result.ToJSON()), 0o644)
}

// ExportEquityCurveCSV writes the equity curve to a CSV file
func ExportEquityCurveCSV(curve EquityCurve, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(curve.ToCSV()), 0o644)
}
