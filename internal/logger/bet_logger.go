// Package logger provides bet-lifecycle logging.
package logger

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// BetLogger provides dedicated logging for ledger operations.
type BetLogger struct {
	*logrus.Entry
}

// NewBetLogger creates a new bet logger.
func NewBetLogger(baseLogger *logrus.Logger) *BetLogger {
	return &BetLogger{
		Entry: baseLogger.WithField("component", "ledger"),
	}
}

// LogBetPlaced logs a bet placement event.
func (bl *BetLogger) LogBetPlaced(betID, kind string, stake decimal.Decimal, description string) {
	bl.WithFields(logrus.Fields{
		"bet_id":      betID,
		"kind":        kind,
		"stake":       stake.String(),
		"description": description,
	}).Info("Bet placed")
}

// LogBetResolved logs a single bet resolution event.
func (bl *BetLogger) LogBetResolved(betID, status string, actualResult, line float64, profitLoss decimal.Decimal) {
	bl.WithFields(logrus.Fields{
		"bet_id":        betID,
		"status":        status,
		"actual_result": actualResult,
		"line":          line,
		"profit_loss":   profitLoss.String(),
	}).Info("Bet resolved")
}

// LogParlayResolved logs a parlay resolution event.
func (bl *BetLogger) LogParlayResolved(betID, status string, numPicks int, profitLoss decimal.Decimal) {
	bl.WithFields(logrus.Fields{
		"bet_id":      betID,
		"status":      status,
		"num_picks":   numPicks,
		"profit_loss": profitLoss.String(),
	}).Info("Parlay resolved")
}

// LogBetVoided logs a manual or automatic void.
func (bl *BetLogger) LogBetVoided(betID, kind, reason string) {
	bl.WithFields(logrus.Fields{
		"bet_id": betID,
		"kind":   kind,
		"reason": reason,
	}).Info("Bet voided")
}

// LogAutoResolveBatch logs the outcome of a batch auto-resolution pass.
func (bl *BetLogger) LogAutoResolveBatch(numResolved, numFailed int) {
	bl.WithFields(logrus.Fields{
		"resolved": numResolved,
		"failed":   numFailed,
	}).Info("Auto-resolution batch completed")
}
