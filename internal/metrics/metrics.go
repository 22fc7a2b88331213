// Package metrics provides the centralized Prometheus metrics registry
// for the prediction and paper-trading engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BetsPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propedge",
		Name:      "bets_placed_total",
		Help:      "Total number of paper bets placed",
	}, []string{"kind"})
	BetsResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propedge",
		Name:      "bets_resolved_total",
		Help:      "Total number of paper bets resolved",
	}, []string{"outcome"})
	EstimatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "propedge",
		Name:      "estimates_total",
		Help:      "Total number of player stat estimates computed",
	})
	ParlaysAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "propedge",
		Name:      "parlays_analyzed_total",
		Help:      "Total number of parlays analyzed",
	})
	GamesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "propedge",
		Name:      "games_ingested_total",
		Help:      "Total number of game records ingested",
	})
	IngestionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "propedge",
		Name:      "ingestion_errors_total",
		Help:      "Total number of ingestion failures",
	})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "propedge",
		Name:      "current_bankroll",
		Help:      "Current paper bankroll in currency units",
	})
	PendingBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "propedge",
		Name:      "pending_bets",
		Help:      "Number of unresolved paper bets",
	})
	TrackedPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "propedge",
		Name:      "tracked_players",
		Help:      "Number of players with ingested game history",
	})
)

// Histogram metrics
var (
	IngestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "propedge",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of per-player ingestion runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	AutoResolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "propedge",
		Name:      "auto_resolve_duration_seconds",
		Help:      "Duration of auto-resolution batch runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(BetsPlacedTotal)
		registry.MustRegister(BetsResolvedTotal)
		registry.MustRegister(EstimatesTotal)
		registry.MustRegister(ParlaysAnalyzedTotal)
		registry.MustRegister(GamesIngestedTotal)
		registry.MustRegister(IngestionErrorsTotal)

		// Register gauge metrics
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(PendingBets)
		registry.MustRegister(TrackedPlayers)

		// Register histogram metrics
		registry.MustRegister(IngestionDuration)
		registry.MustRegister(AutoResolveDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEstimate records one estimator invocation.
func RecordEstimate() {
	EstimatesTotal.Inc()
}

// RecordParlayAnalyzed records one parlay analysis.
func RecordParlayAnalyzed() {
	ParlaysAnalyzedTotal.Inc()
}

// RecordGameIngested records one ingested game record.
func RecordGameIngested() {
	GamesIngestedTotal.Inc()
}

// RecordIngestionError records one ingestion failure.
func RecordIngestionError() {
	IngestionErrorsTotal.Inc()
}

// UpdateBankroll updates the current bankroll gauge.
func UpdateBankroll(amount float64) {
	CurrentBankroll.Set(amount)
}

// UpdatePendingBets updates the pending bets gauge.
func UpdatePendingBets(count float64) {
	PendingBets.Set(count)
}
