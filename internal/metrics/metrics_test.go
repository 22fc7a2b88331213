package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestBetCounters(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		BetsPlacedTotal.WithLabelValues("single").Inc()
		BetsPlacedTotal.WithLabelValues("parlay").Inc()
		BetsResolvedTotal.WithLabelValues("won").Inc()
		BetsResolvedTotal.WithLabelValues("void").Inc()
	})
}

func TestUpdateBankroll(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		bankroll float64
	}{
		{
			name:     "positive bankroll",
			bankroll: 1000,
		},
		{
			name:     "zero bankroll",
			bankroll: 0,
		},
		{
			name:     "negative bankroll",
			bankroll: -100, // still recorded
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateBankroll(tt.bankroll)
			})
		})
	}
}

func TestRecordIngestion(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordGameIngested()
		RecordIngestionError()
		RecordEstimate()
		RecordParlayAnalyzed()
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func BenchmarkUpdateBankroll(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		UpdateBankroll(1000.0)
	}
}
