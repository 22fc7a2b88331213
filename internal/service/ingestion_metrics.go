package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about data ingestion
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Players          int
	Games            int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Players = 0
	m.Games = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordPlayer increments the synced player count
func (m *IngestionMetrics) RecordPlayer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Players++
}

// RecordGame increments the ingested game count
func (m *IngestionMetrics) RecordGame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Games++
}

// RecordValidationError increments the validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// RecordError increments the system error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"IngestionMetrics{Players=%d, Games=%d, ValidationErrors=%d, Errors=%d, Elapsed=%v}",
		m.Players,
		m.Games,
		m.ValidationErrors,
		m.Errors,
		time.Since(m.StartTime).Round(time.Millisecond),
	)
}
