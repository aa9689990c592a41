// Package telemetry provides metrics collection and reporting
// for monitoring the Professor AI service performance.
package telemetry

import (
	"fmt"
	"sync"
	"time"
)

// MetricsCollector provides a thread-safe interface for collecting
// application metrics for monitoring and troubleshooting.
type MetricsCollector struct {
	counters map[string]int64
	gauges   map[string]float64
	timers   map[string][]time.Duration
	mu       sync.RWMutex
}

// Metrics for the embeddings and classification pipeline.
const (
	// API call counts by provider
	MetricAPICallsOpenAI = "embeddings.api_calls.openai"
	MetricAPICallsGoogle = "embeddings.api_calls.google"
	MetricAPICallsMeta   = "embeddings.api_calls.meta"

	// Success/failure metrics
	MetricAPICallsSuccess = "embeddings.api_calls.success"
	MetricAPICallsFailure = "embeddings.api_calls.failure"

	// Provider cache metrics
	MetricEmbeddingsCacheHits   = "embeddings.cache.hits"
	MetricEmbeddingsCacheMisses = "embeddings.cache.misses"
	MetricEmbeddingsRebuilds    = "embeddings.provider_rebuilds"

	// Response times
	MetricResponseTimeEmbed = "embeddings.response_time"

	// Classification metrics
	MetricItemsClassified = "content.items_classified"
	MetricLinesDropped    = "content.lines_dropped"

	// Indexing metrics
	MetricNotesIndexed    = "notes.indexed"
	MetricNotesSearches   = "notes.searches"
	MetricIndexingSkipped = "notes.indexing_skipped"
)

// NewMetricsCollector creates a new MetricsCollector instance.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timers:   make(map[string][]time.Duration),
	}
}

// IncrementCounter increments a named counter by the specified amount.
func (m *MetricsCollector) IncrementCounter(name string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name] += amount
}

// SetGauge sets a named gauge to the specified value.
func (m *MetricsCollector) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gauges[name] = value
}

// RecordTimer records a duration for the specified timer.
func (m *MetricsCollector) RecordTimer(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timers[name] = append(m.timers[name], duration)

	// Limit the number of stored durations to avoid unbounded growth
	if len(m.timers[name]) > 100 {
		m.timers[name] = m.timers[name][1:]
	}
}

// GetCounter retrieves the current value of a counter.
func (m *MetricsCollector) GetCounter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.counters[name]
}

// GetGauge retrieves the current value of a gauge.
func (m *MetricsCollector) GetGauge(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.gauges[name]
}

// GetTimerAverage calculates the average duration for a timer.
func (m *MetricsCollector) GetTimerAverage(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	durations, exists := m.timers[name]
	if !exists || len(durations) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}

	return total / time.Duration(len(durations))
}

// GetReport generates a report of all collected metrics.
func (m *MetricsCollector) GetReport() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report := "Metrics Report:\n"
	report += "==============\n\n"

	report += "Counters:\n"
	for name, value := range m.counters {
		report += fmt.Sprintf("  %s: %d\n", name, value)
	}

	report += "\nGauges:\n"
	for name, value := range m.gauges {
		report += fmt.Sprintf("  %s: %.2f\n", name, value)
	}

	report += "\nTimers (avg):\n"
	for name, durations := range m.timers {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		avg := total / time.Duration(len(durations))
		report += fmt.Sprintf("  %s: avg=%v count=%d\n", name, avg, len(durations))
	}

	return report
}

// Reset clears all collected metrics.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters = make(map[string]int64)
	m.gauges = make(map[string]float64)
	m.timers = make(map[string][]time.Duration)
}
