package logger

import (
	"sync"
	"time"
)

// Metrics tracks counters and timing measurements for a run. All methods
// are safe for concurrent use.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

var defaultMetrics = NewMetrics()

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter increments the named counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// RecordTiming records one duration measurement under the given name.
func (m *Metrics) RecordTiming(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], d)
}

// Snapshot returns the current counters and per-timing statistics
// (count, total, average, min, max in milliseconds).
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	counters := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}

	timings := make(map[string]map[string]interface{}, len(m.timings))
	for name, samples := range m.timings {
		if len(samples) == 0 {
			continue
		}
		total := time.Duration(0)
		min, max := samples[0], samples[0]
		for _, d := range samples {
			total += d
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}
		timings[name] = map[string]interface{}{
			"count":    len(samples),
			"total_ms": total.Milliseconds(),
			"avg_ms":   (total / time.Duration(len(samples))).Milliseconds(),
			"min_ms":   min.Milliseconds(),
			"max_ms":   max.Milliseconds(),
		}
	}

	return map[string]interface{}{
		"counters": counters,
		"timings":  timings,
	}
}

// Package-level convenience functions using the default metrics tracker.

func IncrCounter(name string)                   { defaultMetrics.IncrCounter(name) }
func RecordTiming(name string, d time.Duration) { defaultMetrics.RecordTiming(name, d) }
func MetricsSnapshot() map[string]interface{}   { return defaultMetrics.Snapshot() }
