package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates question-answering counters, broken down by the metric
// each question resolved to.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	byMetric map[string]*metricCounters
}

type metricCounters struct {
	count         atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // milliseconds
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{byMetric: make(map[string]*metricCounters)}
}

var globalMetrics = NewMetrics()

// GlobalMetrics returns the process-wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records an answered question.
func (m *Metrics) RecordRequest(metric string, duration time.Duration) {
	m.requestTotal.Add(1)
	c := m.counters(metric)
	c.count.Add(1)
	c.totalDuration.Add(duration.Milliseconds())
}

// RecordFailure records a question that errored.
func (m *Metrics) RecordFailure(metric string) {
	m.requestFailed.Add(1)
	m.counters(metric).errorCount.Add(1)
}

func (m *Metrics) counters(metric string) *metricCounters {
	if metric == "" {
		metric = "unknown"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byMetric[metric]
	if !ok {
		c = &metricCounters{}
		m.byMetric[metric] = c
	}
	return c
}

// Reset clears all counters. Tests use this.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.mu.Lock()
	m.byMetric = make(map[string]*metricCounters)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	byMetric := make(map[string]*MetricSnapshot, len(m.byMetric))
	for name, c := range m.byMetric {
		count := c.count.Load()
		snap := &MetricSnapshot{
			Count:      count,
			ErrorCount: c.errorCount.Load(),
		}
		if count > 0 {
			snap.AverageDurationMs = c.totalDuration.Load() / count
		}
		byMetric[name] = snap
	}

	return &Snapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		ByMetric:      byMetric,
	}
}

// Snapshot is a point-in-time view of the collector.
type Snapshot struct {
	RequestTotal  int64                      `json:"request_total"`
	RequestFailed int64                      `json:"request_failed"`
	ByMetric      map[string]*MetricSnapshot `json:"by_metric"`
}

// MetricSnapshot is the per-metric breakdown within a Snapshot.
type MetricSnapshot struct {
	Count             int64 `json:"count"`
	ErrorCount        int64 `json:"error_count"`
	AverageDurationMs int64 `json:"average_duration_ms"`
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *Snapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
