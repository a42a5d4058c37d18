package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ordersExecuted atomic.Uint64
	fillsTotal     atomic.Uint64
	bookUpdates    atomic.Uint64
	errorsTotal    atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordOrderExecuted records one order run through the matching engine.
func (m *Metrics) RecordOrderExecuted() {
	m.ordersExecuted.Add(1)
}

// RecordFill records one matched fill.
func (m *Metrics) RecordFill() {
	m.fillsTotal.Add(1)
}

// RecordBookUpdate records one order-book replacement.
func (m *Metrics) RecordBookUpdate() {
	m.bookUpdates.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	OrdersExecuted    uint64
	FillsTotal        uint64
	BookUpdates       uint64
	ErrorsTotal       uint64
	ActiveConnections int32
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		OrdersExecuted:    m.ordersExecuted.Load(),
		FillsTotal:        m.fillsTotal.Load(),
		BookUpdates:       m.bookUpdates.Load(),
		ErrorsTotal:       m.errorsTotal.Load(),
		ActiveConnections: m.activeConnections.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.ordersExecuted.Store(0)
	m.fillsTotal.Store(0)
	m.bookUpdates.Store(0)
	m.errorsTotal.Store(0)
	m.activeConnections.Store(0)
}
