package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ticksCompleted  atomic.Uint64
	listingsCreated atomic.Uint64
	purchasesTotal  atomic.Uint64
	demandEvents    atomic.Uint64
	notifications   atomic.Uint64
	snapshotSaves   atomic.Uint64
	errorsTotal     atomic.Uint64

	// Tick latency tracking
	tickSumNs atomic.Int64
	tickCount atomic.Uint64

	// Gauges
	connectedClients atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordTick records one completed market tick.
func (m *Metrics) RecordTick() {
	m.ticksCompleted.Add(1)
}

// RecordTickLatency records how long a tick took.
func (m *Metrics) RecordTickLatency(latencyNs int64) {
	m.tickSumNs.Add(latencyNs)
	m.tickCount.Add(1)
}

// RecordListing records a created listing.
func (m *Metrics) RecordListing() {
	m.listingsCreated.Add(1)
}

// RecordPurchase records a purchase, player or ambient.
func (m *Metrics) RecordPurchase() {
	m.purchasesTotal.Add(1)
}

// RecordDemandEvent records a fired demand event.
func (m *Metrics) RecordDemandEvent() {
	m.demandEvents.Add(1)
}

// RecordNotification records a pushed notification.
func (m *Metrics) RecordNotification() {
	m.notifications.Add(1)
}

// RecordSnapshotSave records a persisted snapshot.
func (m *Metrics) RecordSnapshotSave() {
	m.snapshotSaves.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// IncrementClients increments connected push clients by 1.
func (m *Metrics) IncrementClients() {
	m.connectedClients.Add(1)
}

// DecrementClients decrements connected push clients by 1.
func (m *Metrics) DecrementClients() {
	m.connectedClients.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	TicksCompleted   uint64
	ListingsCreated  uint64
	PurchasesTotal   uint64
	DemandEvents     uint64
	Notifications    uint64
	SnapshotSaves    uint64
	ErrorsTotal      uint64
	AvgTickNs        int64
	ConnectedClients int32
	Timestamp        time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgTick int64
	count := m.tickCount.Load()
	if count > 0 {
		avgTick = m.tickSumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		TicksCompleted:   m.ticksCompleted.Load(),
		ListingsCreated:  m.listingsCreated.Load(),
		PurchasesTotal:   m.purchasesTotal.Load(),
		DemandEvents:     m.demandEvents.Load(),
		Notifications:    m.notifications.Load(),
		SnapshotSaves:    m.snapshotSaves.Load(),
		ErrorsTotal:      m.errorsTotal.Load(),
		AvgTickNs:        avgTick,
		ConnectedClients: m.connectedClients.Load(),
		Timestamp:        time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.ticksCompleted.Store(0)
	m.listingsCreated.Store(0)
	m.purchasesTotal.Store(0)
	m.demandEvents.Store(0)
	m.notifications.Store(0)
	m.snapshotSaves.Store(0)
	m.errorsTotal.Store(0)
	m.tickSumNs.Store(0)
	m.tickCount.Store(0)
	m.connectedClients.Store(0)
}
