package monitor

import (
	"sync"

	"github.com/rwortham/instinct/internal/domain"
)

// KindCounts tallies dispatch outcomes for every node of one NodeKind.
type KindCounts struct {
	Executed   uint64
	Success    uint64
	InProgress uint64
	Fail       uint64
	Error      uint64
}

// MetricsSink is a Monitor that aggregates dispatch counts per NodeKind:
// there is no workflow or AI-request concept in this domain, only the six
// typed node kinds.
type MetricsSink struct {
	mu     sync.RWMutex
	byKind map[domain.NodeKind]*KindCounts
	senses uint64
}

// NewMetricsSink returns an empty MetricsSink.
func NewMetricsSink() *MetricsSink {
	return &MetricsSink{byKind: make(map[domain.NodeKind]*KindCounts)}
}

func (m *MetricsSink) countersFor(kind domain.NodeKind) *KindCounts {
	c, ok := m.byKind[kind]
	if !ok {
		c = &KindCounts{}
		m.byKind[kind] = c
	}
	return c
}

func (m *MetricsSink) OnExecuted(node domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countersFor(node.Kind()).Executed++
}

func (m *MetricsSink) OnSuccess(node domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countersFor(node.Kind()).Success++
}

func (m *MetricsSink) OnInProgress(node domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countersFor(node.Kind()).InProgress++
}

func (m *MetricsSink) OnFail(node domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countersFor(node.Kind()).Fail++
}

func (m *MetricsSink) OnError(node domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countersFor(node.Kind()).Error++
}

func (m *MetricsSink) OnSense(domain.Releaser, int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.senses++
}

// Snapshot returns a copy of the per-kind counters, safe to serialize or
// hand to a caller without risking a data race with the live engine.
func (m *MetricsSink) Snapshot() map[domain.NodeKind]KindCounts {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[domain.NodeKind]KindCounts, len(m.byKind))
	for k, v := range m.byKind {
		out[k] = *v
	}
	return out
}

// SenseReads returns the number of OnSense notifications seen so far.
func (m *MetricsSink) SenseReads() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.senses
}

var _ domain.Monitor = (*MetricsSink)(nil)
