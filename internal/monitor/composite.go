// Package monitor adapts the engine's Monitor boundary to concrete sinks:
// a structured-log sink, a metrics collector, and (optionally) a broadcast
// sink such as a WebSocket hub.
package monitor

import (
	"sync"

	"github.com/rwortham/instinct/internal/domain"
)

// Composite fans every Monitor call out to a set of sinks: sinks are added
// once at startup and every dispatch notification reaches all of them.
type Composite struct {
	mu    sync.RWMutex
	sinks []domain.Monitor
}

// NewComposite returns a Composite holding the given sinks, in call order.
func NewComposite(sinks ...domain.Monitor) *Composite {
	return &Composite{sinks: append([]domain.Monitor{}, sinks...)}
}

// Add appends a sink, reachable by any later dispatch.
func (c *Composite) Add(sink domain.Monitor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, sink)
}

func (c *Composite) each(fn func(domain.Monitor)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, sink := range c.sinks {
		fn(sink)
	}
}

func (c *Composite) OnExecuted(node domain.Node) {
	c.each(func(s domain.Monitor) { s.OnExecuted(node) })
}

func (c *Composite) OnSuccess(node domain.Node) {
	c.each(func(s domain.Monitor) { s.OnSuccess(node) })
}

func (c *Composite) OnInProgress(node domain.Node) {
	c.each(func(s domain.Monitor) { s.OnInProgress(node) })
}

func (c *Composite) OnFail(node domain.Node) {
	c.each(func(s domain.Monitor) { s.OnFail(node) })
}

func (c *Composite) OnError(node domain.Node) {
	c.each(func(s domain.Monitor) { s.OnError(node) })
}

func (c *Composite) OnSense(releaser domain.Releaser, senseValue int32) {
	c.each(func(s domain.Monitor) { s.OnSense(releaser, senseValue) })
}

var _ domain.Monitor = (*Composite)(nil)
