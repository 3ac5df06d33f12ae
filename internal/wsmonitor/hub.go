// Package wsmonitor broadcasts engine dispatch events to subscribed
// WebSocket clients, implementing the Live Monitor Transport.
package wsmonitor

import (
	"log/slog"
	"sync"

	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/utils"
)

// Hub manages WebSocket connections and fans domain.Monitor callbacks out
// to clients subscribed to the affected element, or to every element if a
// client subscribed with ElementID 0.
type Hub struct {
	clients  map[*Client]bool
	register chan *Client

	unregister chan *Client
	broadcast  chan *Event

	byElement map[uint16]map[*Client]bool
	all       map[*Client]bool

	logger *slog.Logger
	mu     sync.RWMutex
}

// NewHub creates a Hub. Call Run in its own goroutine before serving
// connections.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 256),
		byElement:  make(map[uint16]map[*Client]bool),
		all:        make(map[*Client]bool),
		logger:     utils.DefaultValue(logger, slog.Default()),
	}
}

// Run drives the hub's registration and broadcast loop until the process
// exits; it never returns.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case ev := <-h.broadcast:
			h.broadcastEvent(ev)
		}
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	h.logger.Debug("client registered", "client_id", c.id, "total_clients", len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	delete(h.all, c)
	for elementID := range c.subs {
		if clients, ok := h.byElement[elementID]; ok {
			delete(clients, c)
			if len(clients) == 0 {
				delete(h.byElement, elementID)
			}
		}
	}
	h.logger.Debug("client unregistered", "client_id", c.id, "total_clients", len(h.clients))
}

// Subscribe adds c to the elementID feed, or to the whole-plan feed if
// elementID is 0.
func (h *Hub) Subscribe(c *Client, elementID uint16) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if elementID == 0 {
		h.all[c] = true
		c.subs[0] = true
		return
	}
	if h.byElement[elementID] == nil {
		h.byElement[elementID] = make(map[*Client]bool)
	}
	h.byElement[elementID][c] = true
	c.subs[elementID] = true
}

// Unsubscribe removes c from the elementID feed, or the whole-plan feed if
// elementID is 0.
func (h *Hub) Unsubscribe(c *Client, elementID uint16) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(c.subs, elementID)
	if elementID == 0 {
		delete(h.all, c)
		return
	}
	if clients, ok := h.byElement[elementID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.byElement, elementID)
		}
	}
}

func (h *Hub) broadcastEvent(ev *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := make(map[*Client]bool, len(h.all))
	for c := range h.all {
		targets[c] = true
	}
	if clients, ok := h.byElement[ev.ElementID]; ok {
		for c := range clients {
			targets[c] = true
		}
	}

	for c := range targets {
		select {
		case c.send <- ev:
		default:
			h.logger.Warn("client buffer full, dropping event", "client_id", c.id, "event_type", ev.Type)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) emit(eventType string, node domain.Node) {
	h.broadcast <- &Event{
		Type:      eventType,
		ElementID: uint16(node.ID()),
		Kind:      node.Kind().String(),
	}
}

func (h *Hub) OnExecuted(node domain.Node)   { h.emit(EventExecuted, node) }
func (h *Hub) OnSuccess(node domain.Node)    { h.emit(EventSuccess, node) }
func (h *Hub) OnInProgress(node domain.Node) { h.emit(EventInProgress, node) }
func (h *Hub) OnFail(node domain.Node)       { h.emit(EventFail, node) }
func (h *Hub) OnError(node domain.Node)      { h.emit(EventError, node) }

func (h *Hub) OnSense(releaser domain.Releaser, senseValue int32) {
	h.broadcast <- &Event{
		Type:       EventSense,
		SenseID:    uint16(releaser.SenseID),
		SenseValue: senseValue,
	}
}

var _ domain.Monitor = (*Hub)(nil)
