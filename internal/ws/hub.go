package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Hub fans meter readings out to whoever is watching them. Subscriptions
// are keyed by MPAN, so several dashboards can follow the same meter.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Connection]struct{}
	logger *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Connection]struct{}),
		logger: logger,
	}
}

// Subscribe registers a connection under its meter.
func (h *Hub) Subscribe(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.subs[conn.MPANID()]
	if !ok {
		conns = make(map[*Connection]struct{})
		h.subs[conn.MPANID()] = conns
	}
	conns[conn] = struct{}{}
}

// Unsubscribe removes a connection.
func (h *Hub) Unsubscribe(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.subs[conn.MPANID()]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.subs, conn.MPANID())
	}
}

// Publish sends a payload to every subscriber of a meter. Publishing never
// blocks on slow connections.
func (h *Hub) Publish(mpanID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.subs[mpanID] {
		conn.Send(payload)
	}
}

// Subscribers reports how many connections follow a meter.
func (h *Hub) Subscribers(mpanID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[mpanID])
}
