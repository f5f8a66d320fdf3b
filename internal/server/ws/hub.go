package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

const sendBuffer = 64

// Client is one connected dashboard.
type Client struct {
	UserID int64
	Role   model.Role
	Send   chan []byte

	hub       *Hub
	closeOnce sync.Once
}

// Close unregisters the client and releases its send channel.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.hub != nil {
			c.hub.unregister(c)
		}
		close(c.Send)
	})
}

// Hub tracks connected dashboards and broadcasts order events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// NewClient creates a client registered with the hub.
func (h *Hub) NewClient(principal model.Principal) *Client {
	c := &Client{UserID: principal.UserID, Role: principal.Role, Send: make(chan []byte, sendBuffer), hub: h}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Name identifies the hub as a notifier.
func (h *Hub) Name() string { return "websocket" }

// Notify broadcasts event to every client. Slow clients miss messages instead of
// holding up the broadcast.
func (h *Hub) Notify(_ context.Context, event model.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.Send <- data:
		default:
		}
	}
	return nil
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.Close()
	}
}
