package ws

import (
	"encoding/json"
	"sync"
)

// Client is one dashboard connection subscribed to the event feed.
type Client struct {
	AdminID uint
	Send    chan []byte
	hub     *EventHub
	mu      sync.Mutex
	closed  bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// EventHub fans notification obligations out to connected admin dashboards.
type EventHub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*Client]struct{})}
}

func (h *EventHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *EventHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Broadcast sends the payload to every client; slow clients drop messages
// rather than block the feed.
func (h *EventHub) Broadcast(payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
