package sse

import (
	"path"
	"sync"

	"github.com/kbukum/signup/logger"
)

type message struct {
	pattern string
	event   Event
}

// Hub routes events to clients. Clients are only mutated by the Run
// goroutine; the mutex guards reads from other goroutines.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	log        *logger.Logger
}

var _ Publisher = (*Hub)(nil)

// NewHub creates a hub. Call Run to start routing.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.WithComponent("sse")
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run routes events until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.id]; ok {
				close(old.events)
			}
			h.clients[c.id] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("sse client registered", logger.Fields("client_id", c.id, "clients", n))
		case c := <-h.unregister:
			h.remove(c)
		case m := <-h.broadcast:
			h.deliver(m)
		}
	}
}

// Stop closes every client and makes Run return. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds c. After Stop the client is closed immediately.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.events)
	}
}

// Unregister removes c.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues ev for every client whose id matches the glob pattern.
// Events published after Stop are dropped.
func (h *Hub) Publish(pattern string, ev Event) {
	select {
	case h.broadcast <- message{pattern: pattern, event: ev}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ClientIDs returns the ids of connected clients.
func (h *Hub) ClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// A reconnect with the same id may have replaced c already.
	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
		close(c.events)
	}
}

func (h *Hub) deliver(m message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	matched := 0
	for id, c := range h.clients {
		ok, err := path.Match(m.pattern, id)
		if err != nil {
			h.log.Warn("invalid sse pattern", logger.Fields("pattern", m.pattern, logger.FieldError, err.Error()))
			return
		}
		if !ok {
			continue
		}
		matched++
		if !c.send(m.event) {
			h.log.Warn("sse client lagging, event dropped", logger.Fields("client_id", id, "event", m.event.Type))
		}
	}
	h.log.Debug("sse event published", logger.Fields("pattern", m.pattern, "event", m.event.Type, "matched", matched))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.events)
		delete(h.clients, id)
	}
}
