package console

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks live console connections so they can be closed on shutdown.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	stop       chan struct{}
	stopped    chan struct{}
	once       sync.Once
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, c)
			h.mu.Unlock()

		case <-h.stop:
			h.mu.Lock()
			for c := range h.clients {
				c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline())
				c.conn.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.stop) })
	<-h.stopped
}

// Count is the number of connected consoles.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// add reports false once the hub has stopped.
func (h *Hub) add(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}
