package storeserver

import (
	"encoding/json"
	"sync"

	"github.com/totempos/kiosk/internal/store"
)

// changeEvent is an internal struct pairing a notification with the
// station that caused it, so the writer can be excluded.
type changeEvent struct {
	Writer string
	Event  store.Event
}

// Hub maintains the set of subscribed stations and fans change
// notifications out to them. A station never receives notifications for
// its own writes: after a replace the writer refreshes its view locally.
type Hub struct {
	// Registered subscribers
	clients map[*Client]bool

	// Inbound registration traffic
	register   chan *Client
	unregister chan *Client

	// Outbound notifications
	broadcast chan *changeEvent

	// Mutex for thread-safe client set access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *changeEvent, 256),
	}
}

// Run starts the hub's main loop.
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, exists := h.clients[client]; exists {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()

			// Marshal the event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range h.clients {
				// Writer exclusion: the storage-event contract delivers
				// changes to every process except the one that wrote.
				if client.stationID == event.Writer {
					continue
				}
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyChange queues a change notification for key, attributed to the
// writing station. This is the public API for the replace handler.
func (h *Hub) NotifyChange(writer, key string) {
	h.broadcast <- &changeEvent{
		Writer: writer,
		Event:  store.Event{Key: key},
	}
}
