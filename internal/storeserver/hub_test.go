package storeserver

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/totempos/kiosk/internal/store"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, stationID string) *Client {
	return &Client{
		hub:       hub,
		stationID: stationID,
		send:      make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, "prep-1")
	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.clients[client] {
		t.Fatal("client not registered")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, "prep-1")
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[client] {
		t.Fatal("client still registered after unregister")
	}
	if _, open := <-client.send; open {
		t.Fatal("send channel not closed on unregister")
	}
}

func TestNotifyChangeExcludesWriter(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	writer := mockClient(hub, "capture-1")
	other := mockClient(hub, "prep-1")
	hub.register <- writer
	hub.register <- other
	time.Sleep(10 * time.Millisecond)

	hub.NotifyChange("capture-1", store.KeyActiveOrders)

	select {
	case msg := <-other.send:
		var ev store.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("bad notification %q: %v", msg, err)
		}
		if ev.Key != store.KeyActiveOrders {
			t.Fatalf("key = %q, want %q", ev.Key, store.KeyActiveOrders)
		}
	case <-time.After(time.Second):
		t.Fatal("non-writer never notified")
	}

	select {
	case msg := <-writer.send:
		t.Fatalf("writer received its own notification: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifyChangeAnonymousWriterReachesAll(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := mockClient(hub, "prep-1")
	b := mockClient(hub, "settlement-1")
	hub.register <- a
	hub.register <- b
	time.Sleep(10 * time.Millisecond)

	// A replace without an X-Station-ID header excludes nobody.
	hub.NotifyChange("", store.KeyOrderHistory)

	for _, c := range []*Client{a, b} {
		select {
		case <-c.send:
		case <-time.After(time.Second):
			t.Fatalf("client %s never notified", c.stationID)
		}
	}
}
