// Package store is the station-facing client for the shared order store:
// whole-value read/replace per collection key plus change notifications.
// It is the only channel the three stations share.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/totempos/kiosk/internal/model"
)

// Collection keys. One canonical active collection and one history
// collection are shared by every station.
const (
	KeyActiveOrders = "active_orders"
	KeyOrderHistory = "order_history"
)

// Event is a change notification for one collection key. The writer of a
// replace never receives its own event and must refresh its local view
// after writing.
type Event struct {
	Key string `json:"key"`
}

// ConcurrencyNote documents the store's known consistency weakness.
// Replace overwrites the whole collection with no merge and no
// compare-and-swap: two stations racing on the same key lose whichever
// write lands first, in full. Callers must treat this as a design
// limitation, not a safe property.
const ConcurrencyNote = "whole-value replace: concurrent writers to the same key silently lose updates"

// ErrWrite wraps store write failures. The caller's in-memory view stays
// authoritative for the session until a later write succeeds.
var ErrWrite = errors.New("store write failed")

// Client talks to one storeserver instance. StationID identifies this
// process as a subscriber and as a writer, so its own replaces are not
// echoed back to it.
type Client struct {
	baseURL   string
	stationID string
	http      *http.Client

	// PollInterval adds a periodic synthetic refresh event for every
	// collection key, so a station that missed notifications (there is no
	// replay) still converges on the latest value. Zero disables polling.
	PollInterval time.Duration
}

// NewClient creates a store client for the given base URL and station id.
func NewClient(baseURL, stationID string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		stationID: stationID,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// StationID returns the subscriber identity used for writer exclusion.
func (c *Client) StationID() string {
	return c.stationID
}

// readRaw fetches the stored value for key. A missing key returns nil with
// no error. Only transport-level failures surface as errors.
func (c *Client) readRaw(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/collections/"+key, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("read %s: unexpected status %d", key, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ReadOrders reads a collection of orders. An absent key or an unparsable
// value is a recoverable condition, never fatal: it is logged and an empty
// collection is returned, exactly as if the key had never been written.
func (c *Client) ReadOrders(ctx context.Context, key string) ([]model.Order, error) {
	data, err := c.readRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var orders []model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		log.Printf("store: unparsable value for %s, treating as empty: %v", key, err)
		return nil, nil
	}
	return orders, nil
}

// ReadHistory reads the archived history collection, with the same
// recoverable-read semantics as ReadOrders.
func (c *Client) ReadHistory(ctx context.Context, key string) ([]model.HistoryRecord, error) {
	data, err := c.readRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var recs []model.HistoryRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		log.Printf("store: unparsable value for %s, treating as empty: %v", key, err)
		return nil, nil
	}
	return recs, nil
}

// replaceRaw atomically overwrites the whole value for key. There is no
// partial write and no compare-and-swap; see ConcurrencyNote.
func (c *Client) replaceRaw(ctx context.Context, key string, value []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/v1/collections/"+key, bytes.NewReader(value))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Station-ID", c.stationID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: %s: unexpected status %d", ErrWrite, key, resp.StatusCode)
	}
	return nil
}

// ReplaceOrders overwrites an order collection.
func (c *Client) ReplaceOrders(ctx context.Context, key string, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	return c.replaceRaw(ctx, key, data)
}

// ReplaceHistory overwrites the history collection.
func (c *Client) ReplaceHistory(ctx context.Context, key string, recs []model.HistoryRecord) error {
	if recs == nil {
		recs = []model.HistoryRecord{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, key, err)
	}
	return c.replaceRaw(ctx, key, data)
}

// Subscribe connects to the store's notification feed and returns a channel
// of change events. Events carry no payload: on receipt the station
// re-reads the collections it cares about. There is no replay of missed
// events. The channel closes when ctx is done; if the connection drops
// while polling is enabled, the channel stays open and synthetic poll
// events keep the station converging.
func (c *Client) Subscribe(ctx context.Context) (<-chan Event, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/v1/subscribe?station=" + c.stationID
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	raw := make(chan Event, 16)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(raw)
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("store: subscription closed: %v", err)
				}
				return
			}
			// The hub may batch newline-separated events into one frame.
			for _, line := range bytes.Split(msg, []byte{'\n'}) {
				if len(bytes.TrimSpace(line)) == 0 {
					continue
				}
				var ev Event
				if err := json.Unmarshal(line, &ev); err != nil {
					log.Printf("store: bad notification %q: %v", line, err)
					continue
				}
				select {
				case raw <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	// Single forwarding goroutine owns the outbound channel, so the poll
	// ticker can never race the reader on a closed channel.
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		var tick <-chan time.Time
		if c.PollInterval > 0 {
			ticker := time.NewTicker(c.PollInterval)
			defer ticker.Stop()
			tick = ticker.C
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-raw:
				if !ok {
					// The connection dropped. Without polling there is
					// nothing left to forward; with it, the ticker keeps
					// the station converging until a redial.
					if tick == nil {
						return
					}
					raw = nil
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			case <-tick:
				for _, key := range []string{KeyActiveOrders, KeyOrderHistory} {
					select {
					case events <- Event{Key: key}:
					default:
						// Subscriber is behind; it will re-read anyway.
					}
				}
			}
		}
	}()

	return events, nil
}
