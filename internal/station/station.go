// Package station implements the three station coordinators. Each station
// is a single-threaded, event-driven process: it subscribes to store
// change notifications, re-reads the collections it cares about, and
// writes status transitions back through the same store. Stations never
// talk to each other directly.
package station

import (
	"context"
	"log"
	"sort"

	"github.com/totempos/kiosk/internal/model"
	"github.com/totempos/kiosk/internal/store"
)

// Store is the narrow shared-store surface the stations need.
// Satisfied by *store.Client.
type Store interface {
	ReadOrders(ctx context.Context, key string) ([]model.Order, error)
	ReplaceOrders(ctx context.Context, key string, orders []model.Order) error
	ReadHistory(ctx context.Context, key string) ([]model.HistoryRecord, error)
	ReplaceHistory(ctx context.Context, key string, recs []model.HistoryRecord) error
}

// Confirm asks the operator a yes/no question and returns the decision.
// Declining is a first-class outcome, not an error: the operation reports
// it performed nothing.
type Confirm func(prompt string) bool

// Always is a Confirm that approves everything; useful for tests and for
// flows where the renderer already confirmed.
func Always(string) bool { return true }

// mostRecentFirst sorts orders newest first by their station-local
// creation time, ties broken by id for a stable board.
func mostRecentFirst(orders []model.Order) []model.Order {
	out := make([]model.Order, len(orders))
	copy(out, orders)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// readActive fetches the active collection, falling back to the given
// local view when the store is unreachable. The local view stays
// authoritative for the session until a later read or write succeeds.
func readActive(ctx context.Context, s Store, local []model.Order) []model.Order {
	orders, err := s.ReadOrders(ctx, store.KeyActiveOrders)
	if err != nil {
		log.Printf("ERROR: read active orders, keeping local view: %v", err)
		return local
	}
	return orders
}
