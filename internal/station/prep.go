package station

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/totempos/kiosk/internal/lifecycle"
	"github.com/totempos/kiosk/internal/model"
	"github.com/totempos/kiosk/internal/store"
)

// Prep is the kitchen station: it owns the cooking-stage transitions
// (PENDING -> ACCEPTED -> READY), may complete and archive READY orders,
// and can attach operator notes.
type Prep struct {
	store  Store
	orders []model.Order

	Now func() time.Time
}

// NewPrep creates a prep station over a store.
func NewPrep(s Store) *Prep {
	return &Prep{store: s, Now: time.Now}
}

// Refresh re-reads the active collection after a change notification.
func (p *Prep) Refresh(ctx context.Context) error {
	orders, err := p.store.ReadOrders(ctx, store.KeyActiveOrders)
	if err != nil {
		return err
	}
	p.orders = orders
	return nil
}

// Orders returns the board view, newest first.
func (p *Prep) Orders() []model.Order { return mostRecentFirst(p.orders) }

// Actions returns the renderer action set for one order on this station.
func (p *Prep) Actions(o model.Order) []lifecycle.Action {
	return lifecycle.AllowedActions(lifecycle.StationPrep, o.Status)
}

// Accept moves a PENDING order to ACCEPTED, behind a confirmation. The
// order vanishing before the click (archived or deleted elsewhere) is a
// silent no-op, reported as done=false.
func (p *Prep) Accept(ctx context.Context, id string, confirm Confirm) (bool, error) {
	if !confirm("Accept this order?") {
		return false, nil
	}
	return p.advance(ctx, id, model.StatusPending)
}

// MarkReady moves an ACCEPTED order to READY.
func (p *Prep) MarkReady(ctx context.Context, id string) (bool, error) {
	return p.advance(ctx, id, model.StatusAccepted)
}

// advance performs the cooking-stage step from exactly the given origin
// status. A duplicate or stale event (the order already moved on, or is
// gone) is a silent no-op: in particular a READY order never completes
// here — completion always goes through the archival move in Complete.
func (p *Prep) advance(ctx context.Context, id string, from model.Status) (bool, error) {
	orders := readActive(ctx, p.store, p.orders)
	found := false
	for i := range orders {
		if orders[i].ID == id {
			found = orders[i].Status == from
			break
		}
	}
	if !found {
		return false, nil
	}
	orders, changed, err := lifecycle.Advance(orders, id, lifecycle.StationPrep)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	p.orders = orders
	if err := p.store.ReplaceOrders(ctx, store.KeyActiveOrders, orders); err != nil {
		log.Printf("ERROR: write active orders: %v", err)
		return true, err
	}
	return true, nil
}

// Complete finalizes a READY order from the kitchen side: the status
// transition and the archival move are one logical operation. History is
// written before the order leaves the active collection, so a failure
// between the two writes duplicates rather than loses the record.
func (p *Prep) Complete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	if !confirm("Complete and archive this order?") {
		return false, nil
	}
	return archive(ctx, p.store, &p.orders, id, lifecycle.StationPrep, p.Now())
}

// Delete removes an order from the board entirely, behind a confirmation.
// Allowed from any non-terminal state; this is an operator correction, not
// a lifecycle transition.
func (p *Prep) Delete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	if !confirm("Delete this order?") {
		return false, nil
	}
	orders := readActive(ctx, p.store, p.orders)
	orders, removed := lifecycle.Delete(orders, id)
	if !removed {
		return false, nil
	}
	p.orders = orders
	if err := p.store.ReplaceOrders(ctx, store.KeyActiveOrders, orders); err != nil {
		log.Printf("ERROR: write active orders: %v", err)
		return true, err
	}
	return true, nil
}

// Annotate attaches or replaces the operator note on an order. An empty
// note clears the annotation. A missing id is a no-op.
func (p *Prep) Annotate(ctx context.Context, id, note string) (bool, error) {
	note = strings.TrimSpace(note)
	orders := readActive(ctx, p.store, p.orders)
	changed := false
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		if note == "" {
			orders[i].Custom = nil
		} else {
			orders[i].Custom = &model.Annotations{Note: note}
		}
		changed = true
		break
	}
	if !changed {
		return false, nil
	}
	p.orders = orders
	if err := p.store.ReplaceOrders(ctx, store.KeyActiveOrders, orders); err != nil {
		log.Printf("ERROR: write active orders: %v", err)
		return true, err
	}
	return true, nil
}

// archive is the shared completion path for prep and settlement. It appends
// the history record first, then removes the order from the active
// collection, and keeps the caller's local view in step.
func archive(ctx context.Context, s Store, local *[]model.Order, id string, st lifecycle.Station, now time.Time) (bool, error) {
	orders := readActive(ctx, s, *local)
	orders, rec, err := lifecycle.Archive(orders, id, st, now)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	history, err := s.ReadHistory(ctx, store.KeyOrderHistory)
	if err != nil {
		log.Printf("ERROR: read order history: %v", err)
		return false, err
	}
	history = append(history, *rec)
	if err := s.ReplaceHistory(ctx, store.KeyOrderHistory, history); err != nil {
		log.Printf("ERROR: write order history: %v", err)
		return false, err
	}

	*local = orders
	if err := s.ReplaceOrders(ctx, store.KeyActiveOrders, orders); err != nil {
		log.Printf("ERROR: write active orders: %v", err)
		return true, err
	}
	return true, nil
}
