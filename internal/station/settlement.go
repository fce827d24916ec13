package station

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/totempos/kiosk/internal/lifecycle"
	"github.com/totempos/kiosk/internal/model"
	"github.com/totempos/kiosk/internal/store"
)

// Settlement is the cashier-facing station: it watches READY orders, may
// finalize them (completing and archiving in one operation), and reports
// day totals from history.
type Settlement struct {
	store  Store
	orders []model.Order

	Now func() time.Time
}

// Summary is the cashier overview: how many orders await pickup and what
// has been taken in so far.
type Summary struct {
	ReadyCount     int
	CompletedCount int
	Revenue        decimal.Decimal
}

// NewSettlement creates a settlement station over a store.
func NewSettlement(s Store) *Settlement {
	return &Settlement{store: s, Now: time.Now}
}

// Refresh re-reads the active collection after a change notification.
func (s *Settlement) Refresh(ctx context.Context) error {
	orders, err := s.store.ReadOrders(ctx, store.KeyActiveOrders)
	if err != nil {
		return err
	}
	s.orders = orders
	return nil
}

// Ready returns the READY orders awaiting finalization, newest first.
// Settlement never shows cooking-stage orders.
func (s *Settlement) Ready() []model.Order {
	var ready []model.Order
	for _, o := range s.orders {
		if o.Status == model.StatusReady {
			ready = append(ready, o)
		}
	}
	return mostRecentFirst(ready)
}

// Actions returns the renderer action set for one order on this station.
func (s *Settlement) Actions(o model.Order) []lifecycle.Action {
	return lifecycle.AllowedActions(lifecycle.StationSettlement, o.Status)
}

// Finalize completes and archives a READY order, behind a confirmation.
// Either station may win the race to finalize; losing it is a silent no-op.
func (s *Settlement) Finalize(ctx context.Context, id string, confirm Confirm) (bool, error) {
	if !confirm("Finalize this order?") {
		return false, nil
	}
	return archive(ctx, s.store, &s.orders, id, lifecycle.StationSettlement, s.Now())
}

// Completed returns the archived orders, latest completion first, for the
// finalized side of the cashier screen.
func (s *Settlement) Completed(ctx context.Context) ([]model.HistoryRecord, error) {
	recs, err := s.store.ReadHistory(ctx, store.KeyOrderHistory)
	if err != nil {
		return nil, err
	}
	return MostRecentFirst(recs), nil
}

// Summarize reads history and combines it with the current READY queue into
// the cashier overview.
func (s *Settlement) Summarize(ctx context.Context) (Summary, error) {
	recs, err := s.store.ReadHistory(ctx, store.KeyOrderHistory)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		ReadyCount:     len(s.Ready()),
		CompletedCount: len(recs),
		Revenue:        Revenue(recs),
	}, nil
}
