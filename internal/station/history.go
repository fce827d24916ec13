package station

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/totempos/kiosk/internal/model"
	"github.com/totempos/kiosk/internal/store"
)

// History wraps the append-only archive of completed orders. Records enter
// only via the archival move and leave only via explicit deletion.
type History struct {
	store Store
}

// NewHistory creates a history view over a store.
func NewHistory(s Store) *History {
	return &History{store: s}
}

// Records reads the archive in stored (append) order.
func (h *History) Records(ctx context.Context) ([]model.HistoryRecord, error) {
	return h.store.ReadHistory(ctx, store.KeyOrderHistory)
}

// Delete removes one archived record by order id, behind a confirmation.
func (h *History) Delete(ctx context.Context, id string, confirm Confirm) (bool, error) {
	if !confirm("Delete this record from history?") {
		return false, nil
	}
	recs, err := h.store.ReadHistory(ctx, store.KeyOrderHistory)
	if err != nil {
		return false, err
	}
	for i := range recs {
		if recs[i].ID != id {
			continue
		}
		recs = append(recs[:i], recs[i+1:]...)
		if err := h.store.ReplaceHistory(ctx, store.KeyOrderHistory, recs); err != nil {
			log.Printf("ERROR: write order history: %v", err)
			return true, err
		}
		return true, nil
	}
	return false, nil
}

// Clear wipes the whole archive, behind a confirmation. Destructive and
// deliberate: the prompt says so.
func (h *History) Clear(ctx context.Context, confirm Confirm) (bool, error) {
	if !confirm("Clear ALL order history? This cannot be undone.") {
		return false, nil
	}
	if err := h.store.ReplaceHistory(ctx, store.KeyOrderHistory, []model.HistoryRecord{}); err != nil {
		log.Printf("ERROR: write order history: %v", err)
		return true, err
	}
	return true, nil
}

// MostRecentFirst returns the records in display order: latest completion
// first. Stored order is append order, so a reversed copy suffices.
func MostRecentFirst(recs []model.HistoryRecord) []model.HistoryRecord {
	out := make([]model.HistoryRecord, len(recs))
	for i, r := range recs {
		out[len(recs)-1-i] = r
	}
	return out
}

// Search filters records by a case-insensitive substring match on customer
// name or order id. An empty term matches everything.
func Search(recs []model.HistoryRecord, term string) []model.HistoryRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return recs
	}
	var out []model.HistoryRecord
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.CustomerName), term) ||
			strings.Contains(strings.ToLower(r.ID), term) {
			out = append(out, r)
		}
	}
	return out
}

// Revenue sums the totals of all archived orders.
func Revenue(recs []model.HistoryRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range recs {
		sum = sum.Add(r.Total)
	}
	return sum
}
