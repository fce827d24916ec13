package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/totempos/kiosk/internal/lifecycle"
	"github.com/totempos/kiosk/internal/model"
)

func order(id string, status model.Status) model.Order {
	return model.Order{
		ID:           id,
		CustomerName: "Ana",
		CreatedAt:    "12:30",
		Total:        decimal.RequireFromString("30.00"),
		Status:       status,
	}
}

func TestStatusOnlyMovesForward(t *testing.T) {
	steps := []model.Status{model.StatusPending, model.StatusAccepted, model.StatusReady, model.StatusCompleted}
	for i := 0; i < len(steps)-1; i++ {
		got, ok := lifecycle.Next(steps[i])
		if !ok || got != steps[i+1] {
			t.Fatalf("Next(%s) = (%s, %v), want %s", steps[i], got, ok, steps[i+1])
		}
	}
	if _, ok := lifecycle.Next(model.StatusCompleted); ok {
		t.Fatal("COMPLETED must be terminal")
	}
}

func TestTransitionOwnership(t *testing.T) {
	if !lifecycle.CanTransition(lifecycle.StationPrep, model.StatusPending, model.StatusAccepted) {
		t.Fatal("prep must own PENDING -> ACCEPTED")
	}
	if lifecycle.CanTransition(lifecycle.StationSettlement, model.StatusPending, model.StatusAccepted) {
		t.Fatal("settlement must not accept orders")
	}
	if lifecycle.CanTransition(lifecycle.StationCapture, model.StatusAccepted, model.StatusReady) {
		t.Fatal("capture drives no transitions after submission")
	}
	// Both back-of-house stations may complete.
	for _, st := range []lifecycle.Station{lifecycle.StationPrep, lifecycle.StationSettlement} {
		if !lifecycle.CanTransition(st, model.StatusReady, model.StatusCompleted) {
			t.Fatalf("%s must be able to complete READY orders", st)
		}
	}
	// Skipping a step is never legal.
	if lifecycle.CanTransition(lifecycle.StationPrep, model.StatusPending, model.StatusReady) {
		t.Fatal("PENDING -> READY skips ACCEPTED")
	}
}

func TestAdvance(t *testing.T) {
	orders := []model.Order{order("a", model.StatusPending), order("b", model.StatusReady)}

	orders, changed, err := lifecycle.Advance(orders, "a", lifecycle.StationPrep)
	if err != nil || !changed {
		t.Fatalf("Advance = (%v, %v)", changed, err)
	}
	if orders[0].Status != model.StatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", orders[0].Status)
	}

	// A vanished id is a silent no-op: another station got there first.
	orders, changed, err = lifecycle.Advance(orders, "gone", lifecycle.StationPrep)
	if err != nil || changed {
		t.Fatalf("missing id = (%v, %v), want silent no-op", changed, err)
	}

	if _, _, err := lifecycle.Advance(orders, "b", lifecycle.StationCapture); !errors.Is(err, lifecycle.ErrNotOwner) {
		t.Fatalf("unowned transition = %v, want ErrNotOwner", err)
	}

	terminal := []model.Order{order("c", model.StatusCompleted)}
	if _, _, err := lifecycle.Advance(terminal, "c", lifecycle.StationPrep); !errors.Is(err, lifecycle.ErrBadTransition) {
		t.Fatalf("terminal advance = %v, want ErrBadTransition", err)
	}
}

func TestArchiveMovesExactlyOnce(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 45, 0, 0, time.UTC)
	orders := []model.Order{order("a", model.StatusReady), order("b", model.StatusPending)}

	orders, rec, err := lifecycle.Archive(orders, "a", lifecycle.StationSettlement, now)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a history record")
	}
	if rec.Status != model.StatusCompleted {
		t.Fatalf("archived status = %s, want COMPLETED", rec.Status)
	}
	if rec.CompletedAt == nil || !rec.CompletedAt.Equal(now) {
		t.Fatalf("completedAt = %v, want %v", rec.CompletedAt, now)
	}
	if rec.CompletedLabel != "18:45" {
		t.Fatalf("completedLabel = %q, want 18:45", rec.CompletedLabel)
	}

	// Moved, not copied: the order left the active collection.
	if len(orders) != 1 || orders[0].ID != "b" {
		t.Fatalf("active after archive: %+v", orders)
	}

	// The race loser sees a no-op, not an error.
	orders, rec, err = lifecycle.Archive(orders, "a", lifecycle.StationPrep, now)
	if err != nil || rec != nil {
		t.Fatalf("second archive = (%v, %v), want silent no-op", rec, err)
	}
	if len(orders) != 1 {
		t.Fatalf("active mutated by no-op: %+v", orders)
	}
}

func TestArchiveRequiresReady(t *testing.T) {
	now := time.Now()
	orders := []model.Order{order("a", model.StatusAccepted)}
	if _, _, err := lifecycle.Archive(orders, "a", lifecycle.StationPrep, now); !errors.Is(err, lifecycle.ErrNotReady) {
		t.Fatalf("archive ACCEPTED = %v, want ErrNotReady", err)
	}

	ready := []model.Order{order("b", model.StatusReady)}
	if _, _, err := lifecycle.Archive(ready, "b", lifecycle.StationCapture, now); !errors.Is(err, lifecycle.ErrNotOwner) {
		t.Fatalf("capture archive = %v, want ErrNotOwner", err)
	}
}

func TestDelete(t *testing.T) {
	orders := []model.Order{order("a", model.StatusPending), order("b", model.StatusReady)}

	orders, removed := lifecycle.Delete(orders, "b")
	if !removed || len(orders) != 1 {
		t.Fatalf("Delete = %v, orders = %+v", removed, orders)
	}
	if _, removed = lifecycle.Delete(orders, "b"); removed {
		t.Fatal("deleting a missing id must be a no-op")
	}
}

func TestAllowedActions(t *testing.T) {
	got := lifecycle.AllowedActions(lifecycle.StationPrep, model.StatusPending)
	want := []lifecycle.Action{lifecycle.ActionAccept, lifecycle.ActionDelete, lifecycle.ActionAnnotate}
	if len(got) != len(want) {
		t.Fatalf("prep/PENDING actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prep/PENDING actions = %v, want %v", got, want)
		}
	}

	got = lifecycle.AllowedActions(lifecycle.StationSettlement, model.StatusReady)
	if len(got) != 2 || got[0] != lifecycle.ActionFinalize || got[1] != lifecycle.ActionDelete {
		t.Fatalf("settlement/READY actions = %v", got)
	}

	// Settlement never touches cooking-stage orders.
	got = lifecycle.AllowedActions(lifecycle.StationSettlement, model.StatusPending)
	if len(got) != 1 || got[0] != lifecycle.ActionDelete {
		t.Fatalf("settlement/PENDING actions = %v", got)
	}
}
