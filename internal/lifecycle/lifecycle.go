// Package lifecycle implements the order state machine and its transition
// ownership rules, as pure operations over the active collection.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/totempos/kiosk/internal/model"
)

// Stations driving transitions.
const (
	StationCapture    Station = "capture"
	StationPrep       Station = "prep"
	StationSettlement Station = "settlement"
)

// Station identifies one of the three independent processes.
type Station string

// Actions a renderer may offer for an order, depending on its status and
// the station showing it. The rendering layer turns these into buttons and
// calls back into the station; it never mutates records itself.
const (
	ActionAccept    Action = "accept"
	ActionMarkReady Action = "mark_ready"
	ActionFinalize  Action = "finalize"
	ActionDelete    Action = "delete"
	ActionAnnotate  Action = "annotate"
)

// Action is a user intent a renderer can surface for an order.
type Action string

// Errors returned on transition misuse. A missing order id is never an
// error: another station may have archived or deleted it already.
var (
	ErrNotOwner      = errors.New("station does not own this transition")
	ErrBadTransition = errors.New("status may only move forward")
	ErrNotReady      = errors.New("order is not READY")
)

// next is the only legal forward step per status. COMPLETED is terminal.
var next = map[model.Status]model.Status{
	model.StatusPending:  model.StatusAccepted,
	model.StatusAccepted: model.StatusReady,
	model.StatusReady:    model.StatusCompleted,
}

// Next returns the legal successor of s, if any.
func Next(s model.Status) (model.Status, bool) {
	n, ok := next[s]
	return n, ok
}

// owners maps each transition (keyed by its origin status) to the stations
// allowed to drive it. Prep owns the cooking-stage transitions; READY ->
// COMPLETED may be performed by prep or settlement, and whichever station
// performs it also archives the order in the same logical operation.
var owners = map[model.Status][]Station{
	model.StatusPending:  {StationPrep},
	model.StatusAccepted: {StationPrep},
	model.StatusReady:    {StationPrep, StationSettlement},
}

// CanTransition reports whether st may move an order from -> to.
func CanTransition(st Station, from, to model.Status) bool {
	n, ok := next[from]
	if !ok || n != to {
		return false
	}
	for _, o := range owners[from] {
		if o == st {
			return true
		}
	}
	return false
}

// AllowedActions returns the renderer action set for an order with the
// given status on the given station. Delete is allowed from any
// non-terminal state, independent of the state machine.
func AllowedActions(st Station, s model.Status) []Action {
	var actions []Action
	if n, ok := next[s]; ok && CanTransition(st, s, n) {
		switch n {
		case model.StatusAccepted:
			actions = append(actions, ActionAccept)
		case model.StatusReady:
			actions = append(actions, ActionMarkReady)
		case model.StatusCompleted:
			actions = append(actions, ActionFinalize)
		}
	}
	if s != model.StatusCompleted {
		actions = append(actions, ActionDelete)
		if st == StationPrep {
			actions = append(actions, ActionAnnotate)
		}
	}
	return actions
}

// Advance moves the order with the given id one status forward in orders,
// checking ownership. It returns the updated collection and whether
// anything changed. An id not present is a silent no-op; a terminal or
// unowned transition is an error.
func Advance(orders []model.Order, id string, st Station) ([]model.Order, bool, error) {
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		to, ok := next[orders[i].Status]
		if !ok {
			return orders, false, fmt.Errorf("%w: %s is terminal", ErrBadTransition, orders[i].Status)
		}
		if !CanTransition(st, orders[i].Status, to) {
			return orders, false, fmt.Errorf("%w: %s cannot move %s to %s", ErrNotOwner, st, orders[i].Status, to)
		}
		orders[i].Status = to
		return orders, true, nil
	}
	return orders, false, nil
}

// Archive performs READY -> COMPLETED and the archival move as one logical
// operation: the order leaves the active collection and the returned
// history record carries the completion timestamp and its display label.
// A missing id returns rec == nil with no change.
func Archive(orders []model.Order, id string, st Station, now time.Time) ([]model.Order, *model.HistoryRecord, error) {
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		if orders[i].Status != model.StatusReady {
			return orders, nil, fmt.Errorf("%w: %s", ErrNotReady, orders[i].Status)
		}
		if !CanTransition(st, model.StatusReady, model.StatusCompleted) {
			return orders, nil, fmt.Errorf("%w: %s cannot complete orders", ErrNotOwner, st)
		}
		done := orders[i]
		done.Status = model.StatusCompleted
		completed := now
		done.CompletedAt = &completed
		rec := &model.HistoryRecord{
			Order:          done,
			CompletedLabel: now.Format("15:04"),
		}
		return append(orders[:i], orders[i+1:]...), rec, nil
	}
	return orders, nil, nil
}

// Delete removes the order with the given id from any non-terminal state.
// This is an explicit operator action outside the state machine; the caller
// is responsible for having obtained confirmation. A missing id is a no-op.
func Delete(orders []model.Order, id string) ([]model.Order, bool) {
	for i := range orders {
		if orders[i].ID == id {
			return append(orders[:i], orders[i+1:]...), true
		}
	}
	return orders, false
}
