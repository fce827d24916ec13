// Package combo implements the sequential customization builder for
// multi-item combos: one guided pass over every sub-item, an optional
// combo-level extras step, then a single atomic cart line.
package combo

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/totempos/kiosk/internal/menu"
	"github.com/totempos/kiosk/internal/model"
)

// Errors returned by the builder.
var (
	ErrNotCombo        = errors.New("item is not a combo")
	ErrNoSubItems      = errors.New("combo declares no sub-items")
	ErrSessionClosed   = errors.New("session already committed or canceled")
	ErrStepsRemaining  = errors.New("sub-items not fully captured")
	ErrAlreadyCaptured = errors.New("all sub-items already captured")
	ErrUnknownRemoval  = errors.New("removed ingredient not declared by sub-item")
)

// Step describes the sub-item currently being configured. Every removable
// ingredient starts as kept: the customer deselects what they want removed.
// Extras start unselected.
type Step struct {
	SubItem     string
	Index       int      // zero-based
	Of          int      // total sub-items
	Vegetables  []string // removable, display group 1
	Ingredients []string // removable, display group 2
	Extras      []model.Extra
}

// Session is the ephemeral single-owner wizard state for one combo. It
// lives only in the capture process and is destroyed on commit or cancel;
// it is never persisted to the shared store.
type Session struct {
	itemName  string
	spec      menu.ComboSpec
	basePrice decimal.Decimal
	index     int
	captured  []model.SubItemCustomization
	closed    bool
}

// NewSession starts a builder for item priced at basePrice. A combo with
// zero sub-items is invalid and is rejected before any session exists.
func NewSession(item menu.Item, basePrice decimal.Decimal) (*Session, error) {
	if item.Combo == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotCombo, item.Name)
	}
	if len(item.Combo.SubItems) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSubItems, item.Name)
	}
	return &Session{
		itemName:  item.Name,
		spec:      *item.Combo,
		basePrice: basePrice,
		captured:  make([]model.SubItemCustomization, 0, len(item.Combo.SubItems)),
	}, nil
}

// Step returns the render data for the sub-item at the current index.
func (s *Session) Step() (Step, error) {
	if s.closed {
		return Step{}, ErrSessionClosed
	}
	if s.index >= len(s.spec.SubItems) {
		return Step{}, ErrAlreadyCaptured
	}
	sub := s.spec.SubItems[s.index]
	return Step{
		SubItem:     sub.Name,
		Index:       s.index,
		Of:          len(s.spec.SubItems),
		Vegetables:  sub.Vegetables,
		Ingredients: sub.Ingredients,
		Extras:      sub.Extras,
	}, nil
}

// Advance captures {sub-item, removed, extras} at the current index and
// moves to the next sub-item. Removals and extras are validated against the
// sub-item's declarations; nothing is captured on a validation error.
func (s *Session) Advance(removed []string, extras []model.Extra) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.index >= len(s.spec.SubItems) {
		return ErrAlreadyCaptured
	}
	sub := s.spec.SubItems[s.index]
	for _, r := range removed {
		if !contains(sub.Vegetables, r) && !contains(sub.Ingredients, r) {
			return fmt.Errorf("%w: %s", ErrUnknownRemoval, r)
		}
	}
	if err := menu.ValidateExtras(extras, sub.Extras); err != nil {
		return err
	}
	s.captured = append(s.captured, model.SubItemCustomization{
		SubItem: sub.Name,
		Removed: removed,
		Extras:  extras,
	})
	s.index++
	return nil
}

// Captured reports whether every sub-item has been captured.
func (s *Session) Captured() bool {
	return s.index >= len(s.spec.SubItems)
}

// NeedsComboExtras reports whether a final combo-level extras step must be
// rendered before commit. When false after capture, commit follows directly.
func (s *Session) NeedsComboExtras() bool {
	return s.Captured() && len(s.spec.ComboExtras) > 0
}

// ComboExtras returns the declared combo-level extras for the final step.
func (s *Session) ComboExtras() []model.Extra {
	return s.spec.ComboExtras
}

// Commit builds the single cart line for the whole combo:
// finalPrice = basePrice + every captured extra across sub-items plus the
// combo-level selection. The session is closed afterwards; committing is
// all-or-nothing with respect to the cart.
func (s *Session) Commit(comboExtras []model.Extra) (model.OrderItem, error) {
	if s.closed {
		return model.OrderItem{}, ErrSessionClosed
	}
	if !s.Captured() {
		return model.OrderItem{}, fmt.Errorf("%w: %d of %d", ErrStepsRemaining, s.index, len(s.spec.SubItems))
	}
	if err := menu.ValidateExtras(comboExtras, s.spec.ComboExtras); err != nil {
		return model.OrderItem{}, err
	}
	custom := model.ComboCustomization{
		SubItems:    s.captured,
		ComboExtras: comboExtras,
	}
	s.closed = true
	return model.OrderItem{
		Name:      s.itemName,
		UnitPrice: s.basePrice.Add(custom.ExtrasTotal()),
		Quantity:  1,
		Custom:    model.Customization{Type: model.CustomCombo, Combo: &custom},
	}, nil
}

// Cancel discards the session at any step. The cart is never touched.
func (s *Session) Cancel() {
	s.closed = true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
