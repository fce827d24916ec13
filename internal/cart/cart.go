// Package cart implements the client-local, pre-submission line item list.
// A cart is exclusively owned by one capture session and is never observed
// by other stations.
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/totempos/kiosk/internal/model"
)

// Cart is an ordered list of priced lines. Not safe for concurrent use;
// the capture station is single-threaded and event-driven.
type Cart struct {
	lines []model.OrderItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends a line. An uncustomized line that matches an existing
// uncustomized line by name and unit price merges into it by bumping the
// quantity; customized lines are always appended as new lines so their
// payloads stay distinct.
func (c *Cart) Add(item model.OrderItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.Custom.Type == "" {
		item.Custom = model.None()
	}
	if item.Custom.Type == model.CustomNone {
		for i := range c.lines {
			l := &c.lines[i]
			if l.Custom.Type == model.CustomNone && l.Name == item.Name && l.UnitPrice.Equal(item.UnitPrice) {
				l.Quantity += item.Quantity
				return
			}
		}
	}
	c.lines = append(c.lines, item)
}

// Remove deletes the line at index i. Out-of-range indexes are ignored.
func (c *Cart) Remove(i int) {
	if i < 0 || i >= len(c.lines) {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Adjust changes the quantity of line i by delta, clamping at 1. Dropping
// to zero is done with Remove, never by decrementing.
func (c *Cart) Adjust(i, delta int) {
	if i < 0 || i >= len(c.lines) {
		return
	}
	q := c.lines[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.lines[i].Quantity = q
}

// Items returns a copy of the lines in order.
func (c *Cart) Items() []model.OrderItem {
	out := make([]model.OrderItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total sums unitPrice*quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
}
