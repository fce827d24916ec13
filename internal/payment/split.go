// Package payment implements split-payment allocation and cash change
// reconciliation for one order total.
package payment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/totempos/kiosk/internal/model"
)

// BalanceTolerance is the maximum allowed absolute difference between the
// order total and the sum of declared tender amounts.
var BalanceTolerance = decimal.RequireFromString("0.05")

// Errors returned by the calculator.
var (
	ErrNoTenders        = errors.New("at least one tender is required")
	ErrInvalidMethod    = errors.New("invalid tender method")
	ErrNonPositive      = errors.New("tender amount must be positive")
	ErrUnbalanced       = errors.New("tender amounts do not cover the total")
	ErrInsufficientCash = errors.New("amount received is less than amount owed")
	ErrCashPending      = errors.New("cash tenders not yet reconciled")
	ErrNoCashPending    = errors.New("no cash tender awaiting reconciliation")
)

// Tender is one declared method/amount pairing before reconciliation.
type Tender struct {
	Method model.PaymentMethod
	Amount decimal.Decimal
}

// Calculator validates a set of declared tenders against a total. It is
// the gate in front of confirmation: Balanced must hold before a Plan can
// be produced.
type Calculator struct {
	total   decimal.Decimal
	tenders []Tender
}

// New creates a calculator for the given order total.
func New(total decimal.Decimal) *Calculator {
	return &Calculator{total: total}
}

// SetTenders replaces the declared tenders (the operator re-enters amounts
// until the split balances).
func (c *Calculator) SetTenders(tenders []Tender) {
	c.tenders = tenders
}

// SetSingle declares one tender for the full amount.
func (c *Calculator) SetSingle(method model.PaymentMethod) {
	c.tenders = []Tender{{Method: method, Amount: c.total}}
}

// Remaining returns total minus the sum of declared amounts. Positive means
// the customer still owes; negative means the declared amounts overshoot.
func (c *Calculator) Remaining() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range c.tenders {
		sum = sum.Add(t.Amount)
	}
	return c.total.Sub(sum)
}

// Balanced reports whether confirmation may be enabled:
// |total - sum(amounts)| <= BalanceTolerance.
func (c *Calculator) Balanced() bool {
	return c.Remaining().Abs().LessThanOrEqual(BalanceTolerance)
}

// Confirm validates the declared tenders and produces a reconciliation
// plan. Cash tenders must then be reconciled in list order before the
// records can be attached to an order.
func (c *Calculator) Confirm() (*Plan, error) {
	if len(c.tenders) == 0 {
		return nil, ErrNoTenders
	}
	for i, t := range c.tenders {
		if !t.Method.Valid() {
			return nil, fmt.Errorf("tender[%d]: %w: %q", i, ErrInvalidMethod, t.Method)
		}
		if t.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("tender[%d]: %w", i, ErrNonPositive)
		}
	}
	if !c.Balanced() {
		return nil, fmt.Errorf("%w: remaining %s", ErrUnbalanced, c.Remaining().StringFixed(2))
	}

	records := make([]model.PaymentRecord, len(c.tenders))
	for i, t := range c.tenders {
		rec := model.PaymentRecord{Method: t.Method, Amount: t.Amount}
		// Exact cash needs no prompt: received equals owed, change zero.
		if t.Method == model.MethodCashExact {
			rec.Received = t.Amount
		}
		records[i] = rec
	}
	return &Plan{records: records}, nil
}

// Plan is a confirmed split awaiting cash reconciliation. The cash sub-flow
// visits CASH tenders strictly in their list order, one at a time.
type Plan struct {
	records []model.PaymentRecord
}

// NextCash returns the list index of the next CASH tender still awaiting an
// amount received, in declaration order. ok is false when none remain.
func (p *Plan) NextCash() (index int, ok bool) {
	for i, rec := range p.records {
		if rec.Method == model.MethodCash && rec.Received.IsZero() {
			return i, true
		}
	}
	return 0, false
}

// ConfirmCash records the amount physically received for the next pending
// cash tender. received < owed is a validation error: nothing is mutated
// and the same tender is prompted again. On success
// change = received - owed (zero when they match).
func (p *Plan) ConfirmCash(received decimal.Decimal) error {
	i, ok := p.NextCash()
	if !ok {
		return ErrNoCashPending
	}
	owed := p.records[i].Amount
	if received.LessThan(owed) {
		return fmt.Errorf("%w: received %s, owed %s",
			ErrInsufficientCash, received.StringFixed(2), owed.StringFixed(2))
	}
	p.records[i].Received = received
	p.records[i].Change = received.Sub(owed)
	return nil
}

// Settled reports whether every cash tender has been reconciled.
func (p *Plan) Settled() bool {
	_, pending := p.NextCash()
	return !pending
}

// Records returns the final payment records for the order. It fails while
// any cash tender is unreconciled so an order can never be submitted with
// a half-finished cash sub-flow.
func (p *Plan) Records() ([]model.PaymentRecord, error) {
	if !p.Settled() {
		return nil, ErrCashPending
	}
	out := make([]model.PaymentRecord, len(p.records))
	copy(out, p.records)
	return out, nil
}
