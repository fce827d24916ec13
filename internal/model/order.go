package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. An order only ever moves forward:
// PENDING -> ACCEPTED -> READY -> COMPLETED.
const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusReady     Status = "READY"
	StatusCompleted Status = "COMPLETED"
)

// Status is an order's position in the preparation lifecycle.
type Status string

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusReady, StatusCompleted:
		return true
	}
	return false
}

// Payment tender methods.
const (
	MethodCardCredit PaymentMethod = "CARD_CREDIT"
	MethodCardDebit  PaymentMethod = "CARD_DEBIT"
	MethodWallet     PaymentMethod = "WALLET"
	MethodCash       PaymentMethod = "CASH"
	MethodCashExact  PaymentMethod = "CASH_EXACT"
)

// PaymentMethod identifies how a single tender was paid.
type PaymentMethod string

// Valid reports whether pm is a known tender method.
func (pm PaymentMethod) Valid() bool {
	switch pm {
	case MethodCardCredit, MethodCardDebit, MethodWallet, MethodCash, MethodCashExact:
		return true
	}
	return false
}

// Cash reports whether pm is physical cash. CASH_EXACT skips the
// received-amount prompt but is still cash at the drawer.
func (pm PaymentMethod) Cash() bool {
	return pm == MethodCash || pm == MethodCashExact
}

// Order is one customer order as persisted in the shared store.
// Field names follow the shared record schema so all stations and the
// rendering layer read the same JSON.
type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	CreatedAt    string          `json:"createdAt"` // station-local formatted time
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Payments     []PaymentRecord `json:"payments"`
	Status       Status          `json:"status"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
	Custom       *Annotations    `json:"custom,omitempty"`
}

// Annotations carries order-level operator notes attached after submission
// (e.g. a prep-station observation). Never set by the customer.
type Annotations struct {
	Note string `json:"note,omitempty"`
}

// ComputedTotal sums unitPrice*quantity over all items. Extras are folded
// into the unit price when a line is committed to the cart, so for a
// well-formed order ComputedTotal equals Total.
func (o Order) ComputedTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// PaymentsTotal sums the amounts of all payment records.
func (o Order) PaymentsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range o.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// OrderItem is one priced cart line. Quantity is mutable while the line is
// still in a cart and frozen once the order is submitted.
type OrderItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Custom    Customization   `json:"custom"`
}

// LineTotal is UnitPrice * Quantity.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// PaymentRecord is one tender contributing toward an order's total.
// Received and Change are only meaningful for cash methods; for every other
// method Change is zero.
type PaymentRecord struct {
	Method   PaymentMethod   `json:"method"`
	Amount   decimal.Decimal `json:"amount"`
	Received decimal.Decimal `json:"received"`
	Change   decimal.Decimal `json:"change"`
}

// HistoryRecord is an archived order plus the human-readable completion time
// shown on history cards. History is append-only; records only leave it via
// explicit deletion.
type HistoryRecord struct {
	Order
	CompletedLabel string `json:"completedLabel"`
}
