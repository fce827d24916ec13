package station

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/totempos/kiosk/internal/cart"
	"github.com/totempos/kiosk/internal/combo"
	"github.com/totempos/kiosk/internal/menu"
	"github.com/totempos/kiosk/internal/model"
	"github.com/totempos/kiosk/internal/payment"
	"github.com/totempos/kiosk/internal/store"
)

// Errors returned by the capture station.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrEmptyName      = errors.New("customer name is required")
	ErrUnknownFlavor  = errors.New("flavor not offered by item")
	ErrComboInFlight  = errors.New("a combo is already being configured")
	ErrNoComboSession = errors.New("no combo session in progress")
)

// Capture is the order-taking station: a menu, a cart, at most one combo
// wizard at a time, and the submission path into the shared store.
type Capture struct {
	store Store
	menu  *menu.Menu
	cart  *cart.Cart

	session *combo.Session

	orders []model.Order

	// Now and NewID are swappable for tests.
	Now   func() time.Time
	NewID func() string
}

// NewCapture creates a capture station over a store and a catalog.
func NewCapture(s Store, m *menu.Menu) *Capture {
	return &Capture{
		store: s,
		menu:  m,
		cart:  cart.New(),
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Menu returns the catalog the station sells from.
func (c *Capture) Menu() *menu.Menu { return c.menu }

// Cart returns the station's cart.
func (c *Capture) Cart() *cart.Cart { return c.cart }

// Orders returns the station's local view of the active collection,
// newest first.
func (c *Capture) Orders() []model.Order { return mostRecentFirst(c.orders) }

// Refresh re-reads the active collection after a change notification.
func (c *Capture) Refresh(ctx context.Context) error {
	orders, err := c.store.ReadOrders(ctx, store.KeyActiveOrders)
	if err != nil {
		return err
	}
	c.orders = orders
	return nil
}

// AddPlain adds one uncustomized unit of the item's option to the cart.
func (c *Capture) AddPlain(category, name string, option int) error {
	item, price, err := c.lookup(category, name, option)
	if err != nil {
		return err
	}
	c.cart.Add(model.OrderItem{
		Name:      displayName(item, option),
		UnitPrice: price,
		Quantity:  1,
		Custom:    model.None(),
	})
	return nil
}

// AddWithFlavor adds a flavor-choice item (milkshakes). The flavor must be
// one the item declares; it is carried as a simple customization so prep
// sees which syrup to use.
func (c *Capture) AddWithFlavor(category, name string, option int, flavor string) error {
	item, price, err := c.lookup(category, name, option)
	if err != nil {
		return err
	}
	found := false
	for _, f := range item.FlavorChoices {
		if f == flavor {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownFlavor, flavor)
	}
	c.cart.Add(model.OrderItem{
		Name:      displayName(item, option) + " - " + flavor,
		UnitPrice: price,
		Quantity:  1,
		Custom: model.Customization{
			Type:   model.CustomSimple,
			Simple: &model.SimpleCustomization{Flavor: flavor},
		},
	})
	return nil
}

// AddCustomized adds a single item with removals and extras. Removals must
// be declared removable; extras are validated name and price against the
// item's declarations and folded into the unit price at today's values.
func (c *Capture) AddCustomized(category, name string, option int, removed []string, extras []model.Extra) error {
	item, price, err := c.lookup(category, name, option)
	if err != nil {
		return err
	}
	removable := item.Removable()
	for _, r := range removed {
		ok := false
		for _, d := range removable {
			if d == r {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s", combo.ErrUnknownRemoval, r)
		}
	}
	if err := menu.ValidateExtras(extras, item.Extras); err != nil {
		return err
	}
	unit := price
	for _, e := range extras {
		unit = unit.Add(e.Price)
	}
	line := model.OrderItem{
		Name:      displayName(item, option),
		UnitPrice: unit,
		Quantity:  1,
		Custom:    model.None(),
	}
	if len(removed) > 0 || len(extras) > 0 {
		line.Custom = model.Customization{
			Type:   model.CustomSimple,
			Simple: &model.SimpleCustomization{Removed: removed, Extras: extras},
		}
	}
	c.cart.Add(line)
	return nil
}

// StartCombo opens the sequential builder for a combo item. Only one
// session can be in flight per capture station.
func (c *Capture) StartCombo(category, name string, option int) (*combo.Session, error) {
	if c.session != nil {
		return nil, ErrComboInFlight
	}
	item, price, err := c.lookup(category, name, option)
	if err != nil {
		return nil, err
	}
	s, err := combo.NewSession(item, price)
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

// ComboSession returns the in-flight builder session, if any.
func (c *Capture) ComboSession() *combo.Session { return c.session }

// CommitCombo commits the in-flight combo as one cart line and clears the
// session. On a commit error (steps remaining, bad extras) the session
// stays open and the cart is untouched.
func (c *Capture) CommitCombo(comboExtras []model.Extra) error {
	if c.session == nil {
		return ErrNoComboSession
	}
	line, err := c.session.Commit(comboExtras)
	if err != nil {
		return err
	}
	c.cart.Add(line)
	c.session = nil
	return nil
}

// CancelCombo discards the in-flight session without touching the cart.
func (c *Capture) CancelCombo() {
	if c.session != nil {
		c.session.Cancel()
		c.session = nil
	}
}

// ClearCart empties the cart behind an operator confirmation.
func (c *Capture) ClearCart(confirm Confirm) bool {
	if c.cart.Empty() {
		return false
	}
	if !confirm("Clear the cart?") {
		return false
	}
	c.cart.Clear()
	return true
}

// Payment starts a split calculator for the current cart total.
func (c *Capture) Payment() *payment.Calculator {
	return payment.New(c.cart.Total())
}

// SubmitOrder builds the order from the cart and the reconciled payment
// records and appends it to the active collection. The id is assigned here,
// at submission, never earlier; the order is born PENDING. On a store write
// failure the cart is preserved so the operator can retry.
func (c *Capture) SubmitOrder(ctx context.Context, customerName string, records []model.PaymentRecord) (model.Order, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return model.Order{}, ErrEmptyName
	}
	if c.cart.Empty() {
		return model.Order{}, ErrEmptyCart
	}

	total := c.cart.Total()
	paid := decimal.Zero
	for _, r := range records {
		paid = paid.Add(r.Amount)
	}
	if total.Sub(paid).Abs().GreaterThan(payment.BalanceTolerance) {
		return model.Order{}, fmt.Errorf("%w: paid %s of %s",
			payment.ErrUnbalanced, paid.StringFixed(2), total.StringFixed(2))
	}

	order := model.Order{
		ID:           c.NewID(),
		CustomerName: customerName,
		CreatedAt:    c.Now().Format("15:04"),
		Items:        c.cart.Items(),
		Total:        total,
		Payments:     records,
		Status:       model.StatusPending,
	}

	orders := readActive(ctx, c.store, c.orders)
	orders = append(orders, order)
	if err := c.store.ReplaceOrders(ctx, store.KeyActiveOrders, orders); err != nil {
		log.Printf("ERROR: submit order %s: %v", order.ID, err)
		return model.Order{}, err
	}
	c.orders = orders
	c.cart.Clear()
	return order, nil
}

func (c *Capture) lookup(category, name string, option int) (menu.Item, decimal.Decimal, error) {
	item, err := c.menu.Item(category, name)
	if err != nil {
		return menu.Item{}, decimal.Zero, err
	}
	price, err := item.OptionPrice(option)
	if err != nil {
		return menu.Item{}, decimal.Zero, err
	}
	return item, price, nil
}

// displayName joins the item name with its option label when the option
// actually distinguishes a variant (sizes), so cart lines for different
// sizes never merge.
func displayName(item menu.Item, option int) string {
	label := item.Options[option].Label
	if label == "" || label == item.Name {
		return item.Name
	}
	return item.Name + " " + label
}
