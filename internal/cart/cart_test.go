package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/totempos/kiosk/internal/cart"
	"github.com/totempos/kiosk/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func plain(name, price string) model.OrderItem {
	return model.OrderItem{Name: name, UnitPrice: dec(price), Quantity: 1, Custom: model.None()}
}

func TestAddMergesIdenticalPlainLines(t *testing.T) {
	c := cart.New()
	c.Add(plain("Soda can 350ml", "6.00"))
	c.Add(plain("Soda can 350ml", "6.00"))

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("got %d lines, want 1", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", items[0].Quantity)
	}
	if !c.Total().Equal(dec("12.00")) {
		t.Fatalf("total = %s, want 12.00", c.Total())
	}
}

func TestAddKeepsDifferentPricesApart(t *testing.T) {
	c := cart.New()
	c.Add(plain("Milkshake 400ml", "15.00"))
	c.Add(plain("Milkshake 500ml", "18.00"))

	if c.Len() != 2 {
		t.Fatalf("got %d lines, want 2", c.Len())
	}
}

func TestAddNeverMergesCustomizedLines(t *testing.T) {
	custom := model.OrderItem{
		Name:      "Smash Double",
		UnitPrice: dec("24.00"),
		Quantity:  1,
		Custom: model.Customization{
			Type:   model.CustomSimple,
			Simple: &model.SimpleCustomization{Removed: []string{"Tomato"}},
		},
	}
	c := cart.New()
	c.Add(custom)
	c.Add(custom)

	if c.Len() != 2 {
		t.Fatalf("got %d lines, want 2: identical customizations still stay distinct", c.Len())
	}
}

func TestAdjustClampsAtOne(t *testing.T) {
	c := cart.New()
	c.Add(plain("Water 500ml", "4.00"))

	c.Adjust(0, -5)
	if got := c.Items()[0].Quantity; got != 1 {
		t.Fatalf("quantity = %d, want 1", got)
	}
	c.Adjust(0, 3)
	if got := c.Items()[0].Quantity; got != 4 {
		t.Fatalf("quantity = %d, want 4", got)
	}
	// Out of range is ignored.
	c.Adjust(7, 1)
}

func TestRemoveAndClear(t *testing.T) {
	c := cart.New()
	c.Add(plain("Water 500ml", "4.00"))
	c.Add(plain("Soda can 350ml", "6.00"))

	c.Remove(0)
	if c.Len() != 1 || c.Items()[0].Name != "Soda can 350ml" {
		t.Fatalf("after remove: %+v", c.Items())
	}
	c.Remove(9)
	if c.Len() != 1 {
		t.Fatal("out-of-range remove must be ignored")
	}

	c.Clear()
	if !c.Empty() {
		t.Fatal("cart not empty after clear")
	}
	if !c.Total().IsZero() {
		t.Fatalf("total = %s, want 0", c.Total())
	}
}
