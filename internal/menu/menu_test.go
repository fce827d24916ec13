package menu_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/totempos/kiosk/internal/menu"
	"github.com/totempos/kiosk/internal/model"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	data := `{
  "categories": [
    {
      "name": "Burgers",
      "items": [
        {
          "name": "Classic",
          "options": [{"label": "Single", "price": "22.00"}],
          "vegetables": ["Lettuce"],
          "extras": [{"name": "Bacon", "price": "4.00"}]
        }
      ]
    }
  ]
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := menu.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	item, err := m.Item("Burgers", "Classic")
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	price, err := item.OptionPrice(0)
	if err != nil {
		t.Fatalf("OptionPrice: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("22.00")) {
		t.Fatalf("price = %s, want 22.00", price)
	}
	if !item.Customizable() {
		t.Fatal("item with vegetables and extras must be customizable")
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	m := menu.LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if len(m.Categories) == 0 {
		t.Fatal("fallback catalog is empty")
	}
	if _, err := m.Item("Specials", "Double Smash Duo"); err != nil {
		t.Fatalf("fallback catalog missing combo: %v", err)
	}
}

func TestItemLookupErrors(t *testing.T) {
	m := menu.Default()
	if _, err := m.Item("Sushi", "Roll"); !errors.Is(err, menu.ErrCategoryNotFound) {
		t.Fatalf("unknown category = %v, want ErrCategoryNotFound", err)
	}
	if _, err := m.Item("Drinks", "Wine"); !errors.Is(err, menu.ErrItemNotFound) {
		t.Fatalf("unknown item = %v, want ErrItemNotFound", err)
	}

	item, err := m.Item("Drinks", "Water")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := item.OptionPrice(3); !errors.Is(err, menu.ErrOptionOutOfRange) {
		t.Fatalf("bad option = %v, want ErrOptionOutOfRange", err)
	}
}

func TestRemovableOrdersVegetablesFirst(t *testing.T) {
	item := menu.Item{
		Vegetables:  []string{"Lettuce", "Tomato"},
		Ingredients: []string{"Cheddar"},
	}
	got := item.Removable()
	want := []string{"Lettuce", "Tomato", "Cheddar"}
	if len(got) != len(want) {
		t.Fatalf("Removable = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Removable = %v, want %v", got, want)
		}
	}
}

func TestValidateExtras(t *testing.T) {
	declared := []model.Extra{
		{Name: "Bacon", Price: decimal.RequireFromString("4.00")},
		{Name: "Fried egg", Price: decimal.RequireFromString("2.50")},
	}

	ok := []model.Extra{{Name: "Bacon", Price: decimal.RequireFromString("4.00")}}
	if err := menu.ValidateExtras(ok, declared); err != nil {
		t.Fatalf("declared extra rejected: %v", err)
	}

	unknown := []model.Extra{{Name: "Truffle", Price: decimal.RequireFromString("9.00")}}
	if err := menu.ValidateExtras(unknown, declared); !errors.Is(err, menu.ErrUnknownExtra) {
		t.Fatalf("unknown extra = %v, want ErrUnknownExtra", err)
	}

	// Right name, wrong price: the frozen selection price no longer matches.
	stale := []model.Extra{{Name: "Bacon", Price: decimal.RequireFromString("3.00")}}
	if err := menu.ValidateExtras(stale, declared); !errors.Is(err, menu.ErrUnknownExtra) {
		t.Fatalf("stale price = %v, want ErrUnknownExtra", err)
	}
}
