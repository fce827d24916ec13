// Package menu holds the item catalog the capture station sells from.
// The catalog is loaded from a JSON file; when the file is missing or
// unreadable the embedded fallback catalog is used so the kiosk still boots.
package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"github.com/totempos/kiosk/internal/model"
)

// Errors returned by catalog lookups and validation.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrUnknownExtra     = errors.New("extra not declared by item")
)

// Menu is the full catalog, ordered the way categories are displayed.
type Menu struct {
	Categories []Category `json:"categories"`
}

// Category groups items under one display tab.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item is one sellable menu entry. Vegetables and Ingredients are both
// removable; the split only affects how the customization screen groups
// them. FlavorChoices marks items that skip ingredient customization and
// only prompt for a flavor (milkshake syrups). Combo marks multi-item
// bundles configured through the sequential builder.
type Item struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Options       []Option      `json:"options"`
	Vegetables    []string      `json:"vegetables,omitempty"`
	Ingredients   []string      `json:"ingredients,omitempty"`
	Extras        []model.Extra `json:"extras,omitempty"`
	FlavorChoices []string      `json:"flavorChoices,omitempty"`
	Combo         *ComboSpec    `json:"combo,omitempty"`
}

// Option is one size/variant of an item with its own price.
type Option struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// ComboSpec declares a combo's ordered sub-items and its combo-level extras.
type ComboSpec struct {
	SubItems    []SubItem     `json:"subItems"`
	ComboExtras []model.Extra `json:"comboExtras,omitempty"`
}

// SubItem is one independently customizable component of a combo.
type SubItem struct {
	Name        string        `json:"name"`
	Vegetables  []string      `json:"vegetables,omitempty"`
	Ingredients []string      `json:"ingredients,omitempty"`
	Extras      []model.Extra `json:"extras,omitempty"`
}

// Customizable reports whether the item needs a customization step before
// it can be added to the cart. Flavor-choice items have their own flow.
func (it Item) Customizable() bool {
	return it.Combo != nil ||
		len(it.Vegetables) > 0 ||
		len(it.Ingredients) > 0 ||
		len(it.Extras) > 0
}

// Removable returns all removable ingredient names: vegetables first, then
// the rest, matching the customization screen order.
func (it Item) Removable() []string {
	out := make([]string, 0, len(it.Vegetables)+len(it.Ingredients))
	out = append(out, it.Vegetables...)
	out = append(out, it.Ingredients...)
	return out
}

// OptionPrice returns the price of option i.
func (it Item) OptionPrice(i int) (decimal.Decimal, error) {
	if i < 0 || i >= len(it.Options) {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrOptionOutOfRange, i)
	}
	return it.Options[i].Price, nil
}

// Item looks an item up by category and item name.
func (m *Menu) Item(category, name string) (Item, error) {
	for _, c := range m.Categories {
		if c.Name != category {
			continue
		}
		for _, it := range c.Items {
			if it.Name == name {
				return it, nil
			}
		}
		return Item{}, fmt.Errorf("%w: %s/%s", ErrItemNotFound, category, name)
	}
	return Item{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
}

// ValidateExtras checks every selected extra against the declared list and
// that its price matches the declared price. Extras are priced at selection
// time, so a selection carrying a stale or invented price is rejected.
func ValidateExtras(selected, declared []model.Extra) error {
	for _, sel := range selected {
		found := false
		for _, d := range declared {
			if d.Name == sel.Name && d.Price.Equal(sel.Price) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownExtra, sel.Name)
		}
	}
	return nil
}

// Load reads a catalog from a JSON file.
func Load(path string) (*Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	var m Menu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	return &m, nil
}

// LoadOrDefault loads the catalog from path, falling back to the embedded
// catalog when the file is missing or malformed. The fallback is logged,
// not fatal: an empty kiosk screen is worse than a stale menu.
func LoadOrDefault(path string) *Menu {
	m, err := Load(path)
	if err != nil {
		log.Printf("menu: using embedded fallback catalog: %v", err)
		return Default()
	}
	return m
}
