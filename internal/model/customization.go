package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Customization variant tags.
const (
	CustomNone   CustomizationType = "NONE"
	CustomSimple CustomizationType = "SIMPLE"
	CustomCombo  CustomizationType = "COMBO"
)

// CustomizationType discriminates the Customization variant.
type CustomizationType string

// Errors returned when a Customization value is malformed.
var (
	ErrUnknownCustomization = errors.New("unknown customization type")
	ErrMissingVariantBody   = errors.New("customization variant body missing")
)

// Customization is a tagged variant: exactly one of Simple or Combo is set,
// matching the Type tag, or neither for NONE. The explicit tag replaces the
// ad-hoc optional fields the loosely-typed payload format allowed.
type Customization struct {
	Type   CustomizationType
	Simple *SimpleCustomization
	Combo  *ComboCustomization
}

// None is the zero customization.
func None() Customization {
	return Customization{Type: CustomNone}
}

// Extra is an optional, separately priced addition. The price is captured at
// selection time and frozen into the cart entry, immune to later menu edits.
type Extra struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// SimpleCustomization applies to a single non-combo item.
type SimpleCustomization struct {
	Removed []string `json:"removed,omitempty"`
	Extras  []Extra  `json:"extras,omitempty"`
	Flavor  string   `json:"flavor,omitempty"`
}

// SubItemCustomization is the captured customization of one combo sub-item.
type SubItemCustomization struct {
	SubItem string   `json:"subItem"`
	Removed []string `json:"removed,omitempty"`
	Extras  []Extra  `json:"extras,omitempty"`
}

// ComboCustomization is the ordered per-sub-item capture of a combo line
// plus any combo-level extras.
type ComboCustomization struct {
	SubItems    []SubItemCustomization `json:"subItems"`
	ComboExtras []Extra                `json:"comboExtras,omitempty"`
}

// ExtrasTotal sums every captured extra across sub-items and combo level.
func (c ComboCustomization) ExtrasTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, sub := range c.SubItems {
		for _, e := range sub.Extras {
			sum = sum.Add(e.Price)
		}
	}
	for _, e := range c.ComboExtras {
		sum = sum.Add(e.Price)
	}
	return sum
}

// customizationWire is the persisted shape: a type tag plus at most one body.
type customizationWire struct {
	Type   CustomizationType    `json:"type"`
	Simple *SimpleCustomization `json:"simple,omitempty"`
	Combo  *ComboCustomization  `json:"combo,omitempty"`
}

// MarshalJSON enforces that the populated body matches the variant tag.
func (c Customization) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case "", CustomNone:
		return json.Marshal(customizationWire{Type: CustomNone})
	case CustomSimple:
		if c.Simple == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariantBody, c.Type)
		}
		return json.Marshal(customizationWire{Type: CustomSimple, Simple: c.Simple})
	case CustomCombo:
		if c.Combo == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariantBody, c.Type)
		}
		return json.Marshal(customizationWire{Type: CustomCombo, Combo: c.Combo})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCustomization, c.Type)
}

// UnmarshalJSON accepts the wire shape and normalizes an absent or null
// value to NONE, so records written before a field existed still parse.
func (c *Customization) UnmarshalJSON(data []byte) error {
	var w customizationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case "", CustomNone:
		*c = Customization{Type: CustomNone}
	case CustomSimple:
		if w.Simple == nil {
			return fmt.Errorf("%w: %s", ErrMissingVariantBody, w.Type)
		}
		*c = Customization{Type: CustomSimple, Simple: w.Simple}
	case CustomCombo:
		if w.Combo == nil {
			return fmt.Errorf("%w: %s", ErrMissingVariantBody, w.Type)
		}
		*c = Customization{Type: CustomCombo, Combo: w.Combo}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCustomization, w.Type)
	}
	return nil
}
