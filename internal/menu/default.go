package menu

import (
	"github.com/shopspring/decimal"
	"github.com/totempos/kiosk/internal/model"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Default returns the embedded fallback catalog used when no menu file is
// available. Kept intentionally small: enough to exercise every flow
// (plain add, simple customization, flavor choice, sequential combo).
func Default() *Menu {
	bacon := model.Extra{Name: "Bacon", Price: price("4.00")}
	cheddar := model.Extra{Name: "Extra cheddar", Price: price("3.00")}
	egg := model.Extra{Name: "Fried egg", Price: price("2.50")}
	fries := model.Extra{Name: "Fries", Price: price("6.00")}
	sauce := model.Extra{Name: "House sauce", Price: price("0.00")}

	smashVeg := []string{"Lettuce", "Tomato"}
	smashIng := []string{"Sliced cheddar", "Caramelized onion", "House sauce"}

	return &Menu{
		Categories: []Category{
			{
				Name: "Specials",
				Items: []Item{
					{
						Name:        "Double Smash Duo",
						Description: "Two double smash burgers, one price",
						Options:     []Option{{Label: "Combo", Price: price("45.00")}},
						Combo: &ComboSpec{
							SubItems: []SubItem{
								{Name: "Smash Double 1", Vegetables: smashVeg, Ingredients: smashIng, Extras: []model.Extra{bacon, cheddar, egg}},
								{Name: "Smash Double 2", Vegetables: smashVeg, Ingredients: smashIng, Extras: []model.Extra{bacon, cheddar, egg}},
							},
							ComboExtras: []model.Extra{fries, sauce},
						},
					},
				},
			},
			{
				Name: "Burgers",
				Items: []Item{
					{
						Name:        "Smash Simple",
						Description: "Single smash patty",
						Options:     []Option{{Label: "Single", Price: price("18.00")}},
						Vegetables:  smashVeg,
						Ingredients: smashIng,
						Extras:      []model.Extra{bacon, cheddar, egg},
					},
					{
						Name:        "Smash Double",
						Description: "Double smash patty",
						Options:     []Option{{Label: "Double", Price: price("24.00")}},
						Vegetables:  smashVeg,
						Ingredients: smashIng,
						Extras:      []model.Extra{bacon, cheddar, egg},
					},
				},
			},
			{
				Name: "Milkshakes",
				Items: []Item{
					{
						Name:          "Milkshake",
						Options:       []Option{{Label: "400ml", Price: price("15.00")}, {Label: "500ml", Price: price("18.00")}},
						FlavorChoices: []string{"Chocolate", "Strawberry", "Caramel"},
					},
				},
			},
			{
				Name: "Drinks",
				Items: []Item{
					{
						Name:    "Soda can",
						Options: []Option{{Label: "350ml", Price: price("6.00")}},
					},
					{
						Name:    "Water",
						Options: []Option{{Label: "500ml", Price: price("4.00")}},
					},
				},
			},
		},
	}
}
