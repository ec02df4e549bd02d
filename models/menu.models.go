package models

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MenuItem is a dish offered by the restaurant
type MenuItem struct {
	CatalogItem
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Available   bool   `json:"available"`
}

// Menu is the restaurant's catalog, ordered by category then name
type Menu []MenuItem

// NewMenu sorts items by category and name.
func NewMenu(items []MenuItem) Menu {
	m := make(Menu, len(items))
	copy(m, items)
	sort.SliceStable(m, func(i, j int) bool {
		if m[i].Category != m[j].Category {
			return m[i].Category < m[j].Category
		}
		return m[i].Name < m[j].Name
	})
	return m
}

// Available lists the dishes that can be ordered, optionally limited to one
// category.
func (m Menu) Available(category string) []MenuItem {
	out := make([]MenuItem, 0, len(m))
	for _, item := range m {
		if !item.Available {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Find returns the dish with id.
func (m Menu) Find(id ItemID) (MenuItem, bool) {
	for _, item := range m {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// Resolve fills item from the menu when its id names a dish, so the menu's
// name and price win over whatever the client sent. A non-zero client price
// that disagrees with the menu is rejected. Ids not on the menu are custom
// dishes and pass through unchanged.
func (m Menu) Resolve(item CatalogItem) (CatalogItem, error) {
	dish, found := m.Find(item.ID)
	if !found {
		return item, nil
	}
	if !dish.Available {
		return CatalogItem{}, ValidationError{Field: "id", Message: "item is not available"}
	}
	if !item.Price.IsZero() && !item.Price.Equal(dish.Price) {
		return CatalogItem{}, ValidationError{
			Field:   "price",
			Message: fmt.Sprintf("price does not match menu (%s)", dish.Price.StringFixed(2)),
		}
	}
	return dish.CatalogItem, nil
}

func dish(id, name, category, description, price, image string) MenuItem {
	return MenuItem{
		CatalogItem: CatalogItem{
			ID:    ItemID(id),
			Name:  name,
			Price: decimal.RequireFromString(price),
			Image: image,
		},
		Category:    category,
		Description: description,
		Available:   true,
	}
}

// DefaultMenu is the house menu served when no other catalog is configured.
func DefaultMenu() Menu {
	return NewMenu([]MenuItem{
		dish("1", "Mediterranean Mezze Platter", "Appetizers", "Hummus, baba ganoush, tzatziki, olives, and pita bread", "12.99", "mezze.jpg"),
		dish("2", "Crispy Calamari", "Appetizers", "Lightly fried squid rings with aioli dipping sauce", "14.99", "mezze.jpg"),
		dish("3", "Bruschetta Trio", "Appetizers", "Classic tomato, mushroom pâté, and olive tapenade", "10.99", "mezze.jpg"),
		dish("4", "Seafood Paella", "Main Course", "Traditional Spanish rice dish with prawns, mussels, and saffron", "28.99", "paella.jpg"),
		dish("5", "Lamb Tagine", "Main Course", "Slow-cooked Moroccan lamb with apricots and almonds", "26.99", "tagine.jpg"),
		dish("6", "Grilled Sea Bass", "Main Course", "Fresh Mediterranean sea bass with lemon herb butter", "32.99", "seabass.jpg"),
		dish("7", "Mushroom Risotto", "Main Course", "Creamy arborio rice with wild mushrooms and parmesan", "22.99", "risotto.jpg"),
		dish("8", "Baklava", "Desserts", "Layered phyllo pastry with honey and pistachios", "8.99", "baklava.jpg"),
		dish("9", "Tiramisu", "Desserts", "Classic Italian coffee-flavored dessert", "9.99", "baklava.jpg"),
		dish("10", "Chocolate Lava Cake", "Desserts", "Warm chocolate cake with molten center and vanilla ice cream", "10.99", "baklava.jpg"),
		dish("11", "Fresh Lemonade", "Drinks", "Homemade mint lemonade", "4.99", "mezze.jpg"),
		dish("12", "Turkish Coffee", "Drinks", "Traditional strong coffee", "5.99", "mezze.jpg"),
		dish("13", "House Sangria", "Drinks", "Red wine with fresh fruits", "8.99", "mezze.jpg"),
	})
}
