package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemID identifies a menu entry. Menu rows carry numeric ids while other
// callers send strings, so both JSON forms decode to the same value.
// Numbers are normalized, so 7 and 7.0 decode alike.
type ItemID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a string or number: %w", err)
	}
	// 1, 1.0 and 1e0 name the same dish.
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return fmt.Errorf("item id %s: %w", n, err)
	}
	*id = ItemID(d.String())
	return nil
}

// CatalogItem is the menu entry descriptor handed to the cart
type CatalogItem struct {
	ID    ItemID          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// LineItem is one catalog item plus its selected quantity
type LineItem struct {
	ID       ItemID          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image,omitempty"`
}

// NewLineItem starts a line for item with a quantity of one.
func NewLineItem(item CatalogItem) LineItem {
	return LineItem{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
		Image:    item.Image,
	}
}

// LineTotal is price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
