// Package pricing derives cart totals from line items.
package pricing

import (
	"github.com/shopspring/decimal"

	"go-restaurant/models"
)

var (
	// Orders strictly above this subtotal get the discount on the whole amount.
	discountThreshold = decimal.NewFromInt(500)
	discountRate      = decimal.RequireFromString("0.10")
)

// Calculate returns subtotal, discount and total for items. The discount is a
// cliff: 10% of the entire subtotal once it exceeds 500, otherwise exactly 0.
func Calculate(items []models.LineItem) models.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	discount := decimal.Zero
	if subtotal.GreaterThan(discountThreshold) {
		discount = subtotal.Mul(discountRate).Round(2)
	}

	return models.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}

// ItemCount is the number of units in the cart, as shown on the badge.
func ItemCount(items []models.LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Format renders an amount the way the storefront shows it, e.g. "$12.50".
func Format(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
