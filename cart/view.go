package cart

import (
	"github.com/shopspring/decimal"

	"go-restaurant/models"
	"go-restaurant/pricing"
)

// Row is one rendered cart line.
type Row struct {
	ID            models.ItemID   `json:"id"`
	Name          string          `json:"name"`
	Image         string          `json:"image,omitempty"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	PriceText     string          `json:"priceText"`
	LineTotalText string          `json:"lineTotalText"`
}

// ViewModel is everything a storefront needs to draw the cart badge and panel.
type ViewModel struct {
	BadgeCount      int             `json:"badgeCount"`
	BadgeVisible    bool            `json:"badgeVisible"`
	Rows            []Row           `json:"rows"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	SubtotalText    string          `json:"subtotalText"`
	DiscountText    string          `json:"discountText"`
	TotalText       string          `json:"totalText"`
	DiscountVisible bool            `json:"discountVisible"`
	Empty           bool            `json:"empty"`
	CheckoutEnabled bool            `json:"checkoutEnabled"`
}

// NewViewModel derives the view from items.
func NewViewModel(items []models.LineItem) ViewModel {
	totals := pricing.Calculate(items)
	count := pricing.ItemCount(items)

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		lineTotal := item.LineTotal()
		rows = append(rows, Row{
			ID:            item.ID,
			Name:          item.Name,
			Image:         item.Image,
			Quantity:      item.Quantity,
			Price:         item.Price,
			LineTotal:     lineTotal,
			PriceText:     pricing.Format(item.Price),
			LineTotalText: pricing.Format(lineTotal),
		})
	}

	return ViewModel{
		BadgeCount:      count,
		BadgeVisible:    count > 0,
		Rows:            rows,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		Total:           totals.Total,
		SubtotalText:    pricing.Format(totals.Subtotal),
		DiscountText:    "-" + pricing.Format(totals.Discount),
		TotalText:       pricing.Format(totals.Total),
		DiscountVisible: totals.Discount.IsPositive(),
		Empty:           len(items) == 0,
		CheckoutEnabled: len(items) > 0,
	}
}

// View renders the store's current state.
func (s *Store) View() ViewModel {
	return NewViewModel(s.Items())
}
