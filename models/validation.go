package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports the offending request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a catalog item at the HTTP boundary. The cart store itself
// accepts any descriptor.
func (item CatalogItem) Validate() error {
	if strings.TrimSpace(string(item.ID)) == "" {
		return ValidationError{Field: "id", Message: "item id is required"}
	}
	if strings.TrimSpace(item.Name) == "" {
		return ValidationError{Field: "name", Message: "item name is required"}
	}
	if len(item.Name) > 100 {
		return ValidationError{Field: "name", Message: "item name must be less than 100 characters"}
	}
	if item.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "item price must not be negative"}
	}
	if !item.Price.Equal(item.Price.Round(2)) {
		return ValidationError{Field: "price", Message: "item price must have at most two decimal places"}
	}
	if item.Price.GreaterThan(decimal.NewFromInt(100000)) {
		return ValidationError{Field: "price", Message: "item price is out of range"}
	}
	return nil
}
