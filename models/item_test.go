package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDAcceptsNumbersAndStrings(t *testing.T) {
	var items []CatalogItem
	err := json.Unmarshal([]byte(`[{"id":7,"name":"Baklava","price":8.99},{"id":"7","name":"Baklava","price":"8.99"}]`), &items)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, ItemID("7"), items[0].ID)
	assert.Equal(t, items[0].ID, items[1].ID)
	assert.True(t, items[0].Price.Equal(items[1].Price))
}

func TestItemIDNormalizesNumbers(t *testing.T) {
	for _, raw := range []string{`1`, `1.0`, `1e0`, `1.00`, `10e-1`} {
		var id ItemID
		require.NoError(t, json.Unmarshal([]byte(raw), &id), raw)
		assert.Equal(t, ItemID("1"), id, raw)
	}

	var id ItemID
	require.NoError(t, json.Unmarshal([]byte(`1e2`), &id))
	assert.Equal(t, ItemID("100"), id)

	require.NoError(t, json.Unmarshal([]byte(`"1.0"`), &id))
	assert.Equal(t, ItemID("1.0"), id, "string ids are kept verbatim")
}

func TestItemIDRejectsOtherTypes(t *testing.T) {
	var item CatalogItem
	err := json.Unmarshal([]byte(`{"id":true,"name":"Tiramisu","price":9.99}`), &item)
	require.Error(t, err)
}

func TestLineTotal(t *testing.T) {
	li := LineItem{ID: "1", Name: "Lamb Tagine", Price: decimal.RequireFromString("26.99"), Quantity: 3}
	assert.Equal(t, "80.97", li.LineTotal().StringFixed(2))
}

func TestCatalogItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    CatalogItem
		wantErr bool
		field   string
	}{
		{
			name: "valid item",
			item: CatalogItem{ID: "1", Name: "Seafood Paella", Price: decimal.RequireFromString("28.99"), Image: "paella.jpg"},
		},
		{
			name: "free item",
			item: CatalogItem{ID: "2", Name: "Bread", Price: decimal.Zero},
		},
		{
			name:    "missing id",
			item:    CatalogItem{Name: "Seafood Paella", Price: decimal.RequireFromString("28.99")},
			wantErr: true,
			field:   "id",
		},
		{
			name:    "missing name",
			item:    CatalogItem{ID: "1", Name: "  ", Price: decimal.RequireFromString("28.99")},
			wantErr: true,
			field:   "name",
		},
		{
			name:    "negative price",
			item:    CatalogItem{ID: "1", Name: "Seafood Paella", Price: decimal.RequireFromString("-1")},
			wantErr: true,
			field:   "price",
		},
		{
			name:    "sub-cent price",
			item:    CatalogItem{ID: "1", Name: "Seafood Paella", Price: decimal.RequireFromString("28.999")},
			wantErr: true,
			field:   "price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseThemeAndToggle(t *testing.T) {
	theme, err := ParseTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
	assert.Equal(t, ThemeLight, theme.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())

	_, err = ParseTheme("solarized")
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

func TestChatReplyHasData(t *testing.T) {
	assert.False(t, ChatReply{}.HasData())
	assert.False(t, ChatReply{Data: json.RawMessage("null")}.HasData())
	assert.True(t, ChatReply{Data: json.RawMessage(`{"customer":"A"}`)}.HasData())
}
