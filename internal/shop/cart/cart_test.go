// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/shop/cart"
)

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func line(productID, size, unitPrice string, quantity int) cart.LineItem {
	return cart.LineItem{
		ProductID:   productID,
		ProductName: "Linen Fabric",
		Size:        size,
		UnitPrice:   price(unitPrice),
		Quantity:    quantity,
	}
}

/*
TestStore_AddItem tests line merging: repeated adds of one (product, size)
key sum quantities into exactly one line, while a different size opens a new
line.
*/
func TestStore_AddItem(t *testing.T) {
	store := cart.NewStore()

	require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 2)))
	require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 3)))
	require.NoError(t, store.AddItem(line("fabric-1", "5m", "29.90", 1)))

	items := store.Items()
	require.Len(t, items, 2, "same key merges, different size splits")
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "2m", items[0].Size)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 6, store.TotalItems())
}

/*
TestStore_AddItem_Rejections tests that bad input never mutates: zero and
negative quantities, and increments past the per-line cap.
*/
func TestStore_AddItem_Rejections(t *testing.T) {
	store := cart.NewStore()
	require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 2)))

	tests := []struct {
		name string
		item cart.LineItem
	}{
		{"zero_quantity", line("fabric-1", "2m", "12.50", 0)},
		{"negative_quantity", line("fabric-1", "2m", "12.50", -4)},
		{"past_line_cap", line("fabric-1", "2m", "12.50", cart.MaxLineQuantity)},
		{"new_line_past_cap", line("fabric-9", "1m", "3.00", cart.MaxLineQuantity + 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.AddItem(tt.item)
			assert.True(t, apperr.HasCode(err, apperr.CodeUnprocessable))
			assert.Equal(t, 2, store.TotalItems(), "rejected input must not mutate")
			assert.Len(t, store.Items(), 1)
		})
	}
}

/*
TestStore_PriceCapture tests that totals use the price captured at add time:
neither a later add with a different price nor any catalogue change reaches
existing lines.
*/
func TestStore_PriceCapture(t *testing.T) {
	store := cart.NewStore()

	require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 1)))

	// The catalogue price moved; a later add of the same key carries the new
	// price, but the line keeps its original capture.
	require.NoError(t, store.AddItem(line("fabric-1", "2m", "99.99", 1)))

	items := store.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(price("12.50")))
	assert.True(t, store.TotalAmount().Equal(price("25.00")))
}

/*
TestStore_UpdateQuantity tests outright quantity setting, removal via
non-positive values, and the absent-line no-op.
*/
func TestStore_UpdateQuantity(t *testing.T) {
	store := cart.NewStore()
	require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 2)))
	key := cart.LineKey{ProductID: "fabric-1", Size: "2m"}

	require.NoError(t, store.UpdateQuantity(key, 7))
	assert.Equal(t, 7, store.TotalItems())

	t.Run("zero_removes", func(t *testing.T) {
		require.NoError(t, store.UpdateQuantity(key, 0))
		assert.Empty(t, store.Items())
	})

	t.Run("negative_removes", func(t *testing.T) {
		require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 2)))
		require.NoError(t, store.UpdateQuantity(key, -1))
		assert.Empty(t, store.Items())
	})

	t.Run("absent_is_noop", func(t *testing.T) {
		require.NoError(t, store.UpdateQuantity(cart.LineKey{ProductID: "ghost", Size: "1m"}, 3))
		assert.Empty(t, store.Items())
	})

	t.Run("past_cap_rejected", func(t *testing.T) {
		require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 2)))
		err := store.UpdateQuantity(key, cart.MaxLineQuantity+1)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnprocessable))
		assert.Equal(t, 2, store.TotalItems())
	})
}

/*
TestStore_RemoveItem tests removal and the absent-line no-op.
*/
func TestStore_RemoveItem(t *testing.T) {
	store := cart.NewStore()
	require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 2)))
	require.NoError(t, store.AddItem(line("fabric-2", "1m", "8.00", 1)))

	store.RemoveItem(cart.LineKey{ProductID: "fabric-1", Size: "2m"})
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "fabric-2", items[0].ProductID)

	// Absent key: nothing happens.
	store.RemoveItem(cart.LineKey{ProductID: "ghost", Size: "9m"})
	assert.Len(t, store.Items(), 1)
}

/*
TestStore_Clear tests that clearing zeroes both totals.
*/
func TestStore_Clear(t *testing.T) {
	store := cart.NewStore()
	require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 2)))
	require.NoError(t, store.AddItem(line("fabric-2", "1m", "8.00", 3)))

	store.Clear()

	assert.Equal(t, 0, store.TotalItems())
	assert.True(t, store.TotalAmount().IsZero())
	assert.Empty(t, store.Items())
}

/*
TestStore_Totals tests the money arithmetic over multiple lines.
*/
func TestStore_Totals(t *testing.T) {
	store := cart.NewStore()
	require.NoError(t, store.AddItem(line("fabric-1", "2m", "12.50", 2)))  // 25.00
	require.NoError(t, store.AddItem(line("thread-1", "one", "3.99", 3))) // 11.97

	assert.Equal(t, 5, store.TotalItems())
	assert.True(t, store.TotalAmount().Equal(price("36.97")),
		"got %s", store.TotalAmount())
}
