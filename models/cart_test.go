package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartAdd(t *testing.T) {
	tests := []struct {
		name         string
		initial      []CartItem
		add          CartItem
		expectedLen  int
		expectedQtys map[uint]int
	}{
		{
			name:         "Add to empty cart",
			initial:      nil,
			add:          CartItem{ProductID: 1, Name: "Widget", Price: 10, Quantity: 2},
			expectedLen:  1,
			expectedQtys: map[uint]int{1: 2},
		},
		{
			name: "Add new product appends a line",
			initial: []CartItem{
				{ProductID: 1, Name: "Widget", Price: 10, Quantity: 1},
			},
			add:          CartItem{ProductID: 2, Name: "Gadget", Price: 20, Quantity: 3},
			expectedLen:  2,
			expectedQtys: map[uint]int{1: 1, 2: 3},
		},
		{
			name: "Add existing product merges quantity",
			initial: []CartItem{
				{ProductID: 1, Name: "Widget", Price: 10, Quantity: 2},
				{ProductID: 2, Name: "Gadget", Price: 20, Quantity: 1},
			},
			add:          CartItem{ProductID: 1, Name: "Widget", Price: 10, Quantity: 3},
			expectedLen:  2,
			expectedQtys: map[uint]int{1: 5, 2: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart()
			cart.Items = append(cart.Items, tt.initial...)

			cart.Add(tt.add)

			assert.Len(t, cart.Items, tt.expectedLen)
			for _, item := range cart.Items {
				assert.Equal(t, tt.expectedQtys[item.ProductID], item.Quantity,
					"quantity for product %d", item.ProductID)
			}
		})
	}
}

func TestCartAddPreservesOrder(t *testing.T) {
	cart := NewCart()
	cart.Add(CartItem{ProductID: 3, Quantity: 1})
	cart.Add(CartItem{ProductID: 1, Quantity: 1})
	cart.Add(CartItem{ProductID: 2, Quantity: 1})
	cart.Add(CartItem{ProductID: 1, Quantity: 4}) // merge, must not reorder

	ids := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	assert.Equal(t, []uint{3, 1, 2}, ids)
	assert.Equal(t, 5, cart.Items[1].Quantity)
}

func TestCartRemove(t *testing.T) {
	cart := NewCart()
	cart.Add(CartItem{ProductID: 1, Quantity: 1})
	cart.Add(CartItem{ProductID: 2, Quantity: 2})

	cart.Remove(1)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, uint(2), cart.Items[0].ProductID)

	// Removing an absent product is a no-op and must not panic
	assert.NotPanics(t, func() { cart.Remove(99) })
	assert.Len(t, cart.Items, 1)
}

func TestCartSetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		productID uint
		quantity  int
		clampMin  bool
		expected  int
	}{
		{name: "Set quantity", productID: 1, quantity: 7, clampMin: true, expected: 7},
		{name: "Zero clamps to one when clamping", productID: 1, quantity: 0, clampMin: true, expected: 1},
		{name: "Negative clamps to one when clamping", productID: 1, quantity: -5, clampMin: true, expected: 1},
		{name: "Zero allowed without clamping", productID: 1, quantity: 0, clampMin: false, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart()
			cart.Add(CartItem{ProductID: 1, Quantity: 3})

			cart.SetQuantity(tt.productID, tt.quantity, tt.clampMin)
			assert.Equal(t, tt.expected, cart.Items[0].Quantity)
		})
	}

	t.Run("Unknown product is a no-op", func(t *testing.T) {
		cart := NewCart()
		cart.Add(CartItem{ProductID: 1, Quantity: 3})
		cart.SetQuantity(42, 9, true)
		assert.Equal(t, 3, cart.Items[0].Quantity)
	})
}

func TestCartClearAndSubtotal(t *testing.T) {
	cart := NewCart()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, float64(0), cart.Subtotal())

	cart.Add(CartItem{ProductID: 1, Price: 10, Quantity: 2})
	cart.Add(CartItem{ProductID: 2, Price: 5.5, Quantity: 4})
	assert.Equal(t, float64(42), cart.Subtotal())
	assert.False(t, cart.IsEmpty())

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, float64(0), cart.Subtotal())
}
