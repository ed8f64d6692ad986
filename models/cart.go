package models

// CartItem is one line of a shopping cart: a product reference with a
// display snapshot (name, image, unit price) taken when the item was added.
type CartItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart is an ordered list of cart items, unique by product. It holds no
// I/O; persistence is the cart store's job.
type Cart struct {
	Items []CartItem `json:"items"`
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{Items: []CartItem{}}
}

// Add merges an item into the cart. If the product is already present its
// quantity is increased by the added amount; otherwise the item is appended.
func (c *Cart) Add(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove deletes the line for a product. Removing a product that is not in
// the cart is a no-op.
func (c *Cart) Remove(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the quantity for a product already in the cart. When
// clampMin is true, quantities below 1 clamp to 1. Unknown products are a
// no-op.
func (c *Cart) SetQuantity(productID uint, quantity int, clampMin bool) {
	if clampMin && quantity < 1 {
		quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// Subtotal returns the sum of price times quantity over all lines
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
