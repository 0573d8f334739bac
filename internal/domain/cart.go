package domain

import "github.com/shopspring/decimal"

// CartItem is a single cart line: a frozen copy of the product taken from
// the catalog at the time the item was added. Quantity is always >= 1.
type CartItem struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	ExpertID       string          `json:"expert_id"`
	ExpertUsername string          `json:"expert_username"`
	ImageURL       *string         `json:"image_url,omitempty"`
	Slug           string          `json:"slug"`
}

// Cart is an ordered collection of lines, unique by product ID.
// Totals are derived; RecomputeTotals runs after every transition and after
// rehydration from storage, so persisted totals are never trusted.
type Cart struct {
	SessionID  string          `json:"session_id"`
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewCart creates an empty cart for a session
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID:  sessionID,
		Items:      []CartItem{},
		TotalPrice: decimal.Zero,
	}
}

// AddItem inserts a new line with quantity 1, or increments the quantity of
// an existing line by 1. The incoming item's quantity field is ignored.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity++
			c.RecomputeTotals()
			return
		}
	}

	item.Quantity = 1
	c.Items = append(c.Items, item)
	c.RecomputeTotals()
}

// RemoveItem deletes the matching line. Absent product IDs are a no-op.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	c.RecomputeTotals()
}

// UpdateQuantity sets the line's quantity. A quantity <= 0 removes the line,
// so a zero quantity is never stored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			break
		}
	}
	c.RecomputeTotals()
}

// Clear empties all lines and resets totals to zero
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.RecomputeTotals()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// RecomputeTotals rebuilds TotalItems and TotalPrice from the lines
func (c *Cart) RecomputeTotals() {
	total := 0
	price := decimal.Zero
	for _, item := range c.Items {
		total += item.Quantity
		price = price.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.TotalItems = total
	c.TotalPrice = price
}
