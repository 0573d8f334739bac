package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID, price string) CartItem {
	return CartItem{
		ProductID:      productID,
		Name:           "Item " + productID,
		Price:          decimal.RequireFromString(price),
		ExpertUsername: "sofia",
		Slug:           "item-" + productID,
	}
}

func assertTotalsConsistent(t *testing.T, c *Cart) {
	t.Helper()
	items := 0
	price := decimal.Zero
	for _, it := range c.Items {
		items += it.Quantity
		price = price.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.Equal(t, items, c.TotalItems)
	assert.True(t, price.Equal(c.TotalPrice), "expected total %s, got %s", price, c.TotalPrice)
}

func TestAddItem_NewLine(t *testing.T) {
	c := NewCart("s1")

	c.AddItem(line("p1", "25"))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, c.TotalItems)
	assertTotalsConsistent(t, c)
}

func TestAddItem_RepeatedAddIncrementsQuantity(t *testing.T) {
	c := NewCart("s1")

	for i := 0; i < 5; i++ {
		c.AddItem(line("p1", "25"))
	}

	require.Len(t, c.Items, 1, "repeated add must never duplicate lines")
	assert.Equal(t, 5, c.Items[0].Quantity)
	assertTotalsConsistent(t, c)
}

func TestAddItem_IgnoresIncomingQuantity(t *testing.T) {
	c := NewCart("s1")

	it := line("p1", "25")
	it.Quantity = 99
	c.AddItem(it)

	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	c := NewCart("s1")
	c.AddItem(line("p1", "25"))
	c.AddItem(line("p2", "10"))

	c.RemoveItem("p1")

	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ProductID)
	assertTotalsConsistent(t, c)
}

func TestRemoveItem_AbsentIsNoop(t *testing.T) {
	c := NewCart("s1")
	c.AddItem(line("p1", "25"))

	c.RemoveItem("missing")

	require.Len(t, c.Items, 1)
	assertTotalsConsistent(t, c)
}

func TestUpdateQuantity(t *testing.T) {
	c := NewCart("s1")
	c.AddItem(line("p1", "25"))

	c.UpdateQuantity("p1", 4)

	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Equal(t, 4, c.TotalItems)
	assert.Equal(t, "100", c.TotalPrice.String())
}

func TestUpdateQuantityZero_EqualsRemove(t *testing.T) {
	a := NewCart("s1")
	a.AddItem(line("p1", "25"))
	a.AddItem(line("p2", "10"))

	b := NewCart("s1")
	b.AddItem(line("p1", "25"))
	b.AddItem(line("p2", "10"))

	a.UpdateQuantity("p1", 0)
	b.RemoveItem("p1")

	assert.Equal(t, b.Items, a.Items)
	assert.Equal(t, b.TotalItems, a.TotalItems)
	assert.True(t, a.TotalPrice.Equal(b.TotalPrice))
}

func TestUpdateQuantityNegative_EqualsRemove(t *testing.T) {
	c := NewCart("s1")
	c.AddItem(line("p1", "25"))

	c.UpdateQuantity("p1", -3)

	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.TotalItems)
}

func TestClear(t *testing.T) {
	c := NewCart("s1")
	c.AddItem(line("p1", "25"))
	c.AddItem(line("p2", "10"))

	c.Clear()

	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.TotalItems)
	assert.True(t, c.TotalPrice.IsZero())
	assert.True(t, c.IsEmpty())
}

func TestRecomputeTotals_FixesStalePersistedTotals(t *testing.T) {
	c := NewCart("s1")
	c.AddItem(line("p1", "25"))
	c.AddItem(line("p2", "10"))

	// Simulate a rehydrated snapshot carrying wrong persisted totals
	c.TotalItems = 42
	c.TotalPrice = decimal.RequireFromString("999")

	c.RecomputeTotals()

	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, "35", c.TotalPrice.String())
}
