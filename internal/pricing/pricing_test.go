package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/domain"
)

func percentConfig(commission, delivery string) config.PricingConfig {
	return config.PricingConfig{
		CommissionPercent: decimal.RequireFromString(commission),
		DeliveryMode:      config.DeliveryModePercent,
		DeliveryPercent:   decimal.RequireFromString(delivery),
		DeliveryAmount:    decimal.Zero,
		MaxAge:            24 * time.Hour,
	}
}

func fixedConfig(commission, amount string) config.PricingConfig {
	return config.PricingConfig{
		CommissionPercent: decimal.RequireFromString(commission),
		DeliveryMode:      config.DeliveryModeFixed,
		DeliveryAmount:    decimal.RequireFromString(amount),
		DeliveryPercent:   decimal.Zero,
		MaxAge:            24 * time.Hour,
	}
}

func item(productID, expert, price string, qty int) domain.CartItem {
	return domain.CartItem{
		ProductID:      productID,
		Name:           "Item " + productID,
		Price:          decimal.RequireFromString(price),
		Quantity:       qty,
		ExpertUsername: expert,
	}
}

func TestCalculate_EmptyCart(t *testing.T) {
	calc := NewCalculator(fixedConfig("15", "9.99"))

	b := calc.Calculate(nil)

	assert.True(t, b.BasePrice.IsZero())
	assert.True(t, b.ExpertCommission.IsZero())
	assert.True(t, b.DeliveryFee.IsZero())
	assert.True(t, b.FinalPrice.IsZero())
	assert.Empty(t, b.ExpertCommissions)
	assert.Empty(t, b.ItemCommissions)
	assert.False(t, b.CalculatedAt.IsZero())
}

func TestCalculate_ProportionalSplit(t *testing.T) {
	// Scenario from the checkout docs: 3% commission split proportionally
	calc := NewCalculator(percentConfig("3", "0"))

	b := calc.Calculate([]domain.CartItem{
		item("p1", "sofia", "25", 2),
		item("p2", "dmitry", "29", 1),
	})

	require.Equal(t, "79", b.BasePrice.String())
	assert.InDelta(t, 2.37, b.ExpertCommission.InexactFloat64(), 1e-9)

	require.Len(t, b.ExpertCommissions, 2)
	assert.InDelta(t, 1.50, b.ExpertCommissions["sofia"].InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.87, b.ExpertCommissions["dmitry"].InexactFloat64(), 1e-9)

	assert.InDelta(t, 81.37, b.FinalPrice.InexactFloat64(), 1e-9)
}

func TestCalculate_CommissionSumInvariant(t *testing.T) {
	calc := NewCalculator(percentConfig("15", "25"))

	// Prices chosen so proportional shares do not divide evenly
	b := calc.Calculate([]domain.CartItem{
		item("p1", "sofia", "33.33", 1),
		item("p2", "dmitry", "11.11", 3),
		item("p3", "irina", "7.77", 2),
	})

	sum := decimal.Zero
	for _, share := range b.ExpertCommissions {
		sum = sum.Add(share)
	}
	assert.True(t, sum.Equal(b.ExpertCommission),
		"per-expert commissions %s must sum to aggregate %s", sum, b.ExpertCommission)
}

func TestCalculate_SingleExpert(t *testing.T) {
	calc := NewCalculator(percentConfig("15", "25"))

	b := calc.Calculate([]domain.CartItem{
		item("p1", "sofia", "100", 1),
		item("p2", "sofia", "50", 2),
	})

	require.Len(t, b.ExpertCommissions, 1)
	assert.True(t, b.ExpertCommissions["sofia"].Equal(b.ExpertCommission))

	assert.Equal(t, "200", b.BasePrice.String())
	assert.Equal(t, "30", b.ExpertCommission.String())
	assert.Equal(t, "50", b.DeliveryFee.String())
	assert.Equal(t, "280", b.FinalPrice.String())
}

func TestCalculate_HomogeneousInPrice_PercentDelivery(t *testing.T) {
	calc := NewCalculator(percentConfig("15", "25"))

	items := []domain.CartItem{
		item("p1", "sofia", "25", 2),
		item("p2", "dmitry", "29", 1),
	}
	doubled := []domain.CartItem{
		item("p1", "sofia", "50", 2),
		item("p2", "dmitry", "58", 1),
	}

	a := calc.Calculate(items)
	b := calc.Calculate(doubled)

	two := decimal.NewFromInt(2)
	assert.True(t, b.BasePrice.Equal(a.BasePrice.Mul(two)))
	assert.True(t, b.ExpertCommission.Equal(a.ExpertCommission.Mul(two)))
	assert.True(t, b.DeliveryFee.Equal(a.DeliveryFee.Mul(two)))
	assert.True(t, b.FinalPrice.Equal(a.FinalPrice.Mul(two)))
}

func TestCalculate_FixedDeliveryUnchangedByPrices(t *testing.T) {
	calc := NewCalculator(fixedConfig("15", "9.99"))

	a := calc.Calculate([]domain.CartItem{item("p1", "sofia", "25", 1)})
	b := calc.Calculate([]domain.CartItem{item("p1", "sofia", "50", 1)})

	assert.Equal(t, "9.99", a.DeliveryFee.String())
	assert.Equal(t, "9.99", b.DeliveryFee.String())
	assert.True(t, b.ExpertCommission.Equal(a.ExpertCommission.Mul(decimal.NewFromInt(2))))
}

func TestCalculate_ZeroBasePriceWithItems(t *testing.T) {
	calc := NewCalculator(percentConfig("15", "25"))

	b := calc.Calculate([]domain.CartItem{
		item("p1", "sofia", "0", 2),
		item("p2", "dmitry", "0", 1),
	})

	assert.True(t, b.ExpertCommission.IsZero())
	require.Len(t, b.ExpertCommissions, 2)
	assert.True(t, b.ExpertCommissions["sofia"].IsZero())
	assert.True(t, b.ExpertCommissions["dmitry"].IsZero())
	assert.True(t, b.FinalPrice.IsZero())
}

func TestCalculate_ItemCommissionsCoverEveryLine(t *testing.T) {
	calc := NewCalculator(percentConfig("15", "25"))

	items := []domain.CartItem{
		item("p1", "sofia", "25", 2),
		item("p2", "dmitry", "29", 1),
		item("p3", "sofia", "10", 1),
	}
	b := calc.Calculate(items)

	require.Len(t, b.ItemCommissions, 3)
	for i, ic := range b.ItemCommissions {
		assert.Equal(t, items[i].ProductID, ic.ProductID)
		expected := items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		assert.True(t, ic.ItemTotal.Equal(expected))
	}
}

func TestBreakdownStaleness(t *testing.T) {
	calc := NewCalculator(percentConfig("15", "25"))
	b := calc.Calculate([]domain.CartItem{item("p1", "sofia", "25", 1)})

	now := b.CalculatedAt
	assert.False(t, b.IsStale(now.Add(23*time.Hour), calc.MaxAge()))
	assert.True(t, b.IsStale(now.Add(25*time.Hour), calc.MaxAge()))
}

func TestProductQuote(t *testing.T) {
	calc := NewCalculator(percentConfig("15", "25"))

	commission, finalPrice := calc.ProductQuote(decimal.RequireFromString("100"))

	assert.Equal(t, "15", commission.String())
	assert.Equal(t, "140", finalPrice.String())
}
