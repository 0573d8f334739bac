// Package pricing converts cart lines into a cost breakdown: base price,
// per-expert commission, delivery fee and final total.
//
// Commission model: a flat percentage of the base price, distributed across
// experts proportionally to each expert's share of the base price. The last
// expert in first-appearance order absorbs the division remainder, so the
// per-expert commissions always sum to the aggregate exactly.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Calculator computes pricing breakdowns using constants resolved once at startup
type Calculator struct {
	cfg config.PricingConfig
}

// NewCalculator creates a calculator from the resolved pricing configuration
func NewCalculator(cfg config.PricingConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// MaxAge returns the staleness window for breakdowns
func (c *Calculator) MaxAge() time.Duration {
	return c.cfg.MaxAge
}

// Calculate derives a breakdown from the given cart lines. No rounding is
// applied; currency rounding happens at presentation time only.
// An empty cart (or a zero base price) produces all-zero derived fields
// without performing any division.
func (c *Calculator) Calculate(items []domain.CartItem) domain.PricingBreakdown {
	breakdown := domain.PricingBreakdown{
		BasePrice:         decimal.Zero,
		ExpertCommission:  decimal.Zero,
		ExpertCommissions: map[string]decimal.Decimal{},
		ItemCommissions:   []domain.ItemCommission{},
		DeliveryFee:       decimal.Zero,
		FinalPrice:        decimal.Zero,
		CalculatedAt:      time.Now(),
	}

	if len(items) == 0 {
		return breakdown
	}

	basePrice := decimal.Zero
	for _, item := range items {
		basePrice = basePrice.Add(lineTotal(item))
	}
	breakdown.BasePrice = basePrice

	// Group subtotals by expert, keeping first-appearance order
	expertTotals := map[string]decimal.Decimal{}
	expertOrder := []string{}
	for _, item := range items {
		if _, ok := expertTotals[item.ExpertUsername]; !ok {
			expertTotals[item.ExpertUsername] = decimal.Zero
			expertOrder = append(expertOrder, item.ExpertUsername)
		}
		expertTotals[item.ExpertUsername] = expertTotals[item.ExpertUsername].Add(lineTotal(item))
	}

	if basePrice.IsZero() {
		// Free or empty cart: no division, every expert present gets zero
		for _, username := range expertOrder {
			breakdown.ExpertCommissions[username] = decimal.Zero
		}
		for _, item := range items {
			breakdown.ItemCommissions = append(breakdown.ItemCommissions, domain.ItemCommission{
				ProductID:  item.ProductID,
				ItemTotal:  decimal.Zero,
				Commission: decimal.Zero,
			})
		}
		breakdown.DeliveryFee = c.deliveryFee(basePrice)
		breakdown.FinalPrice = breakdown.DeliveryFee
		return breakdown
	}

	totalCommission := basePrice.Mul(c.cfg.CommissionPercent).Div(hundred)
	breakdown.ExpertCommission = totalCommission

	// Distribute proportionally; the last expert takes the remainder so the
	// shares sum to totalCommission exactly
	distributed := decimal.Zero
	for i, username := range expertOrder {
		var share decimal.Decimal
		if i == len(expertOrder)-1 {
			share = totalCommission.Sub(distributed)
		} else {
			share = expertTotals[username].Div(basePrice).Mul(totalCommission)
			distributed = distributed.Add(share)
		}
		breakdown.ExpertCommissions[username] = share
	}

	for _, item := range items {
		total := lineTotal(item)
		breakdown.ItemCommissions = append(breakdown.ItemCommissions, domain.ItemCommission{
			ProductID:  item.ProductID,
			ItemTotal:  total,
			Commission: total.Div(basePrice).Mul(totalCommission),
		})
	}

	breakdown.DeliveryFee = c.deliveryFee(basePrice)
	breakdown.FinalPrice = basePrice.Add(totalCommission).Add(breakdown.DeliveryFee)
	return breakdown
}

// ProductQuote returns the commission and final price for a single unit,
// used on product pages before anything reaches the cart.
func (c *Calculator) ProductQuote(price decimal.Decimal) (commission, finalPrice decimal.Decimal) {
	commission = price.Mul(c.cfg.CommissionPercent).Div(hundred)
	finalPrice = price.Add(commission).Add(c.deliveryFee(price))
	return commission, finalPrice
}

func (c *Calculator) deliveryFee(basePrice decimal.Decimal) decimal.Decimal {
	if c.cfg.DeliveryMode == config.DeliveryModeFixed {
		return c.cfg.DeliveryAmount
	}
	return basePrice.Mul(c.cfg.DeliveryPercent).Div(hundred)
}

func lineTotal(item domain.CartItem) decimal.Decimal {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
