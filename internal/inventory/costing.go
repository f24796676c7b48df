package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/money"
)

// WeightedAverageCost blends the value of existing stock with a new
// purchase into one per-unit cost, rounded to currency precision.
// A zero combined quantity yields zero.
func WeightedAverageCost(oldQty, oldUnitCost, addedQty, addedUnitCost decimal.Decimal) decimal.Decimal {
	totalQty := oldQty.Add(addedQty)
	if totalQty.IsZero() {
		return decimal.Zero
	}
	totalValue := oldQty.Mul(oldUnitCost).Add(addedQty.Mul(addedUnitCost))
	return money.Round2(totalValue.Div(totalQty))
}

// LandedUnitCost spreads purchase price plus shipping and incidental
// costs over the received quantity. A zero quantity yields zero.
func LandedUnitCost(purchaseAmount, shipping, other, qty decimal.Decimal) decimal.Decimal {
	if qty.IsZero() {
		return decimal.Zero
	}
	total := purchaseAmount.Add(shipping).Add(other)
	return money.Round2(total.Div(qty))
}

// COGS computes the cost of goods sold for a consumed quantity at the
// item's current weighted-average cost.
func COGS(qty, unitCost decimal.Decimal) decimal.Decimal {
	return money.Round2(qty.Mul(unitCost))
}
