package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	// 100 units @ 10 plus 50 units @ 12 -> 10.67
	got := WeightedAverageCost(dec("100"), dec("10"), dec("50"), dec("12"))
	require.True(t, got.Equal(dec("10.67")), "got %s", got)
}

func TestWeightedAverageCostZeroDenominator(t *testing.T) {
	got := WeightedAverageCost(dec("0"), dec("10"), dec("0"), dec("12"))
	require.True(t, got.IsZero())
}

func TestWeightedAverageCostFirstPurchase(t *testing.T) {
	got := WeightedAverageCost(dec("0"), dec("0"), dec("40"), dec("7.5"))
	require.True(t, got.Equal(dec("7.5")))
}

func TestLandedUnitCost(t *testing.T) {
	got := LandedUnitCost(dec("1000"), dec("120"), dec("30"), dec("50"))
	require.True(t, got.Equal(dec("23")), "got %s", got)
}

func TestLandedUnitCostZeroQty(t *testing.T) {
	require.True(t, LandedUnitCost(dec("1000"), dec("120"), dec("30"), dec("0")).IsZero())
}

func TestCOGS(t *testing.T) {
	got := COGS(dec("30"), dec("10.67"))
	require.True(t, got.Equal(dec("320.10")), "got %s", got)
}
