package assets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAnnualDepreciationStraightLine(t *testing.T) {
	got := AnnualDepreciation(MethodStraightLine, dec("10000"), dec("1000"), 5)
	require.True(t, got.Equal(dec("1800")), "got %s", got)
}

func TestAnnualDepreciationDeclining(t *testing.T) {
	got := AnnualDepreciation(MethodDeclining, dec("10000"), dec("0"), 5)
	require.True(t, got.Equal(dec("2000")), "got %s", got)
}

func TestAnnualDepreciationZeroLife(t *testing.T) {
	require.True(t, AnnualDepreciation(MethodStraightLine, dec("10000"), dec("0"), 0).IsZero())
}

func TestScheduleStraightLineStopsAtSalvage(t *testing.T) {
	asset := FixedAsset{
		PurchaseAmount:  dec("10000"),
		SalvageValue:    dec("1000"),
		UsefulLifeYears: 5,
		Method:          MethodStraightLine,
	}
	lines := Schedule(asset)
	require.Len(t, lines, 5)
	require.True(t, lines[4].BookValue.Equal(dec("1000")))
	require.True(t, lines[4].Accumulated.Equal(dec("9000")))
	for _, line := range lines {
		require.False(t, line.BookValue.LessThan(asset.SalvageValue))
	}
}

func TestScheduleDecliningRecomputesFromBookValue(t *testing.T) {
	asset := FixedAsset{
		PurchaseAmount:  dec("10000"),
		SalvageValue:    dec("0"),
		UsefulLifeYears: 3,
		Method:          MethodDeclining,
	}
	lines := Schedule(asset)
	require.Len(t, lines, 3)
	require.True(t, lines[0].Charge.Equal(dec("2000")))
	require.True(t, lines[1].Charge.Equal(dec("1600")))
	require.True(t, lines[2].Charge.Equal(dec("1280")))
	require.True(t, lines[2].BookValue.Equal(dec("5120")))
}
