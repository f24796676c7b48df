package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAddAvoidsFloatDrift(t *testing.T) {
	sum := Add(FromFloat(0.1), FromFloat(0.2))
	require.True(t, sum.Equal(decimal.RequireFromString("0.3")))
}

func TestSubRoundsHalfUp(t *testing.T) {
	got := Sub(decimal.RequireFromString("10.005"), decimal.Zero)
	require.True(t, got.Equal(decimal.RequireFromString("10.01")))
}

func TestZeroFloor(t *testing.T) {
	require.True(t, ZeroFloor(decimal.RequireFromString("-3")).IsZero())
	require.True(t, ZeroFloor(decimal.RequireFromString("3")).Equal(decimal.RequireFromString("3")))
	require.True(t, ZeroFloor(decimal.Zero).IsZero())
}

func TestRound2(t *testing.T) {
	cases := map[string]string{
		"10.666666": "10.67",
		"10.005":    "10.01",
		"10":        "10",
		"-1.005":    "-1.01",
	}
	for in, want := range cases {
		got := Round2(decimal.RequireFromString(in))
		require.True(t, got.Equal(decimal.RequireFromString(want)), "round %s", in)
	}
}
