// Package money provides fixed-precision currency arithmetic.
//
// Every monetary accumulation in the engine routes through this package.
// Raw float addition produces status-flip bugs at boundary values
// (0.1+0.2 must compare equal to 0.3 for settlement-status purposes),
// so amounts are decimal.Decimal end to end and results are rounded to
// two places, half up.
package money

import "github.com/shopspring/decimal"

// Zero is the zero amount.
var Zero = decimal.Zero

// Add returns a+b rounded to currency precision.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return Round2(a.Add(b))
}

// Sub returns a-b rounded to currency precision.
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return Round2(a.Sub(b))
}

// Round2 rounds to two decimal places, half up.
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// ZeroFloor clamps negative amounts to zero.
func ZeroFloor(x decimal.Decimal) decimal.Decimal {
	if x.IsNegative() {
		return decimal.Zero
	}
	return x
}

// FromFloat converts a float input value to an amount at currency precision.
func FromFloat(f float64) decimal.Decimal {
	return Round2(decimal.NewFromFloat(f))
}
