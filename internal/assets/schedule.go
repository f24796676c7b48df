package assets

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/money"
)

var decliningRate = decimal.RequireFromString("0.20")

// AnnualDepreciation computes the yearly depreciation charge for the
// given method: (purchase - salvage) / life for straight-line, a flat
// 20% of purchase cost for declining balance. A zero useful life yields
// zero rather than dividing.
func AnnualDepreciation(method DepreciationMethod, purchase, salvage decimal.Decimal, usefulLifeYears int) decimal.Decimal {
	switch method {
	case MethodDeclining:
		return money.Round2(purchase.Mul(decliningRate))
	default:
		if usefulLifeYears <= 0 {
			return decimal.Zero
		}
		return money.Round2(purchase.Sub(salvage).Div(decimal.NewFromInt(int64(usefulLifeYears))))
	}
}

// ScheduleLine is one projected year of depreciation.
type ScheduleLine struct {
	Year        int
	Charge      decimal.Decimal
	Accumulated decimal.Decimal
	BookValue   decimal.Decimal
}

// Schedule projects the depreciation run-off for an asset down to its
// salvage floor. Declining balance recomputes the charge from the
// opening book value each year; both methods stop charging once book
// value reaches salvage.
func Schedule(a FixedAsset) []ScheduleLine {
	var lines []ScheduleLine
	book := a.PurchaseAmount
	accumulated := decimal.Zero

	years := a.UsefulLifeYears
	if years <= 0 {
		return lines
	}
	for year := 1; year <= years; year++ {
		var charge decimal.Decimal
		switch a.Method {
		case MethodDeclining:
			charge = money.Round2(book.Mul(decliningRate))
		default:
			charge = AnnualDepreciation(MethodStraightLine, a.PurchaseAmount, a.SalvageValue, a.UsefulLifeYears)
		}
		floorRoom := money.Sub(book, a.SalvageValue)
		if charge.GreaterThan(floorRoom) {
			charge = money.ZeroFloor(floorRoom)
		}
		book = money.Sub(book, charge)
		accumulated = money.Add(accumulated, charge)
		lines = append(lines, ScheduleLine{
			Year:        year,
			Charge:      charge,
			Accumulated: accumulated,
			BookValue:   book,
		})
		if book.LessThanOrEqual(a.SalvageValue) {
			break
		}
	}
	return lines
}
