package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/money"
)

// CalculateStatus maps paid and owed amounts onto a settlement status.
// Total function: negative totalPaid counts as nothing paid, and a
// non-positive remainder is paid regardless of how it arose. The
// composer validates Amount > 0 before any entry reaches the store, so
// the degenerate negative-amount case cannot enter through the write
// path.
func CalculateStatus(totalPaid, amount decimal.Decimal) PaymentStatus {
	paid := money.ZeroFloor(totalPaid)
	remaining := money.Sub(amount, paid)
	switch {
	case remaining.LessThanOrEqual(decimal.Zero):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}
