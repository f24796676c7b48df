package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/money"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// PaymentTotals is the recomputed AR/AP state of a ledger entry after
// applying or reversing a payment.
type PaymentTotals struct {
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           PaymentStatus   `json:"payment_status"`
}

// ApplyPayment applies a payment against an entry's running totals.
// When the payment exceeds the remaining balance the updated totals are
// still returned together with an OverpaymentWarning; the caller
// decides whether to proceed.
func ApplyPayment(entry LedgerEntry, amount decimal.Decimal) (PaymentTotals, error) {
	newPaid := money.Add(entry.TotalPaid, amount)
	totals := PaymentTotals{
		TotalPaid:        newPaid,
		RemainingBalance: money.Sub(entry.Amount, newPaid),
		Status:           CalculateStatus(newPaid, entry.Amount),
	}
	if amount.GreaterThan(entry.RemainingBalance) {
		return totals, &OverpaymentWarning{Remaining: entry.RemainingBalance, Amount: amount}
	}
	return totals, nil
}

// ReversePayment backs a payment out of an entry's running totals. A
// reversal amount exceeding what was recorded as paid means the
// dependent record and the entry have drifted out of sync: the paid
// total is floored at zero and a data-integrity fault is returned.
func ReversePayment(entry LedgerEntry, amount decimal.Decimal) (PaymentTotals, error) {
	raw := money.Sub(entry.TotalPaid, amount)
	newPaid := money.ZeroFloor(raw)
	totals := PaymentTotals{
		TotalPaid:        newPaid,
		RemainingBalance: money.Sub(entry.Amount, newPaid),
		Status:           CalculateStatus(newPaid, entry.Amount),
	}
	if raw.IsNegative() {
		return totals, &shared.IntegrityFault{
			Entity:   "ledger_entry",
			EntityID: entry.ID,
			Detail:   "payment reversal exceeds recorded paid total",
			Expected: "total paid >= " + amount.String(),
			Actual:   entry.TotalPaid.String(),
		}
	}
	return totals, nil
}
