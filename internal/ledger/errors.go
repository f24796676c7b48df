package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrEntryNotFound indicates the ledger entry does not exist.
	ErrEntryNotFound = fmt.Errorf("ledger: entry %w", shared.ErrNotFound)
	// ErrChequeNotFound indicates the cheque does not exist.
	ErrChequeNotFound = fmt.Errorf("ledger: cheque %w", shared.ErrNotFound)
	// ErrOverpayment signals a payment exceeding the remaining balance.
	// Non-fatal: the totals returned alongside it are valid and the
	// caller decides whether to proceed.
	ErrOverpayment = errors.New("ledger: payment exceeds remaining balance")
	// ErrChequeNotClearable indicates the cheque is not a pending
	// postponed instrument.
	ErrChequeNotClearable = fmt.Errorf("ledger: cheque not clearable: %w", shared.ErrValidation)
)

// validationErr wraps a composition failure in the shared validation
// sentinel so transports map it to a caller-correctable response.
func validationErr(format string, args ...any) error {
	return fmt.Errorf("ledger: "+format+": %w", append(args, shared.ErrValidation)...)
}

// OverpaymentWarning carries the amounts behind an overpayment signal.
type OverpaymentWarning struct {
	Remaining decimal.Decimal
	Amount    decimal.Decimal
}

func (e *OverpaymentWarning) Error() string {
	return fmt.Sprintf("payment %s exceeds remaining balance %s", e.Amount, e.Remaining)
}

func (e *OverpaymentWarning) Unwrap() error { return ErrOverpayment }
