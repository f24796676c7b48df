package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/money"
)

// SettlementMode names the branch of the settlement precedence table a
// submission falls into. Resolving the mode once keeps the interacting
// rider flags auditable instead of spreading nested conditionals
// through the composer.
type SettlementMode int

const (
	// SettleNone applies when no settlement rider is present.
	SettleNone SettlementMode = iota
	// SettleImmediate settles the full entry amount in cash now.
	SettleImmediate
	// SettleImmediateWithCheque settles now, part cheque part cash.
	SettleImmediateWithCheque
	// SettleInitialPayment records a partial cash payment up front.
	SettleInitialPayment
	// SettleIncomingCheque covers income entries settled by cheque only.
	SettleIncomingCheque
	// SettleOutgoingCheque covers expense entries settled by cheque only.
	SettleOutgoingCheque
)

// ResolveSettlement picks the settlement branch. Precedence order is
// fixed: immediate settlement beats an initial payment, which beats
// cheque-only settlement. An outgoing cheque carries its own cash
// movement through the cheque policy, so immediate settlement combined
// with one resolves to the outgoing-cheque branch rather than stacking
// a full-amount cash payment on top of the cheque's.
func ResolveSettlement(r Riders) SettlementMode {
	switch {
	case r.ImmediateSettlement && r.IncomingCheque != nil:
		return SettleImmediateWithCheque
	case r.ImmediateSettlement && r.OutgoingCheque == nil:
		return SettleImmediate
	case r.InitialPayment != nil && !r.ImmediateSettlement:
		return SettleInitialPayment
	case r.IncomingCheque != nil:
		return SettleIncomingCheque
	case r.OutgoingCheque != nil:
		return SettleOutgoingCheque
	default:
		return SettleNone
	}
}

// initialTotalPaid derives the opening paid total of an AR/AP-tracked
// entry for the resolved mode. A cheque's own value is tracked through
// the cheque policy, never double-counted into the cash portion.
func initialTotalPaid(mode SettlementMode, r Riders, amount decimal.Decimal) decimal.Decimal {
	switch mode {
	case SettleImmediateWithCheque:
		if r.IncomingCheque.AccountingType == AccountingCashed {
			return amount
		}
		return money.Sub(amount, r.IncomingCheque.Amount)
	case SettleImmediate:
		return amount
	case SettleInitialPayment:
		return r.InitialPayment.Amount
	case SettleIncomingCheque:
		if r.IncomingCheque.AccountingType == AccountingCashed {
			return r.IncomingCheque.Amount
		}
		return decimal.Zero
	case SettleOutgoingCheque:
		if t := r.OutgoingCheque.AccountingType; t == AccountingCashed || t == AccountingEndorsed {
			return r.OutgoingCheque.Amount
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

// settlementCashPortion is the cash movement the settlement itself
// produces, separate from any payment the cheque policy emits.
func settlementCashPortion(mode SettlementMode, r Riders, amount decimal.Decimal) decimal.Decimal {
	switch mode {
	case SettleImmediateWithCheque:
		return money.ZeroFloor(money.Sub(amount, r.IncomingCheque.Amount))
	case SettleImmediate:
		return amount
	case SettleInitialPayment:
		return r.InitialPayment.Amount
	default:
		return decimal.Zero
	}
}
