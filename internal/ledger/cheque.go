package ledger

// ChequePlan is the outcome of applying the cheque accounting rules:
// the payments to record alongside the cheque and the status label to
// stamp on it. Payment IDs and timestamps are assigned by the composer.
type ChequePlan struct {
	Status   ChequeStatus
	Payments []Payment
}

// PlanCheque decides, from a cheque's accounting type, which cash
// movements must be produced.
//
//   - cashed: one payment for the full amount, dated at issue.
//   - postponed: no payments; settlement waits for ClearCheque.
//   - endorsed: two bookkeeping-only legs (receipt from the original
//     party, disbursement to the endorsee) flagged NoCashMovement so
//     cash-flow aggregates skip them.
func PlanCheque(c Cheque) (ChequePlan, error) {
	switch c.AccountingType {
	case AccountingCashed:
		dir := Receipt
		if c.Direction == ChequeOutgoing {
			dir = Disbursement
		}
		return ChequePlan{
			Status: ChequeCleared,
			Payments: []Payment{{
				PartyName: c.PartyName,
				Amount:    c.Amount,
				Direction: dir,
				LinkedRef: c.LinkedRef,
				Method:    "cheque",
				Date:      c.IssueDate,
				Notes:     "cheque " + c.ChequeNumber + " cashed",
			}},
		}, nil

	case AccountingPostponed:
		return ChequePlan{Status: ChequePending}, nil

	case AccountingEndorsed:
		if c.EndorsedTo == "" {
			return ChequePlan{}, validationErr("endorsed cheque requires an endorsed-to name")
		}
		receipt := Payment{
			PartyName:      c.PartyName,
			Amount:         c.Amount,
			Direction:      Receipt,
			LinkedRef:      c.LinkedRef,
			Method:         "cheque-endorsement",
			Date:           c.IssueDate,
			Notes:          "cheque " + c.ChequeNumber + " endorsed to " + c.EndorsedTo,
			IsEndorsement:  true,
			NoCashMovement: true,
		}
		disbursement := receipt
		disbursement.PartyName = c.EndorsedTo
		disbursement.Direction = Disbursement
		return ChequePlan{
			Status:   ChequeEndorsed,
			Payments: []Payment{receipt, disbursement},
		}, nil

	default:
		return ChequePlan{}, validationErr("unknown cheque accounting type %q", c.AccountingType)
	}
}
