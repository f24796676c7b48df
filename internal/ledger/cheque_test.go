package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

func testCheque(at AccountingType, dir ChequeDirection) Cheque {
	return Cheque{
		ChequeNumber:   "CHQ-881",
		PartyName:      "Acme Trading",
		Amount:         dec("400"),
		Direction:      dir,
		AccountingType: at,
		LinkedRef:      shared.TransactionRef("TXN-20250314-092653-001"),
		IssueDate:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestPlanChequeCashedIncoming(t *testing.T) {
	plan, err := PlanCheque(testCheque(AccountingCashed, ChequeIncoming))
	require.NoError(t, err)
	require.Equal(t, ChequeCleared, plan.Status)
	require.Len(t, plan.Payments, 1)
	p := plan.Payments[0]
	require.Equal(t, Receipt, p.Direction)
	require.True(t, p.Amount.Equal(dec("400")))
	require.False(t, p.NoCashMovement)
}

func TestPlanChequeCashedOutgoing(t *testing.T) {
	plan, err := PlanCheque(testCheque(AccountingCashed, ChequeOutgoing))
	require.NoError(t, err)
	require.Equal(t, Disbursement, plan.Payments[0].Direction)
}

func TestPlanChequePostponedProducesNoPayments(t *testing.T) {
	plan, err := PlanCheque(testCheque(AccountingPostponed, ChequeIncoming))
	require.NoError(t, err)
	require.Equal(t, ChequePending, plan.Status)
	require.Empty(t, plan.Payments)
}

func TestPlanChequeEndorsed(t *testing.T) {
	c := testCheque(AccountingEndorsed, ChequeIncoming)
	c.EndorsedTo = "Basra Imports"
	plan, err := PlanCheque(c)
	require.NoError(t, err)
	require.Equal(t, ChequeEndorsed, plan.Status)
	require.Len(t, plan.Payments, 2)

	require.Equal(t, Receipt, plan.Payments[0].Direction)
	require.Equal(t, "Acme Trading", plan.Payments[0].PartyName)
	require.Equal(t, Disbursement, plan.Payments[1].Direction)
	require.Equal(t, "Basra Imports", plan.Payments[1].PartyName)
	for _, p := range plan.Payments {
		require.True(t, p.IsEndorsement)
		require.True(t, p.NoCashMovement)
		require.True(t, p.Amount.Equal(dec("400")))
	}
}

func TestPlanChequeEndorsedRequiresEndorsee(t *testing.T) {
	_, err := PlanCheque(testCheque(AccountingEndorsed, ChequeIncoming))
	require.ErrorIs(t, err, shared.ErrValidation)
}
