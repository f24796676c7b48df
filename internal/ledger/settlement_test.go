package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveSettlementPrecedence(t *testing.T) {
	incoming := &ChequeRider{Amount: dec("400"), AccountingType: AccountingPostponed}
	outgoing := &ChequeRider{Amount: dec("400"), AccountingType: AccountingCashed}
	initial := &InitialPaymentRider{Amount: dec("250")}

	cases := []struct {
		name   string
		riders Riders
		want   SettlementMode
	}{
		{"none", Riders{}, SettleNone},
		{"immediate", Riders{ImmediateSettlement: true}, SettleImmediate},
		{"immediate beats cheque", Riders{ImmediateSettlement: true, IncomingCheque: incoming}, SettleImmediateWithCheque},
		{"immediate beats initial payment", Riders{ImmediateSettlement: true, InitialPayment: initial}, SettleImmediate},
		{"immediate defers to outgoing cheque", Riders{ImmediateSettlement: true, OutgoingCheque: outgoing}, SettleOutgoingCheque},
		{"immediate with outgoing cheque ignores initial payment", Riders{ImmediateSettlement: true, OutgoingCheque: outgoing, InitialPayment: initial}, SettleOutgoingCheque},
		{"initial payment beats cheque", Riders{InitialPayment: initial, IncomingCheque: incoming}, SettleInitialPayment},
		{"incoming cheque only", Riders{IncomingCheque: incoming}, SettleIncomingCheque},
		{"outgoing cheque only", Riders{OutgoingCheque: outgoing}, SettleOutgoingCheque},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolveSettlement(tc.riders))
		})
	}
}

func TestInitialTotalPaid(t *testing.T) {
	amount := dec("1000")

	cases := []struct {
		name   string
		riders Riders
		want   string
	}{
		{"no settlement", Riders{}, "0"},
		{"immediate full", Riders{ImmediateSettlement: true}, "1000"},
		{
			"immediate with postponed cheque counts cash portion only",
			Riders{ImmediateSettlement: true, IncomingCheque: &ChequeRider{Amount: dec("400"), AccountingType: AccountingPostponed}},
			"600",
		},
		{
			"immediate with cashed cheque counts full amount",
			Riders{ImmediateSettlement: true, IncomingCheque: &ChequeRider{Amount: dec("400"), AccountingType: AccountingCashed}},
			"1000",
		},
		{
			"initial payment",
			Riders{InitialPayment: &InitialPaymentRider{Amount: dec("250")}},
			"250",
		},
		{
			"cashed incoming cheque only",
			Riders{IncomingCheque: &ChequeRider{Amount: dec("400"), AccountingType: AccountingCashed}},
			"400",
		},
		{
			"postponed incoming cheque pays nothing yet",
			Riders{IncomingCheque: &ChequeRider{Amount: dec("400"), AccountingType: AccountingPostponed}},
			"0",
		},
		{
			"endorsed outgoing cheque settles its amount",
			Riders{OutgoingCheque: &ChequeRider{Amount: dec("700"), AccountingType: AccountingEndorsed, EndorsedTo: "Basra Imports"}},
			"700",
		},
		{
			"postponed outgoing cheque pays nothing yet",
			Riders{OutgoingCheque: &ChequeRider{Amount: dec("700"), AccountingType: AccountingPostponed}},
			"0",
		},
		{
			"immediate with cashed outgoing cheque settles the cheque amount only",
			Riders{ImmediateSettlement: true, OutgoingCheque: &ChequeRider{Amount: dec("400"), AccountingType: AccountingCashed}},
			"400",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mode := ResolveSettlement(tc.riders)
			got := initialTotalPaid(mode, tc.riders, amount)
			require.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestSettlementCashPortionNeverNegative(t *testing.T) {
	riders := Riders{
		ImmediateSettlement: true,
		IncomingCheque:      &ChequeRider{Amount: dec("1200"), AccountingType: AccountingCashed},
	}
	got := settlementCashPortion(SettleImmediateWithCheque, riders, dec("1000"))
	require.True(t, got.IsZero())
}
