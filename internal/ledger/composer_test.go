package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/shared"
)

func testComposer() *Composer {
	n := 0
	now := func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }
	newID := func() string { n++; return fmt.Sprintf("id-%03d", n) }
	return NewComposer().WithClock(now, newID)
}

func testEntry(dir Direction, amount string) EntryInput {
	return EntryInput{
		Date:            time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Description:     "goods sold to Acme",
		Direction:       dir,
		Amount:          dec(amount),
		Category:        "sales",
		AssociatedParty: "Acme Trading",
	}
}

func TestComposeSaleWithPostponedChequeAndImmediateRest(t *testing.T) {
	riders := Riders{
		TrackARAP:           true,
		ImmediateSettlement: true,
		IncomingCheque: &ChequeRider{
			ChequeNumber:   "CHQ-881",
			PartyName:      "Acme Trading",
			Amount:         dec("400"),
			AccountingType: AccountingPostponed,
			DueDate:        time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
		},
	}
	ws, err := testComposer().Compose(testEntry(DirectionIncome, "1000"), riders, Snapshot{})
	require.NoError(t, err)

	require.Len(t, ws.Entries, 1)
	entry := ws.Entries[0]
	require.True(t, entry.IsARAP)
	require.True(t, entry.TotalPaid.Equal(dec("600")))
	require.True(t, entry.RemainingBalance.Equal(dec("400")))
	require.Equal(t, StatusPartial, entry.PaymentStatus)

	// Cash portion only; the postponed cheque produces no payment.
	require.Len(t, ws.Payments, 1)
	require.True(t, ws.Payments[0].Amount.Equal(dec("600")))
	require.Equal(t, Receipt, ws.Payments[0].Direction)

	require.Len(t, ws.Cheques, 1)
	require.Equal(t, ChequePending, ws.Cheques[0].Status)
	require.Equal(t, entry.TxnRef, ws.Cheques[0].LinkedRef)
}

func TestComposeImmediateWithOutgoingChequeKeepsCashConserved(t *testing.T) {
	riders := Riders{
		TrackARAP:           true,
		ImmediateSettlement: true,
		OutgoingCheque: &ChequeRider{
			ChequeNumber:   "CHQ-204",
			PartyName:      "Acme Trading",
			Amount:         dec("400"),
			AccountingType: AccountingCashed,
		},
	}
	ws, err := testComposer().Compose(testEntry(DirectionExpense, "1000"), riders, Snapshot{})
	require.NoError(t, err)

	entry := ws.Entries[0]
	require.True(t, entry.TotalPaid.Equal(dec("400")))
	require.True(t, entry.RemainingBalance.Equal(dec("600")))
	require.Equal(t, StatusPartial, entry.PaymentStatus)

	// The cheque's own payment is the only cash movement; no
	// full-amount cash payment is stacked on top of it.
	require.Len(t, ws.Payments, 1)
	require.True(t, ws.Payments[0].Amount.Equal(dec("400")))
	require.Equal(t, Disbursement, ws.Payments[0].Direction)

	cash := dec("0")
	for _, p := range ws.Payments {
		if !p.NoCashMovement {
			cash = cash.Add(p.Amount)
		}
	}
	require.True(t, cash.Equal(entry.TotalPaid))
}

func TestComposeInitialPaymentCoveringFullAmount(t *testing.T) {
	riders := Riders{
		TrackARAP:      true,
		InitialPayment: &InitialPaymentRider{Amount: dec("1000"), Method: "bank transfer"},
	}
	ws, err := testComposer().Compose(testEntry(DirectionIncome, "1000"), riders, Snapshot{})
	require.NoError(t, err)

	entry := ws.Entries[0]
	require.Equal(t, StatusPaid, entry.PaymentStatus)
	require.True(t, entry.RemainingBalance.IsZero())
	require.Len(t, ws.Payments, 1)
	require.Equal(t, "bank transfer", ws.Payments[0].Method)
}

func TestComposeChequeExceedingAmountRejected(t *testing.T) {
	riders := Riders{
		TrackARAP:           true,
		ImmediateSettlement: true,
		IncomingCheque:      &ChequeRider{ChequeNumber: "CHQ-1", PartyName: "Acme", Amount: dec("1200"), AccountingType: AccountingCashed},
	}
	_, err := testComposer().Compose(testEntry(DirectionIncome, "1000"), riders, Snapshot{})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestComposeExitForAbsentItemYieldsNoWriteSet(t *testing.T) {
	riders := Riders{
		Inventory: &InventoryRider{ItemName: "steel pipe", Direction: inventory.MovementExit, Quantity: dec("5")},
	}
	ws, err := testComposer().Compose(testEntry(DirectionIncome, "500"), riders, Snapshot{})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Nil(t, ws)
}

func TestComposeExitExceedingStockRejected(t *testing.T) {
	item := &inventory.Item{ID: "itm-1", Name: "steel pipe", Quantity: dec("3"), UnitPrice: dec("10")}
	riders := Riders{
		Inventory: &InventoryRider{ItemName: "steel pipe", Direction: inventory.MovementExit, Quantity: dec("5")},
	}
	_, err := testComposer().Compose(testEntry(DirectionIncome, "500"), riders, Snapshot{Item: item})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestComposeEntryMovementRecomputesWeightedAverage(t *testing.T) {
	item := &inventory.Item{ID: "itm-1", Name: "steel pipe", Quantity: dec("100"), UnitPrice: dec("10")}
	riders := Riders{
		Inventory: &InventoryRider{ItemName: "steel pipe", Direction: inventory.MovementEntry, Quantity: dec("50")},
	}
	// 50 units at a landed 600/50 = 12 against 100 held at 10.
	ws, err := testComposer().Compose(testEntry(DirectionExpense, "600"), riders, Snapshot{Item: item})
	require.NoError(t, err)

	require.Len(t, ws.ItemUpserts, 1)
	updated := ws.ItemUpserts[0]
	require.True(t, updated.Quantity.Equal(dec("150")))
	require.True(t, updated.UnitPrice.Equal(dec("10.67")), "got %s", updated.UnitPrice)
	require.True(t, updated.LastPurchasePrice.Equal(dec("12")))

	require.Len(t, ws.Movements, 1)
	require.Equal(t, inventory.MovementEntry, ws.Movements[0].Direction)
	require.Equal(t, "itm-1", ws.Movements[0].ItemID)
}

func TestComposeEntryMovementCreatesItem(t *testing.T) {
	riders := Riders{
		Inventory: &InventoryRider{
			ItemName:     "steel pipe",
			Direction:    inventory.MovementEntry,
			Quantity:     dec("50"),
			Unit:         "pcs",
			ShippingCost: dec("50"),
		},
	}
	ws, err := testComposer().Compose(testEntry(DirectionExpense, "550"), riders, Snapshot{})
	require.NoError(t, err)

	require.Len(t, ws.ItemUpserts, 1)
	created := ws.ItemUpserts[0]
	// Landed cost spreads shipping over quantity: (550+50)/50.
	require.True(t, created.UnitPrice.Equal(dec("12")), "got %s", created.UnitPrice)
	require.True(t, created.Quantity.Equal(dec("50")))
	require.Equal(t, created.ID, ws.Movements[0].ItemID)
}

func TestComposeSaleExitGeneratesCOGSEntry(t *testing.T) {
	item := &inventory.Item{ID: "itm-1", Name: "steel pipe", Quantity: dec("100"), UnitPrice: dec("10.67")}
	riders := Riders{
		Inventory: &InventoryRider{ItemName: "steel pipe", Direction: inventory.MovementExit, Quantity: dec("30")},
	}
	ws, err := testComposer().Compose(testEntry(DirectionIncome, "900"), riders, Snapshot{Item: item})
	require.NoError(t, err)

	require.Len(t, ws.Entries, 2)
	parent, cogs := ws.Entries[0], ws.Entries[1]
	require.True(t, cogs.TxnRef.IsCOGS())
	require.Equal(t, parent.TxnRef.COGSRef(), cogs.TxnRef)
	require.Equal(t, DirectionExpense, cogs.Direction)
	require.True(t, cogs.AutoGenerated)
	// Costed at the pre-exit average: 30 * 10.67.
	require.True(t, cogs.Amount.Equal(dec("320.10")), "got %s", cogs.Amount)

	// The exit changes quantity but never the unit price.
	require.True(t, ws.ItemUpserts[0].Quantity.Equal(dec("70")))
	require.True(t, ws.ItemUpserts[0].UnitPrice.Equal(dec("10.67")))
}

func TestComposeExpenseExitGeneratesNoCOGS(t *testing.T) {
	item := &inventory.Item{ID: "itm-1", Name: "steel pipe", Quantity: dec("100"), UnitPrice: dec("10")}
	riders := Riders{
		Inventory: &InventoryRider{ItemName: "steel pipe", Direction: inventory.MovementExit, Quantity: dec("30")},
	}
	ws, err := testComposer().Compose(testEntry(DirectionExpense, "300"), riders, Snapshot{Item: item})
	require.NoError(t, err)
	require.Len(t, ws.Entries, 1)
}

func TestComposeFixedAssetDefaults(t *testing.T) {
	riders := Riders{
		FixedAsset: &FixedAssetRider{AssetName: "delivery truck", UsefulLifeYears: 5},
	}
	ws, err := testComposer().Compose(testEntry(DirectionExpense, "25000"), riders, Snapshot{})
	require.NoError(t, err)

	require.Len(t, ws.Assets, 1)
	a := ws.Assets[0]
	require.True(t, a.PurchaseAmount.Equal(dec("25000")))
	require.True(t, a.BookValue.Equal(dec("25000")))
	require.True(t, a.AnnualDepreciation.Equal(dec("5000")))
	require.Equal(t, ws.Entries[0].TxnRef, a.LinkedRef)
}

func TestComposeRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-10"} {
		_, err := testComposer().Compose(testEntry(DirectionIncome, amount), Riders{}, Snapshot{})
		require.ErrorIs(t, err, shared.ErrValidation)
	}
}

func TestComposeNonARAPEntryCarriesNoBalance(t *testing.T) {
	ws, err := testComposer().Compose(testEntry(DirectionIncome, "1000"), Riders{ImmediateSettlement: true}, Snapshot{})
	require.NoError(t, err)

	entry := ws.Entries[0]
	require.False(t, entry.IsARAP)
	require.True(t, entry.TotalPaid.IsZero())
	require.Empty(t, entry.PaymentStatus)
	// The cash payment is still recorded.
	require.Len(t, ws.Payments, 1)
	require.True(t, ws.Payments[0].Amount.Equal(dec("1000")))
}

func TestComposeAmountsRoundedToCurrencyPrecision(t *testing.T) {
	input := testEntry(DirectionIncome, "100.005")
	ws, err := testComposer().Compose(input, Riders{}, Snapshot{})
	require.NoError(t, err)
	require.True(t, ws.Entries[0].Amount.Equal(dec("100.01")))
}
