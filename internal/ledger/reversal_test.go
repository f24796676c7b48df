package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/shared"
)

func reversalBundle() ReversalBundle {
	ref := shared.TransactionRef("TXN-20250314-092653-001")
	cogs := LedgerEntry{ID: "ent-cogs", TxnRef: ref.COGSRef(), AutoGenerated: true}
	return ReversalBundle{
		Entry:     LedgerEntry{ID: "ent-1", TxnRef: ref, Amount: dec("900")},
		COGSEntry: &cogs,
		Payments:  []Payment{{ID: "pay-1", LinkedRef: ref}},
		Cheques:   []Cheque{{ID: "chq-1", LinkedRef: ref}},
		Movements: []inventory.Movement{{
			ID: "mov-1", ItemID: "itm-1", ItemName: "steel pipe",
			Direction: inventory.MovementExit, Quantity: dec("30"), LinkedRef: ref,
		}},
		Items: map[string]inventory.Item{
			"itm-1": {ID: "itm-1", Name: "steel pipe", Quantity: dec("70"), UnitPrice: dec("10.67")},
		},
		Now: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestComposeReversalRestoresExitQuantity(t *testing.T) {
	ws, err := ComposeReversal(reversalBundle())
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"ent-1", "ent-cogs"}, ws.DeleteEntryIDs)
	require.Equal(t, []string{"pay-1"}, ws.DeletePaymentIDs)
	require.Equal(t, []string{"chq-1"}, ws.DeleteChequeIDs)
	require.Equal(t, []string{"mov-1"}, ws.DeleteMovementIDs)

	require.Len(t, ws.ItemUpserts, 1)
	item := ws.ItemUpserts[0]
	require.True(t, item.Quantity.Equal(dec("100")))
	// Weighted-average cost is not rolled back.
	require.True(t, item.UnitPrice.Equal(dec("10.67")))
}

func TestComposeReversalEntryMovementSubtracts(t *testing.T) {
	b := reversalBundle()
	b.COGSEntry = nil
	b.Movements[0].Direction = inventory.MovementEntry
	b.Items["itm-1"] = inventory.Item{ID: "itm-1", Quantity: dec("100")}

	ws, err := ComposeReversal(b)
	require.NoError(t, err)
	require.True(t, ws.ItemUpserts[0].Quantity.Equal(dec("70")))
}

func TestComposeReversalNegativeQuantityIsFault(t *testing.T) {
	b := reversalBundle()
	b.Movements[0].Direction = inventory.MovementEntry
	b.Items["itm-1"] = inventory.Item{ID: "itm-1", Quantity: dec("10")}

	_, err := ComposeReversal(b)
	require.ErrorIs(t, err, shared.ErrDataIntegrity)
}

func TestComposeReversalMissingItemIsFault(t *testing.T) {
	b := reversalBundle()
	b.Items = nil

	_, err := ComposeReversal(b)
	require.ErrorIs(t, err, shared.ErrDataIntegrity)

	var fault *shared.IntegrityFault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, "inventory_item", fault.Entity)
}

func TestComposeReversalMultipleMovementsSameItem(t *testing.T) {
	b := reversalBundle()
	b.COGSEntry = nil
	b.Movements = append(b.Movements, inventory.Movement{
		ID: "mov-2", ItemID: "itm-1", Direction: inventory.MovementExit, Quantity: dec("5"),
	})

	ws, err := ComposeReversal(b)
	require.NoError(t, err)
	require.Len(t, ws.ItemUpserts, 1)
	require.True(t, ws.ItemUpserts[0].Quantity.Equal(dec("105")))
}
