package ledger

import (
	"time"

	"github.com/ledgerline/ledgerline/internal/assets"
	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// ReversalBundle is everything ComposeReversal needs: the parent entry,
// every dependent located by transaction reference, and the current
// state of each touched inventory item, all read under lock inside the
// transaction that will apply the reversal.
type ReversalBundle struct {
	Entry     LedgerEntry
	COGSEntry *LedgerEntry
	Payments  []Payment
	Cheques   []Cheque
	Movements []inventory.Movement
	Assets    []assets.FixedAsset
	Items     map[string]inventory.Item // keyed by item id
	Now       time.Time
}

// ComposeReversal produces the atomic write-set that undoes a posting:
// it deletes the ledger entry with all matched dependents and restores
// inventory quantities from the movement records. This is a logical
// inverse of composition, not a byte-for-byte undo; weighted-average
// cost is not rolled back because the purchases behind the current
// average are not individually tracked.
//
// A reversal that would drive an item's theoretical quantity negative
// is a data-integrity fault, never a silent clamp: it means the
// append-only correlation model was violated by a concurrent or
// inconsistent write.
func ComposeReversal(b ReversalBundle) (*WriteSet, error) {
	ws := &WriteSet{DeleteEntryIDs: []string{b.Entry.ID}}
	if b.COGSEntry != nil {
		ws.DeleteEntryIDs = append(ws.DeleteEntryIDs, b.COGSEntry.ID)
	}
	for _, p := range b.Payments {
		ws.DeletePaymentIDs = append(ws.DeletePaymentIDs, p.ID)
	}
	for _, c := range b.Cheques {
		ws.DeleteChequeIDs = append(ws.DeleteChequeIDs, c.ID)
	}
	for _, a := range b.Assets {
		ws.DeleteAssetIDs = append(ws.DeleteAssetIDs, a.ID)
	}

	// Quantity deltas are reconstructed from the immutable movement
	// records, never from the current item state alone.
	adjusted := make(map[string]inventory.Item, len(b.Items))
	for _, m := range b.Movements {
		item, ok := adjusted[m.ItemID]
		if !ok {
			item, ok = b.Items[m.ItemID]
			if !ok {
				return nil, &shared.IntegrityFault{
					Entity:   "inventory_item",
					EntityID: m.ItemID,
					Detail:   "movement references a missing item",
					Expected: "item present",
					Actual:   "absent",
				}
			}
		}
		switch m.Direction {
		case inventory.MovementEntry:
			next := item.Quantity.Sub(m.Quantity)
			if next.IsNegative() {
				return nil, &shared.IntegrityFault{
					Entity:   "inventory_item",
					EntityID: m.ItemID,
					Detail:   "reversing entry movement would drive quantity negative",
					Expected: "quantity >= " + m.Quantity.String(),
					Actual:   item.Quantity.String(),
				}
			}
			item.Quantity = next
		case inventory.MovementExit:
			item.Quantity = item.Quantity.Add(m.Quantity)
		}
		item.UpdatedAt = b.Now
		adjusted[m.ItemID] = item
		ws.DeleteMovementIDs = append(ws.DeleteMovementIDs, m.ID)
	}
	for _, item := range adjusted {
		ws.ItemUpserts = append(ws.ItemUpserts, item)
	}

	return ws, nil
}
