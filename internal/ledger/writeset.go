package ledger

import (
	"github.com/ledgerline/ledgerline/internal/assets"
	"github.com/ledgerline/ledgerline/internal/inventory"
)

// WriteSet is the full group of record mutations that must be committed
// as one atomic unit. The store adapter applies sections in a fixed
// order: parent entries, then dependent records, then item updates,
// then deletions. Composition never partially emits; a validation
// failure yields no write-set at all.
type WriteSet struct {
	Entries     []LedgerEntry
	Payments    []Payment
	Cheques     []Cheque
	Movements   []inventory.Movement
	ItemUpserts []inventory.Item
	Assets      []assets.FixedAsset

	DeleteEntryIDs    []string
	DeletePaymentIDs  []string
	DeleteChequeIDs   []string
	DeleteMovementIDs []string
	DeleteAssetIDs    []string
}

// Empty reports whether the write-set holds no mutations.
func (ws *WriteSet) Empty() bool {
	if ws == nil {
		return true
	}
	return len(ws.Entries) == 0 && len(ws.Payments) == 0 && len(ws.Cheques) == 0 &&
		len(ws.Movements) == 0 && len(ws.ItemUpserts) == 0 && len(ws.Assets) == 0 &&
		len(ws.DeleteEntryIDs) == 0 && len(ws.DeletePaymentIDs) == 0 &&
		len(ws.DeleteChequeIDs) == 0 && len(ws.DeleteMovementIDs) == 0 &&
		len(ws.DeleteAssetIDs) == 0
}
