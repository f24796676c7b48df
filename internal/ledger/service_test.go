package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/assets"
	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// fakeStore keeps everything in maps and satisfies both StorePort and
// TxRepository; WithTx hands the store back as the transaction.
type fakeStore struct {
	entries   map[string]LedgerEntry
	payments  map[string]Payment
	cheques   map[string]Cheque
	movements map[string]inventory.Movement
	items     map[string]inventory.Item
	assets    map[string]assets.FixedAsset
	txCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:   map[string]LedgerEntry{},
		payments:  map[string]Payment{},
		cheques:   map[string]Cheque{},
		movements: map[string]inventory.Movement{},
		items:     map[string]inventory.Item{},
		assets:    map[string]assets.FixedAsset{},
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	f.txCalls++
	return fn(ctx, f)
}

func (f *fakeStore) GetEntry(_ context.Context, ref shared.TransactionRef) (LedgerEntry, error) {
	for _, e := range f.entries {
		if e.TxnRef == ref {
			return e, nil
		}
	}
	return LedgerEntry{}, ErrEntryNotFound
}

func (f *fakeStore) GetEntryForUpdate(ctx context.Context, ref shared.TransactionRef) (LedgerEntry, error) {
	return f.GetEntry(ctx, ref)
}

func (f *fakeStore) ListEntries(context.Context, int) ([]LedgerEntry, error) {
	var out []LedgerEntry
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) ListPaymentsByRef(_ context.Context, ref shared.TransactionRef) ([]Payment, error) {
	var out []Payment
	for _, p := range f.payments {
		if p.LinkedRef == ref {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCheques(context.Context) ([]Cheque, error) {
	var out []Cheque
	for _, c := range f.cheques {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) GetChequeForUpdate(_ context.Context, id string) (Cheque, error) {
	c, ok := f.cheques[id]
	if !ok {
		return Cheque{}, ErrChequeNotFound
	}
	return c, nil
}

func (f *fakeStore) GetItemByNameForUpdate(_ context.Context, name string) (*inventory.Item, error) {
	for _, it := range f.items {
		if it.Name == name {
			item := it
			return &item, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetItemsForUpdate(_ context.Context, ids []string) (map[string]inventory.Item, error) {
	out := map[string]inventory.Item{}
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}

func (f *fakeStore) FindDependents(_ context.Context, ref shared.TransactionRef) (Dependents, error) {
	var deps Dependents
	for _, p := range f.payments {
		if p.LinkedRef == ref {
			deps.Payments = append(deps.Payments, p)
		}
	}
	for _, c := range f.cheques {
		if c.LinkedRef == ref {
			deps.Cheques = append(deps.Cheques, c)
		}
	}
	for _, m := range f.movements {
		if m.LinkedRef == ref {
			deps.Movements = append(deps.Movements, m)
		}
	}
	for _, a := range f.assets {
		if a.LinkedRef == ref {
			deps.Assets = append(deps.Assets, a)
		}
	}
	return deps, nil
}

func (f *fakeStore) UpdateEntryTotals(_ context.Context, id string, totals PaymentTotals) error {
	e, ok := f.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	e.TotalPaid = totals.TotalPaid
	e.RemainingBalance = totals.RemainingBalance
	e.PaymentStatus = totals.Status
	f.entries[id] = e
	return nil
}

func (f *fakeStore) UpdateChequeStatus(_ context.Context, id string, status ChequeStatus) error {
	c, ok := f.cheques[id]
	if !ok {
		return ErrChequeNotFound
	}
	c.Status = status
	f.cheques[id] = c
	return nil
}

func (f *fakeStore) InsertPayment(_ context.Context, p Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakeStore) ApplyWriteSet(_ context.Context, ws *WriteSet) error {
	for _, e := range ws.Entries {
		f.entries[e.ID] = e
	}
	for _, p := range ws.Payments {
		f.payments[p.ID] = p
	}
	for _, c := range ws.Cheques {
		f.cheques[c.ID] = c
	}
	for _, m := range ws.Movements {
		f.movements[m.ID] = m
	}
	for _, it := range ws.ItemUpserts {
		f.items[it.ID] = it
	}
	for _, a := range ws.Assets {
		f.assets[a.ID] = a
	}
	for _, id := range ws.DeleteMovementIDs {
		delete(f.movements, id)
	}
	for _, id := range ws.DeletePaymentIDs {
		delete(f.payments, id)
	}
	for _, id := range ws.DeleteChequeIDs {
		delete(f.cheques, id)
	}
	for _, id := range ws.DeleteAssetIDs {
		delete(f.assets, id)
	}
	for _, id := range ws.DeleteEntryIDs {
		delete(f.entries, id)
	}
	return nil
}

type fakeIdem struct {
	keys map[string]bool
}

func (f *fakeIdem) Reserve(_ context.Context, key, _ string) error {
	if f.keys[key] {
		return shared.ErrIdempotencyConflict
	}
	f.keys[key] = true
	return nil
}

func (f *fakeIdem) Release(_ context.Context, key string) error {
	delete(f.keys, key)
	return nil
}

func testService(store *fakeStore) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, testComposer(), nil, &fakeIdem{keys: map[string]bool{}}, logger)
}

func TestServiceRecordTransaction(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	riders := Riders{
		TrackARAP:           true,
		ImmediateSettlement: true,
		IncomingCheque: &ChequeRider{
			ChequeNumber:   "CHQ-881",
			PartyName:      "Acme Trading",
			Amount:         dec("400"),
			AccountingType: AccountingPostponed,
		},
	}
	txn, err := svc.RecordTransaction(context.Background(), testEntry(DirectionIncome, "1000"), riders, "")
	require.NoError(t, err)

	require.True(t, txn.Entry.TotalPaid.Equal(dec("600")))
	require.Equal(t, StatusPartial, txn.Entry.PaymentStatus)

	stored, err := store.GetEntry(context.Background(), txn.Entry.TxnRef)
	require.NoError(t, err)
	require.Equal(t, txn.Entry.ID, stored.ID)
	require.Len(t, store.payments, 1)
	require.Len(t, store.cheques, 1)
}

func TestServiceRecordTransactionValidationWritesNothing(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	riders := Riders{
		Inventory: &InventoryRider{ItemName: "steel pipe", Direction: inventory.MovementExit, Quantity: dec("5")},
	}
	_, err := svc.RecordTransaction(context.Background(), testEntry(DirectionIncome, "500"), riders, "")
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Empty(t, store.entries)
	require.Empty(t, store.movements)
}

func TestServiceRecordTransactionIdempotency(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	_, err := svc.RecordTransaction(context.Background(), testEntry(DirectionIncome, "1000"), Riders{}, "key-1")
	require.NoError(t, err)

	_, err = svc.RecordTransaction(context.Background(), testEntry(DirectionIncome, "1000"), Riders{}, "key-1")
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
	require.Len(t, store.entries, 1)
}

func TestServiceDeleteTransactionRestoresInventory(t *testing.T) {
	store := newFakeStore()
	store.items["itm-1"] = inventory.Item{ID: "itm-1", Name: "steel pipe", Quantity: dec("100"), UnitPrice: dec("10.67")}
	svc := testService(store)

	riders := Riders{
		Inventory: &InventoryRider{ItemName: "steel pipe", Direction: inventory.MovementExit, Quantity: dec("30")},
	}
	txn, err := svc.RecordTransaction(context.Background(), testEntry(DirectionIncome, "900"), riders, "")
	require.NoError(t, err)
	require.NotNil(t, txn.COGSEntry)
	require.True(t, store.items["itm-1"].Quantity.Equal(dec("70")))

	require.NoError(t, svc.DeleteTransaction(context.Background(), txn.Entry.TxnRef, ""))

	require.Empty(t, store.entries, "parent and cost entries removed")
	require.Empty(t, store.movements)
	require.True(t, store.items["itm-1"].Quantity.Equal(dec("100")))
}

func TestServiceDeleteTransactionUnknownRef(t *testing.T) {
	svc := testService(newFakeStore())
	err := svc.DeleteTransaction(context.Background(), shared.TransactionRef("TXN-20250314-092653-001"), "")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceDeleteTransactionOrphanedDependentsIsFault(t *testing.T) {
	store := newFakeStore()
	ref := shared.TransactionRef("TXN-20250314-092653-001")
	store.payments["pay-1"] = Payment{ID: "pay-1", LinkedRef: ref, Amount: dec("100")}
	svc := testService(store)

	err := svc.DeleteTransaction(context.Background(), ref, "")
	require.ErrorIs(t, err, shared.ErrDataIntegrity)
}

func TestServiceAddPaymentOverpayment(t *testing.T) {
	store := newFakeStore()
	ref := shared.TransactionRef("TXN-20250314-092653-001")
	store.entries["ent-1"] = LedgerEntry{
		ID: "ent-1", TxnRef: ref, Direction: DirectionIncome, Amount: dec("1000"),
		IsARAP: true, TotalPaid: dec("800"), RemainingBalance: dec("200"),
		PaymentStatus: StatusPartial, AssociatedParty: "Acme Trading",
	}
	svc := testService(store)

	res, err := svc.AddPayment(context.Background(), ref, dec("500"), "cash", "", "")
	require.NoError(t, err)
	require.NotNil(t, res.Warning)
	require.True(t, res.Totals.TotalPaid.Equal(dec("1300")))
	require.True(t, res.Totals.RemainingBalance.Equal(dec("-300")))
	require.Equal(t, StatusPaid, res.Totals.Status)

	// The overpayment is recorded, not rejected.
	require.Len(t, store.payments, 1)
	require.True(t, store.entries["ent-1"].TotalPaid.Equal(dec("1300")))
}

func TestServiceAddPaymentNonARAPEntry(t *testing.T) {
	store := newFakeStore()
	ref := shared.TransactionRef("TXN-20250314-092653-001")
	store.entries["ent-1"] = LedgerEntry{ID: "ent-1", TxnRef: ref, Direction: DirectionIncome, Amount: dec("1000")}
	svc := testService(store)

	_, err := svc.AddPayment(context.Background(), ref, dec("100"), "", "", "")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestServiceClearCheque(t *testing.T) {
	store := newFakeStore()
	ref := shared.TransactionRef("TXN-20250314-092653-001")
	store.entries["ent-1"] = LedgerEntry{
		ID: "ent-1", TxnRef: ref, Direction: DirectionIncome, Amount: dec("1000"),
		IsARAP: true, TotalPaid: dec("600"), RemainingBalance: dec("400"), PaymentStatus: StatusPartial,
	}
	store.cheques["chq-1"] = Cheque{
		ID: "chq-1", ChequeNumber: "CHQ-881", PartyName: "Acme Trading", Amount: dec("400"),
		Direction: ChequeIncoming, Status: ChequePending, AccountingType: AccountingPostponed, LinkedRef: ref,
	}
	svc := testService(store)

	res, err := svc.ClearCheque(context.Background(), "chq-1", "")
	require.NoError(t, err)
	require.Equal(t, ChequeCleared, res.Cheque.Status)
	require.NotNil(t, res.Totals)
	require.Equal(t, StatusPaid, res.Totals.Status)
	require.Nil(t, res.Warning)

	require.Equal(t, ChequeCleared, store.cheques["chq-1"].Status)
	require.True(t, store.entries["ent-1"].TotalPaid.Equal(dec("1000")))
	require.Len(t, store.payments, 1)
	for _, p := range store.payments {
		require.Equal(t, Receipt, p.Direction)
		require.Equal(t, "cheque", p.Method)
	}
}

func TestServiceClearChequeNotClearable(t *testing.T) {
	store := newFakeStore()
	store.cheques["chq-1"] = Cheque{ID: "chq-1", Status: ChequeCleared, AccountingType: AccountingCashed, Amount: dec("400")}
	svc := testService(store)

	_, err := svc.ClearCheque(context.Background(), "chq-1", "")
	require.ErrorIs(t, err, ErrChequeNotClearable)
}

func TestServiceGetTransaction(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	riders := Riders{
		FixedAsset: &FixedAssetRider{AssetName: "delivery truck", UsefulLifeYears: 5},
	}
	recorded, err := svc.RecordTransaction(context.Background(), testEntry(DirectionExpense, "25000"), riders, "")
	require.NoError(t, err)

	txn, err := svc.GetTransaction(context.Background(), recorded.Entry.TxnRef)
	require.NoError(t, err)
	require.Equal(t, recorded.Entry.ID, txn.Entry.ID)
	require.Len(t, txn.Assets, 1)
}

func TestServiceGetTransactionReadsOutsideTransaction(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	recorded, err := svc.RecordTransaction(context.Background(), testEntry(DirectionIncome, "1000"), Riders{}, "")
	require.NoError(t, err)
	writes := store.txCalls

	_, err = svc.GetTransaction(context.Background(), recorded.Entry.TxnRef)
	require.NoError(t, err)
	require.Equal(t, writes, store.txCalls)
}

type fakeMetrics struct {
	actions []string
}

func (f *fakeMetrics) CountMutation(action string) {
	f.actions = append(f.actions, action)
}

func TestServiceCountsMutations(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	metrics := &fakeMetrics{}
	svc.SetMetrics(metrics)

	recorded, err := svc.RecordTransaction(context.Background(), testEntry(DirectionIncome, "1000"), Riders{TrackARAP: true}, "")
	require.NoError(t, err)
	_, err = svc.AddPayment(context.Background(), recorded.Entry.TxnRef, dec("250"), "cash", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTransaction(context.Background(), recorded.Entry.TxnRef, ""))

	require.Equal(t, []string{"transaction.record", "payment.add", "transaction.delete"}, metrics.actions)
}
