package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/assets"
	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Repository is the store adapter: PostgreSQL persistence for ledger
// entries and every dependent record type. A write-set is applied in
// one transaction, so dependents appear all together or not at all.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the transactional operations the service uses.
// Reads happen inside the same transaction that applies the write-set,
// which closes the read-then-write race on inventory quantities.
type TxRepository interface {
	GetEntryForUpdate(ctx context.Context, ref shared.TransactionRef) (LedgerEntry, error)
	GetChequeForUpdate(ctx context.Context, id string) (Cheque, error)
	GetItemByNameForUpdate(ctx context.Context, name string) (*inventory.Item, error)
	GetItemsForUpdate(ctx context.Context, ids []string) (map[string]inventory.Item, error)
	FindDependents(ctx context.Context, ref shared.TransactionRef) (Dependents, error)
	UpdateEntryTotals(ctx context.Context, id string, totals PaymentTotals) error
	UpdateChequeStatus(ctx context.Context, id string, status ChequeStatus) error
	InsertPayment(ctx context.Context, p Payment) error
	ApplyWriteSet(ctx context.Context, ws *WriteSet) error
}

// Dependents are the records correlated to one transaction reference.
type Dependents struct {
	Payments  []Payment
	Cheques   []Cheque
	Movements []inventory.Movement
	Assets    []assets.FixedAsset
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx runs fn inside a RepeatableRead transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const entryColumns = `id, txn_ref, entry_date, description, direction, amount, category, sub_category, associated_party, reference, notes, is_arap, total_paid, remaining_balance, payment_status, auto_generated, created_at`

func scanEntry(row pgx.Row) (LedgerEntry, error) {
	var e LedgerEntry
	err := row.Scan(&e.ID, &e.TxnRef, &e.Date, &e.Description, &e.Direction, &e.Amount,
		&e.Category, &e.SubCategory, &e.AssociatedParty, &e.Reference, &e.Notes,
		&e.IsARAP, &e.TotalPaid, &e.RemainingBalance, &e.PaymentStatus,
		&e.AutoGenerated, &e.CreatedAt)
	return e, err
}

// GetEntry returns one entry by its transaction reference.
func (r *Repository) GetEntry(ctx context.Context, ref shared.TransactionRef) (LedgerEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE txn_ref = $1`, ref)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LedgerEntry{}, ErrEntryNotFound
		}
		return LedgerEntry{}, err
	}
	return e, nil
}

// ListEntries returns entries ordered by date descending.
func (r *Repository) ListEntries(ctx context.Context, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM ledger_entries ORDER BY entry_date DESC, created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const paymentColumns = `id, party_name, amount, direction, linked_ref, method, paid_at, notes, is_endorsement, no_cash_movement, created_at`

// ListPaymentsByRef returns payments correlated to a transaction.
func (r *Repository) ListPaymentsByRef(ctx context.Context, ref shared.TransactionRef) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE linked_ref = $1 ORDER BY created_at`, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]Payment, error) {
	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.PartyName, &p.Amount, &p.Direction, &p.LinkedRef,
			&p.Method, &p.Date, &p.Notes, &p.IsEndorsement, &p.NoCashMovement, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

const chequeColumns = `id, cheque_number, party_name, amount, direction, kind, status, accounting_type, linked_ref, issue_date, due_date, bank_name, endorsed_to, created_at`

func scanCheque(row pgx.Row) (Cheque, error) {
	var c Cheque
	err := row.Scan(&c.ID, &c.ChequeNumber, &c.PartyName, &c.Amount, &c.Direction, &c.Kind,
		&c.Status, &c.AccountingType, &c.LinkedRef, &c.IssueDate, &c.DueDate,
		&c.BankName, &c.EndorsedTo, &c.CreatedAt)
	return c, err
}

// ListCheques returns cheques ordered by due date.
func (r *Repository) ListCheques(ctx context.Context) ([]Cheque, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+chequeColumns+` FROM cheques ORDER BY due_date, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cheques []Cheque
	for rows.Next() {
		c, err := scanCheque(rows)
		if err != nil {
			return nil, err
		}
		cheques = append(cheques, c)
	}
	return cheques, rows.Err()
}

func (t *txRepo) GetEntryForUpdate(ctx context.Context, ref shared.TransactionRef) (LedgerEntry, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE txn_ref = $1 FOR UPDATE`, ref)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LedgerEntry{}, ErrEntryNotFound
		}
		return LedgerEntry{}, err
	}
	return e, nil
}

func (t *txRepo) GetChequeForUpdate(ctx context.Context, id string) (Cheque, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+chequeColumns+` FROM cheques WHERE id = $1 FOR UPDATE`, id)
	c, err := scanCheque(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cheque{}, ErrChequeNotFound
		}
		return Cheque{}, err
	}
	return c, nil
}

const itemColumns = `id, item_name, category, quantity, unit, unit_price, dimensions, last_purchase_price, last_purchase_date, min_stock, location, created_at, updated_at`

func scanItemRow(row pgx.Row) (inventory.Item, error) {
	var it inventory.Item
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.UnitPrice,
		&it.Dimensions, &it.LastPurchasePrice, &it.LastPurchaseDate, &it.MinStock,
		&it.Location, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (t *txRepo) GetItemByNameForUpdate(ctx context.Context, name string) (*inventory.Item, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE item_name = $1 FOR UPDATE`, name)
	it, err := scanItemRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (t *txRepo) GetItemsForUpdate(ctx context.Context, ids []string) (map[string]inventory.Item, error) {
	items := make(map[string]inventory.Item, len(ids))
	for _, id := range ids {
		row := t.tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
		it, err := scanItemRow(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		items[it.ID] = it
	}
	return items, nil
}

func (t *txRepo) FindDependents(ctx context.Context, ref shared.TransactionRef) (Dependents, error) {
	return findDependents(ctx, t.tx, ref)
}

// FindDependents reads correlated records without row locks, for the
// read-only transaction views.
func (r *Repository) FindDependents(ctx context.Context, ref shared.TransactionRef) (Dependents, error) {
	return findDependents(ctx, r.pool, ref)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func findDependents(ctx context.Context, q querier, ref shared.TransactionRef) (Dependents, error) {
	var deps Dependents

	payRows, err := q.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE linked_ref = $1`, ref)
	if err != nil {
		return deps, err
	}
	deps.Payments, err = collectPayments(payRows)
	payRows.Close()
	if err != nil {
		return deps, err
	}

	chequeRows, err := q.Query(ctx, `SELECT `+chequeColumns+` FROM cheques WHERE linked_ref = $1`, ref)
	if err != nil {
		return deps, err
	}
	for chequeRows.Next() {
		c, err := scanCheque(chequeRows)
		if err != nil {
			chequeRows.Close()
			return deps, err
		}
		deps.Cheques = append(deps.Cheques, c)
	}
	chequeRows.Close()
	if err := chequeRows.Err(); err != nil {
		return deps, err
	}

	moveRows, err := q.Query(ctx,
		`SELECT id, item_id, item_name, direction, quantity, dimensions, linked_ref, created_at FROM inventory_movements WHERE linked_ref = $1`, ref)
	if err != nil {
		return deps, err
	}
	for moveRows.Next() {
		var m inventory.Movement
		if err := moveRows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.Direction, &m.Quantity, &m.Dimensions, &m.LinkedRef, &m.CreatedAt); err != nil {
			moveRows.Close()
			return deps, err
		}
		deps.Movements = append(deps.Movements, m)
	}
	moveRows.Close()
	if err := moveRows.Err(); err != nil {
		return deps, err
	}

	assetRows, err := q.Query(ctx,
		`SELECT id, asset_name, purchase_amount, purchase_date, useful_life_years, salvage_value, method, annual_depreciation, accumulated_depreciation, book_value, linked_ref, status, created_at FROM fixed_assets WHERE linked_ref = $1`, ref)
	if err != nil {
		return deps, err
	}
	for assetRows.Next() {
		var a assets.FixedAsset
		if err := assetRows.Scan(&a.ID, &a.Name, &a.PurchaseAmount, &a.PurchaseDate, &a.UsefulLifeYears,
			&a.SalvageValue, &a.Method, &a.AnnualDepreciation, &a.AccumulatedDepreciation,
			&a.BookValue, &a.LinkedRef, &a.Status, &a.CreatedAt); err != nil {
			assetRows.Close()
			return deps, err
		}
		deps.Assets = append(deps.Assets, a)
	}
	assetRows.Close()
	return deps, assetRows.Err()
}

func (t *txRepo) UpdateEntryTotals(ctx context.Context, id string, totals PaymentTotals) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE ledger_entries SET total_paid = $2, remaining_balance = $3, payment_status = $4 WHERE id = $1`,
		id, totals.TotalPaid, totals.RemainingBalance, totals.Status)
	return err
}

func (t *txRepo) UpdateChequeStatus(ctx context.Context, id string, status ChequeStatus) error {
	_, err := t.tx.Exec(ctx, `UPDATE cheques SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (t *txRepo) InsertPayment(ctx context.Context, p Payment) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.PartyName, p.Amount, p.Direction, p.LinkedRef, p.Method, p.Date, p.Notes,
		p.IsEndorsement, p.NoCashMovement, p.CreatedAt)
	return err
}

// ApplyWriteSet commits the composed mutations in order: parent
// entries, dependents, item upserts, then deletions.
func (t *txRepo) ApplyWriteSet(ctx context.Context, ws *WriteSet) error {
	if ws.Empty() {
		return nil
	}
	for _, e := range ws.Entries {
		if _, err := t.tx.Exec(ctx,
			`INSERT INTO ledger_entries (`+entryColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
			e.ID, e.TxnRef, e.Date, e.Description, e.Direction, e.Amount, e.Category, e.SubCategory,
			e.AssociatedParty, e.Reference, e.Notes, e.IsARAP, e.TotalPaid, e.RemainingBalance,
			e.PaymentStatus, e.AutoGenerated, e.CreatedAt); err != nil {
			return err
		}
	}
	for _, p := range ws.Payments {
		if err := t.InsertPayment(ctx, p); err != nil {
			return err
		}
	}
	for _, c := range ws.Cheques {
		if _, err := t.tx.Exec(ctx,
			`INSERT INTO cheques (`+chequeColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			c.ID, c.ChequeNumber, c.PartyName, c.Amount, c.Direction, c.Kind, c.Status,
			c.AccountingType, c.LinkedRef, c.IssueDate, c.DueDate, c.BankName, c.EndorsedTo, c.CreatedAt); err != nil {
			return err
		}
	}
	for _, m := range ws.Movements {
		if _, err := t.tx.Exec(ctx,
			`INSERT INTO inventory_movements (id, item_id, item_name, direction, quantity, dimensions, linked_ref, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			m.ID, m.ItemID, m.ItemName, m.Direction, m.Quantity, m.Dimensions, m.LinkedRef, m.CreatedAt); err != nil {
			return err
		}
	}
	for _, it := range ws.ItemUpserts {
		if _, err := t.tx.Exec(ctx,
			`INSERT INTO inventory_items (`+itemColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			 ON CONFLICT (id) DO UPDATE SET
			   quantity = EXCLUDED.quantity,
			   unit_price = EXCLUDED.unit_price,
			   last_purchase_price = EXCLUDED.last_purchase_price,
			   last_purchase_date = EXCLUDED.last_purchase_date,
			   updated_at = EXCLUDED.updated_at`,
			it.ID, it.Name, it.Category, it.Quantity, it.Unit, it.UnitPrice, it.Dimensions,
			it.LastPurchasePrice, it.LastPurchaseDate, it.MinStock, it.Location, it.CreatedAt, it.UpdatedAt); err != nil {
			return err
		}
	}
	for _, a := range ws.Assets {
		if _, err := t.tx.Exec(ctx,
			`INSERT INTO fixed_assets (id, asset_name, purchase_amount, purchase_date, useful_life_years, salvage_value, method, annual_depreciation, accumulated_depreciation, book_value, linked_ref, status, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			a.ID, a.Name, a.PurchaseAmount, a.PurchaseDate, a.UsefulLifeYears, a.SalvageValue,
			a.Method, a.AnnualDepreciation, a.AccumulatedDepreciation, a.BookValue, a.LinkedRef,
			a.Status, a.CreatedAt); err != nil {
			return err
		}
	}

	deletions := []struct {
		query string
		ids   []string
	}{
		{`DELETE FROM inventory_movements WHERE id = ANY($1)`, ws.DeleteMovementIDs},
		{`DELETE FROM payments WHERE id = ANY($1)`, ws.DeletePaymentIDs},
		{`DELETE FROM cheques WHERE id = ANY($1)`, ws.DeleteChequeIDs},
		{`DELETE FROM fixed_assets WHERE id = ANY($1)`, ws.DeleteAssetIDs},
		{`DELETE FROM ledger_entries WHERE id = ANY($1)`, ws.DeleteEntryIDs},
	}
	for _, d := range deletions {
		if len(d.ids) == 0 {
			continue
		}
		if _, err := t.tx.Exec(ctx, d.query, d.ids); err != nil {
			return err
		}
	}
	return nil
}
