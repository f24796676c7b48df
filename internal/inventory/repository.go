package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Repository provides PostgreSQL backed read access to inventory.
// Item mutations only happen inside ledger write-sets, so the write
// path lives with the ledger store adapter.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = `id, item_name, category, quantity, unit, unit_price, dimensions, last_purchase_price, last_purchase_date, min_stock, location, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.UnitPrice,
		&it.Dimensions, &it.LastPurchasePrice, &it.LastPurchaseDate, &it.MinStock,
		&it.Location, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// GetItemByName looks an item up by its natural key.
func (r *Repository) GetItemByName(ctx context.Context, name string) (Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE item_name = $1`, name)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, name)
		}
		return Item{}, err
	}
	return it, nil
}

// ListItems returns all items ordered by name.
func (r *Repository) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY item_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListLowStock returns items with quantity below their minimum stock level.
func (r *Repository) ListLowStock(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE quantity < min_stock ORDER BY item_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListMovementsByRef returns the movements correlated to a transaction.
func (r *Repository) ListMovementsByRef(ctx context.Context, ref shared.TransactionRef) ([]Movement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, item_id, item_name, direction, quantity, dimensions, linked_ref, created_at
		 FROM inventory_movements WHERE linked_ref = $1 ORDER BY created_at`, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.Direction, &m.Quantity, &m.Dimensions, &m.LinkedRef, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
