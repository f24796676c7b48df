package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// ErrAssetNotFound indicates the asset does not exist.
var ErrAssetNotFound = errors.New("assets: not found")

// Repository provides PostgreSQL backed read access to fixed assets.
// Asset creation happens inside ledger write-sets.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const assetColumns = `id, asset_name, purchase_amount, purchase_date, useful_life_years, salvage_value, method, annual_depreciation, accumulated_depreciation, book_value, linked_ref, status, created_at`

func scanAsset(row pgx.Row) (FixedAsset, error) {
	var a FixedAsset
	err := row.Scan(&a.ID, &a.Name, &a.PurchaseAmount, &a.PurchaseDate, &a.UsefulLifeYears,
		&a.SalvageValue, &a.Method, &a.AnnualDepreciation, &a.AccumulatedDepreciation,
		&a.BookValue, &a.LinkedRef, &a.Status, &a.CreatedAt)
	return a, err
}

// Get returns one asset by id.
func (r *Repository) Get(ctx context.Context, id string) (FixedAsset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM fixed_assets WHERE id = $1`, id)
	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FixedAsset{}, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
		}
		return FixedAsset{}, err
	}
	return a, nil
}

// List returns all assets ordered by purchase date.
func (r *Repository) List(ctx context.Context) ([]FixedAsset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+assetColumns+` FROM fixed_assets ORDER BY purchase_date, asset_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FixedAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByRef returns assets correlated to a transaction reference.
func (r *Repository) ListByRef(ctx context.Context, ref shared.TransactionRef) ([]FixedAsset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+assetColumns+` FROM fixed_assets WHERE linked_ref = $1`, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FixedAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
