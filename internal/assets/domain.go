package assets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// DepreciationMethod enumerates supported depreciation methods.
type DepreciationMethod string

const (
	// MethodStraightLine spreads cost minus salvage evenly over useful life.
	MethodStraightLine DepreciationMethod = "straight-line"
	// MethodDeclining applies a fixed 20% rate to purchase cost.
	MethodDeclining DepreciationMethod = "declining"
)

// AssetStatus enumerates asset lifecycle values.
type AssetStatus string

// StatusActive marks an asset still in service.
const StatusActive AssetStatus = "active"

// FixedAsset models a depreciable asset created alongside a ledger
// entry. The engine never mutates it after creation; depreciation
// posting happens elsewhere.
type FixedAsset struct {
	ID                      string                `json:"id"`
	Name                    string                `json:"asset_name"`
	PurchaseAmount          decimal.Decimal       `json:"purchase_amount"`
	PurchaseDate            time.Time             `json:"purchase_date"`
	UsefulLifeYears         int                   `json:"useful_life_years"`
	SalvageValue            decimal.Decimal       `json:"salvage_value"`
	Method                  DepreciationMethod    `json:"method"`
	AnnualDepreciation      decimal.Decimal       `json:"annual_depreciation"`
	AccumulatedDepreciation decimal.Decimal       `json:"accumulated_depreciation"`
	BookValue               decimal.Decimal       `json:"book_value"`
	LinkedRef               shared.TransactionRef `json:"linked_ref"`
	Status                  AssetStatus           `json:"status"`
	CreatedAt               time.Time             `json:"created_at"`
}
