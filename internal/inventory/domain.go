package inventory

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// MovementDirection enumerates stock movement directions.
type MovementDirection string

const (
	// MovementEntry represents stock received.
	MovementEntry MovementDirection = "entry"
	// MovementExit represents stock consumed.
	MovementExit MovementDirection = "exit"
)

// Item models a stock-keeping unit. ItemName is the natural key used by
// transaction riders; Quantity never goes negative and UnitPrice only
// changes on entry movements via weighted-average recomputation.
type Item struct {
	ID                string          `json:"id"`
	Name              string          `json:"item_name"`
	Category          string          `json:"category,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Dimensions        string          `json:"dimensions,omitempty"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
	LastPurchaseDate  time.Time       `json:"last_purchase_date"`
	MinStock          decimal.Decimal `json:"min_stock"`
	Location          string          `json:"location,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Movement records one stock change. Immutable once written; reversal
// reconstructs the inverse quantity delta from this record, never from
// the current item state alone.
type Movement struct {
	ID         string                `json:"id"`
	ItemID     string                `json:"item_id"`
	ItemName   string                `json:"item_name"`
	Direction  MovementDirection     `json:"direction"`
	Quantity   decimal.Decimal       `json:"quantity"`
	Dimensions string                `json:"dimensions,omitempty"`
	LinkedRef  shared.TransactionRef `json:"linked_ref"`
	CreatedAt  time.Time             `json:"created_at"`
}

// ErrItemNotFound indicates the named item does not exist.
var ErrItemNotFound = errors.New("inventory: item not found")

// ErrInsufficientStock triggered when an exit would drive quantity negative.
var ErrInsufficientStock = errors.New("inventory: insufficient stock")

// ErrInvalidQuantity indicates a non-positive movement quantity.
var ErrInvalidQuantity = errors.New("inventory: quantity must be positive")
