package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/assets"
	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/money"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// EntryInput is a user-submitted financial event before composition.
type EntryInput struct {
	Date            time.Time
	Description     string
	Direction       Direction
	Amount          decimal.Decimal
	Category        string
	SubCategory     string
	AssociatedParty string
	Reference       string
	Notes           string
}

// ChequeRider describes an incoming or outgoing cheque attached to a
// submission.
type ChequeRider struct {
	ChequeNumber   string
	PartyName      string
	Amount         decimal.Decimal
	AccountingType AccountingType
	IssueDate      time.Time
	DueDate        time.Time
	BankName       string
	EndorsedTo     string
}

// InitialPaymentRider records a partial cash payment made up front.
type InitialPaymentRider struct {
	Amount decimal.Decimal
	Method string
	Notes  string
}

// InventoryRider describes the stock effect of a submission.
type InventoryRider struct {
	ItemName     string
	Direction    inventory.MovementDirection
	Quantity     decimal.Decimal
	Unit         string
	Category     string
	Dimensions   string
	Location     string
	MinStock     decimal.Decimal
	ShippingCost decimal.Decimal
	OtherCosts   decimal.Decimal
}

// FixedAssetRider registers a depreciable asset purchased by the entry.
type FixedAssetRider struct {
	AssetName       string
	PurchaseAmount  decimal.Decimal
	SalvageValue    decimal.Decimal
	UsefulLifeYears int
	Method          assets.DepreciationMethod
}

// Riders is the optional configuration attached to a submission. Each
// rider is independently toggleable; combinations not rejected by the
// composer's validation rules are legal.
type Riders struct {
	IncomingCheque      *ChequeRider
	OutgoingCheque      *ChequeRider
	InitialPayment      *InitialPaymentRider
	Inventory           *InventoryRider
	FixedAsset          *FixedAssetRider
	TrackARAP           bool
	ImmediateSettlement bool
}

// Snapshot carries the store state the composer needs: the current row
// of the item named by the inventory rider, read under lock inside the
// same transaction that will apply the write-set.
type Snapshot struct {
	Item *inventory.Item
}

// Composer turns a submission into the atomic write-set that records
// it: the ledger entry plus every dependent record the riders demand.
// Pure apart from id and clock acquisition; it performs no store
// access.
type Composer struct {
	now    func() time.Time
	newID  func() string
	newRef func(time.Time) shared.TransactionRef
}

// NewComposer builds a Composer with production clock and id sources.
func NewComposer() *Composer {
	return &Composer{now: time.Now, newID: uuid.NewString, newRef: shared.NewTransactionRef}
}

// WithClock overrides time and id sources for tests.
func (c *Composer) WithClock(now func() time.Time, newID func() string) *Composer {
	if now != nil {
		c.now = now
	}
	if newID != nil {
		c.newID = newID
	}
	return c
}

// Compose validates the submission and produces its write-set. All
// cross-field constraints are checked before the first record is
// emitted; any failure aborts the whole composition.
func (c *Composer) Compose(entry EntryInput, riders Riders, snap Snapshot) (*WriteSet, error) {
	if err := c.validate(entry, riders, snap); err != nil {
		return nil, err
	}

	now := c.now().UTC()
	ref := c.newRef(now)
	mode := ResolveSettlement(riders)

	parent := LedgerEntry{
		ID:              c.newID(),
		TxnRef:          ref,
		Date:            entry.Date,
		Description:     entry.Description,
		Direction:       entry.Direction,
		Amount:          money.Round2(entry.Amount),
		Category:        entry.Category,
		SubCategory:     entry.SubCategory,
		AssociatedParty: entry.AssociatedParty,
		Reference:       entry.Reference,
		Notes:           entry.Notes,
		CreatedAt:       now,
	}
	if riders.TrackARAP {
		parent.IsARAP = true
		parent.TotalPaid = money.Round2(initialTotalPaid(mode, riders, parent.Amount))
		parent.RemainingBalance = money.Sub(parent.Amount, parent.TotalPaid)
		parent.PaymentStatus = CalculateStatus(parent.TotalPaid, parent.Amount)
	}

	ws := &WriteSet{Entries: []LedgerEntry{parent}}

	if cash := settlementCashPortion(mode, riders, parent.Amount); cash.IsPositive() {
		method := "cash"
		notes := ""
		if mode == SettleInitialPayment {
			if riders.InitialPayment.Method != "" {
				method = riders.InitialPayment.Method
			}
			notes = riders.InitialPayment.Notes
		}
		dir := Receipt
		if entry.Direction == DirectionExpense {
			dir = Disbursement
		}
		ws.Payments = append(ws.Payments, Payment{
			ID:        c.newID(),
			PartyName: entry.AssociatedParty,
			Amount:    money.Round2(cash),
			Direction: dir,
			LinkedRef: ref,
			Method:    method,
			Date:      entry.Date,
			Notes:     notes,
			CreatedAt: now,
		})
	}

	if riders.IncomingCheque != nil {
		if err := c.appendCheque(ws, *riders.IncomingCheque, ChequeIncoming, ref, now); err != nil {
			return nil, err
		}
	}
	if riders.OutgoingCheque != nil {
		if err := c.appendCheque(ws, *riders.OutgoingCheque, ChequeOutgoing, ref, now); err != nil {
			return nil, err
		}
	}

	if riders.Inventory != nil {
		if err := c.appendInventory(ws, entry, *riders.Inventory, snap.Item, ref, now); err != nil {
			return nil, err
		}
	}

	if riders.FixedAsset != nil {
		c.appendAsset(ws, entry, *riders.FixedAsset, ref, now)
	}

	return ws, nil
}

func (c *Composer) validate(entry EntryInput, riders Riders, snap Snapshot) error {
	if entry.Direction != DirectionIncome && entry.Direction != DirectionExpense {
		return validationErr("unknown entry direction %q", entry.Direction)
	}
	if !entry.Amount.IsPositive() {
		return validationErr("entry amount must be positive")
	}
	if riders.TrackARAP && riders.ImmediateSettlement && riders.IncomingCheque != nil {
		if riders.IncomingCheque.Amount.GreaterThan(entry.Amount) {
			return validationErr("cheque amount %s exceeds entry amount %s",
				riders.IncomingCheque.Amount, entry.Amount)
		}
	}
	if p := riders.InitialPayment; p != nil {
		if !p.Amount.IsPositive() {
			return validationErr("initial payment must be positive")
		}
		if p.Amount.GreaterThan(entry.Amount) {
			return validationErr("initial payment %s exceeds entry amount %s", p.Amount, entry.Amount)
		}
	}
	for _, cr := range []*ChequeRider{riders.IncomingCheque, riders.OutgoingCheque} {
		if cr == nil {
			continue
		}
		if !cr.Amount.IsPositive() {
			return validationErr("cheque amount must be positive")
		}
		if cr.AccountingType == AccountingEndorsed && cr.EndorsedTo == "" {
			return validationErr("endorsed cheque requires an endorsed-to name")
		}
	}
	if inv := riders.Inventory; inv != nil {
		if inv.ItemName == "" {
			return validationErr("inventory rider requires an item name")
		}
		if !inv.Quantity.IsPositive() {
			return validationErr("inventory quantity must be positive")
		}
		if inv.Direction == inventory.MovementExit {
			if snap.Item == nil {
				return validationErr("inventory exit for unknown item %q", inv.ItemName)
			}
			if inv.Quantity.GreaterThan(snap.Item.Quantity) {
				return validationErr("inventory exit of %s exceeds stock %s for %q",
					inv.Quantity, snap.Item.Quantity, inv.ItemName)
			}
		}
	}
	if fa := riders.FixedAsset; fa != nil {
		if fa.AssetName == "" {
			return validationErr("fixed asset rider requires an asset name")
		}
		if fa.UsefulLifeYears <= 0 {
			return validationErr("fixed asset useful life must be positive")
		}
	}
	return nil
}

func (c *Composer) appendCheque(ws *WriteSet, rider ChequeRider, dir ChequeDirection, ref shared.TransactionRef, now time.Time) error {
	kind := ChequeKindNormal
	if rider.AccountingType == AccountingEndorsed {
		kind = ChequeKindEndorsed
	}
	cheque := Cheque{
		ID:             c.newID(),
		ChequeNumber:   rider.ChequeNumber,
		PartyName:      rider.PartyName,
		Amount:         money.Round2(rider.Amount),
		Direction:      dir,
		Kind:           kind,
		AccountingType: rider.AccountingType,
		LinkedRef:      ref,
		IssueDate:      rider.IssueDate,
		DueDate:        rider.DueDate,
		BankName:       rider.BankName,
		EndorsedTo:     rider.EndorsedTo,
		CreatedAt:      now,
	}
	plan, err := PlanCheque(cheque)
	if err != nil {
		return err
	}
	cheque.Status = plan.Status
	ws.Cheques = append(ws.Cheques, cheque)
	for _, p := range plan.Payments {
		p.ID = c.newID()
		p.CreatedAt = now
		ws.Payments = append(ws.Payments, p)
	}
	return nil
}

func (c *Composer) appendInventory(ws *WriteSet, entry EntryInput, rider InventoryRider, item *inventory.Item, ref shared.TransactionRef, now time.Time) error {
	switch rider.Direction {
	case inventory.MovementEntry:
		landed := inventory.LandedUnitCost(entry.Amount, rider.ShippingCost, rider.OtherCosts, rider.Quantity)
		if item == nil {
			created := inventory.Item{
				ID:                c.newID(),
				Name:              rider.ItemName,
				Category:          rider.Category,
				Quantity:          rider.Quantity,
				Unit:              rider.Unit,
				UnitPrice:         landed,
				Dimensions:        rider.Dimensions,
				LastPurchasePrice: landed,
				LastPurchaseDate:  entry.Date,
				MinStock:          rider.MinStock,
				Location:          rider.Location,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			ws.ItemUpserts = append(ws.ItemUpserts, created)
			item = &created
		} else {
			updated := *item
			updated.UnitPrice = inventory.WeightedAverageCost(item.Quantity, item.UnitPrice, rider.Quantity, landed)
			updated.Quantity = item.Quantity.Add(rider.Quantity)
			updated.LastPurchasePrice = landed
			updated.LastPurchaseDate = entry.Date
			updated.UpdatedAt = now
			ws.ItemUpserts = append(ws.ItemUpserts, updated)
			item = &updated
		}

	case inventory.MovementExit:
		// Cost the sale at the pre-exit weighted average; exits never
		// change the unit price.
		if entry.Direction == DirectionIncome {
			cogs := inventory.COGS(rider.Quantity, item.UnitPrice)
			ws.Entries = append(ws.Entries, LedgerEntry{
				ID:            c.newID(),
				TxnRef:        ref.COGSRef(),
				Date:          entry.Date,
				Description:   "Cost of goods sold - " + rider.ItemName,
				Direction:     DirectionExpense,
				Amount:        cogs,
				Category:      "cost of goods sold",
				AutoGenerated: true,
				CreatedAt:     now,
			})
		}
		updated := *item
		updated.Quantity = item.Quantity.Sub(rider.Quantity)
		updated.UpdatedAt = now
		ws.ItemUpserts = append(ws.ItemUpserts, updated)
		item = &updated

	default:
		return validationErr("unknown inventory direction %q", rider.Direction)
	}

	ws.Movements = append(ws.Movements, inventory.Movement{
		ID:         c.newID(),
		ItemID:     item.ID,
		ItemName:   rider.ItemName,
		Direction:  rider.Direction,
		Quantity:   rider.Quantity,
		Dimensions: rider.Dimensions,
		LinkedRef:  ref,
		CreatedAt:  now,
	})
	return nil
}

func (c *Composer) appendAsset(ws *WriteSet, entry EntryInput, rider FixedAssetRider, ref shared.TransactionRef, now time.Time) {
	purchase := rider.PurchaseAmount
	if purchase.IsZero() {
		purchase = entry.Amount
	}
	purchase = money.Round2(purchase)
	method := rider.Method
	if method == "" {
		method = assets.MethodStraightLine
	}
	ws.Assets = append(ws.Assets, assets.FixedAsset{
		ID:                 c.newID(),
		Name:               rider.AssetName,
		PurchaseAmount:     purchase,
		PurchaseDate:       entry.Date,
		UsefulLifeYears:    rider.UsefulLifeYears,
		SalvageValue:       money.Round2(rider.SalvageValue),
		Method:             method,
		AnnualDepreciation: assets.AnnualDepreciation(method, purchase, rider.SalvageValue, rider.UsefulLifeYears),
		BookValue:          purchase,
		LinkedRef:          ref,
		Status:             assets.StatusActive,
		CreatedAt:          now,
	})
}
