package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/assets"
	"github.com/ledgerline/ledgerline/internal/inventory"
)

type chequeRequest struct {
	ChequeNumber   string          `json:"cheque_number" validate:"required"`
	PartyName      string          `json:"party_name" validate:"required"`
	Amount         decimal.Decimal `json:"amount"`
	AccountingType string          `json:"accounting_type" validate:"required,oneof=cashed postponed endorsed"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        time.Time       `json:"due_date"`
	BankName       string          `json:"bank_name"`
	EndorsedTo     string          `json:"endorsed_to"`
}

type initialPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Notes  string          `json:"notes"`
}

type inventoryRequest struct {
	ItemName     string          `json:"item_name" validate:"required"`
	Direction    string          `json:"direction" validate:"required,oneof=entry exit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Category     string          `json:"category"`
	Dimensions   string          `json:"dimensions"`
	Location     string          `json:"location"`
	MinStock     decimal.Decimal `json:"min_stock"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	OtherCosts   decimal.Decimal `json:"other_costs"`
}

type fixedAssetRequest struct {
	AssetName       string          `json:"asset_name" validate:"required"`
	PurchaseAmount  decimal.Decimal `json:"purchase_amount"`
	SalvageValue    decimal.Decimal `json:"salvage_value"`
	UsefulLifeYears int             `json:"useful_life_years" validate:"gt=0"`
	Method          string          `json:"method" validate:"omitempty,oneof=straight-line declining"`
}

type recordTransactionRequest struct {
	Date                time.Time              `json:"date"`
	Description         string                 `json:"description" validate:"required"`
	Direction           string                 `json:"direction" validate:"required,oneof=income expense"`
	Amount              decimal.Decimal        `json:"amount"`
	Category            string                 `json:"category"`
	SubCategory         string                 `json:"sub_category"`
	AssociatedParty     string                 `json:"associated_party"`
	Reference           string                 `json:"reference"`
	Notes               string                 `json:"notes"`
	TrackBalance        bool                   `json:"track_balance"`
	ImmediateSettlement bool                   `json:"immediate_settlement"`
	IncomingCheque      *chequeRequest         `json:"incoming_cheque"`
	OutgoingCheque      *chequeRequest         `json:"outgoing_cheque"`
	InitialPayment      *initialPaymentRequest `json:"initial_payment"`
	Inventory           *inventoryRequest      `json:"inventory"`
	FixedAsset          *fixedAssetRequest     `json:"fixed_asset"`
}

func (r recordTransactionRequest) toInput() EntryInput {
	date := r.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return EntryInput{
		Date:            date,
		Description:     r.Description,
		Direction:       Direction(r.Direction),
		Amount:          r.Amount,
		Category:        r.Category,
		SubCategory:     r.SubCategory,
		AssociatedParty: r.AssociatedParty,
		Reference:       r.Reference,
		Notes:           r.Notes,
	}
}

func (r recordTransactionRequest) toRiders() Riders {
	riders := Riders{
		TrackARAP:           r.TrackBalance,
		ImmediateSettlement: r.ImmediateSettlement,
	}
	if c := r.IncomingCheque; c != nil {
		riders.IncomingCheque = c.toRider()
	}
	if c := r.OutgoingCheque; c != nil {
		riders.OutgoingCheque = c.toRider()
	}
	if p := r.InitialPayment; p != nil {
		riders.InitialPayment = &InitialPaymentRider{Amount: p.Amount, Method: p.Method, Notes: p.Notes}
	}
	if inv := r.Inventory; inv != nil {
		riders.Inventory = &InventoryRider{
			ItemName:     inv.ItemName,
			Direction:    inventory.MovementDirection(inv.Direction),
			Quantity:     inv.Quantity,
			Unit:         inv.Unit,
			Category:     inv.Category,
			Dimensions:   inv.Dimensions,
			Location:     inv.Location,
			MinStock:     inv.MinStock,
			ShippingCost: inv.ShippingCost,
			OtherCosts:   inv.OtherCosts,
		}
	}
	if fa := r.FixedAsset; fa != nil {
		riders.FixedAsset = &FixedAssetRider{
			AssetName:       fa.AssetName,
			PurchaseAmount:  fa.PurchaseAmount,
			SalvageValue:    fa.SalvageValue,
			UsefulLifeYears: fa.UsefulLifeYears,
			Method:          assets.DepreciationMethod(fa.Method),
		}
	}
	return riders
}

func (c chequeRequest) toRider() *ChequeRider {
	return &ChequeRider{
		ChequeNumber:   c.ChequeNumber,
		PartyName:      c.PartyName,
		Amount:         c.Amount,
		AccountingType: AccountingType(c.AccountingType),
		IssueDate:      c.IssueDate,
		DueDate:        c.DueDate,
		BankName:       c.BankName,
		EndorsedTo:     c.EndorsedTo,
	}
}

type addPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Notes  string          `json:"notes"`
}

type transactionResponse struct {
	Entry     LedgerEntry          `json:"entry"`
	COGSEntry *LedgerEntry         `json:"cogs_entry,omitempty"`
	Payments  []Payment            `json:"payments,omitempty"`
	Cheques   []Cheque             `json:"cheques,omitempty"`
	Movements []inventory.Movement `json:"movements,omitempty"`
	Assets    []assets.FixedAsset  `json:"assets,omitempty"`
}

func toTransactionResponse(t Transaction) transactionResponse {
	return transactionResponse{
		Entry:     t.Entry,
		COGSEntry: t.COGSEntry,
		Payments:  t.Payments,
		Cheques:   t.Cheques,
		Movements: t.Movements,
		Assets:    t.Assets,
	}
}

type paymentResponse struct {
	Payment          Payment         `json:"payment"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	Overpayment      bool            `json:"overpayment"`
	Warning          string          `json:"warning,omitempty"`
}

func toPaymentResponse(res PaymentResult) paymentResponse {
	out := paymentResponse{
		Payment:          res.Payment,
		TotalPaid:        res.Totals.TotalPaid,
		RemainingBalance: res.Totals.RemainingBalance,
		PaymentStatus:    res.Totals.Status,
	}
	if res.Warning != nil {
		out.Overpayment = true
		out.Warning = res.Warning.Error()
	}
	return out
}

type clearChequeResponse struct {
	Cheque      Cheque         `json:"cheque"`
	Totals      *PaymentTotals `json:"totals,omitempty"`
	Overpayment bool           `json:"overpayment"`
	Warning     string         `json:"warning,omitempty"`
}
