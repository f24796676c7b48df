package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Direction enumerates the two sides of a ledger entry.
type Direction string

const (
	// DirectionIncome marks money earned.
	DirectionIncome Direction = "income"
	// DirectionExpense marks money spent.
	DirectionExpense Direction = "expense"
)

// PaymentStatus enumerates AR/AP settlement states.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusPartial PaymentStatus = "partial"
	StatusUnpaid  PaymentStatus = "unpaid"
)

// LedgerEntry is one financial event. When IsARAP is true,
// RemainingBalance == Amount - TotalPaid and PaymentStatus is the pure
// function of those two values. Totals are mutated only by the AR/AP
// updater; deletion removes the entry with all dependents.
type LedgerEntry struct {
	ID               string                `json:"id"`
	TxnRef           shared.TransactionRef `json:"txn_ref"`
	Date             time.Time             `json:"date"`
	Description      string                `json:"description"`
	Direction        Direction             `json:"direction"`
	Amount           decimal.Decimal       `json:"amount"`
	Category         string                `json:"category"`
	SubCategory      string                `json:"sub_category,omitempty"`
	AssociatedParty  string                `json:"associated_party,omitempty"`
	Reference        string                `json:"reference,omitempty"`
	Notes            string                `json:"notes,omitempty"`
	IsARAP           bool                  `json:"is_arap"`
	TotalPaid        decimal.Decimal       `json:"total_paid"`
	RemainingBalance decimal.Decimal       `json:"remaining_balance"`
	PaymentStatus    PaymentStatus         `json:"payment_status,omitempty"`
	AutoGenerated    bool                  `json:"auto_generated"`
	CreatedAt        time.Time             `json:"created_at"`
}

// PaymentDirection enumerates cash movement directions.
type PaymentDirection string

const (
	// Receipt is money coming in.
	Receipt PaymentDirection = "receipt"
	// Disbursement is money going out.
	Disbursement PaymentDirection = "disbursement"
)

// Payment is a cash-equivalent movement. Endorsement legs carry
// NoCashMovement and are excluded from cash-flow aggregates.
type Payment struct {
	ID             string                `json:"id"`
	PartyName      string                `json:"party_name"`
	Amount         decimal.Decimal       `json:"amount"`
	Direction      PaymentDirection      `json:"direction"`
	LinkedRef      shared.TransactionRef `json:"linked_ref"`
	Method         string                `json:"method"`
	Date           time.Time             `json:"date"`
	Notes          string                `json:"notes,omitempty"`
	IsEndorsement  bool                  `json:"is_endorsement"`
	NoCashMovement bool                  `json:"no_cash_movement"`
	CreatedAt      time.Time             `json:"created_at"`
}

// ChequeDirection enumerates incoming and outgoing instruments.
type ChequeDirection string

const (
	ChequeIncoming ChequeDirection = "incoming"
	ChequeOutgoing ChequeDirection = "outgoing"
)

// ChequeKind distinguishes normally-held cheques from endorsed ones.
type ChequeKind string

const (
	ChequeKindNormal   ChequeKind = "normal"
	ChequeKindEndorsed ChequeKind = "endorsed"
)

// ChequeStatus enumerates cheque lifecycle values.
type ChequeStatus string

const (
	ChequePending  ChequeStatus = "pending"
	ChequeCleared  ChequeStatus = "cleared"
	ChequeEndorsed ChequeStatus = "endorsed"
)

// AccountingType decides which cash movements a cheque produces.
type AccountingType string

const (
	// AccountingCashed settles the cheque now.
	AccountingCashed AccountingType = "cashed"
	// AccountingPostponed defers settlement to a future clearing.
	AccountingPostponed AccountingType = "postponed"
	// AccountingEndorsed transfers the cheque to a third party with no
	// cash changing hands here.
	AccountingEndorsed AccountingType = "endorsed"
)

// Cheque is an incoming or outgoing financial instrument. Its
// AccountingType fully determines which Payment records were created
// alongside it.
type Cheque struct {
	ID             string                `json:"id"`
	ChequeNumber   string                `json:"cheque_number"`
	PartyName      string                `json:"party_name"`
	Amount         decimal.Decimal       `json:"amount"`
	Direction      ChequeDirection       `json:"direction"`
	Kind           ChequeKind            `json:"kind"`
	Status         ChequeStatus          `json:"status"`
	AccountingType AccountingType        `json:"accounting_type"`
	LinkedRef      shared.TransactionRef `json:"linked_ref"`
	IssueDate      time.Time             `json:"issue_date"`
	DueDate        time.Time             `json:"due_date"`
	BankName       string                `json:"bank_name,omitempty"`
	EndorsedTo     string                `json:"endorsed_to,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}
