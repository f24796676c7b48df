package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/assets"
	"github.com/ledgerline/ledgerline/internal/inventory"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// StorePort is the persistence contract the service depends on.
type StorePort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetEntry(ctx context.Context, ref shared.TransactionRef) (LedgerEntry, error)
	FindDependents(ctx context.Context, ref shared.TransactionRef) (Dependents, error)
	ListEntries(ctx context.Context, limit int) ([]LedgerEntry, error)
	ListPaymentsByRef(ctx context.Context, ref shared.TransactionRef) ([]Payment, error)
	ListCheques(ctx context.Context) ([]Cheque, error)
}

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// IdempotencyPort guards mutations against duplicate submission.
type IdempotencyPort interface {
	Reserve(ctx context.Context, key, module string) error
	Release(ctx context.Context, key string) error
}

// MetricsPort counts committed mutations.
type MetricsPort interface {
	CountMutation(action string)
}

// Service orchestrates the commit flow: every mutation composes a
// write-set and applies it inside one transaction, with inventory reads
// locked in that same transaction.
type Service struct {
	repo       StorePort
	composer   *Composer
	audit      AuditPort
	idem       IdempotencyPort
	metrics    MetricsPort
	logger     *slog.Logger
	invalidate func(context.Context) error
}

// NewService wires the ledger service. Audit and idempotency ports may
// be nil; the corresponding steps are then skipped.
func NewService(repo StorePort, composer *Composer, audit AuditPort, idem IdempotencyPort, logger *slog.Logger) *Service {
	if composer == nil {
		composer = NewComposer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, composer: composer, audit: audit, idem: idem, logger: logger}
}

// SetCacheInvalidator registers a hook run after every successful
// mutation, used to bump report caches.
func (s *Service) SetCacheInvalidator(fn func(context.Context) error) {
	s.invalidate = fn
}

// SetMetrics registers the mutation counter. May be left unset.
func (s *Service) SetMetrics(m MetricsPort) {
	s.metrics = m
}

func (s *Service) countMutation(action string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CountMutation(action)
}

func (s *Service) bumpCaches(ctx context.Context) {
	if s.invalidate == nil {
		return
	}
	if err := s.invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
}

// Transaction is a ledger entry together with every record correlated
// to its reference.
type Transaction struct {
	Entry     LedgerEntry
	COGSEntry *LedgerEntry
	Payments  []Payment
	Cheques   []Cheque
	Movements []inventory.Movement
	Assets    []assets.FixedAsset
}

// PaymentResult is the outcome of applying a payment. Warning is
// non-nil when the payment exceeded the remaining balance; the payment
// is recorded either way.
type PaymentResult struct {
	Payment Payment
	Totals  PaymentTotals
	Warning *OverpaymentWarning
}

// ClearResult is the outcome of clearing a postponed cheque.
type ClearResult struct {
	Cheque  Cheque
	Totals  *PaymentTotals
	Warning *OverpaymentWarning
}

func (s *Service) reserve(ctx context.Context, key string) (func(), error) {
	if s.idem == nil || key == "" {
		return func() {}, nil
	}
	if err := s.idem.Reserve(ctx, key, "ledger"); err != nil {
		return nil, err
	}
	return func() {
		if err := s.idem.Release(ctx, key); err != nil {
			s.logger.Warn("idempotency release failed", "key", key, "error", err)
		}
	}, nil
}

func (s *Service) recordAudit(ctx context.Context, action, entity, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{Action: action, Entity: entity, EntityID: entityID, Meta: meta, At: time.Now().UTC()}); err != nil {
		s.logger.Warn("audit record failed", "action", action, "entity", entity, "error", err)
	}
}

// RecordTransaction validates and commits a submission: the ledger
// entry plus every rider-demanded dependent lands in one transaction or
// not at all.
func (s *Service) RecordTransaction(ctx context.Context, input EntryInput, riders Riders, idemKey string) (Transaction, error) {
	release, err := s.reserve(ctx, idemKey)
	if err != nil {
		return Transaction{}, err
	}

	var txn Transaction
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var snap Snapshot
		if riders.Inventory != nil {
			item, err := tx.GetItemByNameForUpdate(ctx, riders.Inventory.ItemName)
			if err != nil {
				return err
			}
			snap.Item = item
		}
		ws, err := s.composer.Compose(input, riders, snap)
		if err != nil {
			return err
		}
		if err := tx.ApplyWriteSet(ctx, ws); err != nil {
			return err
		}
		txn = transactionFromWriteSet(ws)
		return nil
	})
	if err != nil {
		release()
		return Transaction{}, err
	}

	s.recordAudit(ctx, "transaction.record", "ledger_entry", txn.Entry.ID, map[string]any{
		"txn_ref": string(txn.Entry.TxnRef),
		"amount":  txn.Entry.Amount.String(),
	})
	s.logger.Info("transaction recorded", "txn_ref", txn.Entry.TxnRef, "direction", txn.Entry.Direction)
	s.countMutation("transaction.record")
	s.bumpCaches(ctx)
	return txn, nil
}

func transactionFromWriteSet(ws *WriteSet) Transaction {
	txn := Transaction{
		Payments:  ws.Payments,
		Cheques:   ws.Cheques,
		Movements: ws.Movements,
		Assets:    ws.Assets,
	}
	for i := range ws.Entries {
		if ws.Entries[i].TxnRef.IsCOGS() {
			cogs := ws.Entries[i]
			txn.COGSEntry = &cogs
			continue
		}
		txn.Entry = ws.Entries[i]
	}
	return txn
}

// GetTransaction returns an entry with all its correlated records.
// Reads are unlocked; only mutations take row locks.
func (s *Service) GetTransaction(ctx context.Context, ref shared.TransactionRef) (Transaction, error) {
	entry, err := s.repo.GetEntry(ctx, ref)
	if err != nil {
		return Transaction{}, err
	}
	txn := Transaction{Entry: entry}
	if cogs, err := s.repo.GetEntry(ctx, ref.COGSRef()); err == nil {
		txn.COGSEntry = &cogs
	} else if !errors.Is(err, ErrEntryNotFound) {
		return Transaction{}, err
	}
	deps, err := s.repo.FindDependents(ctx, ref)
	if err != nil {
		return Transaction{}, err
	}
	txn.Payments = deps.Payments
	txn.Cheques = deps.Cheques
	txn.Movements = deps.Movements
	txn.Assets = deps.Assets
	return txn, nil
}

// ListTransactions returns recent ledger entries.
func (s *Service) ListTransactions(ctx context.Context, limit int) ([]LedgerEntry, error) {
	return s.repo.ListEntries(ctx, limit)
}

// ListCheques returns all cheques ordered by due date.
func (s *Service) ListCheques(ctx context.Context) ([]Cheque, error) {
	return s.repo.ListCheques(ctx)
}

// ListPayments returns the payments correlated to a transaction.
func (s *Service) ListPayments(ctx context.Context, ref shared.TransactionRef) ([]Payment, error) {
	return s.repo.ListPaymentsByRef(ctx, ref)
}

// DeleteTransaction reverses a posting: the entry, its auto-generated
// cost entry and every dependent are removed and inventory quantities
// restored, all in one transaction. A parent that is already gone while
// dependents remain is reported as a data-integrity fault rather than
// silently collected.
func (s *Service) DeleteTransaction(ctx context.Context, ref shared.TransactionRef, idemKey string) error {
	release, err := s.reserve(ctx, idemKey)
	if err != nil {
		return err
	}

	var entryID string
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, ref)
		if err != nil {
			if !errors.Is(err, ErrEntryNotFound) {
				return err
			}
			deps, depErr := tx.FindDependents(ctx, ref)
			if depErr != nil {
				return depErr
			}
			if len(deps.Payments)+len(deps.Cheques)+len(deps.Movements)+len(deps.Assets) > 0 {
				return &shared.IntegrityFault{
					Entity:   "ledger_entry",
					EntityID: string(ref),
					Detail:   "dependent records exist for a missing parent entry",
					Expected: "parent entry present",
					Actual:   "absent",
				}
			}
			return err
		}
		entryID = entry.ID

		bundle := ReversalBundle{Entry: entry, Now: time.Now().UTC()}
		if cogs, err := tx.GetEntryForUpdate(ctx, ref.COGSRef()); err == nil {
			bundle.COGSEntry = &cogs
		} else if !errors.Is(err, ErrEntryNotFound) {
			return err
		}
		deps, err := tx.FindDependents(ctx, ref)
		if err != nil {
			return err
		}
		bundle.Payments = deps.Payments
		bundle.Cheques = deps.Cheques
		bundle.Movements = deps.Movements
		bundle.Assets = deps.Assets

		if len(deps.Movements) > 0 {
			ids := make([]string, 0, len(deps.Movements))
			for _, m := range deps.Movements {
				ids = append(ids, m.ItemID)
			}
			bundle.Items, err = tx.GetItemsForUpdate(ctx, ids)
			if err != nil {
				return err
			}
		}

		ws, err := ComposeReversal(bundle)
		if err != nil {
			return err
		}
		return tx.ApplyWriteSet(ctx, ws)
	})
	if err != nil {
		release()
		return err
	}

	s.recordAudit(ctx, "transaction.delete", "ledger_entry", entryID, map[string]any{"txn_ref": string(ref)})
	s.logger.Info("transaction deleted", "txn_ref", ref)
	s.countMutation("transaction.delete")
	s.bumpCaches(ctx)
	return nil
}

// AddPayment applies a payment against an AR/AP entry. An overpayment
// is recorded and flagged in the result rather than rejected.
func (s *Service) AddPayment(ctx context.Context, ref shared.TransactionRef, amount decimal.Decimal, method, notes, idemKey string) (PaymentResult, error) {
	if !amount.IsPositive() {
		return PaymentResult{}, validationErr("payment amount must be positive")
	}
	if method == "" {
		method = "cash"
	}
	release, err := s.reserve(ctx, idemKey)
	if err != nil {
		return PaymentResult{}, err
	}

	var res PaymentResult
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, ref)
		if err != nil {
			return err
		}
		if !entry.IsARAP {
			return validationErr("entry %s does not track a running balance", ref)
		}
		totals, err := ApplyPayment(entry, amount)
		if err != nil {
			var warn *OverpaymentWarning
			if !errors.As(err, &warn) {
				return err
			}
			res.Warning = warn
		}
		now := time.Now().UTC()
		dir := Receipt
		if entry.Direction == DirectionExpense {
			dir = Disbursement
		}
		p := Payment{
			ID:        uuid.NewString(),
			PartyName: entry.AssociatedParty,
			Amount:    amount,
			Direction: dir,
			LinkedRef: ref,
			Method:    method,
			Date:      now,
			Notes:     notes,
			CreatedAt: now,
		}
		if err := tx.InsertPayment(ctx, p); err != nil {
			return err
		}
		if err := tx.UpdateEntryTotals(ctx, entry.ID, totals); err != nil {
			return err
		}
		res.Payment = p
		res.Totals = totals
		return nil
	})
	if err != nil {
		release()
		return PaymentResult{}, err
	}

	s.recordAudit(ctx, "payment.add", "payment", res.Payment.ID, map[string]any{
		"txn_ref": string(ref),
		"amount":  amount.String(),
		"status":  string(res.Totals.Status),
	})
	if res.Warning != nil {
		s.logger.Warn("overpayment recorded", "txn_ref", ref, "amount", amount, "remaining", res.Warning.Remaining)
	}
	s.countMutation("payment.add")
	s.bumpCaches(ctx)
	return res, nil
}

// ClearCheque settles a pending postponed cheque: a cash payment is
// recorded, the cheque marked cleared, and the linked AR/AP entry's
// running balance updated when it tracks one.
func (s *Service) ClearCheque(ctx context.Context, chequeID, idemKey string) (ClearResult, error) {
	release, err := s.reserve(ctx, idemKey)
	if err != nil {
		return ClearResult{}, err
	}

	var res ClearResult
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		cheque, err := tx.GetChequeForUpdate(ctx, chequeID)
		if err != nil {
			return err
		}
		if cheque.Status != ChequePending || cheque.AccountingType != AccountingPostponed {
			return ErrChequeNotClearable
		}

		now := time.Now().UTC()
		dir := Receipt
		if cheque.Direction == ChequeOutgoing {
			dir = Disbursement
		}
		p := Payment{
			ID:        uuid.NewString(),
			PartyName: cheque.PartyName,
			Amount:    cheque.Amount,
			Direction: dir,
			LinkedRef: cheque.LinkedRef,
			Method:    "cheque",
			Date:      now,
			Notes:     "cheque " + cheque.ChequeNumber + " cleared",
			CreatedAt: now,
		}
		if err := tx.InsertPayment(ctx, p); err != nil {
			return err
		}
		if err := tx.UpdateChequeStatus(ctx, cheque.ID, ChequeCleared); err != nil {
			return err
		}
		cheque.Status = ChequeCleared
		res.Cheque = cheque

		entry, err := tx.GetEntryForUpdate(ctx, cheque.LinkedRef)
		if err != nil {
			if errors.Is(err, ErrEntryNotFound) {
				return nil
			}
			return err
		}
		if !entry.IsARAP {
			return nil
		}
		totals, err := ApplyPayment(entry, cheque.Amount)
		if err != nil {
			var warn *OverpaymentWarning
			if !errors.As(err, &warn) {
				return err
			}
			res.Warning = warn
		}
		if err := tx.UpdateEntryTotals(ctx, entry.ID, totals); err != nil {
			return err
		}
		res.Totals = &totals
		return nil
	})
	if err != nil {
		release()
		return ClearResult{}, err
	}

	s.recordAudit(ctx, "cheque.clear", "cheque", chequeID, map[string]any{
		"txn_ref": string(res.Cheque.LinkedRef),
		"amount":  res.Cheque.Amount.String(),
	})
	s.logger.Info("cheque cleared", "cheque_id", chequeID, "txn_ref", res.Cheque.LinkedRef)
	s.countMutation("cheque.clear")
	s.bumpCaches(ctx)
	return res, nil
}
