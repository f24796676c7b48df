package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/observability"
	"github.com/ledgerline/ledgerline/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskChequeDueScan flags postponed cheques at or past due date.
	TaskChequeDueScan = "cheque:due-scan"
	// TaskLowStockScan flags items below their minimum stock level.
	TaskLowStockScan = "inventory:low-stock-scan"
	// TaskIdempotencyCleanup expires old idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

// NewChequeDueScanTask constructs the due-scan task.
func NewChequeDueScanTask() *asynq.Task {
	return asynq.NewTask(TaskChequeDueScan, nil)
}

// NewLowStockScanTask constructs the low-stock-scan task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskLowStockScan, nil)
}

// NewIdempotencyCleanupTask constructs the cleanup task.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskIdempotencyCleanup, nil)
}

// Scans holds the dependencies of the periodic scan handlers. The scans
// only observe and report; clearing a cheque stays a user action.
type Scans struct {
	Pool      *pgxpool.Pool
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Idem      *shared.IdempotencyStore
	Retention time.Duration
}

// HandleChequeDueScan counts pending postponed cheques due today or
// earlier and surfaces them through logs and a gauge.
func (s *Scans) HandleChequeDueScan(ctx context.Context, _ *asynq.Task) error {
	rows, err := s.Pool.Query(ctx,
		`SELECT cheque_number, party_name, due_date
		 FROM cheques
		 WHERE status = 'pending' AND accounting_type = 'postponed' AND due_date <= $1
		 ORDER BY due_date`, time.Now().UTC())
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var number, party string
		var due time.Time
		if err := rows.Scan(&number, &party, &due); err != nil {
			return err
		}
		count++
		s.Logger.Warn("cheque due",
			slog.String("cheque_number", number),
			slog.String("party", party),
			slog.Time("due_date", due))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.Metrics.SetChequesDue(count)
	s.Logger.Info("cheque due scan complete", slog.Int("due", count))
	return nil
}

// HandleLowStockScan reports items whose quantity fell below min stock.
func (s *Scans) HandleLowStockScan(ctx context.Context, _ *asynq.Task) error {
	rows, err := s.Pool.Query(ctx,
		`SELECT item_name, quantity, min_stock
		 FROM inventory_items
		 WHERE min_stock > 0 AND quantity < min_stock
		 ORDER BY item_name`)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var name string
		var quantity, minStock decimal.Decimal
		if err := rows.Scan(&name, &quantity, &minStock); err != nil {
			return err
		}
		count++
		s.Logger.Warn("item below minimum stock",
			slog.String("item", name),
			slog.String("quantity", quantity.String()),
			slog.String("min_stock", minStock.String()))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.Metrics.SetLowStockItems(count)
	s.Logger.Info("low stock scan complete", slog.Int("low", count))
	return nil
}

// HandleIdempotencyCleanup drops idempotency keys past the retention
// window.
func (s *Scans) HandleIdempotencyCleanup(ctx context.Context, _ *asynq.Task) error {
	retention := s.Retention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	if err := s.Idem.Cleanup(ctx, retention); err != nil {
		return err
	}
	s.Logger.Info("idempotency cleanup complete", slog.Duration("retention", retention))
	return nil
}
