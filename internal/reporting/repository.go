package reporting

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository reads payment aggregates for reports.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CashTotals holds summed receipts and disbursements for a period.
// Endorsement legs carry no_cash_movement and are excluded: an endorsed
// cheque settles a balance without cash ever entering the till.
type CashTotals struct {
	Receipts      decimal.Decimal
	Disbursements decimal.Decimal
}

// CashFlow sums cash payments in [from, to).
func (r *Repository) CashFlow(ctx context.Context, from, to time.Time) (CashTotals, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT direction, COALESCE(SUM(amount), 0)
		 FROM payments
		 WHERE no_cash_movement = FALSE AND paid_at >= $1 AND paid_at < $2
		 GROUP BY direction`, from, to)
	if err != nil {
		return CashTotals{}, err
	}
	defer rows.Close()

	var totals CashTotals
	for rows.Next() {
		var direction string
		var sum decimal.Decimal
		if err := rows.Scan(&direction, &sum); err != nil {
			return CashTotals{}, err
		}
		switch direction {
		case "receipt":
			totals.Receipts = sum
		case "disbursement":
			totals.Disbursements = sum
		}
	}
	return totals, rows.Err()
}
