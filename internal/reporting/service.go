package reporting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/money"
)

// RepositoryPort is the read contract the service depends on.
type RepositoryPort interface {
	CashFlow(ctx context.Context, from, to time.Time) (CashTotals, error)
}

// Service computes cached report summaries.
type Service struct {
	repo  RepositoryPort
	cache *Cache
}

// NewService wires the reporting service. Cache may be nil.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// CashFlowSummary is the cash position over a period. Endorsement legs
// are excluded from both sides.
type CashFlowSummary struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Receipts      decimal.Decimal `json:"receipts"`
	Disbursements decimal.Decimal `json:"disbursements"`
	Net           decimal.Decimal `json:"net"`
}

// GetCashFlowSummary computes cash in, cash out and net flow for
// [from, to), serving from cache when the ledger has not moved since.
func (s *Service) GetCashFlowSummary(ctx context.Context, from, to time.Time) (CashFlowSummary, error) {
	loader := func(ctx context.Context) (any, error) {
		totals, err := s.repo.CashFlow(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return CashFlowSummary{
			From:          from,
			To:            to,
			Receipts:      money.Round2(totals.Receipts),
			Disbursements: money.Round2(totals.Disbursements),
			Net:           money.Sub(totals.Receipts, totals.Disbursements),
		}, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return CashFlowSummary{}, err
		}
		return value.(CashFlowSummary), nil
	}

	key, err := s.cache.BuildKey(ctx, "reporting", "cashflow",
		from.UTC().Format("20060102"), to.UTC().Format("20060102"))
	if err != nil {
		return CashFlowSummary{}, err
	}
	var summary CashFlowSummary
	if err := s.cache.FetchJSON(ctx, key, &summary, loader); err != nil {
		return CashFlowSummary{}, err
	}
	return summary, nil
}

// Invalidate bumps the cache version after a ledger write.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
