package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// RepositoryPort defines data access methods for inventory reads.
type RepositoryPort interface {
	GetItemByName(ctx context.Context, name string) (Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	ListLowStock(ctx context.Context) ([]Item, error)
	ListMovementsByRef(ctx context.Context, ref shared.TransactionRef) ([]Movement, error)
}

// Service handles inventory queries.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetItem returns an item by its natural key.
func (s *Service) GetItem(ctx context.Context, name string) (Item, error) {
	if strings.TrimSpace(name) == "" {
		return Item{}, errors.New("inventory: item name required")
	}
	return s.repo.GetItemByName(ctx, name)
}

// ListItems returns all items.
func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

// ListLowStock returns items below their minimum stock level.
func (s *Service) ListLowStock(ctx context.Context) ([]Item, error) {
	return s.repo.ListLowStock(ctx)
}

// ListMovements returns movements for a transaction reference.
func (s *Service) ListMovements(ctx context.Context, ref shared.TransactionRef) ([]Movement, error) {
	return s.repo.ListMovementsByRef(ctx, ref)
}
