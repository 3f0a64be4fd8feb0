package credit

import (
	"context"

	"github.com/google/uuid"
)

const maxHistoryLimit = 100

// Service answers read-only ledger queries
type Service struct {
	repo         Repository
	defaultLimit int
}

// NewService creates a ledger query service. defaultLimit applies when the
// caller asks for no particular page size.
func NewService(repo Repository, defaultLimit int) *Service {
	if defaultLimit <= 0 || defaultLimit > maxHistoryLimit {
		defaultLimit = 50
	}
	return &Service{repo: repo, defaultLimit: defaultLimit}
}

// History returns userID's ledger entries newest first
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Entry, Pagination, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	page := Pagination{Limit: limit, Offset: offset}
	entries, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, page, err
	}
	return entries, page, nil
}

// Balance reports the stored balance next to the ledger sum
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	credits, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum, err := s.repo.SignedSum(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{Credits: credits, LedgerSum: sum, Consistent: credits == sum}, nil
}
