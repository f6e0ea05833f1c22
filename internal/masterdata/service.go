package masterdata

import (
	"context"
	"log/slog"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
)

// Service handles counterparty registration and balance reads.
type Service struct {
	repo   Repository
	cache  *BalanceCache
	logger *slog.Logger
}

func NewService(repo Repository, cache *BalanceCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) Create(ctx context.Context, kind posting.SubjectKind, input CreateInput) (Counterparty, error) {
	return s.repo.Create(ctx, kind, input)
}

func (s *Service) Get(ctx context.Context, kind posting.SubjectKind, id int64) (Counterparty, error) {
	return s.repo.Get(ctx, kind, id)
}

func (s *Service) List(ctx context.Context, kind posting.SubjectKind) ([]Counterparty, error) {
	return s.repo.List(ctx, kind)
}

// GetBalance serves the denormalized balance, preferring the cache. Cache
// problems degrade to a database read rather than failing the request.
func (s *Service) GetBalance(ctx context.Context, kind posting.SubjectKind, id int64) (float64, error) {
	if s.cache != nil {
		balance, ok, err := s.cache.GetBalance(ctx, kind, id)
		if err != nil {
			s.logger.Warn("balance cache read failed", slog.String("kind", string(kind)), slog.Int64("id", id), slog.Any("error", err))
		} else if ok {
			return balance, nil
		}
	}
	cp, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, kind, id, cp.Balance); err != nil {
			s.logger.Warn("balance cache fill failed", slog.String("kind", string(kind)), slog.Int64("id", id), slog.Any("error", err))
		}
	}
	return cp.Balance, nil
}
