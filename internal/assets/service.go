package assets

import (
	"context"
	"fmt"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

// TxPoster posts a document inside a transaction owned by the caller, so the
// ledger entry and the register update commit or roll back together.
type TxPoster interface {
	PostInTx(ctx context.Context, tx posting.Tx, doc posting.Document) (posting.JournalEntry, float64, error)
}

// Service manages the fixed asset register and its depreciation runs.
type Service struct {
	repo     Repository
	registry *chart.Registry
	poster   TxPoster
}

func NewService(repo Repository, registry *chart.Registry, poster TxPoster) *Service {
	return &Service{repo: repo, registry: registry, poster: poster}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (Asset, error) {
	if input.ResidualValue >= input.Cost {
		return Asset{}, fmt.Errorf("%w: residual value must be below cost", httpx.ErrValidation)
	}
	return s.repo.Register(ctx, input)
}

func (s *Service) Get(ctx context.Context, id int64) (Asset, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Asset, error) {
	return s.repo.List(ctx)
}

// RunDepreciation charges one straight-line month against every active asset
// with remaining depreciable base, posting the total as a single entry that
// debits depreciation expense and credits accumulated depreciation. The
// register updates and the posting share one transaction.
func (s *Service) RunDepreciation(ctx context.Context, input RunInput) (RunResult, error) {
	accounts, err := s.registry.ResolveMany(chart.CodeDepreciationExp, chart.CodeAccumDepreciation)
	if err != nil {
		return RunResult{}, err
	}

	var result RunResult
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		register, err := tx.ListActiveForUpdate(ctx)
		if err != nil {
			return err
		}
		charges, total := PlanCharges(register)
		if total <= 0 {
			return fmt.Errorf("%w: nothing left to depreciate", httpx.ErrValidation)
		}

		description := fmt.Sprintf("Depreciation run %s", input.Date.Format("2006-01"))
		doc := posting.Document{
			Date:          input.Date,
			ReferenceType: "DEPRECIATION_RUN",
			ReferenceID:   input.RunID,
			Description:   description,
			CreatedBy:     input.CreatedBy,
			Lines: []posting.DocumentLine{
				{AccountID: accounts[chart.CodeDepreciationExp].ID, Debit: total, Description: description},
				{AccountID: accounts[chart.CodeAccumDepreciation].ID, Credit: total, Description: description},
			},
		}
		entry, _, err := s.poster.PostInTx(ctx, tx.Posting(), doc)
		if err != nil {
			return err
		}
		for _, charge := range charges {
			if err := tx.ApplyCharge(ctx, charge.AssetID, charge.Amount); err != nil {
				return err
			}
		}
		result = RunResult{EntryNumber: entry.Number, Total: total, Charges: charges}
		return nil
	})
	if err != nil {
		return RunResult{}, err
	}
	return result, nil
}
