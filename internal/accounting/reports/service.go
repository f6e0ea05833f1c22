package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

// Service builds the read-only reports. Queries are independent, so the
// multi-section calls fan out on an errgroup.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) Aging(ctx context.Context, kind SubjectKind, asOf time.Time) (Aging, error) {
	if kind != posting.SubjectClient && kind != posting.SubjectSupplier {
		return Aging{}, fmt.Errorf("%w: unknown counterparty kind %q", httpx.ErrValidation, kind)
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	rows, err := s.repo.SubsidiaryRows(ctx, kind, asOf)
	if err != nil {
		return Aging{}, err
	}
	return BuildAging(kind, asOf, rows), nil
}

func (s *Service) TrialBalance(ctx context.Context, period Period) (TrialBalance, error) {
	accounts, err := s.repo.AccountBalances(ctx, period)
	if err != nil {
		return TrialBalance{}, err
	}
	return BuildTrialBalance(accounts), nil
}

func (s *Service) ProfitAndLoss(ctx context.Context, period Period) (ProfitAndLoss, error) {
	accounts, err := s.repo.AccountBalances(ctx, period)
	if err != nil {
		return ProfitAndLoss{}, err
	}
	return BuildProfitAndLoss(accounts), nil
}

// BalanceSheet reports closing balances as of a date. The memo valuations
// come from their own queries and run alongside the account query.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (BalanceSheet, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	var (
		accounts      []AccountBalance
		memo          BalanceSheetMemo
		supplierTotal float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.repo.AccountBalances(gctx, Period{To: asOf})
		return err
	})
	g.Go(func() error {
		var err error
		memo.StoreInventoryValue, err = s.repo.InventoryValue(gctx, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		memo.FixedAssetNetBookValue, err = s.repo.FixedAssetNetBookValue(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		supplierTotal, err = s.repo.SubsidiaryTotal(gctx, posting.SubjectSupplier, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return BalanceSheet{}, err
	}
	memo.SupplierLedgerPayables = tax.Round(-supplierTotal)
	return BuildBalanceSheet(accounts, memo), nil
}

func (s *Service) CashFlow(ctx context.Context, period Period) (CashFlow, error) {
	rows, err := s.repo.CashRows(ctx, period)
	if err != nil {
		return CashFlow{}, err
	}
	return BuildCashFlow(rows), nil
}

// Reconciliation compares the AR and AP control accounts against the client
// and supplier subsidiary ledgers as of a date.
func (s *Service) Reconciliation(ctx context.Context, asOf time.Time) (Reconciliation, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	var (
		accounts      []AccountBalance
		clientTotal   float64
		supplierTotal float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.repo.AccountBalances(gctx, Period{To: asOf})
		return err
	})
	g.Go(func() error {
		var err error
		clientTotal, err = s.repo.SubsidiaryTotal(gctx, posting.SubjectClient, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		supplierTotal, err = s.repo.SubsidiaryTotal(gctx, posting.SubjectSupplier, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return Reconciliation{}, err
	}
	var arControl, apControl float64
	for _, acc := range accounts {
		switch acc.Kind {
		case chart.KindReceivable:
			arControl = tax.Round(arControl + acc.Closing())
		case chart.KindPayable:
			apControl = tax.Round(apControl + acc.Closing())
		}
	}
	return BuildReconciliation(arControl, clientTotal, apControl, supplierTotal), nil
}

// Statement runs the four financial reports for one period concurrently and
// wraps them in the presentation view model.
func (s *Service) Statement(ctx context.Context, period Period) (StatementViewModel, error) {
	var (
		tb TrialBalance
		pl ProfitAndLoss
		bs BalanceSheet
		cf CashFlow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tb, err = s.TrialBalance(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		pl, err = s.ProfitAndLoss(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		bs, err = s.BalanceSheet(gctx, period.To)
		return err
	})
	g.Go(func() error {
		var err error
		cf, err = s.CashFlow(gctx, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return StatementViewModel{}, err
	}
	return NewStatementViewModel(period, s.now(), tb, pl, bs, cf), nil
}
