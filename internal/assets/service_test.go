package assets

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

func TestMonthlyChargeStraightLine(t *testing.T) {
	asset := Asset{Cost: 1200, ResidualValue: 0, UsefulLifeMonths: 12}
	require.InDelta(t, 100, MonthlyCharge(asset), 0.001)
}

func TestMonthlyChargeRespectsResidual(t *testing.T) {
	asset := Asset{Cost: 1300, ResidualValue: 100, UsefulLifeMonths: 12}
	require.InDelta(t, 100, MonthlyCharge(asset), 0.001)
}

func TestMonthlyChargeCapsAtRemainingBase(t *testing.T) {
	asset := Asset{Cost: 1200, ResidualValue: 0, UsefulLifeMonths: 12, AccumulatedDepreciation: 1150}
	require.InDelta(t, 50, MonthlyCharge(asset), 0.001)
}

func TestMonthlyChargeFullyDepreciated(t *testing.T) {
	asset := Asset{Cost: 1200, ResidualValue: 0, UsefulLifeMonths: 12, AccumulatedDepreciation: 1200}
	require.Zero(t, MonthlyCharge(asset))
}

func TestPlanChargesSkipsExhaustedAssets(t *testing.T) {
	register := []Asset{
		{ID: 1, Cost: 1200, UsefulLifeMonths: 12},
		{ID: 2, Cost: 600, UsefulLifeMonths: 12, AccumulatedDepreciation: 600},
		{ID: 3, Cost: 2400, UsefulLifeMonths: 24},
	}
	charges, total := PlanCharges(register)
	require.Len(t, charges, 2)
	require.Equal(t, int64(1), charges[0].AssetID)
	require.Equal(t, int64(3), charges[1].AssetID)
	require.InDelta(t, 200, total, 0.001)
}

type staticChartRepo struct {
	accounts []chart.Account
}

func (r staticChartRepo) List(ctx context.Context) ([]chart.Account, error) { return r.accounts, nil }
func (r staticChartRepo) Deactivate(ctx context.Context, code string) error { return nil }

type memoryAssetRepo struct {
	assets  []Asset
	charges []Charge
	posting posting.Tx
}

func (r *memoryAssetRepo) Register(ctx context.Context, input RegisterInput) (Asset, error) {
	asset := Asset{
		ID:               int64(len(r.assets) + 1),
		Name:             input.Name,
		AcquiredOn:       input.AcquiredOn,
		Cost:             input.Cost,
		ResidualValue:    input.ResidualValue,
		UsefulLifeMonths: input.UsefulLifeMonths,
		IsActive:         true,
	}
	r.assets = append(r.assets, asset)
	return asset, nil
}

func (r *memoryAssetRepo) Get(ctx context.Context, id int64) (Asset, error) {
	for _, a := range r.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return Asset{}, httpx.ErrNotFound
}

func (r *memoryAssetRepo) List(ctx context.Context) ([]Asset, error) { return r.assets, nil }

func (r *memoryAssetRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	savedAssets := append([]Asset(nil), r.assets...)
	savedCharges := append([]Charge(nil), r.charges...)
	if err := fn(ctx, r); err != nil {
		r.assets = savedAssets
		r.charges = savedCharges
		return err
	}
	return nil
}

func (r *memoryAssetRepo) ListActiveForUpdate(ctx context.Context) ([]Asset, error) {
	var active []Asset
	for _, a := range r.assets {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (r *memoryAssetRepo) ApplyCharge(ctx context.Context, assetID int64, amount float64) error {
	for i := range r.assets {
		if r.assets[i].ID == assetID {
			r.assets[i].AccumulatedDepreciation += amount
			r.charges = append(r.charges, Charge{AssetID: assetID, Amount: amount})
			return nil
		}
	}
	return httpx.ErrNotFound
}

func (r *memoryAssetRepo) Posting() posting.Tx { return r.posting }

type capturingTxPoster struct {
	docs []posting.Document
	err  error
}

func (p *capturingTxPoster) PostInTx(ctx context.Context, tx posting.Tx, doc posting.Document) (posting.JournalEntry, float64, error) {
	if p.err != nil {
		return posting.JournalEntry{}, 0, p.err
	}
	p.docs = append(p.docs, doc)
	return posting.JournalEntry{Number: "JE-000042", TotalDebit: doc.TotalDebit(), TotalCredit: doc.TotalCredit()}, 0, nil
}

func assetsFixture(t *testing.T, register ...Asset) (*Service, *memoryAssetRepo, *capturingTxPoster) {
	t.Helper()
	registry := chart.NewRegistry(staticChartRepo{accounts: []chart.Account{
		{ID: 1, Code: chart.CodeDepreciationExp, IsActive: true},
		{ID: 2, Code: chart.CodeAccumDepreciation, IsActive: true},
	}})
	require.NoError(t, registry.Load(context.Background()))
	repo := &memoryAssetRepo{assets: register}
	poster := &capturingTxPoster{}
	return NewService(repo, registry, poster), repo, poster
}

func TestRunDepreciationPostsAndUpdatesRegister(t *testing.T) {
	service, repo, poster := assetsFixture(t,
		Asset{ID: 1, Cost: 1200, UsefulLifeMonths: 12, IsActive: true},
		Asset{ID: 2, Cost: 2400, UsefulLifeMonths: 24, IsActive: true},
	)

	result, err := service.RunDepreciation(context.Background(), RunInput{
		RunID: uuid.New(),
		Date:  time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "JE-000042", result.EntryNumber)
	require.InDelta(t, 200, result.Total, 0.001)
	require.Len(t, result.Charges, 2)

	require.Len(t, poster.docs, 1)
	doc := poster.docs[0]
	require.Equal(t, "DEPRECIATION_RUN", doc.ReferenceType)
	require.Len(t, doc.Lines, 2)
	require.InDelta(t, 200, doc.Lines[0].Debit, 0.001)
	require.InDelta(t, 200, doc.Lines[1].Credit, 0.001)
	require.Nil(t, doc.Subsidiary)

	require.InDelta(t, 100, repo.assets[0].AccumulatedDepreciation, 0.001)
	require.InDelta(t, 100, repo.assets[1].AccumulatedDepreciation, 0.001)
}

func TestRunDepreciationNothingLeftFails(t *testing.T) {
	service, _, poster := assetsFixture(t,
		Asset{ID: 1, Cost: 1200, UsefulLifeMonths: 12, AccumulatedDepreciation: 1200, IsActive: true},
	)

	_, err := service.RunDepreciation(context.Background(), RunInput{
		RunID: uuid.New(),
		Date:  time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, poster.docs)
}

func TestRunDepreciationRollsBackRegisterOnPostFailure(t *testing.T) {
	service, repo, poster := assetsFixture(t,
		Asset{ID: 1, Cost: 1200, UsefulLifeMonths: 12, IsActive: true},
	)
	poster.err = httpx.ErrConflict

	_, err := service.RunDepreciation(context.Background(), RunInput{
		RunID: uuid.New(),
		Date:  time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Zero(t, repo.assets[0].AccumulatedDepreciation)
	require.Empty(t, repo.charges)
}

func TestRegisterRejectsResidualAboveCost(t *testing.T) {
	service, _, _ := assetsFixture(t)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:             "Fridge",
		AcquiredOn:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Cost:             100,
		ResidualValue:    150,
		UsefulLifeMonths: 12,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
