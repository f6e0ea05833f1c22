package procurement

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

type staticChartRepo struct {
	accounts []chart.Account
}

func (r staticChartRepo) List(ctx context.Context) ([]chart.Account, error) { return r.accounts, nil }
func (r staticChartRepo) Deactivate(ctx context.Context, code string) error { return nil }

func testRegistry(t *testing.T, codes ...string) *chart.Registry {
	t.Helper()
	accounts := make([]chart.Account, 0, len(codes))
	for i, code := range codes {
		accounts = append(accounts, chart.Account{ID: int64(i + 1), Code: code, IsActive: true})
	}
	registry := chart.NewRegistry(staticChartRepo{accounts: accounts})
	require.NoError(t, registry.Load(context.Background()))
	return registry
}

type capturingPoster struct {
	docs []posting.Document
}

func (p *capturingPoster) Post(ctx context.Context, doc posting.Document) (posting.JournalEntry, error) {
	p.docs = append(p.docs, doc)
	return posting.JournalEntry{Number: "JE-000001", TotalDebit: doc.TotalDebit(), TotalCredit: doc.TotalCredit()}, nil
}

func receiptInput(lines ...ReceiptLine) GoodsReceiptInput {
	return GoodsReceiptInput{
		SupplierID:  7,
		ReceiptID:   uuid.New(),
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Weekly stock delivery",
		Lines:       lines,
		CreatedBy:   3,
	}
}

func lineByAccount(t *testing.T, doc posting.Document, accountID int64) posting.DocumentLine {
	t.Helper()
	for _, line := range doc.Lines {
		if line.AccountID == accountID {
			return line
		}
	}
	t.Fatalf("no line for account %d", accountID)
	return posting.DocumentLine{}
}

func TestReceiveGoodsSplitsTaxAndCreditsPayable(t *testing.T) {
	registry := testRegistry(t, chart.CodeInventory, chart.CodeFixedAssets, chart.CodePurchaseTax, chart.CodePayable)
	poster := &capturingPoster{}
	service := NewService(registry, poster)

	_, err := service.ReceiveGoods(context.Background(), receiptInput(
		ReceiptLine{Description: "Beverages", GrossAmount: 116, TaxCode: "16%"},
	))
	require.NoError(t, err)
	require.Len(t, poster.docs, 1)

	doc := poster.docs[0]
	require.Len(t, doc.Lines, 3)

	inventory := lineByAccount(t, doc, 1)
	require.InDelta(t, 100, inventory.Debit, 0.001)

	purchaseTax := lineByAccount(t, doc, 3)
	require.InDelta(t, 16, purchaseTax.Debit, 0.001)

	payable := lineByAccount(t, doc, 4)
	require.InDelta(t, 116, payable.Credit, 0.001)

	require.Equal(t, "GOODS_RECEIPT", doc.ReferenceType)
	require.NotNil(t, doc.Subsidiary)
	require.Equal(t, posting.SubjectSupplier, doc.Subsidiary.Kind)
	require.Equal(t, int64(7), doc.Subsidiary.SubjectID)
	require.InDelta(t, 116, doc.Subsidiary.Credit, 0.001)
	require.Zero(t, doc.Subsidiary.Debit)
}

func TestReceiveGoodsCapitalLineGoesToFixedAssets(t *testing.T) {
	registry := testRegistry(t, chart.CodeInventory, chart.CodeFixedAssets, chart.CodePurchaseTax, chart.CodePayable)
	poster := &capturingPoster{}
	service := NewService(registry, poster)

	_, err := service.ReceiveGoods(context.Background(), receiptInput(
		ReceiptLine{Description: "Stock", GrossAmount: 232, TaxCode: "16%"},
		ReceiptLine{Description: "Display fridge", GrossAmount: 580, TaxCode: "16%", Capital: true},
	))
	require.NoError(t, err)

	doc := poster.docs[0]
	require.InDelta(t, 200, lineByAccount(t, doc, 1).Debit, 0.001)
	require.InDelta(t, 500, lineByAccount(t, doc, 2).Debit, 0.001)
	require.InDelta(t, 112, lineByAccount(t, doc, 3).Debit, 0.001)
	require.InDelta(t, 812, lineByAccount(t, doc, 4).Credit, 0.001)
	require.InDelta(t, 812, doc.Subsidiary.Credit, 0.001)
}

func TestReceiveGoodsZeroRatedSkipsTaxLine(t *testing.T) {
	registry := testRegistry(t, chart.CodeInventory, chart.CodeFixedAssets, chart.CodePurchaseTax, chart.CodePayable)
	poster := &capturingPoster{}
	service := NewService(registry, poster)

	_, err := service.ReceiveGoods(context.Background(), receiptInput(
		ReceiptLine{Description: "Bread", GrossAmount: 50, TaxCode: "zero_rated"},
	))
	require.NoError(t, err)

	doc := poster.docs[0]
	require.Len(t, doc.Lines, 2)
	require.InDelta(t, 50, lineByAccount(t, doc, 1).Debit, 0.001)
	require.InDelta(t, 50, lineByAccount(t, doc, 4).Credit, 0.001)
}

func TestReceiveGoodsUnknownTaxCodeRejected(t *testing.T) {
	registry := testRegistry(t, chart.CodeInventory, chart.CodeFixedAssets, chart.CodePurchaseTax, chart.CodePayable)
	poster := &capturingPoster{}
	service := NewService(registry, poster)

	_, err := service.ReceiveGoods(context.Background(), receiptInput(
		ReceiptLine{Description: "Mystery", GrossAmount: 100, TaxCode: "9%"},
	))
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, poster.docs)
}

func TestReceiveGoodsMissingAccountLeavesLedgerUntouched(t *testing.T) {
	registry := testRegistry(t, chart.CodeInventory, chart.CodeFixedAssets, chart.CodePayable)
	poster := &capturingPoster{}
	service := NewService(registry, poster)

	_, err := service.ReceiveGoods(context.Background(), receiptInput(
		ReceiptLine{Description: "Stock", GrossAmount: 116, TaxCode: "16%"},
	))
	require.ErrorIs(t, err, httpx.ErrNotConfigured)
	require.Empty(t, poster.docs)
}
