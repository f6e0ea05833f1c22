package procurement

import (
	"context"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
)

// Poster is the single write path into the ledger.
type Poster interface {
	Post(ctx context.Context, doc posting.Document) (posting.JournalEntry, error)
}

// Service maps supplier goods receipts onto balanced ledger postings.
type Service struct {
	registry *chart.Registry
	poster   Poster
}

func NewService(registry *chart.Registry, poster Poster) *Service {
	return &Service{registry: registry, poster: poster}
}

// ReceiveGoods posts a goods receipt: net amounts to inventory or fixed
// assets, claimable tax to the purchase tax control account, and the gross
// total to accounts payable, mirrored into the supplier's subsidiary ledger.
func (s *Service) ReceiveGoods(ctx context.Context, input GoodsReceiptInput) (posting.JournalEntry, error) {
	accounts, err := s.registry.ResolveMany(chart.CodeInventory, chart.CodeFixedAssets, chart.CodePurchaseTax, chart.CodePayable)
	if err != nil {
		return posting.JournalEntry{}, err
	}

	var inventoryNet, capitalNet float64
	var totals tax.Split
	for _, line := range input.Lines {
		split, err := tax.SplitGross(line.GrossAmount, tax.Code(line.TaxCode))
		if err != nil {
			return posting.JournalEntry{}, err
		}
		if line.Capital {
			capitalNet = tax.Round(capitalNet + split.Net)
		} else {
			inventoryNet = tax.Round(inventoryNet + split.Net)
		}
		totals = totals.Add(split)
	}

	description := input.Description
	if description == "" {
		description = "Goods receipt"
	}

	var lines []posting.DocumentLine
	if inventoryNet > 0 {
		lines = append(lines, posting.DocumentLine{
			AccountID:   accounts[chart.CodeInventory].ID,
			Debit:       inventoryNet,
			Description: description,
		})
	}
	if capitalNet > 0 {
		lines = append(lines, posting.DocumentLine{
			AccountID:   accounts[chart.CodeFixedAssets].ID,
			Debit:       capitalNet,
			Description: description,
		})
	}
	if totals.Tax > 0 {
		lines = append(lines, posting.DocumentLine{
			AccountID:   accounts[chart.CodePurchaseTax].ID,
			Debit:       totals.Tax,
			Description: "Input tax",
		})
	}
	lines = append(lines, posting.DocumentLine{
		AccountID:   accounts[chart.CodePayable].ID,
		Credit:      totals.Gross,
		Description: description,
	})

	doc := posting.Document{
		Date:          input.Date,
		ReferenceType: "GOODS_RECEIPT",
		ReferenceID:   input.ReceiptID,
		Description:   description,
		CreatedBy:     input.CreatedBy,
		Lines:         lines,
		Subsidiary: &posting.SubsidiaryPosting{
			Kind:      posting.SubjectSupplier,
			SubjectID: input.SupplierID,
			Credit:    totals.Gross,
		},
	}
	return s.poster.Post(ctx, doc)
}
