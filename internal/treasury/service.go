package treasury

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

// Service maps money movements onto balanced ledger postings.
type Service struct {
	registry *chart.Registry
	poster   Poster
}

func NewService(registry *chart.Registry, poster Poster) *Service {
	return &Service{registry: registry, poster: poster}
}

func settleCode(method PaymentMethod) string {
	if method == PaymentBank {
		return chart.CodeBank
	}
	return chart.CodeCash
}

// PaySupplier settles part of a supplier's balance: payable is debited and
// cash or bank credited, with a matching debit in the supplier ledger.
func (s *Service) PaySupplier(ctx context.Context, input SupplierPaymentInput) (posting.JournalEntry, error) {
	code := settleCode(input.Method)
	accounts, err := s.registry.ResolveMany(chart.CodePayable, code)
	if err != nil {
		return posting.JournalEntry{}, err
	}
	amount := tax.Round(input.Amount)
	description := "Supplier payment"

	doc := posting.Document{
		Date:          input.Date,
		ReferenceType: "SUPPLIER_PAYMENT",
		ReferenceID:   input.PaymentID,
		Description:   description,
		CreatedBy:     input.CreatedBy,
		Lines: []posting.DocumentLine{
			{AccountID: accounts[chart.CodePayable].ID, Debit: amount, Description: description},
			{AccountID: accounts[code].ID, Credit: amount, Description: description},
		},
		Subsidiary: &posting.SubsidiaryPosting{
			Kind:      posting.SubjectSupplier,
			SubjectID: input.SupplierID,
			Debit:     amount,
		},
	}
	return s.poster.Post(ctx, doc)
}

// RecordExpense posts an operating expense paid on the spot: the net to the
// expense account, claimable tax to the purchase tax control account, and the
// gross out of cash or bank. No counterparty is involved.
func (s *Service) RecordExpense(ctx context.Context, input ExpenseInput) (posting.JournalEntry, error) {
	code := settleCode(input.Method)
	accounts, err := s.registry.ResolveMany(chart.CodeOperatingExpense, chart.CodePurchaseTax, code)
	if err != nil {
		return posting.JournalEntry{}, err
	}
	split, err := tax.SplitGross(input.GrossAmount, tax.Code(input.TaxCode))
	if err != nil {
		return posting.JournalEntry{}, err
	}

	lines := []posting.DocumentLine{
		{AccountID: accounts[chart.CodeOperatingExpense].ID, Debit: split.Net, Description: input.Description},
	}
	if split.Tax > 0 {
		lines = append(lines, posting.DocumentLine{
			AccountID:   accounts[chart.CodePurchaseTax].ID,
			Debit:       split.Tax,
			Description: "Input tax",
		})
	}
	lines = append(lines, posting.DocumentLine{
		AccountID:   accounts[code].ID,
		Credit:      split.Gross,
		Description: input.Description,
	})

	doc := posting.Document{
		Date:          input.Date,
		ReferenceType: "EXPENSE",
		ReferenceID:   input.ExpenseID,
		Description:   input.Description,
		CreatedBy:     input.CreatedBy,
		Lines:         lines,
	}
	return s.poster.Post(ctx, doc)
}

// ContributeEquity records owner capital paid in: cash or bank is debited and
// owner capital credited.
func (s *Service) ContributeEquity(ctx context.Context, input EquityContributionInput) (posting.JournalEntry, error) {
	code := settleCode(input.Method)
	accounts, err := s.registry.ResolveMany(code, chart.CodeOwnerCapital)
	if err != nil {
		return posting.JournalEntry{}, err
	}
	amount := tax.Round(input.Amount)
	description := input.Description
	if description == "" {
		description = "Owner capital contribution"
	}

	doc := posting.Document{
		Date:          input.Date,
		ReferenceType: "EQUITY_CONTRIBUTION",
		ReferenceID:   input.ContributionID,
		Description:   description,
		CreatedBy:     input.CreatedBy,
		Lines: []posting.DocumentLine{
			{AccountID: accounts[code].ID, Debit: amount, Description: description},
			{AccountID: accounts[chart.CodeOwnerCapital].ID, Credit: amount, Description: description},
		},
	}
	return s.poster.Post(ctx, doc)
}
