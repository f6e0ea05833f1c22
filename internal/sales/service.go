package sales

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

// Service maps client-facing sales events onto balanced ledger postings.
type Service struct {
	registry *chart.Registry
	poster   Poster
}

func NewService(registry *chart.Registry, poster Poster) *Service {
	return &Service{registry: registry, poster: poster}
}

// Invoice posts a client sales invoice: receivable for the gross, revenue for
// the net, output tax to the sales tax liability, mirrored as a debit in the
// client's subsidiary ledger.
func (s *Service) Invoice(ctx context.Context, input InvoiceInput) (posting.JournalEntry, error) {
	accounts, err := s.registry.ResolveMany(chart.CodeReceivable, chart.CodeSalesRevenue, chart.CodeSalesTax)
	if err != nil {
		return posting.JournalEntry{}, err
	}
	totals, err := sumLines(input.Lines)
	if err != nil {
		return posting.JournalEntry{}, err
	}
	description := defaultDescription(input.Description, "Sales invoice")

	lines := []posting.DocumentLine{
		{AccountID: accounts[chart.CodeReceivable].ID, Debit: totals.Gross, Description: description},
		{AccountID: accounts[chart.CodeSalesRevenue].ID, Credit: totals.Net, Description: description},
	}
	if totals.Tax > 0 {
		lines = append(lines, posting.DocumentLine{
			AccountID:   accounts[chart.CodeSalesTax].ID,
			Credit:      totals.Tax,
			Description: "Output tax",
		})
	}

	doc := posting.Document{
		Date:          input.Date,
		ReferenceType: "SALES_INVOICE",
		ReferenceID:   input.InvoiceID,
		Description:   description,
		CreatedBy:     input.CreatedBy,
		Lines:         lines,
		Subsidiary: &posting.SubsidiaryPosting{
			Kind:      posting.SubjectClient,
			SubjectID: input.ClientID,
			Debit:     totals.Gross,
		},
	}
	return s.poster.Post(ctx, doc)
}

// CreditNote reverses invoiced amounts line for line: revenue and output tax
// are debited back and the client's receivable is credited.
func (s *Service) CreditNote(ctx context.Context, input CreditNoteInput) (posting.JournalEntry, error) {
	accounts, err := s.registry.ResolveMany(chart.CodeReceivable, chart.CodeSalesRevenue, chart.CodeSalesTax)
	if err != nil {
		return posting.JournalEntry{}, err
	}
	totals, err := sumLines(input.Lines)
	if err != nil {
		return posting.JournalEntry{}, err
	}
	description := defaultDescription(input.Description, "Credit note")

	lines := []posting.DocumentLine{
		{AccountID: accounts[chart.CodeSalesRevenue].ID, Debit: totals.Net, Description: description},
	}
	if totals.Tax > 0 {
		lines = append(lines, posting.DocumentLine{
			AccountID:   accounts[chart.CodeSalesTax].ID,
			Debit:       totals.Tax,
			Description: "Output tax reversal",
		})
	}
	lines = append(lines, posting.DocumentLine{
		AccountID:   accounts[chart.CodeReceivable].ID,
		Credit:      totals.Gross,
		Description: description,
	})

	doc := posting.Document{
		Date:          input.Date,
		ReferenceType: "CREDIT_NOTE",
		ReferenceID:   input.CreditNoteID,
		Description:   description,
		CreatedBy:     input.CreatedBy,
		Lines:         lines,
		Subsidiary: &posting.SubsidiaryPosting{
			Kind:      posting.SubjectClient,
			SubjectID: input.ClientID,
			Credit:    totals.Gross,
		},
	}
	return s.poster.Post(ctx, doc)
}

// ConfirmReceipt settles part of a client's balance: cash or bank is debited
// and the receivable credited, with a matching credit in the client ledger.
func (s *Service) ConfirmReceipt(ctx context.Context, input ReceiptInput) (posting.JournalEntry, error) {
	settleCode := chart.CodeCash
	if input.Method == PaymentBank {
		settleCode = chart.CodeBank
	}
	accounts, err := s.registry.ResolveMany(settleCode, chart.CodeReceivable)
	if err != nil {
		return posting.JournalEntry{}, err
	}
	amount := tax.Round(input.Amount)
	description := "Client payment received"

	doc := posting.Document{
		Date:          input.Date,
		ReferenceType: "CLIENT_RECEIPT",
		ReferenceID:   input.PaymentID,
		Description:   description,
		CreatedBy:     input.CreatedBy,
		Lines: []posting.DocumentLine{
			{AccountID: accounts[settleCode].ID, Debit: amount, Description: description},
			{AccountID: accounts[chart.CodeReceivable].ID, Credit: amount, Description: description},
		},
		Subsidiary: &posting.SubsidiaryPosting{
			Kind:      posting.SubjectClient,
			SubjectID: input.ClientID,
			Credit:    amount,
		},
	}
	return s.poster.Post(ctx, doc)
}

func sumLines(lines []InvoiceLine) (tax.Split, error) {
	var totals tax.Split
	for _, line := range lines {
		split, err := tax.SplitNet(line.NetAmount, tax.Code(line.TaxCode))
		if err != nil {
			return tax.Split{}, err
		}
		totals = totals.Add(split)
	}
	return totals, nil
}

func defaultDescription(given, fallback string) string {
	if given == "" {
		return fallback
	}
	return given
}
