package chart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Fixed codes the posting adapters resolve by contract. The values mirror the
// chart seeded at deployment; changing one here without reseeding makes every
// adapter that needs it fail with ErrAccountNotConfigured.
const (
	CodeCash              = "1000"
	CodeBank              = "1100"
	CodeReceivable        = "1200"
	CodeInventory         = "1300"
	CodeFixedAssets       = "1400"
	CodeAccumDepreciation = "1450"
	CodePurchaseTax       = "1500"
	CodePayable           = "2000"
	CodeSalesTax          = "2100"
	CodeOwnerCapital      = "3000"
	CodeSalesRevenue      = "400001"
	CodePurchases         = "5100"
	CodeOperatingExpense  = "6000"
	CodeDepreciationExp   = "6100"
)

type seedAccount struct {
	Code string
	Name string
	Type AccountType
	Kind AccountKind
}

var seedAccounts = []seedAccount{
	{CodeCash, "Cash on Hand", AccountTypeAsset, KindCash},
	{CodeBank, "Bank Account", AccountTypeAsset, KindBank},
	{CodeReceivable, "Accounts Receivable", AccountTypeAsset, KindReceivable},
	{CodeInventory, "Store Inventory", AccountTypeAsset, KindInventory},
	{CodeFixedAssets, "Fixed Assets", AccountTypeAsset, KindFixedAsset},
	{CodeAccumDepreciation, "Accumulated Depreciation", AccountTypeAsset, KindContraAsset},
	{CodePurchaseTax, "Purchase Tax Control", AccountTypeAsset, KindTaxControl},
	{CodePayable, "Accounts Payable", AccountTypeLiability, KindPayable},
	{CodeSalesTax, "Sales Tax Payable", AccountTypeLiability, KindTaxControl},
	{CodeOwnerCapital, "Owner Capital", AccountTypeEquity, KindGeneral},
	{CodeSalesRevenue, "Sales Revenue", AccountTypeRevenue, KindGeneral},
	{CodePurchases, "Purchases", AccountTypeExpense, KindGeneral},
	{CodeOperatingExpense, "Operating Expenses", AccountTypeExpense, KindGeneral},
	{CodeDepreciationExp, "Depreciation Expense", AccountTypeExpense, KindGeneral},
}

// EnsureSeed inserts any missing fixed accounts. Existing rows are left alone
// so renames and deactivations done by operators survive restarts.
func EnsureSeed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range seedAccounts {
		_, err := pool.Exec(ctx, `INSERT INTO accounts (code, name, type, kind, is_active)
VALUES ($1,$2,$3,$4,true) ON CONFLICT (code) DO NOTHING`, s.Code, s.Name, s.Type, s.Kind)
		if err != nil {
			return fmt.Errorf("chart: seed %s: %w", s.Code, err)
		}
	}
	return nil
}
