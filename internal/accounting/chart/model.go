package chart

import "time"

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AccountKind refines the category for accounts the posting adapters treat
// specially. Most accounts carry KindGeneral.
type AccountKind string

const (
	KindGeneral      AccountKind = "GENERAL"
	KindCash         AccountKind = "CASH"
	KindBank         AccountKind = "BANK"
	KindReceivable   AccountKind = "RECEIVABLE"
	KindPayable      AccountKind = "PAYABLE"
	KindInventory    AccountKind = "INVENTORY"
	KindFixedAsset   AccountKind = "FIXED_ASSET"
	KindContraAsset  AccountKind = "CONTRA_ASSET"
	KindTaxControl   AccountKind = "TAX_CONTROL"
)

// Side identifies an account's normal balance side.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// Account models a chart of accounts node. Accounts are never hard-deleted;
// ledger rows reference them permanently, so retirement only clears IsActive.
type Account struct {
	ID        int64
	Code      string
	Name      string
	Type      AccountType
	Kind      AccountKind
	ParentID  *int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalSide reports which side a balance of this type conventionally sits on.
// Contra-asset accounts (accumulated depreciation) are credit-normal despite
// being classified as assets.
func (a Account) NormalSide() Side {
	if a.Kind == KindContraAsset {
		return SideCredit
	}
	return NormalSideFor(a.Type)
}

// NormalSideFor maps an account type to its conventional balance side.
func NormalSideFor(t AccountType) Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}
