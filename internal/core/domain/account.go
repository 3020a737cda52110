package domain

import (
	"fmt"
	"time"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance normally increases.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// NormalBalanceForType maps an account type to its normal balance side.
// Assets and expenses increase on debit; liabilities, equity and revenue
// increase on credit.
func NormalBalanceForType(t AccountType) (NormalBalance, error) {
	switch t {
	case Asset, Expense:
		return DebitNormal, nil
	case Liability, Equity, Revenue:
		return CreditNormal, nil
	default:
		return "", fmt.Errorf("unknown account type %q", t)
	}
}

// Account represents a financial account within a company's chart.
// Balance is a cache of the most recent ledger line's running balance and is
// mutated exclusively by the posting engine; LastSequence is the per-account
// ledger sequence high-water mark advanced under the same lock.
type Account struct {
	AccountID     string        `json:"accountID"` // Primary key (UUID)
	CompanyID     string        `json:"companyID"`
	Code          string        `json:"code"` // User-facing chart code, unique per company
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	NormalBalance NormalBalance `json:"normalBalance"`
	CurrencyCode  string        `json:"currencyCode"`
	Description   string        `json:"description"`
	IsActive      bool          `json:"isActive"`
	AuditFields
	Balance      Money `json:"balance"`
	LastSequence int64 `json:"-"`
	// LastTransactionDate is the transaction date of the account's newest
	// ledger line. Posting clamps earlier-dated lines up to it so that
	// (transaction_date, sequence) order always agrees with commit order.
	LastTransactionDate time.Time `json:"-"`
}
