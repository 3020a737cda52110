package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the database representation of a chart-of-accounts row.
// balance caches the running balance of the account's newest ledger line;
// last_sequence is the per-account ledger sequence high-water mark. Both are
// written only by the posting engine inside its transaction.
type Account struct {
	AccountID     string          `db:"account_id"`
	CompanyID     string          `db:"company_id"`
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	AccountType   string          `db:"account_type"`
	NormalBalance string          `db:"normal_balance"`
	CurrencyCode  string          `db:"currency_code"`
	Description   string          `db:"description"`
	IsActive      bool            `db:"is_active"`
	Balance       decimal.Decimal `db:"balance"`
	LastSequence  int64           `db:"last_sequence"`
	// LastTransactionDate mirrors the newest ledger line's transaction date;
	// written only by the posting engine alongside balance and last_sequence.
	LastTransactionDate time.Time `db:"last_transaction_date"`
	AuditFields
}
