package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerLine is the database representation of one immutable general ledger
// row. Rows are append-only; there is no update path for this table.
type LedgerLine struct {
	LineID          string          `db:"line_id"`
	CompanyID       string          `db:"company_id"`
	AccountID       string          `db:"account_id"`
	EntryID         string          `db:"entry_id"`
	EntryNumber     int64           `db:"entry_number"`
	TransactionDate time.Time       `db:"transaction_date"`
	Debit           decimal.Decimal `db:"debit"`
	Credit          decimal.Decimal `db:"credit"`
	RunningBalance  decimal.Decimal `db:"running_balance"`
	Sequence        int64           `db:"sequence"`
	CreatedAt       time.Time       `db:"created_at"`
}
