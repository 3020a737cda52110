package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database representation of a journal entry header.
type JournalEntry struct {
	EntryID          string          `db:"entry_id"`
	CompanyID        string          `db:"company_id"`
	EntryNumber      int64           `db:"entry_number"`
	EntryDate        time.Time       `db:"entry_date"`
	Description      string          `db:"description"`
	CurrencyCode     string          `db:"currency_code"`
	Status           string          `db:"status"`
	TotalDebit       decimal.Decimal `db:"total_debit"`
	TotalCredit      decimal.Decimal `db:"total_credit"`
	PostedAt         *time.Time      `db:"posted_at"`
	VoidedAt         *time.Time      `db:"voided_at"`
	VoidReason       string          `db:"void_reason"`
	ReversingEntryID *string         `db:"reversing_entry_id"`
	ReversedEntryID  *string         `db:"reversed_entry_id"`
	AuditFields
}

// JournalEntryLine is the database representation of one entry line.
type JournalEntryLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	LineOrder   int             `db:"line_order"`
}
