package domain

import "time"

// LedgerLine is one immutable row of the general ledger, produced from a
// journal entry line at post time. Lines are append-only: corrections come
// from reversing entries, never from edits.
//
// For a single account, lines are totally ordered by
// (TransactionDate, Sequence), and RunningBalance at each line equals the
// previous line's running balance plus this line's signed delta.
type LedgerLine struct {
	LineID          string    `json:"lineID"` // Primary key (UUID)
	CompanyID       string    `json:"companyID"`
	AccountID       string    `json:"accountID"`
	EntryID         string    `json:"entryID"`
	EntryNumber     int64     `json:"entryNumber"`
	TransactionDate time.Time `json:"transactionDate"`
	Debit           Money     `json:"debit"`
	Credit          Money     `json:"credit"`
	RunningBalance  Money     `json:"runningBalance"`
	Sequence        int64     `json:"sequence"` // Strictly increasing per account
	CreatedAt       time.Time `json:"createdAt"`
}
