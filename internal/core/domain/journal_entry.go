package domain

import "time"

// EntryStatus indicates the state of a journal entry.
// The machine is Draft -> Posted -> Void; Posted happens exactly once and
// Void at most once. Entries are never deleted.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple entry lines. For any entry past Draft, TotalDebit equals
// TotalCredit exactly and both equal the sums of the line sides.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`     // Primary key (UUID)
	CompanyID   string      `json:"companyID"`   // Owning tenant
	EntryNumber int64       `json:"entryNumber"` // Unique per company, monotonic
	EntryDate   time.Time   `json:"entryDate"`   // Date the event occurred
	Description string      `json:"description"`
	CurrencyCode string     `json:"currencyCode"`
	Status      EntryStatus `json:"status"`
	TotalDebit  Money       `json:"totalDebit"`
	TotalCredit Money       `json:"totalCredit"`
	PostedAt    *time.Time  `json:"postedAt,omitempty"`
	VoidedAt    *time.Time  `json:"voidedAt,omitempty"`
	VoidReason  string      `json:"voidReason,omitempty"`
	// ReversingEntryID links a voided entry to the mirror entry that
	// compensates it; ReversedEntryID is the back-link on the mirror.
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`
	ReversedEntryID  *string `json:"reversedEntryID,omitempty"`
	// Lines are loaded on demand; nil when only the header was fetched.
	Lines []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// IsReversal reports whether this entry was synthesized to compensate another.
func (e *JournalEntry) IsReversal() bool {
	return e.ReversedEntryID != nil
}

// JournalEntryLine is one side-specific movement within an entry. Exactly one
// of Debit/Credit is non-zero; a line is a debit or a credit, never both,
// never neither.
type JournalEntryLine struct {
	LineID      string `json:"lineID"`  // Primary key (UUID)
	EntryID     string `json:"entryID"` // FK -> JournalEntry
	AccountID   string `json:"accountID"`
	Debit       Money  `json:"debit"`
	Credit      Money  `json:"credit"`
	Description string `json:"description"`
	// LineOrder preserves the caller's line ordering for deterministic
	// running-balance materialization inside a single entry.
	LineOrder int `json:"-"`
}

// IsDebit reports whether the line moves the debit side.
func (l JournalEntryLine) IsDebit() bool {
	return !l.Debit.IsZero()
}
