package domain

// Company is the tenant boundary: every account, entry and ledger line belongs
// to exactly one company and no cross-company references are permitted.
type Company struct {
	CompanyID           string `json:"companyID"` // Primary key (UUID)
	Name                string `json:"name"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
	// NextEntryNumber is the per-company allocation counter for journal entry
	// numbers. Mutated only by the entry-number allocator.
	NextEntryNumber int64 `json:"-"`
	AuditFields
}
