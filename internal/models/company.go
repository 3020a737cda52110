package models

// Company is the database representation of a tenant.
type Company struct {
	CompanyID           string `db:"company_id"`
	Name                string `db:"name"`
	DefaultCurrencyCode string `db:"default_currency_code"`
	NextEntryNumber     int64  `db:"next_entry_number"`
	AuditFields
}
