package repositories

// RepositoryProvider bundles the concrete repositories behind their ports so
// wiring can pass one value around. The core receives its persistence through
// these interfaces; nothing in the core reaches for an ambient connection.
type RepositoryProvider struct {
	CompanyRepo CompanyRepository
	AccountRepo AccountRepository
	EntryRepo   EntryRepository
	LedgerRepo  LedgerReader
}
