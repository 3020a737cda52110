package pgsql

import (
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres-backed repositories over a shared
// connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	return portsrepo.RepositoryProvider{
		CompanyRepo: newPgxCompanyRepository(pool),
		AccountRepo: accountRepo,
		EntryRepo:   newPgxEntryRepository(pool, accountRepo),
		LedgerRepo:  newPgxLedgerRepository(pool),
	}
}
