package repositories

import (
	"context"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account scoped to a company.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs, keyed by
	// account ID. Accounts belonging to other companies are omitted.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns the company's chart of accounts ordered by code.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data. Account balances
// are deliberately absent: they are mutated only by the posting engine inside
// its atomic commit.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount flags an account inactive so new entries cannot
	// reference it. Historic ledger lines are untouched.
	DeactivateAccount(ctx context.Context, companyID, accountID, updatedBy string) error
}

// AccountRepository combines account reads and writes.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
