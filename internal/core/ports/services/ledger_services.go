package services

import (
	"context"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
)

// LedgerSvcFacade exposes the balance aggregator and ledger range reads.
// All operations are pure reads over immutable ledger history.
type LedgerSvcFacade interface {
	// BalanceAsOf folds the account's signed deltas for lines with
	// transaction date <= cutoff, starting from zero.
	BalanceAsOf(ctx context.Context, companyID, accountID string, cutoff time.Time) (domain.Money, error)

	// Recompute folds the account's full history and compares the result
	// against the cached balance. It returns the derived balance; when the
	// cache has drifted it additionally returns an error matching
	// ErrIntegrity. The cache is never corrected here.
	Recompute(ctx context.Context, companyID, accountID string) (domain.Money, error)

	// ListLedgerLines returns a page of an account's ledger lines for a date
	// range, ordered by (transactionDate, sequence).
	ListLedgerLines(ctx context.Context, companyID, accountID string, params dto.ListLedgerLinesParams) (*dto.LedgerLinesResponse, error)
}
