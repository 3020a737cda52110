package repositories

import (
	"context"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// LedgerReader defines read access to materialized ledger lines. Ledger lines
// are immutable once committed, so these reads never block on posting locks.
type LedgerReader interface {
	// ListLedgerLines returns a page of an account's ledger lines within the
	// optional [from, to] date range, ordered by (transaction_date, sequence)
	// ascending, with a cursor token for the next page. Re-querying with the
	// same range restarts the sequence.
	ListLedgerLines(ctx context.Context, companyID, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerLine, *string, error)

	// FindLedgerLinesForAccount returns all of an account's ledger lines with
	// transaction_date <= cutoff (no cutoff when nil), ordered by
	// (transaction_date, sequence) ascending. Used by the balance aggregator.
	FindLedgerLinesForAccount(ctx context.Context, companyID, accountID string, cutoff *time.Time) ([]domain.LedgerLine, error)
}
