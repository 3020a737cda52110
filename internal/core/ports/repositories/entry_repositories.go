package repositories

import (
	"context"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// EntryRepository defines persistence for journal entries and the atomic
// posting engine. PostEntry and VoidEntry are the only operations that create
// ledger lines or touch cached balances, and both are all-or-nothing: either
// every ledger line, balance update and status transition lands, or none do.
type EntryRepository interface {
	// SaveDraftEntry inserts a Draft entry together with its lines.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// FindEntryByID retrieves an entry header scoped to a company.
	FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves an entry's lines in their original order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntries returns a page of entry headers ordered by entry number
	// descending, with a cursor token for the next page.
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// PostEntry transitions a Draft entry to Posted: it serializes against
	// other posts touching the same accounts, materializes one ledger line per
	// entry line with running balance and per-account sequence, updates cached
	// balances, and stamps the entry with postedAt and the validated totals.
	// Lines dated before an account's newest ledger line are clamped up to
	// that date, so per-account (transaction_date, sequence) order is always
	// the commit order. A retried post of an already-Posted entry fails with
	// ErrAlreadyPosted and applies nothing.
	PostEntry(ctx context.Context, companyID, entryID string, totalDebit, totalCredit domain.Money, postedBy string, postedAt time.Time) (*domain.JournalEntry, []domain.LedgerLine, error)

	// VoidEntry posts the supplied reversing entry through the same engine and
	// marks the original entry Void with a link to the reversal, atomically.
	// The original's ledger lines are never deleted or edited.
	VoidEntry(ctx context.Context, companyID, originalEntryID string, reversing domain.JournalEntry, reversingLines []domain.JournalEntryLine, reason, voidedBy string, voidedAt time.Time) (*domain.JournalEntry, []domain.LedgerLine, error)
}
