package services

import (
	"context"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
)

// EntrySvcFacade exposes the journal entry lifecycle: draft creation, the
// posting engine, and void-by-reversal.
type EntrySvcFacade interface {
	// CreateEntry validates and persists a Draft entry, allocating its
	// per-company entry number.
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns a page of entry headers.
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// PostEntry atomically posts a Draft entry, returning the posted entry and
	// its materialized ledger lines. Re-posting a Posted entry fails with
	// ErrAlreadyPosted; posting a Void entry fails validation (InvalidState).
	PostEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, []domain.LedgerLine, error)

	// VoidEntry voids a Posted entry by posting a compensating mirror entry,
	// returning the reversing entry and its ledger lines.
	VoidEntry(ctx context.Context, companyID, entryID, reason, userID string) (*domain.JournalEntry, []domain.LedgerLine, error)
}
