package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/clearbooks/clearbooks_backend/internal/core/ports/services"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
	"github.com/clearbooks/clearbooks_backend/internal/events"
	"github.com/clearbooks/clearbooks_backend/internal/middleware"
	"github.com/google/uuid"
)

// entryService drives the journal entry lifecycle. Validation is delegated to
// ValidateEntry and the atomic commit to the storage port; this layer owns
// orchestration, entry-number allocation and event publication.
type entryService struct {
	entryRepo   portsrepo.EntryRepository
	companyRepo portsrepo.CompanyRepository
	accountSvc  portssvc.AccountRegistrySvc
	publisher   events.Publisher
}

// NewEntryService creates a new journal entry service.
func NewEntryService(
	entryRepo portsrepo.EntryRepository,
	companyRepo portsrepo.CompanyRepository,
	accountSvc portssvc.AccountRegistrySvc,
	publisher events.Publisher,
) portssvc.EntrySvcFacade {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &entryService{
		entryRepo:   entryRepo,
		companyRepo: companyRepo,
		accountSvc:  accountSvc,
		publisher:   publisher,
	}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// CreateEntry validates and persists a Draft journal entry with a freshly
// allocated per-company entry number. Totals stay zero until posting.
func (s *entryService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lineReq.AccountID,
			Debit:       domain.NewMoney(lineReq.Debit),
			Credit:      domain.NewMoney(lineReq.Credit),
			Description: lineReq.Description,
			LineOrder:   i,
		}
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    companyID,
		EntryDate:    req.EntryDate,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		TotalDebit:   domain.ZeroMoney(),
		TotalCredit:  domain.ZeroMoney(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	accounts, err := s.accountSvc.GetAccountByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		logger.Error("Failed to fetch accounts for entry creation", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	// Reject malformed drafts up front; the post path re-validates anyway.
	if _, err := ValidateEntry(&entry, lines, accounts); err != nil {
		return nil, err
	}

	entryNumber, err := s.companyRepo.NextEntryNumber(ctx, companyID)
	if err != nil {
		logger.Error("Failed to allocate entry number", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to allocate entry number: %w", err)
	}
	entry.EntryNumber = entryNumber

	if err := s.entryRepo.SaveDraftEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}

	logger.Info("Draft entry created", slog.String("entry_id", entryID), slog.Int64("entry_number", entryNumber), slog.String("company_id", companyID))
	entry.Lines = lines
	return &entry, nil
}

// GetEntryByID retrieves an entry together with its lines.
func (s *entryService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entry headers for a company.
func (s *entryService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// PostEntry validates a Draft entry and hands it to the atomic posting
// engine. Posting is keyed by entry ID: a retry against an already-Posted
// entry returns ErrAlreadyPosted with no new ledger lines.
func (s *entryService) PostEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, []domain.LedgerLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	switch entry.Status {
	case domain.Posted:
		return nil, nil, apperrors.ErrAlreadyPosted
	case domain.Void:
		return nil, nil, apperrors.NewValidationError(apperrors.InvalidState, "", "void entries cannot be posted")
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	accounts, err := s.fetchAccountsForLines(ctx, companyID, lines)
	if err != nil {
		return nil, nil, err
	}

	result, err := ValidateEntry(entry, lines, accounts)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	posted, ledgerLines, err := s.entryRepo.PostEntry(ctx, companyID, entryID, result.TotalDebit, result.TotalCredit, userID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, nil, err
	}

	logger.Info("Entry posted", slog.String("entry_id", entryID), slog.Int64("entry_number", posted.EntryNumber), slog.Int("ledger_lines", len(ledgerLines)))
	s.publishPosted(ctx, posted, false)
	return posted, ledgerLines, nil
}

// VoidEntry voids a Posted entry by posting a compensating mirror entry (each
// line's debit and credit swapped) through the same validation and posting
// path, then marking the original Void. The original's ledger lines survive
// untouched; the net balance effect of original plus reversal is zero by
// construction.
func (s *entryService) VoidEntry(ctx context.Context, companyID, entryID, reason, userID string) (*domain.JournalEntry, []domain.LedgerLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	if original.Status != domain.Posted {
		return nil, nil, apperrors.NewValidationError(apperrors.InvalidState, "",
			fmt.Sprintf("only posted entries may be voided, entry status is %s", original.Status))
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	reversingLines := make([]domain.JournalEntryLine, len(originalLines))
	for i, origLine := range originalLines {
		reversingLines[i] = domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     reversingID,
			AccountID:   origLine.AccountID,
			Debit:       origLine.Credit,
			Credit:      origLine.Debit,
			Description: origLine.Description,
			LineOrder:   i,
		}
	}

	// The reversal is dated at the void, not at the original entry: its
	// ledger lines land after everything already posted, so per-account date
	// order is preserved even when voiding an old entry.
	reversing := domain.JournalEntry{
		EntryID:         reversingID,
		CompanyID:       companyID,
		EntryDate:       now,
		Description:     fmt.Sprintf("Reversal of entry #%d: %s", original.EntryNumber, original.Description),
		CurrencyCode:    original.CurrencyCode,
		Status:          domain.Draft,
		ReversedEntryID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	accounts, err := s.fetchAccountsForLines(ctx, companyID, reversingLines)
	if err != nil {
		return nil, nil, err
	}

	result, err := ValidateEntry(&reversing, reversingLines, accounts)
	if err != nil {
		logger.Error("Reversing entry failed validation", slog.String("error", err.Error()), slog.String("original_entry_id", entryID))
		return nil, nil, fmt.Errorf("reversing entry failed validation: %w", err)
	}
	reversing.TotalDebit = result.TotalDebit
	reversing.TotalCredit = result.TotalCredit

	reversingNumber, err := s.companyRepo.NextEntryNumber(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to allocate entry number for reversal: %w", err)
	}
	reversing.EntryNumber = reversingNumber

	posted, ledgerLines, err := s.entryRepo.VoidEntry(ctx, companyID, entryID, reversing, reversingLines, reason, userID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to void entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, nil, err
	}

	logger.Info("Entry voided", slog.String("entry_id", entryID), slog.String("reversing_entry_id", reversingID))
	s.publishPosted(ctx, posted, true)
	return posted, ledgerLines, nil
}

func (s *entryService) fetchAccountsForLines(ctx context.Context, companyID string, lines []domain.JournalEntryLine) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accounts, nil
}

// publishPosted emits an EntryPosted event after commit. Best-effort: the
// entry is already durable, so a publish failure is logged and swallowed.
func (s *entryService) publishPosted(ctx context.Context, entry *domain.JournalEntry, reversal bool) {
	postedAt := time.Now().UTC()
	if entry.PostedAt != nil {
		postedAt = *entry.PostedAt
	}
	event := events.EntryPosted{
		EntryID:     entry.EntryID,
		CompanyID:   entry.CompanyID,
		EntryNumber: entry.EntryNumber,
		TotalDebit:  entry.TotalDebit,
		TotalCredit: entry.TotalCredit,
		Reversal:    reversal,
		PostedAt:    postedAt,
	}
	if err := s.publisher.PublishEntryPosted(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish entry posted event",
			slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
	}
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
