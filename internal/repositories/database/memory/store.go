// Package memory provides a mutex-guarded in-memory implementation of the
// repository ports. It mirrors the Postgres posting semantics, including the
// already-posted conflict and all-or-nothing voiding, and is used by service
// tests and local development without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	"github.com/clearbooks/clearbooks_backend/internal/utils/accounting"
	"github.com/clearbooks/clearbooks_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

// Store holds all ledger state behind one mutex. Every operation takes the
// lock for its whole duration, so posting is serialized the way row locks
// serialize it in Postgres.
type Store struct {
	mu sync.Mutex

	companies map[string]domain.Company
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	// entryLines is keyed by entry ID, in line order.
	entryLines map[string][]domain.JournalEntryLine
	// ledgerLines is keyed by account ID, in (transaction_date, sequence) order.
	ledgerLines map[string][]domain.LedgerLine
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		companies:   make(map[string]domain.Company),
		accounts:    make(map[string]domain.Account),
		entries:     make(map[string]domain.JournalEntry),
		entryLines:  make(map[string][]domain.JournalEntryLine),
		ledgerLines: make(map[string][]domain.LedgerLine),
	}
}

// NewRepositoryProvider exposes one store through all four repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo: s,
		AccountRepo: s,
		EntryRepo:   s,
		LedgerRepo:  s,
	}
}

var (
	_ portsrepo.CompanyRepository = (*Store)(nil)
	_ portsrepo.AccountRepository = (*Store)(nil)
	_ portsrepo.EntryRepository   = (*Store)(nil)
	_ portsrepo.LedgerReader      = (*Store)(nil)
)

// --- CompanyRepository ---

func (s *Store) SaveCompany(_ context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[company.CompanyID]; ok {
		return fmt.Errorf("%w: company %s", apperrors.ErrDuplicate, company.CompanyID)
	}
	s.companies[company.CompanyID] = company
	return nil
}

func (s *Store) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, ok := s.companies[companyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &company, nil
}

func (s *Store) NextEntryNumber(_ context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, ok := s.companies[companyID]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	allocated := company.NextEntryNumber
	company.NextEntryNumber++
	s.companies[companyID] = company
	return allocated, nil
}

// --- AccountRepository ---

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, existing := range s.accounts {
		if existing.CompanyID == account.CompanyID && existing.Code == account.Code {
			return fmt.Errorf("%w: account code %s already exists in company %s", apperrors.ErrDuplicate, account.Code, account.CompanyID)
		}
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindAccountByID(_ context.Context, companyID, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok || account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *Store) FindAccountsByIDs(_ context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findAccountsLocked(companyID, accountIDs), nil
}

func (s *Store) findAccountsLocked(companyID string, accountIDs []string) map[string]domain.Account {
	result := make(map[string]domain.Account)
	for _, id := range accountIDs {
		if account, ok := s.accounts[id]; ok && account.CompanyID == companyID {
			result[id] = account
		}
	}
	return result
}

func (s *Store) ListAccounts(_ context.Context, companyID string) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := []domain.Account{}
	for _, account := range s.accounts {
		if account.CompanyID == companyID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *Store) DeactivateAccount(_ context.Context, companyID, accountID, updatedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok || account.CompanyID != companyID {
		return apperrors.ErrNotFound
	}
	account.IsActive = false
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = updatedBy
	s.accounts[accountID] = account
	return nil
}

// --- EntryRepository ---

func (s *Store) SaveDraftEntry(_ context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.EntryID]; ok {
		return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	entry.Lines = nil
	s.entries[entry.EntryID] = entry
	s.entryLines[entry.EntryID] = append([]domain.JournalEntryLine(nil), lines...)
	return nil
}

func (s *Store) FindEntryByID(_ context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok || entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return &entry, nil
}

func (s *Store) FindLinesByEntryID(_ context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.JournalEntryLine(nil), s.entryLines[entryID]...), nil
}

func (s *Store) ListEntries(_ context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cursor int64 = -1
	if nextToken != nil && *nextToken != "" {
		n, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrBadRequest, err.Error())
		}
		cursor = n
	}

	entries := []domain.JournalEntry{}
	for _, entry := range s.entries {
		if entry.CompanyID != companyID {
			continue
		}
		if cursor >= 0 && entry.EntryNumber >= cursor {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntryNumber > entries[j].EntryNumber })

	var outToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeEntryToken(entries[len(entries)-1].EntryNumber)
		outToken = &token
	}
	return entries, outToken, nil
}

// postLocked materializes ledger lines for an entry and applies the balance
// and sequence updates. Caller holds the lock and has verified the entry may
// post.
func (s *Store) postLocked(entry domain.JournalEntry, lines []domain.JournalEntryLine, now time.Time) ([]domain.LedgerLine, error) {
	// Stage everything first so a failure applies nothing.
	balances := make(map[string]domain.Money)
	sequences := make(map[string]int64)
	dates := make(map[string]time.Time)
	staged := make([]domain.LedgerLine, 0, len(lines))

	for _, line := range lines {
		account, ok := s.accounts[line.AccountID]
		if !ok || account.CompanyID != entry.CompanyID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		if _, ok := balances[line.AccountID]; !ok {
			balances[line.AccountID] = account.Balance
			sequences[line.AccountID] = account.LastSequence
			dates[line.AccountID] = account.LastTransactionDate
		}

		delta, err := accounting.LineDelta(line, account.NormalBalance)
		if err != nil {
			return nil, err
		}
		balances[line.AccountID] = balances[line.AccountID].Add(delta)
		sequences[line.AccountID]++

		// Clamp backdated lines to the account's newest transaction date so
		// (transaction_date, sequence) order stays the commit order.
		transactionDate := entry.EntryDate
		if transactionDate.Before(dates[line.AccountID]) {
			transactionDate = dates[line.AccountID]
		}
		dates[line.AccountID] = transactionDate

		staged = append(staged, domain.LedgerLine{
			LineID:          uuid.NewString(),
			CompanyID:       entry.CompanyID,
			AccountID:       line.AccountID,
			EntryID:         entry.EntryID,
			EntryNumber:     entry.EntryNumber,
			TransactionDate: transactionDate,
			Debit:           line.Debit,
			Credit:          line.Credit,
			RunningBalance:  balances[line.AccountID],
			Sequence:        sequences[line.AccountID],
			CreatedAt:       now,
		})
	}

	for accountID, balance := range balances {
		account := s.accounts[accountID]
		account.Balance = balance
		account.LastSequence = sequences[accountID]
		account.LastTransactionDate = dates[accountID]
		account.LastUpdatedAt = now
		s.accounts[accountID] = account
	}
	for _, ll := range staged {
		s.ledgerLines[ll.AccountID] = append(s.ledgerLines[ll.AccountID], ll)
	}
	return staged, nil
}

func (s *Store) PostEntry(_ context.Context, companyID, entryID string, totalDebit, totalCredit domain.Money, postedBy string, postedAt time.Time) (*domain.JournalEntry, []domain.LedgerLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok || entry.CompanyID != companyID {
		return nil, nil, apperrors.ErrNotFound
	}
	switch entry.Status {
	case domain.Draft:
		// proceed
	case domain.Posted:
		return nil, nil, apperrors.ErrAlreadyPosted
	default:
		return nil, nil, fmt.Errorf("%w: entry %s is %s and cannot be posted", apperrors.ErrConflict, entryID, entry.Status)
	}

	lines := s.entryLines[entryID]
	ledgerLines, err := s.postLocked(entry, lines, postedAt)
	if err != nil {
		return nil, nil, err
	}

	entry.Status = domain.Posted
	entry.TotalDebit = totalDebit
	entry.TotalCredit = totalCredit
	entry.PostedAt = &postedAt
	entry.LastUpdatedAt = postedAt
	entry.LastUpdatedBy = postedBy
	s.entries[entryID] = entry

	out := entry
	out.Lines = append([]domain.JournalEntryLine(nil), lines...)
	return &out, ledgerLines, nil
}

func (s *Store) VoidEntry(_ context.Context, companyID, originalEntryID string, reversing domain.JournalEntry, reversingLines []domain.JournalEntryLine, reason, voidedBy string, voidedAt time.Time) (*domain.JournalEntry, []domain.LedgerLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.entries[originalEntryID]
	if !ok || original.CompanyID != companyID {
		return nil, nil, apperrors.ErrNotFound
	}
	if original.Status != domain.Posted {
		return nil, nil, fmt.Errorf("%w: entry %s is %s and cannot be voided", apperrors.ErrConflict, originalEntryID, original.Status)
	}

	reversing.Status = domain.Posted
	reversing.PostedAt = &voidedAt

	ledgerLines, err := s.postLocked(reversing, reversingLines, voidedAt)
	if err != nil {
		return nil, nil, err
	}

	reversing.Lines = nil
	s.entries[reversing.EntryID] = reversing
	s.entryLines[reversing.EntryID] = append([]domain.JournalEntryLine(nil), reversingLines...)

	original.Status = domain.Void
	original.VoidedAt = &voidedAt
	original.VoidReason = reason
	original.ReversingEntryID = &reversing.EntryID
	original.LastUpdatedAt = voidedAt
	original.LastUpdatedBy = voidedBy
	s.entries[originalEntryID] = original

	out := reversing
	out.Lines = append([]domain.JournalEntryLine(nil), reversingLines...)
	return &out, ledgerLines, nil
}

// --- LedgerReader ---

func ledgerLineBefore(a, b domain.LedgerLine) bool {
	if !a.TransactionDate.Equal(b.TransactionDate) {
		return a.TransactionDate.Before(b.TransactionDate)
	}
	return a.Sequence < b.Sequence
}

func (s *Store) ListLedgerLines(_ context.Context, companyID, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cursorDate time.Time
	var cursorSeq int64
	hasCursor := false
	if nextToken != nil && *nextToken != "" {
		d, seq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrBadRequest, err.Error())
		}
		cursorDate, cursorSeq, hasCursor = d, seq, true
	}

	lines := []domain.LedgerLine{}
	for _, ll := range s.ledgerLines[accountID] {
		if ll.CompanyID != companyID {
			continue
		}
		if from != nil && ll.TransactionDate.Before(*from) {
			continue
		}
		if to != nil && ll.TransactionDate.After(*to) {
			continue
		}
		if hasCursor {
			after := ll.TransactionDate.After(cursorDate) ||
				(ll.TransactionDate.Equal(cursorDate) && ll.Sequence > cursorSeq)
			if !after {
				continue
			}
		}
		lines = append(lines, ll)
	}
	sort.Slice(lines, func(i, j int) bool { return ledgerLineBefore(lines[i], lines[j]) })

	var outToken *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.Sequence)
		outToken = &token
	}
	return lines, outToken, nil
}

func (s *Store) FindLedgerLinesForAccount(_ context.Context, companyID, accountID string, cutoff *time.Time) ([]domain.LedgerLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := []domain.LedgerLine{}
	for _, ll := range s.ledgerLines[accountID] {
		if ll.CompanyID != companyID {
			continue
		}
		if cutoff != nil && ll.TransactionDate.After(*cutoff) {
			continue
		}
		lines = append(lines, ll)
	}
	sort.Slice(lines, func(i, j int) bool { return ledgerLineBefore(lines[i], lines[j]) })
	return lines, nil
}
