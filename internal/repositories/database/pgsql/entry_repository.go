package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	"github.com/clearbooks/clearbooks_backend/internal/models"
	"github.com/clearbooks/clearbooks_backend/internal/utils/accounting"
	"github.com/clearbooks/clearbooks_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, company_id, entry_number, entry_date, description, currency_code, status, total_debit, total_credit, posted_at, voided_at, void_reason, reversing_entry_id, reversed_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const entryLineColumns = `line_id, entry_id, account_id, debit, credit, description, line_order`

// PgxEntryRepository persists journal entries and runs the atomic posting
// transaction that materializes ledger lines.
type PgxEntryRepository struct {
	BaseRepository
	accounts *PgxAccountRepository
}

func newPgxEntryRepository(pool *pgxpool.Pool, accounts *PgxAccountRepository) *PgxEntryRepository {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accounts:       accounts,
	}
}

var _ portsrepo.EntryRepository = (*PgxEntryRepository)(nil)

func toDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		CompanyID:        m.CompanyID,
		EntryNumber:      m.EntryNumber,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.EntryStatus(m.Status),
		TotalDebit:       domain.NewMoney(m.TotalDebit),
		TotalCredit:      domain.NewMoney(m.TotalCredit),
		PostedAt:         m.PostedAt,
		VoidedAt:         m.VoidedAt,
		VoidReason:       m.VoidReason,
		ReversingEntryID: m.ReversingEntryID,
		ReversedEntryID:  m.ReversedEntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       domain.NewMoney(m.Debit),
		Credit:      domain.NewMoney(m.Credit),
		Description: m.Description,
		LineOrder:   m.LineOrder,
	}
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.PostedAt,
		&m.VoidedAt,
		&m.VoidReason,
		&m.ReversingEntryID,
		&m.ReversedEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveDraftEntry inserts the entry header and its lines in one transaction.
func (r *PgxEntryRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction for draft entry", err)
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryHeader(ctx, tx, entry); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		return apperrors.NewAppError(500, "failed to insert draft entry "+entry.EntryID, err)
	}

	if err := r.insertEntryLines(ctx, tx, lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for draft entry "+entry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit draft entry "+entry.EntryID, err)
	}
	return nil
}

func (r *PgxEntryRepository) insertEntryHeader(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.CompanyID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		entry.CurrencyCode,
		string(entry.Status),
		entry.TotalDebit.Decimal,
		entry.TotalCredit.Decimal,
		entry.PostedAt,
		entry.VoidedAt,
		entry.VoidReason,
		entry.ReversingEntryID,
		entry.ReversedEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	return err
}

func (r *PgxEntryRepository) insertEntryLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO journal_entry_lines (` + entryLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.Debit.Decimal,
			line.Credit.Decimal,
			line.Description,
			line.LineOrder,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert entry line %d: %w", i, err)
		}
	}
	return nil
}

// FindEntryByID retrieves an entry header scoped to a company.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1 AND company_id = $2;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}

	entry := toDomainEntry(m)
	return &entry, nil
}

// FindLinesByEntryID retrieves an entry's lines in their original order.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + entryLineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_order;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var m models.JournalEntryLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.Debit, &m.Credit, &m.Description, &m.LineOrder); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry line row", err)
		}
		lines = append(lines, toDomainEntryLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry line rows", err)
	}
	return lines, nil
}

// ListEntries returns a page of entry headers, newest first, using keyset
// pagination on the per-company entry number.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{companyID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1`

	if nextToken != nil && *nextToken != "" {
		cursorNumber, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrBadRequest, err.Error())
		}
		args = append(args, cursorNumber)
		query += fmt.Sprintf(" AND entry_number < $%d", len(args))
	}

	// Fetch one extra row to know whether another page exists.
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY entry_number DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for company "+companyID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var outToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeEntryToken(entries[len(entries)-1].EntryNumber)
		outToken = &token
	}
	return entries, outToken, nil
}

// lockEntryForPosting selects the entry row FOR UPDATE so a concurrent post or
// void of the same entry serializes behind this transaction and then observes
// the committed status.
func (r *PgxEntryRepository) lockEntryForPosting(ctx context.Context, tx pgx.Tx, companyID, entryID string) (domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1 AND company_id = $2 FOR UPDATE;`

	m, err := scanEntry(tx.QueryRow(ctx, query, entryID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JournalEntry{}, apperrors.ErrNotFound
		}
		return domain.JournalEntry{}, fmt.Errorf("failed to lock entry %s for posting: %w", entryID, err)
	}
	return toDomainEntry(m), nil
}

// materializeLedgerLines turns entry lines into ledger rows against the locked
// account snapshots: each row gets the account's next sequence number and the
// running balance after applying the line's signed delta. Lines are applied in
// LineOrder so the chain within one entry is deterministic.
//
// A line dated before the account's newest ledger line is clamped up to that
// date: per account, transaction dates never decrease with sequence, so the
// (transaction_date, sequence) total order is the commit order and the
// running-balance chain holds when read back in that order.
func materializeLedgerLines(entry domain.JournalEntry, lines []domain.JournalEntryLine, accounts map[string]domain.Account, createdAt time.Time) ([]domain.LedgerLine, map[string]decimal.Decimal, map[string]int64, map[string]time.Time, error) {
	balances := make(map[string]decimal.Decimal, len(accounts))
	sequences := make(map[string]int64, len(accounts))
	dates := make(map[string]time.Time, len(accounts))
	for id, account := range accounts {
		balances[id] = account.Balance.Decimal
		sequences[id] = account.LastSequence
		dates[id] = account.LastTransactionDate
	}

	ledgerLines := make([]domain.LedgerLine, 0, len(lines))
	for _, line := range lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return nil, nil, nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}

		delta, err := accounting.LineDelta(line, account.NormalBalance)
		if err != nil {
			return nil, nil, nil, nil, err
		}

		balances[line.AccountID] = balances[line.AccountID].Add(delta.Decimal)
		sequences[line.AccountID]++

		transactionDate := entry.EntryDate
		if transactionDate.Before(dates[line.AccountID]) {
			transactionDate = dates[line.AccountID]
		}
		dates[line.AccountID] = transactionDate

		ledgerLines = append(ledgerLines, domain.LedgerLine{
			LineID:          uuid.NewString(),
			CompanyID:       entry.CompanyID,
			AccountID:       line.AccountID,
			EntryID:         entry.EntryID,
			EntryNumber:     entry.EntryNumber,
			TransactionDate: transactionDate,
			Debit:           line.Debit,
			Credit:          line.Credit,
			RunningBalance:  domain.NewMoney(balances[line.AccountID]),
			Sequence:        sequences[line.AccountID],
			CreatedAt:       createdAt,
		})
	}
	return ledgerLines, balances, sequences, dates, nil
}

func (r *PgxEntryRepository) insertLedgerLines(ctx context.Context, tx pgx.Tx, ledgerLines []domain.LedgerLine) error {
	query := `
		INSERT INTO ledger_lines (line_id, company_id, account_id, entry_id, entry_number, transaction_date, debit, credit, running_balance, sequence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, ll := range ledgerLines {
		batch.Queue(query,
			ll.LineID,
			ll.CompanyID,
			ll.AccountID,
			ll.EntryID,
			ll.EntryNumber,
			ll.TransactionDate,
			ll.Debit.Decimal,
			ll.Credit.Decimal,
			ll.RunningBalance.Decimal,
			ll.Sequence,
			ll.CreatedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert ledger line %d: %w", i, err)
		}
	}
	return nil
}

// postEntryInTx runs the shared posting core: lock the touched accounts in
// account_id order, materialize ledger lines with running balances and
// sequences, append them, and write back the accounts' new balance and
// sequence high-water marks.
func (r *PgxEntryRepository) postEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalEntryLine, userID string, now time.Time) ([]domain.LedgerLine, error) {
	accountIDs := uniqueAccountIDs(lines)
	accounts, err := r.accounts.findAccountsForPosting(ctx, tx, entry.CompanyID, accountIDs)
	if err != nil {
		return nil, err
	}

	ledgerLines, finalBalances, finalSequences, finalDates, err := materializeLedgerLines(entry, lines, accounts, now)
	if err != nil {
		return nil, err
	}

	if err := r.insertLedgerLines(ctx, tx, ledgerLines); err != nil {
		return nil, err
	}
	if err := r.accounts.updateAccountPostingState(ctx, tx, finalBalances, finalSequences, finalDates, userID, now); err != nil {
		return nil, err
	}
	return ledgerLines, nil
}

func uniqueAccountIDs(lines []domain.JournalEntryLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}
	return ids
}

// PostEntry transitions a Draft entry to Posted atomically. A concurrent or
// repeated post of the same entry observes the POSTED status under the row
// lock and fails with ErrAlreadyPosted without touching any balance.
func (r *PgxEntryRepository) PostEntry(ctx context.Context, companyID, entryID string, totalDebit, totalCredit domain.Money, postedBy string, postedAt time.Time) (*domain.JournalEntry, []domain.LedgerLine, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to begin posting transaction", err)
	}
	defer r.Rollback(ctx, tx)

	entry, err := r.lockEntryForPosting(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, nil, err
	}
	switch entry.Status {
	case domain.Draft:
		// proceed
	case domain.Posted:
		return nil, nil, apperrors.ErrAlreadyPosted
	default:
		return nil, nil, fmt.Errorf("%w: entry %s is %s and cannot be posted", apperrors.ErrConflict, entryID, entry.Status)
	}

	lines, err := r.findLinesInTx(ctx, tx, entryID)
	if err != nil {
		return nil, nil, err
	}

	ledgerLines, err := r.postEntryInTx(ctx, tx, entry, lines, postedBy, postedAt)
	if err != nil {
		return nil, nil, err
	}

	updateQuery := `
		UPDATE journal_entries
		SET status = $2, total_debit = $3, total_credit = $4, posted_at = $5, last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, entryID, string(domain.Posted), totalDebit.Decimal, totalCredit.Decimal, postedAt, postedBy); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to mark entry posted "+entryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to commit posting transaction for entry "+entryID, err)
	}

	entry.Status = domain.Posted
	entry.TotalDebit = totalDebit
	entry.TotalCredit = totalCredit
	entry.PostedAt = &postedAt
	entry.LastUpdatedAt = postedAt
	entry.LastUpdatedBy = postedBy
	entry.Lines = lines
	return &entry, ledgerLines, nil
}

func (r *PgxEntryRepository) findLinesInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + entryLineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_order;`

	rows, err := tx.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var m models.JournalEntryLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.Debit, &m.Credit, &m.Description, &m.LineOrder); err != nil {
			return nil, fmt.Errorf("failed to scan entry line row: %w", err)
		}
		lines = append(lines, toDomainEntryLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry line rows: %w", err)
	}
	return lines, nil
}

// VoidEntry posts the reversing entry through the same engine and marks the
// original Void, all in one transaction. The original's ledger lines are left
// untouched; the reversal's new lines are what cancel them out.
func (r *PgxEntryRepository) VoidEntry(ctx context.Context, companyID, originalEntryID string, reversing domain.JournalEntry, reversingLines []domain.JournalEntryLine, reason, voidedBy string, voidedAt time.Time) (*domain.JournalEntry, []domain.LedgerLine, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to begin void transaction", err)
	}
	defer r.Rollback(ctx, tx)

	original, err := r.lockEntryForPosting(ctx, tx, companyID, originalEntryID)
	if err != nil {
		return nil, nil, err
	}
	if original.Status != domain.Posted {
		return nil, nil, fmt.Errorf("%w: entry %s is %s and cannot be voided", apperrors.ErrConflict, originalEntryID, original.Status)
	}

	reversing.Status = domain.Posted
	reversing.PostedAt = &voidedAt
	if err := r.insertEntryHeader(ctx, tx, reversing); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to insert reversing entry for "+originalEntryID, err)
	}
	if err := r.insertEntryLines(ctx, tx, reversingLines); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to insert reversing entry lines for "+originalEntryID, err)
	}

	ledgerLines, err := r.postEntryInTx(ctx, tx, reversing, reversingLines, voidedBy, voidedAt)
	if err != nil {
		return nil, nil, err
	}

	voidQuery := `
		UPDATE journal_entries
		SET status = $2, voided_at = $3, void_reason = $4, reversing_entry_id = $5, last_updated_at = $3, last_updated_by = $6
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, voidQuery, originalEntryID, string(domain.Void), voidedAt, reason, reversing.EntryID, voidedBy); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to mark entry void "+originalEntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to commit void transaction for entry "+originalEntryID, err)
	}

	reversing.Lines = reversingLines
	return &reversing, ledgerLines, nil
}
