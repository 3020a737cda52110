package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	"github.com/clearbooks/clearbooks_backend/internal/models"
	"github.com/clearbooks/clearbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerColumns = `line_id, company_id, account_id, entry_id, entry_number, transaction_date, debit, credit, running_balance, sequence, created_at`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

func toDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:          m.LineID,
		CompanyID:       m.CompanyID,
		AccountID:       m.AccountID,
		EntryID:         m.EntryID,
		EntryNumber:     m.EntryNumber,
		TransactionDate: m.TransactionDate,
		Debit:           domain.NewMoney(m.Debit),
		Credit:          domain.NewMoney(m.Credit),
		RunningBalance:  domain.NewMoney(m.RunningBalance),
		Sequence:        m.Sequence,
		CreatedAt:       m.CreatedAt,
	}
}

func scanLedgerLine(row pgx.Row) (models.LedgerLine, error) {
	var m models.LedgerLine
	err := row.Scan(
		&m.LineID,
		&m.CompanyID,
		&m.AccountID,
		&m.EntryID,
		&m.EntryNumber,
		&m.TransactionDate,
		&m.Debit,
		&m.Credit,
		&m.RunningBalance,
		&m.Sequence,
		&m.CreatedAt,
	)
	return m, err
}

// ListLedgerLines returns one page of an account's ledger within the optional
// date range, in (transaction_date, sequence) order. The cursor token carries
// the last row's ordering tuple so the next page resumes after it.
func (r *PgxLedgerRepository) ListLedgerLines(ctx context.Context, companyID, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	args := []any{companyID, accountID}
	query := `SELECT ` + ledgerColumns + ` FROM ledger_lines WHERE company_id = $1 AND account_id = $2`

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrBadRequest, err.Error())
		}
		args = append(args, cursorDate, cursorSeq)
		query += fmt.Sprintf(" AND (transaction_date, sequence) > ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY transaction_date, sequence LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		m, err := scanLedgerLine(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger line row", err)
		}
		lines = append(lines, toDomainLedgerLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger line rows", err)
	}

	var outToken *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.Sequence)
		outToken = &token
	}
	return lines, outToken, nil
}

// FindLedgerLinesForAccount returns the account's full ledger history up to
// the cutoff date (inclusive), oldest first. A nil cutoff returns everything.
func (r *PgxLedgerRepository) FindLedgerLinesForAccount(ctx context.Context, companyID, accountID string, cutoff *time.Time) ([]domain.LedgerLine, error) {
	args := []any{companyID, accountID}
	query := `SELECT ` + ledgerColumns + ` FROM ledger_lines WHERE company_id = $1 AND account_id = $2`

	if cutoff != nil {
		args = append(args, *cutoff)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}
	query += " ORDER BY transaction_date, sequence;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger history for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		m, err := scanLedgerLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger line row", err)
		}
		lines = append(lines, toDomainLedgerLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger line rows", err)
	}
	return lines, nil
}
