package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/clearbooks/clearbooks_backend/internal/core/ports/services"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
	"github.com/clearbooks/clearbooks_backend/internal/middleware"
	"github.com/clearbooks/clearbooks_backend/internal/utils/accounting"
)

// ledgerService is the balance aggregator: pure reads that fold signed deltas
// over immutable ledger history. It never modifies ledger lines or accounts.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerReader
	accountRepo portsrepo.AccountReader
}

// NewLedgerService creates a new ledger read service.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader, accountRepo portsrepo.AccountReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// BalanceAsOf folds the account's signed deltas for ledger lines with
// transaction date <= cutoff, in (transactionDate, sequence) order, starting
// from zero.
func (s *ledgerService) BalanceAsOf(ctx context.Context, companyID, accountID string, cutoff time.Time) (domain.Money, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return domain.ZeroMoney(), fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	lines, err := s.ledgerRepo.FindLedgerLinesForAccount(ctx, companyID, accountID, &cutoff)
	if err != nil {
		return domain.ZeroMoney(), fmt.Errorf("failed to read ledger lines for account %s: %w", accountID, err)
	}

	return s.fold(lines, account.NormalBalance)
}

// Recompute folds the account's full ledger history and verifies that both
// the per-line running balances and the cached account balance agree with the
// derived truth. Drift is reported as ErrIntegrity and never auto-corrected.
func (s *ledgerService) Recompute(ctx context.Context, companyID, accountID string) (domain.Money, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return domain.ZeroMoney(), fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	lines, err := s.ledgerRepo.FindLedgerLinesForAccount(ctx, companyID, accountID, nil)
	if err != nil {
		return domain.ZeroMoney(), fmt.Errorf("failed to read ledger lines for account %s: %w", accountID, err)
	}

	balance := domain.ZeroMoney()
	for i := range lines {
		delta, err := accounting.LedgerLineDelta(lines[i], account.NormalBalance)
		if err != nil {
			return domain.ZeroMoney(), err
		}
		balance = balance.Add(delta)
		if !balance.Equal(lines[i].RunningBalance) {
			logger.Error("Running balance chain broken",
				slog.String("account_id", accountID),
				slog.String("line_id", lines[i].LineID),
				slog.Int64("sequence", lines[i].Sequence),
				slog.String("derived", balance.String()),
				slog.String("stored", lines[i].RunningBalance.String()))
			return balance, fmt.Errorf("%w: running balance at sequence %d is %s, derived %s",
				apperrors.ErrIntegrity, lines[i].Sequence, lines[i].RunningBalance, balance)
		}
	}

	if !balance.Equal(account.Balance) {
		logger.Error("Cached balance drifted from ledger history",
			slog.String("account_id", accountID),
			slog.String("cached", account.Balance.String()),
			slog.String("derived", balance.String()))
		return balance, fmt.Errorf("%w: cached balance for account %s is %s, ledger derives %s",
			apperrors.ErrIntegrity, accountID, account.Balance, balance)
	}

	return balance, nil
}

// ListLedgerLines returns a page of an account's ledger lines for a date
// range, ordered by (transactionDate, sequence). Re-querying with the same
// range restarts the listing.
func (s *ledgerService) ListLedgerLines(ctx context.Context, companyID, accountID string, params dto.ListLedgerLinesParams) (*dto.LedgerLinesResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	lines, nextToken, err := s.ledgerRepo.ListLedgerLines(ctx, companyID, accountID, params.From, params.To, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger lines for account %s: %w", accountID, err)
	}

	return &dto.LedgerLinesResponse{
		Lines:     dto.ToLedgerLineResponses(lines),
		NextToken: nextToken,
	}, nil
}

func (s *ledgerService) fold(lines []domain.LedgerLine, normal domain.NormalBalance) (domain.Money, error) {
	balance := domain.ZeroMoney()
	for i := range lines {
		delta, err := accounting.LedgerLineDelta(lines[i], normal)
		if err != nil {
			return domain.ZeroMoney(), err
		}
		balance = balance.Add(delta)
	}
	return balance, nil
}
