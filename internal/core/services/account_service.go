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
	"github.com/clearbooks/clearbooks_backend/internal/middleware"
	"github.com/google/uuid"
)

// accountService manages the chart of accounts and doubles as the account
// registry consulted by the validator and the posting path.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	companySvc  portssvc.CompanySvcFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository, companySvc portssvc.CompanySvcFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		companySvc:  companySvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The company must exist before any account can be attached to it.
	if _, err := s.companySvc.GetCompanyByID(ctx, companyID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to verify company for account creation", slog.String("error", err.Error()), slog.String("company_id", companyID))
		}
		return nil, err
	}

	accountType := domain.AccountType(req.AccountType)
	normalBalance, err := domain.NormalBalanceForType(accountType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     companyID,
		Code:          req.Code,
		Name:          req.Name,
		AccountType:   accountType,
		NormalBalance: normalBalance,
		CurrencyCode:  req.CurrencyCode,
		Description:   req.Description,
		IsActive:      true,
		Balance:       domain.ZeroMoney(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("company_id", companyID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, companyID, accountID, updatedBy string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeactivateAccount(ctx, companyID, accountID, updatedBy); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID), slog.String("company_id", companyID))
	return nil
}
