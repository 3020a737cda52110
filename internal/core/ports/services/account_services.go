package services

import (
	"context"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
)

// AccountRegistrySvc is the read-mostly account lookup the validator and the
// posting path consult. Implemented by the account service.
type AccountRegistrySvc interface {
	// GetAccountByIDs returns the requested accounts keyed by ID, scoped to
	// the company. IDs that do not exist in the company are absent from the
	// map rather than an error; callers decide how to treat them.
	GetAccountByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
}

// AccountSvcFacade exposes account chart management plus the registry reads.
type AccountSvcFacade interface {
	AccountRegistrySvc

	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, companyID, accountID, updatedBy string) error
}
