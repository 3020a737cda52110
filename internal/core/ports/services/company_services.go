package services

import (
	"context"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
)

// CompanySvcFacade exposes company (tenant) operations.
type CompanySvcFacade interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}
