package services

import (
	"fmt"
	"time"

	"context"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/clearbooks/clearbooks_backend/internal/core/ports/services"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
	"github.com/clearbooks/clearbooks_backend/internal/middleware"
	"github.com/google/uuid"
)

type companyService struct {
	companyRepo portsrepo.CompanyRepository
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepository) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:           uuid.NewString(),
		Name:                req.Name,
		DefaultCurrencyCode: req.DefaultCurrencyCode,
		NextEntryNumber:     1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		logger.Error("Failed to save company", "error", err)
		return nil, fmt.Errorf("failed to save company: %w", err)
	}

	logger.Info("Company created successfully", "company_id", company.CompanyID)
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	return company, nil
}
