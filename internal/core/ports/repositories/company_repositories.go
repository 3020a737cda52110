package repositories

import (
	"context"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// CompanyRepository defines persistence operations for companies, the tenant
// boundary of the ledger.
type CompanyRepository interface {
	// SaveCompany inserts a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// NextEntryNumber allocates and returns the next journal entry number for
	// the company. Numbers are unique and monotonically increasing per
	// company; gaps from abandoned drafts are acceptable.
	NextEntryNumber(ctx context.Context, companyID string) (int64, error)
}
