package services

import (
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/clearbooks/clearbooks_backend/internal/core/ports/services"
	"github.com/clearbooks/clearbooks_backend/internal/events"
)

// NewServiceContainer wires the application services over the provided
// repositories and event publisher.
func NewServiceContainer(repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Company = NewCompanyService(repos.CompanyRepo)
	container.Account = NewAccountService(repos.AccountRepo, container.Company)
	container.Entry = NewEntryService(repos.EntryRepo, repos.CompanyRepo, container.Account, publisher)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo)

	return container
}
