package dto

import (
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	AccountType  string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	Description  string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string       `json:"accountID"`
	CompanyID     string       `json:"companyID"`
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	AccountType   string       `json:"accountType"`
	NormalBalance string       `json:"normalBalance"`
	CurrencyCode  string       `json:"currencyCode"`
	Description   string       `json:"description"`
	IsActive      bool         `json:"isActive"`
	Balance       domain.Money `json:"balance"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	AccountID string       `json:"accountID"`
	AsOf      *time.Time   `json:"asOf,omitempty"`
	Balance   domain.Money `json:"balance"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		CompanyID:     a.CompanyID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		NormalBalance: string(a.NormalBalance),
		CurrencyCode:  a.CurrencyCode,
		Description:   a.Description,
		IsActive:      a.IsActive,
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
