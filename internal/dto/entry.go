package dto

import (
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLine is one line of a proposed journal entry. Exactly one of
// Debit/Credit must be non-zero; the validator enforces this, the binding tags
// only reject negatives early.
type CreateEntryLine struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit" binding:"nonnegmoney"`
	Credit      decimal.Decimal `json:"credit" binding:"nonnegmoney"`
	Description string          `json:"description"`
}

// CreateEntryRequest defines the payload for creating a draft journal entry.
type CreateEntryRequest struct {
	EntryDate    time.Time         `json:"entryDate" binding:"required"`
	Description  string            `json:"description" binding:"required"`
	CurrencyCode string            `json:"currencyCode" binding:"required,len=3"`
	Lines        []CreateEntryLine `json:"lines" binding:"required,min=2,dive"`
}

// VoidEntryRequest defines the payload for voiding a posted entry.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EntryLineResponse defines the data returned for a journal entry line.
type EntryLineResponse struct {
	LineID      string       `json:"lineID"`
	AccountID   string       `json:"accountID"`
	Debit       domain.Money `json:"debit"`
	Credit      domain.Money `json:"credit"`
	Description string       `json:"description,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string              `json:"entryID"`
	CompanyID        string              `json:"companyID"`
	EntryNumber      int64               `json:"entryNumber"`
	EntryDate        time.Time           `json:"entryDate"`
	Description      string              `json:"description"`
	CurrencyCode     string              `json:"currencyCode"`
	Status           string              `json:"status"`
	TotalDebit       domain.Money        `json:"totalDebit"`
	TotalCredit      domain.Money        `json:"totalCredit"`
	PostedAt         *time.Time          `json:"postedAt,omitempty"`
	VoidedAt         *time.Time          `json:"voidedAt,omitempty"`
	VoidReason       string              `json:"voidReason,omitempty"`
	ReversingEntryID *string             `json:"reversingEntryID,omitempty"`
	ReversedEntryID  *string             `json:"reversedEntryID,omitempty"`
	Lines            []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	CreatedBy        string              `json:"createdBy"`
}

// ListEntriesParams holds query parameters for listing entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is a page of entries plus the cursor for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain line to its response DTO.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO,
// including lines when they are loaded.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:          e.EntryID,
		CompanyID:        e.CompanyID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		CurrencyCode:     e.CurrencyCode,
		Status:           string(e.Status),
		TotalDebit:       e.TotalDebit,
		TotalCredit:      e.TotalCredit,
		PostedAt:         e.PostedAt,
		VoidedAt:         e.VoidedAt,
		VoidReason:       e.VoidReason,
		ReversingEntryID: e.ReversingEntryID,
		ReversedEntryID:  e.ReversedEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if e.Lines != nil {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}
