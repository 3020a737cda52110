package dto

import (
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// ListLedgerLinesParams holds query parameters for a ledger range read.
type ListLedgerLinesParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
}

// LedgerLineResponse defines the data returned for one ledger line.
type LedgerLineResponse struct {
	LineID          string       `json:"lineID"`
	AccountID       string       `json:"accountID"`
	EntryID         string       `json:"entryID"`
	EntryNumber     int64        `json:"entryNumber"`
	TransactionDate time.Time    `json:"transactionDate"`
	Debit           domain.Money `json:"debit"`
	Credit          domain.Money `json:"credit"`
	RunningBalance  domain.Money `json:"runningBalance"`
	Sequence        int64        `json:"sequence"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// LedgerLinesResponse is a page of ledger lines plus the next-page cursor.
type LedgerLinesResponse struct {
	Lines     []LedgerLineResponse `json:"lines"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToLedgerLineResponse converts a domain.LedgerLine to its response DTO.
func ToLedgerLineResponse(l *domain.LedgerLine) LedgerLineResponse {
	return LedgerLineResponse{
		LineID:          l.LineID,
		AccountID:       l.AccountID,
		EntryID:         l.EntryID,
		EntryNumber:     l.EntryNumber,
		TransactionDate: l.TransactionDate,
		Debit:           l.Debit,
		Credit:          l.Credit,
		RunningBalance:  l.RunningBalance,
		Sequence:        l.Sequence,
		CreatedAt:       l.CreatedAt,
	}
}

// ToLedgerLineResponses converts a slice of ledger lines to response DTOs.
func ToLedgerLineResponses(lines []domain.LedgerLine) []LedgerLineResponse {
	responses := make([]LedgerLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLedgerLineResponse(&lines[i])
	}
	return responses
}
