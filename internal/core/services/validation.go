package services

import (
	"fmt"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// ValidationResult carries the totals computed by a successful validation.
// The posting engine stamps these onto the entry at commit.
type ValidationResult struct {
	TotalDebit  domain.Money
	TotalCredit domain.Money
}

// ValidateEntry performs the structural and business validation of a proposed
// journal entry against the supplied account registry snapshot. It is a pure
// function: no side effects, fail-fast on the first violated check.
//
// Check order: line count, account references, line shape, exact debit/credit
// balance, entry state.
func ValidateEntry(entry *domain.JournalEntry, lines []domain.JournalEntryLine, accounts map[string]domain.Account) (*ValidationResult, error) {
	if len(lines) < 2 {
		return nil, apperrors.NewValidationError(apperrors.TooFewLines, "",
			fmt.Sprintf("journal entry must have at least two lines, got %d", len(lines)))
	}

	for _, line := range lines {
		acc, found := accounts[line.AccountID]
		if !found {
			return nil, apperrors.NewValidationError(apperrors.UnknownAccount, line.AccountID,
				"account does not exist in this company")
		}
		if acc.CompanyID != entry.CompanyID {
			return nil, apperrors.NewValidationError(apperrors.UnknownAccount, line.AccountID,
				"account does not belong to this company")
		}
		if !acc.IsActive {
			return nil, apperrors.NewValidationError(apperrors.UnknownAccount, line.AccountID,
				"account is inactive")
		}
	}

	totalDebit := domain.ZeroMoney()
	totalCredit := domain.ZeroMoney()
	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, apperrors.NewValidationError(apperrors.MalformedLine, line.AccountID,
				"line amounts must not be negative")
		}
		debitSet := !line.Debit.IsZero()
		creditSet := !line.Credit.IsZero()
		if debitSet == creditSet {
			// Both zero or both non-zero: a line is a debit or a credit,
			// never both, never neither.
			return nil, apperrors.NewValidationError(apperrors.MalformedLine, line.AccountID,
				"exactly one of debit/credit must be non-zero")
		}
		if acc := accounts[line.AccountID]; acc.CurrencyCode != entry.CurrencyCode {
			return nil, apperrors.NewValidationError(apperrors.MalformedLine, line.AccountID,
				fmt.Sprintf("account currency %s does not match entry currency %s", acc.CurrencyCode, entry.CurrencyCode))
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	// Exact comparison, no tolerance.
	if !totalDebit.Equal(totalCredit) {
		return nil, apperrors.NewValidationError(apperrors.UnbalancedEntry, "",
			fmt.Sprintf("debits sum to %s but credits sum to %s", totalDebit, totalCredit))
	}

	if entry.Status != domain.Draft {
		return nil, apperrors.NewValidationError(apperrors.InvalidState, "",
			fmt.Sprintf("entry status is %s, expected %s", entry.Status, domain.Draft))
	}

	return &ValidationResult{TotalDebit: totalDebit, TotalCredit: totalCredit}, nil
}
