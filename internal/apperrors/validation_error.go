package apperrors

import "fmt"

// ValidationKind identifies the specific validation check a journal entry
// failed. Callers branch on the kind rather than parsing messages.
type ValidationKind string

const (
	TooFewLines     ValidationKind = "TOO_FEW_LINES"
	UnknownAccount  ValidationKind = "UNKNOWN_ACCOUNT"
	MalformedLine   ValidationKind = "MALFORMED_LINE"
	UnbalancedEntry ValidationKind = "UNBALANCED_ENTRY"
	InvalidState    ValidationKind = "INVALID_STATE"
)

// ValidationError carries the failed check kind and, where relevant, the
// offending account. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Kind      ValidationKind
	AccountID string
	Message   string
}

func (e *ValidationError) Error() string {
	if e.AccountID != "" {
		return fmt.Sprintf("%s (account %s): %s", e.Kind, e.AccountID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is(err, ErrValidation) succeed for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given kind.
func NewValidationError(kind ValidationKind, accountID, message string) *ValidationError {
	return &ValidationError{Kind: kind, AccountID: accountID, Message: message}
}
