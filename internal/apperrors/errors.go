package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrBadRequest indicates a malformed request parameter, such as an
// unparseable pagination token.
var ErrBadRequest = errors.New("bad request")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the
// resource; the caller should re-fetch and decide how to proceed.
var ErrConflict = errors.New("conflict with current resource state")

// ErrAlreadyPosted is returned when posting is retried for an entry that has
// already been posted. It specializes ErrConflict so callers can branch on
// either sentinel.
var ErrAlreadyPosted = fmt.Errorf("%w: journal entry already posted", ErrConflict)

// ErrIntegrity indicates a cached account balance has drifted from the balance
// derived from ledger history. Must trigger reconciliation, never a silent fix.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrInternal indicates an unexpected infrastructure or programming failure.
var ErrInternal = errors.New("internal error")
