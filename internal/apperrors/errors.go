package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict with current state")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnavailable indicates a collaborator needed for the operation is not configured or not reachable.
var ErrUnavailable = errors.New("dependency unavailable")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// Ledger errors. Most wrap one of the generic categories above so callers can
// branch on either the precise condition or its category.
var (
	ErrAccountNotFound   = fmt.Errorf("%w: ledger account not found", ErrNotFound)
	ErrInactiveAccount   = fmt.Errorf("%w: ledger account is inactive", ErrValidation)
	ErrNoActiveBuckets   = fmt.Errorf("%w: user has no active bucket accounts", ErrValidation)
	ErrInvalidAllocation = fmt.Errorf("%w: allocation produced no postings", ErrValidation)
	ErrAlreadyReversed   = fmt.Errorf("%w: journal entry already reversed", ErrConflict)
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPartialGroup      = errors.New("entry group partially posted")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: resource + " not found", Err: ErrNotFound}
}

// InsufficientFundsError reports the balance that blocked a posting.
type InsufficientFundsError struct {
	AccountID string
	Balance   int64
	Requested int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: balance %d, requested %d", e.AccountID, e.Balance, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// PartialGroupError is returned when an entry group stops partway. Entries in
// PostedEntryIDs stay posted; they are never rolled back automatically.
type PartialGroupError struct {
	GroupID        string
	PostedEntryIDs []string
	FailedIndex    int
	Err            error
}

func (e *PartialGroupError) Error() string {
	return fmt.Sprintf("entry group %s failed at index %d after %d posted entries: %v",
		e.GroupID, e.FailedIndex, len(e.PostedEntryIDs), e.Err)
}

func (e *PartialGroupError) Unwrap() []error {
	return []error{ErrPartialGroup, e.Err}
}
