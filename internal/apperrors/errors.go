package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the resource's current state.
var ErrConflict = errors.New("conflict with current state")

// ErrForbidden indicates the actor is not permitted to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrPeriodClosed indicates the target fiscal period is closed. The caller
// should reopen the period or choose another entry date; the date is never
// silently redirected.
var ErrPeriodClosed = errors.New("fiscal period is closed: reopen the period or choose another entry date")

// ErrPeriodLocked indicates the target fiscal period is permanently locked.
var ErrPeriodLocked = errors.New("fiscal period is locked and accepts no further postings")

// ErrMatchConflict indicates an attempt to match a line that is already part
// of another match. Recoverable: the caller should refresh state and retry.
var ErrMatchConflict = errors.New("line is already matched")

// ErrApprovalIntegrity indicates the approver of a reconciliation is the same
// actor who prepared it. Hard rejection, no override.
var ErrApprovalIntegrity = errors.New("approver must differ from preparer")

// BalanceMismatchError is returned when a reconciliation is submitted while
// the adjusted balances still differ. It carries the exact residual so the
// caller can guide the operator.
type BalanceMismatchError struct {
	Residual decimal.Decimal
}

func (e BalanceMismatchError) Error() string {
	return fmt.Sprintf("adjusted balances differ by %s", e.Residual.String())
}

// AppError wraps a lower-level failure with an HTTP-ish code and message.
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
