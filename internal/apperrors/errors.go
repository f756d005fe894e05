package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConcurrency indicates that a version-tracked row was changed by another writer.
var ErrConcurrency = errors.New("concurrent modification")

// ErrRetryable marks infrastructure failures the caller may retry (lock timeouts,
// serialization failures, deadlocks).
var ErrRetryable = errors.New("retryable infrastructure failure")

// Code is a stable, machine readable failure code.
type Code string

const (
	CodeProductNotFound         Code = "PRODUCT_NOT_FOUND"
	CodeProductInactive         Code = "PRODUCT_INACTIVE"
	CodeInventoryNotFound       Code = "INVENTORY_NOT_FOUND"
	CodeInsufficientStock       Code = "INSUFFICIENT_STOCK"
	CodeSaleNotFound            Code = "SALE_NOT_FOUND"
	CodeSaleNotPaid             Code = "SALE_NOT_PAID"
	CodeSaleWithoutItems        Code = "SALE_WITHOUT_ITEMS"
	CodeSaleAlreadyPaid         Code = "SALE_ALREADY_PAID"
	CodeSaleAlreadyCancelled    Code = "SALE_ALREADY_CANCELLED"
	CodeInvalidSaleState        Code = "INVALID_SALE_STATE"
	CodeDrawerNotOpen           Code = "DRAWER_NOT_OPEN"
	CodeDrawerAlreadyOpen       Code = "DRAWER_ALREADY_OPEN"
	CodeDrawerNotFound          Code = "DRAWER_NOT_FOUND"
	CodeReasonRequired          Code = "REASON_REQUIRED"
	CodeInvalidAmount           Code = "INVALID_AMOUNT"
	CodeInvalidQuantity         Code = "INVALID_QUANTITY"
	CodeInvalidArgument         Code = "INVALID_ARGUMENT"
	CodeReservationNotFound     Code = "RESERVATION_NOT_FOUND"
	CodeReservationExpired      Code = "RESERVATION_EXPIRED"
	CodeInvalidReservationState Code = "INVALID_RESERVATION_STATE"
	CodeTransactionActive       Code = "TRANSACTION_ACTIVE"
	CodeNoActiveTransaction     Code = "NO_ACTIVE_TRANSACTION"
	CodeConcurrency             Code = "CONCURRENCY_ERROR"
	CodeSystem                  Code = "SYSTEM_ERROR"
)

// DomainError is an expected business-rule failure. It is always returned as a
// value, never raised.
type DomainError struct {
	Code    Code
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match the sentinel that best describes the failure.
func (e *DomainError) Unwrap() error {
	switch e.Code {
	case CodeProductNotFound, CodeInventoryNotFound, CodeSaleNotFound, CodeDrawerNotFound, CodeReservationNotFound:
		return ErrNotFound
	case CodeConcurrency:
		return ErrConcurrency
	}
	return ErrValidation
}

// New creates a DomainError.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Newf creates a DomainError with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code carried by err, CodeSystem for any other non-nil error
// and the empty code for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var ce *ConcurrencyError
	if errors.As(err, &ce) {
		return CodeConcurrency
	}
	return CodeSystem
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// ConcurrencyError is returned when an optimistic version check fails.
type ConcurrencyError struct {
	Entity string
	ID     string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("%s %s: data was modified by another user; reload and retry", e.Entity, e.ID)
}

func (e *ConcurrencyError) Unwrap() []error {
	return []error{ErrConcurrency, ErrRetryable}
}

// NewConcurrencyError creates a ConcurrencyError for the given entity.
func NewConcurrencyError(entity, id string) error {
	return &ConcurrencyError{Entity: entity, ID: id}
}

// Retryable wraps an infrastructure error so that IsRetryable reports true.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRetryable, err)
}

// IsRetryable reports whether the caller may safely retry the whole operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}

// InvariantViolation signals a broken aggregate invariant. It is raised with
// panic and is recovered only at the transaction boundary.
type InvariantViolation struct {
	Entity  string
	Message string
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated on %s: %s", v.Entity, v.Message)
}

// Violate raises an InvariantViolation.
func Violate(entity, format string, args ...any) {
	panic(InvariantViolation{Entity: entity, Message: fmt.Sprintf(format, args...)})
}

// AsInvariantViolation extracts an InvariantViolation from a recovered value.
func AsInvariantViolation(recovered any) (InvariantViolation, bool) {
	v, ok := recovered.(InvariantViolation)
	return v, ok
}
