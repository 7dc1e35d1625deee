package usecase

import (
	"errors"
	"fmt"

	orderdom "storefront/internal/domain/order"
)

var (
	ErrCartEmpty           = errors.New("checkout: cart is empty")
	ErrNameRequired        = errors.New("checkout: customer name is required")
	ErrCheckoutInFlight    = errors.New("checkout: a submission is already in progress")
	ErrCheckoutRepoMissing = errors.New("checkout: order repository is not configured")
)

// CheckoutErrorKind tags a checkout failure so callers can tell retryable failures apart.
type CheckoutErrorKind string

const (
	CheckoutValidation         CheckoutErrorKind = "validation"
	CheckoutStorageUnavailable CheckoutErrorKind = "storage_unavailable"
	CheckoutWriteConflict      CheckoutErrorKind = "write_conflict"
	CheckoutNetworkFailure     CheckoutErrorKind = "network_failure"
	CheckoutInFlight           CheckoutErrorKind = "in_flight"
)

type CheckoutError struct {
	Kind  CheckoutErrorKind
	Field string // Validation のときだけ
	Err   error
}

func (e *CheckoutError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("checkout %s (%s): %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("checkout %s: %v", e.Kind, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// Retryable: the same submission may succeed if sent again.
// WriteConflict は再送すると次の番号で採番される。
func (e *CheckoutError) Retryable() bool {
	switch e.Kind {
	case CheckoutStorageUnavailable, CheckoutWriteConflict, CheckoutNetworkFailure:
		return true
	default:
		return false
	}
}

func validationError(field string, err error) *CheckoutError {
	return &CheckoutError{Kind: CheckoutValidation, Field: field, Err: err}
}

// classifyWriteError maps repository errors onto checkout kinds.
func classifyWriteError(err error) *CheckoutError {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, orderdom.ErrConflict):
		return &CheckoutError{Kind: CheckoutWriteConflict, Err: err}
	case errors.Is(err, orderdom.ErrUnavailable), errors.Is(err, ErrCheckoutRepoMissing):
		return &CheckoutError{Kind: CheckoutStorageUnavailable, Err: err}
	case errors.Is(err, orderdom.ErrInvalidItems),
		errors.Is(err, orderdom.ErrInvalidCustomerName),
		errors.Is(err, orderdom.ErrInvalidEmail):
		return validationError(fieldOf(err), err)
	default:
		// transport errors, context deadline / cancel
		return &CheckoutError{Kind: CheckoutNetworkFailure, Err: err}
	}
}

func fieldOf(err error) string {
	switch {
	case errors.Is(err, orderdom.ErrInvalidItems):
		return "cart"
	case errors.Is(err, orderdom.ErrInvalidEmail):
		return "email"
	default:
		return "customerName"
	}
}

// CheckoutErrorKindOf returns the kind of err, or "" if err is not a checkout error.
func CheckoutErrorKindOf(err error) CheckoutErrorKind {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
