package apperrors

import (
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already belongs to another profile")

	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrTransactionAlreadyReviewed = errors.New("transaction already reviewed")
	ErrAmountBelowMinimum         = errors.New("amount is below the minimum top-up")
	ErrReferenceInvalid           = errors.New("payment reference is invalid")
	ErrMethodUnknown              = errors.New("unknown payment method")

	ErrOrderNotFound       = errors.New("order not found")
	ErrLinkRequired        = errors.New("target link is required")
	ErrQuantityOutOfRange  = errors.New("quantity is out of the service range")
	ErrServiceNotFound     = errors.New("service not found in catalog")
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCompensationFailed wraps a gateway rejection whose refund also
	// failed: the user is debited with no placed order. Callers must surface
	// it, never swallow it.
	ErrCompensationFailed = errors.New("order failed and balance compensation failed")
)
