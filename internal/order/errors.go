package order

import "errors"

var (
	ErrValidation          = errors.New("validation")
	ErrNotFound            = errors.New("not found")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbiddenRole       = errors.New("sellers may not purchase")
	ErrOrderCreationFailed = errors.New("order creation failed")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrPriceMismatch       = errors.New("price mismatch")
	ErrDuplicateRequest    = errors.New("duplicate request in flight")
)
