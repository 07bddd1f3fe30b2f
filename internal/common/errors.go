package common

import (
	"errors"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("concurrent modification, retry the request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyCheckedIn  = errors.New("already checked in")
	ErrNoOpenEntry       = errors.New("no open time entry")
	ErrLimitExceeded     = errors.New("usage limit exceeded")
	ErrSlotUnavailable   = errors.New("time slot unavailable")
	ErrTooManyRequests   = errors.New("too many requests")
	ErrUnavailable       = errors.New("service unavailable")

	ErrDailyLimitExceeded   = &limitError{scope: "daily booking limit exceeded"}
	ErrMonthlyLimitExceeded = &limitError{scope: "monthly booking limit exceeded"}
)

// limitError is a specific limit breach that still matches ErrLimitExceeded.
type limitError struct {
	scope string
}

func (e *limitError) Error() string { return e.scope }

func (e *limitError) Unwrap() error { return ErrLimitExceeded }

// HTTPStatus maps a domain error onto the HTTP status code returned to callers.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrAlreadyCheckedIn),
		errors.Is(err, ErrNoOpenEntry),
		errors.Is(err, ErrLimitExceeded),
		errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the stable machine-readable code for a domain error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrTooManyRequests):
		return "TOO_MANY_REQUESTS"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrAlreadyCheckedIn):
		return "ALREADY_CHECKED_IN"
	case errors.Is(err, ErrNoOpenEntry):
		return "NO_OPEN_ENTRY"
	case errors.Is(err, ErrDailyLimitExceeded):
		return "DAILY_LIMIT_EXCEEDED"
	case errors.Is(err, ErrMonthlyLimitExceeded):
		return "MONTHLY_LIMIT_EXCEEDED"
	case errors.Is(err, ErrLimitExceeded):
		return "LIMIT_EXCEEDED"
	case errors.Is(err, ErrSlotUnavailable):
		return "SLOT_UNAVAILABLE"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrUnavailable):
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}
