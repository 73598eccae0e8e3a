package booking

import (
	"errors"
	"fmt"
)

// ErrBookingNotFound is returned when the booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// NoProvidersReason is recorded on bookings cancelled after the fallback search came back empty.
const NoProvidersReason = "No providers available within service area."

// ValidationError rejects a request before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// StaleBookingError means the transition's precondition no longer holds. Nothing was written.
type StaleBookingError struct {
	BookingID string
	Reason    string
}

func (e *StaleBookingError) Error() string {
	return fmt.Sprintf("stale transition on booking %s: %s", e.BookingID, e.Reason)
}

func newStaleError(bookingID, format string, args ...any) error {
	return &StaleBookingError{
		BookingID: bookingID,
		Reason:    fmt.Sprintf(format, args...),
	}
}

// IsStale reports whether err is (or wraps) a StaleBookingError.
func IsStale(err error) bool {
	var stale *StaleBookingError
	return errors.As(err, &stale)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var invalid *ValidationError
	return errors.As(err, &invalid)
}
