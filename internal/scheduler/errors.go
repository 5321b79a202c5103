package scheduler

import (
	"errors"
	"fmt"

	"gpubook/internal/models"
)

var (
	// ErrPastDate rejects bookings starting before the current date.
	ErrPastDate = errors.New("cannot make booking in the past")
	// ErrInvalidRequest rejects out-of-range fields or unknown resources.
	ErrInvalidRequest = errors.New("invalid booking request")
	// ErrNotFound is returned when a cancel names a nonexistent booking.
	ErrNotFound = errors.New("booking not found")
)

// ConflictError is the typed rejection for an overlapping reservation. It
// carries the conflicting record so callers can show the user who holds the
// slot and when.
type ConflictError struct {
	Existing models.Booking
}

func (e *ConflictError) Error() string {
	b := &e.Existing
	return fmt.Sprintf("from the date %s and time %d, to the date %s and time %d is already booked by %s",
		b.StartDate.Format(models.DateLayout), b.StartHour,
		b.EndDate.Format(models.DateLayout), b.EndHour, b.Email)
}

// IsConflict reports whether the error is a booking conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
