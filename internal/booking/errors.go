// Package booking implements the reservation core: the single
// component that turns a booking request into a consistent seat-count
// mutation plus a persisted booking record, under concurrent access.
// Sentinel errors defined here let handlers distinguish "not found"
// from "conflict" from "bad input" via errors.Is and translate each
// into the right HTTP status.
package booking

import (
    "errors"
    "fmt"
)

// ErrEventNotFound is returned when the requested event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when the requested booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPastEvent is returned when the event's combined date+time is
// already in the past.  Handlers should translate this into a 400.
var ErrPastEvent = errors.New("cannot book past events")

// ErrNotEnoughSeats is returned when the event has fewer available
// seats than requested.  Under concurrency a request may fail with
// this error even though the capacity looked sufficient moments
// earlier; the check is re-validated under the row lock.
var ErrNotEnoughSeats = errors.New("not enough available seats")

// ErrMissingIdentity is returned when no user identity could be
// resolved from the caller's token.
var ErrMissingIdentity = errors.New("user identity missing from request")

// ErrForbidden is returned when the caller attempts to cancel a
// booking owned by another user.
var ErrForbidden = errors.New("forbidden")

// ErrTxConflict signals a transient store-level conflict (deadlock or
// lock wait timeout).  The service retries these internally a bounded
// number of times before surfacing the error; handlers map a surfaced
// conflict to HTTP 409.
var ErrTxConflict = errors.New("storage conflict")

// SeatCountError reports a seat count outside the configured policy
// bounds.  The message carries the bounds so clients see the actual
// limits in force.
type SeatCountError struct {
    Seats int
    Min   uint32
    Max   uint32
}

func (e *SeatCountError) Error() string {
    return fmt.Sprintf("can only book %d-%d seats", e.Min, e.Max)
}
