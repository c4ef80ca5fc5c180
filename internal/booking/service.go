package booking

import (
    "context"
    "errors"
    "time"

    "github.com/Hasib2202/event-buddy/internal/model"
)

// Store is the reservation core's view of the shared persistent
// store.  InTx must run fn inside a single database transaction:
// every operation performed through the Tx handle commits or rolls
// back as one atomic unit.  The read queries outside InTx resolve
// bookings with their event and user associations for responses.
type Store interface {
    InTx(ctx context.Context, fn func(tx Tx) error) error
    BookingByID(ctx context.Context, bookingID uint64) (*model.BookingDetail, error)
    BookingsByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error)
}

// Tx exposes the event-store and booking-ledger operations available
// inside a transaction.  EventForUpdate and BookingForUpdate must
// lock the row they return (SELECT ... FOR UPDATE or equivalent) so
// that the subsequent check-and-mutate sequence is serialized per
// event; two concurrent reservations against the same event must not
// both observe the pre-decrement seat count.
type Tx interface {
    // EventForUpdate returns the event row under an exclusive lock,
    // or ErrEventNotFound.
    EventForUpdate(ctx context.Context, eventID uint64) (*model.Event, error)
    // DecrementSeats subtracts seats from the event's available count.
    DecrementSeats(ctx context.Context, eventID uint64, seats uint32) error
    // IncrementSeats restores seats to the event's available count,
    // bounded above by the event's total capacity.
    IncrementSeats(ctx context.Context, eventID uint64, seats uint32) error
    // InsertBooking appends a booking row with a server-assigned
    // timestamp and returns its generated ID.
    InsertBooking(ctx context.Context, userID, eventID uint64, seats uint32) (uint64, error)
    // BookingForUpdate returns the booking row under an exclusive
    // lock, or ErrBookingNotFound.
    BookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error)
    // DeleteBooking removes a booking row.
    DeleteBooking(ctx context.Context, bookingID uint64) error
}

// maxTxAttempts bounds the transparent retries on ErrTxConflict
// before the conflict is surfaced to the caller.
const maxTxAttempts = 3

// Service enforces the reservation invariants.  All writes go through
// Store.InTx so the capacity check and the seat decrement are a
// single atomic step; the service never performs them as two
// independent round trips.
type Service struct {
    store  Store
    policy SeatPolicy
    now    func() time.Time // injectable for tests
}

// NewService constructs a Service with the given store and seat policy.
func NewService(store Store, policy SeatPolicy) *Service {
    return &Service{store: store, policy: policy.normalize(), now: time.Now}
}

// Reserve books seats on an event for a user.  Preconditions are
// checked in a fixed order, each with a distinct failure mode: event
// exists, event is not in the past, seat count within policy bounds,
// enough available seats, caller identity resolved.  On success the
// event's available count is decremented and a booking row inserted
// in the same transaction; the created booking is returned with its
// event and user resolved.
func (s *Service) Reserve(ctx context.Context, eventID uint64, seats int, userID uint64) (*model.BookingDetail, error) {
    var bookingID uint64
    err := s.withRetry(ctx, func(tx Tx) error {
        ev, err := tx.EventForUpdate(ctx, eventID)
        if err != nil {
            return err
        }
        startsAt, err := ev.StartsAt()
        if err != nil {
            return err
        }
        if startsAt.Before(s.now().UTC()) {
            return ErrPastEvent
        }
        if err := s.policy.Validate(seats); err != nil {
            return err
        }
        // Re-validated under the row lock: the count read moments
        // earlier by another request cannot be trusted here.
        if uint64(ev.AvailableSeats) < uint64(seats) {
            return ErrNotEnoughSeats
        }
        if userID == 0 {
            return ErrMissingIdentity
        }
        n := uint32(seats)
        if err := tx.DecrementSeats(ctx, eventID, n); err != nil {
            return err
        }
        id, err := tx.InsertBooking(ctx, userID, eventID, n)
        if err != nil {
            return err
        }
        bookingID = id
        return nil
    })
    if err != nil {
        return nil, err
    }
    return s.store.BookingByID(ctx, bookingID)
}

// Cancel deletes a booking owned by userID and restores the event's
// available seats by the cancelled seat count.  Deletion and
// restoration happen in one transaction, symmetric to Reserve.
// Returns ErrBookingNotFound when the booking does not exist and
// ErrForbidden when it belongs to a different user.
func (s *Service) Cancel(ctx context.Context, bookingID, userID uint64) error {
    return s.withRetry(ctx, func(tx Tx) error {
        b, err := tx.BookingForUpdate(ctx, bookingID)
        if err != nil {
            return err
        }
        if b.UserID != userID {
            return ErrForbidden
        }
        if err := tx.DeleteBooking(ctx, bookingID); err != nil {
            return err
        }
        return tx.IncrementSeats(ctx, b.EventID, b.Seats)
    })
}

// ListForUser returns all bookings for userID, newest first, with
// event and user associations resolved.
func (s *Service) ListForUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
    return s.store.BookingsByUser(ctx, userID)
}

// withRetry runs fn in a transaction, retrying transparently when the
// store reports a transient conflict.  Any other error, including the
// domain sentinels returned by fn, aborts immediately.
func (s *Service) withRetry(ctx context.Context, fn func(tx Tx) error) error {
    var err error
    for attempt := 0; attempt < maxTxAttempts; attempt++ {
        err = s.store.InTx(ctx, fn)
        if !errors.Is(err, ErrTxConflict) {
            return err
        }
    }
    return err
}
