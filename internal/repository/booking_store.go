package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "github.com/Hasib2202/event-buddy/internal/booking"
    "github.com/Hasib2202/event-buddy/internal/model"
)

// BookingStore implements booking.Store over MySQL.  It is the only
// writer of the bookings table and of the events.available_seats
// column outside admin edits.  Row locks (SELECT ... FOR UPDATE)
// serialize the check-and-decrement per event so the reservation
// core's capacity re-validation is authoritative.
type BookingStore struct {
    db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// InTx runs fn inside a single transaction.  The transaction is
// rolled back when fn or the commit fails.  MySQL deadlocks (1213)
// and lock wait timeouts (1205) are translated to booking.ErrTxConflict
// so the service layer can retry them transparently.
func (s *BookingStore) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&bookingTx{tx: tx}); err != nil {
        return translateTxErr(err)
    }
    if err := tx.Commit(); err != nil {
        return translateTxErr(err)
    }
    committed = true
    return nil
}

// translateTxErr maps transient MySQL contention errors onto the
// booking package's conflict sentinel.  Error-number matching by
// substring mirrors how duplicate keys (1062) are detected in the
// user repository.
func translateTxErr(err error) error {
    if err == nil {
        return nil
    }
    msg := err.Error()
    if strings.Contains(msg, "1213") || strings.Contains(msg, "1205") {
        return fmt.Errorf("%w: %s", booking.ErrTxConflict, msg)
    }
    return err
}

// bookingTx adapts *sql.Tx to the booking.Tx contract.
type bookingTx struct {
    tx *sql.Tx
}

// EventForUpdate loads the event row under an exclusive lock.  Any
// concurrent reservation against the same event blocks here until
// this transaction commits or rolls back.
func (t *bookingTx) EventForUpdate(ctx context.Context, eventID uint64) (*model.Event, error) {
    q := `SELECT ` + eventColumns + ` FROM events WHERE id = ? FOR UPDATE`
    var e model.Event
    if err := scanEvent(t.tx.QueryRowContext(ctx, q, eventID), &e); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrEventNotFound
        }
        return nil, err
    }
    return &e, nil
}

// DecrementSeats performs the guarded decrement.  The WHERE clause
// re-checks capacity so the count can never go negative even if a
// caller skipped the locked read.
func (t *bookingTx) DecrementSeats(ctx context.Context, eventID uint64, seats uint32) error {
    const q = `UPDATE events SET available_seats = available_seats - ?
               WHERE id = ? AND available_seats >= ?`
    res, err := t.tx.ExecContext(ctx, q, seats, eventID, seats)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return booking.ErrNotEnoughSeats
    }
    return nil
}

// IncrementSeats restores capacity after a cancellation, bounded
// above by total_seats.
func (t *bookingTx) IncrementSeats(ctx context.Context, eventID uint64, seats uint32) error {
    const q = `UPDATE events SET available_seats = LEAST(total_seats, available_seats + ?)
               WHERE id = ?`
    _, err := t.tx.ExecContext(ctx, q, seats, eventID)
    return err
}

// InsertBooking appends a booking row.  booking_date is assigned by
// the database.
func (t *bookingTx) InsertBooking(ctx context.Context, userID, eventID uint64, seats uint32) (uint64, error) {
    const q = `INSERT INTO bookings (seats, user_id, event_id) VALUES (?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q, seats, userID, eventID)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// BookingForUpdate loads a booking row under an exclusive lock so the
// cancellation's delete-and-restore cannot race a second cancel of
// the same booking.
func (t *bookingTx) BookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    const q = `SELECT id, seats, booking_date, user_id, event_id
               FROM bookings WHERE id = ? FOR UPDATE`
    var b model.Booking
    err := t.tx.QueryRowContext(ctx, q, bookingID).Scan(
        &b.ID, &b.Seats, &b.BookingDate, &b.UserID, &b.EventID,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrBookingNotFound
        }
        return nil, err
    }
    return &b, nil
}

// DeleteBooking removes a booking row.
func (t *bookingTx) DeleteBooking(ctx context.Context, bookingID uint64) error {
    _, err := t.tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
    return err
}

// bookingDetailColumns joins a booking with its event and user for
// API responses.
const bookingDetailColumns = `b.id, b.seats, b.booking_date,
    u.id, u.name, u.email, u.role,
    e.id, e.title, e.description, e.event_date, e.event_time, e.location,
    e.total_seats, e.available_seats, e.type, e.image, e.created_at, e.updated_at`

func scanBookingDetail(row interface {
    Scan(dest ...any) error
}, d *model.BookingDetail) error {
    var image sql.NullString
    err := row.Scan(
        &d.ID, &d.Seats, &d.BookingDate,
        &d.User.ID, &d.User.Name, &d.User.Email, &d.User.Role,
        &d.Event.ID, &d.Event.Title, &d.Event.Description, &d.Event.EventDate,
        &d.Event.EventTime, &d.Event.Location, &d.Event.TotalSeats,
        &d.Event.AvailableSeats, &d.Event.Type, &image,
        &d.Event.CreatedAt, &d.Event.UpdatedAt,
    )
    if err != nil {
        return err
    }
    if image.Valid {
        img := image.String
        d.Event.Image = &img
    }
    return nil
}

// BookingByID resolves one booking with its event and user.  Returns
// booking.ErrBookingNotFound when no row matches.
func (s *BookingStore) BookingByID(ctx context.Context, bookingID uint64) (*model.BookingDetail, error) {
    q := `SELECT ` + bookingDetailColumns + `
          FROM bookings b
          JOIN users u ON u.id = b.user_id
          JOIN events e ON e.id = b.event_id
          WHERE b.id = ?`
    var d model.BookingDetail
    if err := scanBookingDetail(s.db.QueryRowContext(ctx, q, bookingID), &d); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrBookingNotFound
        }
        return nil, err
    }
    return &d, nil
}

// BookingsByUser returns all bookings for a user, newest first, each
// with event and user resolved.  An empty slice is returned when the
// user has no bookings.
func (s *BookingStore) BookingsByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
    q := `SELECT ` + bookingDetailColumns + `
          FROM bookings b
          JOIN users u ON u.id = b.user_id
          JOIN events e ON e.id = b.event_id
          WHERE b.user_id = ?
          ORDER BY b.booking_date DESC, b.id DESC`
    rows, err := s.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]model.BookingDetail, 0)
    for rows.Next() {
        var d model.BookingDetail
        if err := scanBookingDetail(rows, &d); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    return details, rows.Err()
}
