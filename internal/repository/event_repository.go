// Package repository contains the data access layer.  This file
// implements persistence for events.  Events carry their capacity in
// two columns: total_seats (fixed, admin-mutable) and available_seats
// (maintained by the reservation core).  The scheduled date and
// time-of-day live in separate columns and are combined by the model
// before any past/future comparison.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/Hasib2202/event-buddy/internal/model"
)

// ErrEventNotFound indicates that an event was not located in the DB.
var ErrEventNotFound = errors.New("event not found")

// ErrNoChange indicates an update request carried no fields to apply.
var ErrNoChange = errors.New("no change")

// eventColumns is the canonical select list shared by every event query.
const eventColumns = `id, title, description, event_date, event_time, location,
    total_seats, available_seats, type, image, created_at, updated_at`

// EventRepo manages persistence for events.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

// scanEvent scans one event row from any row-like source.
func scanEvent(row interface {
    Scan(dest ...any) error
}, e *model.Event) error {
    var image sql.NullString
    err := row.Scan(
        &e.ID, &e.Title, &e.Description, &e.EventDate, &e.EventTime, &e.Location,
        &e.TotalSeats, &e.AvailableSeats, &e.Type, &image, &e.CreatedAt, &e.UpdatedAt,
    )
    if err != nil {
        return err
    }
    if image.Valid {
        img := image.String
        e.Image = &img
    }
    return nil
}

// Create inserts a new event and assigns the generated ID back to the
// struct.  Available seats start equal to total seats; the reservation
// core takes over the count from there.  DB-default fields are read
// back after the insert.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
    const q = `INSERT INTO events (title, description, event_date, event_time, location,
               total_seats, available_seats, type, image)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        e.Title, e.Description, e.EventDate.UTC().Format("2006-01-02"), e.EventTime,
        e.Location, e.TotalSeats, e.TotalSeats, e.Type, e.Image,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    e.ID = uint64(id)
    sel := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
    return scanEvent(r.db.QueryRowContext(ctx, sel, e.ID), e)
}

// List returns all events, newest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
    q := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    events := make([]model.Event, 0)
    for rows.Next() {
        var e model.Event
        if err := scanEvent(rows, &e); err != nil {
            return nil, err
        }
        events = append(events, e)
    }
    return events, rows.Err()
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound
// when there is no matching row.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
    q := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
    var e model.Event
    if err := scanEvent(r.db.QueryRowContext(ctx, q, id), &e); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrEventNotFound
        }
        return nil, err
    }
    return &e, nil
}

// UpdateEventParams carries the optional fields of an admin event
// update.  Nil pointers leave the corresponding column untouched.
type UpdateEventParams struct {
    Title       *string
    Description *string
    EventDate   *string // "YYYY-MM-DD"
    EventTime   *string // "HH:MM"
    Location    *string
    TotalSeats  *uint32
    Type        *string
    Image       *string
}

func (p UpdateEventParams) empty() bool {
    return p.Title == nil && p.Description == nil && p.EventDate == nil &&
        p.EventTime == nil && p.Location == nil && p.TotalSeats == nil &&
        p.Type == nil && p.Image == nil
}

// Update applies an admin edit to an event.  The whole edit runs in a
// transaction with the event row locked, because a total_seats change
// must shift available_seats by the same delta: the booked-seat count
// (total - available) is preserved even when reservations are
// committing concurrently.  Returns ErrEventNotFound when the event
// does not exist and ErrNoChange when no fields were provided.
func (r *EventRepo) Update(ctx context.Context, id uint64, p UpdateEventParams) (*model.Event, error) {
    if p.empty() {
        return nil, ErrNoChange
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    lock := `SELECT ` + eventColumns + ` FROM events WHERE id = ? FOR UPDATE`
    var e model.Event
    if err := scanEvent(tx.QueryRowContext(ctx, lock, id), &e); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrEventNotFound
        }
        return nil, err
    }

    sets := make([]string, 0, 8)
    args := make([]any, 0, 9)
    if p.Title != nil {
        sets = append(sets, "title = ?")
        args = append(args, *p.Title)
    }
    if p.Description != nil {
        sets = append(sets, "description = ?")
        args = append(args, *p.Description)
    }
    if p.EventDate != nil {
        sets = append(sets, "event_date = ?")
        args = append(args, *p.EventDate)
    }
    if p.EventTime != nil {
        sets = append(sets, "event_time = ?")
        args = append(args, *p.EventTime)
    }
    if p.Location != nil {
        sets = append(sets, "location = ?")
        args = append(args, *p.Location)
    }
    if p.Type != nil {
        sets = append(sets, "type = ?")
        args = append(args, *p.Type)
    }
    if p.Image != nil {
        sets = append(sets, "image = ?")
        args = append(args, *p.Image)
    }
    if p.TotalSeats != nil {
        // Shift both bounds by the same delta so booked seats survive
        // the capacity edit.  The new available count is clamped at
        // zero when capacity shrinks below the booked count.
        booked := int64(e.TotalSeats) - int64(e.AvailableSeats)
        newAvailable := int64(*p.TotalSeats) - booked
        if newAvailable < 0 {
            newAvailable = 0
        }
        sets = append(sets, "total_seats = ?", "available_seats = ?")
        args = append(args, *p.TotalSeats, newAvailable)
    }
    args = append(args, id)
    upd := `UPDATE events SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
    if _, err := tx.ExecContext(ctx, upd, args...); err != nil {
        return nil, err
    }

    sel := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
    var out model.Event
    if err := scanEvent(tx.QueryRowContext(ctx, sel, id), &out); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return &out, nil
}

// Delete removes an event.  Bookings referencing it are removed by
// the FK cascade.  Returns ErrEventNotFound when no row was deleted.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrEventNotFound
    }
    return nil
}

// EventWithBookedSeats augments an event with the aggregate number of
// seats booked across its active bookings.  Used by the admin listing.
type EventWithBookedSeats struct {
    model.Event
    BookedSeats uint32 `json:"bookedSeats"`
}

// GetWithBookedSeats returns one event with its booked-seat aggregate,
// or ErrEventNotFound.
func (r *EventRepo) GetWithBookedSeats(ctx context.Context, id uint64) (*EventWithBookedSeats, error) {
	const q = `SELECT e.id, e.title, e.description, e.event_date, e.event_time, e.location,
	                  e.total_seats, e.available_seats, e.type, e.image, e.created_at, e.updated_at,
	                  COALESCE(SUM(b.seats), 0)
	           FROM events e
	           LEFT JOIN bookings b ON b.event_id = e.id
	           WHERE e.id = ?
	           GROUP BY e.id`
	var ev EventWithBookedSeats
	var image sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.EventDate, &ev.EventTime, &ev.Location,
		&ev.TotalSeats, &ev.AvailableSeats, &ev.Type, &image, &ev.CreatedAt, &ev.UpdatedAt,
		&ev.BookedSeats,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if image.Valid {
		img := image.String
		ev.Image = &img
	}
	return &ev, nil
}

// ListWithBookedSeats returns all events, newest first, each with the
// sum of seats over its bookings.  Events without bookings report zero.
func (r *EventRepo) ListWithBookedSeats(ctx context.Context) ([]EventWithBookedSeats, error) {
    const q = `SELECT e.id, e.title, e.description, e.event_date, e.event_time, e.location,
                      e.total_seats, e.available_seats, e.type, e.image, e.created_at, e.updated_at,
                      COALESCE(SUM(b.seats), 0)
               FROM events e
               LEFT JOIN bookings b ON b.event_id = e.id
               GROUP BY e.id
               ORDER BY e.created_at DESC, e.id DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]EventWithBookedSeats, 0)
    for rows.Next() {
        var ev EventWithBookedSeats
        var image sql.NullString
        if err := rows.Scan(
            &ev.ID, &ev.Title, &ev.Description, &ev.EventDate, &ev.EventTime, &ev.Location,
            &ev.TotalSeats, &ev.AvailableSeats, &ev.Type, &image, &ev.CreatedAt, &ev.UpdatedAt,
            &ev.BookedSeats,
        ); err != nil {
            return nil, err
        }
        if image.Valid {
            img := image.String
            ev.Image = &img
        }
        out = append(out, ev)
    }
    return out, rows.Err()
}
