package model

import "time"

// Booking records a user's reservation of one or more seats on an
// event.  A booking is immutable once created; the only permitted
// mutation is deletion on cancellation, which must restore the
// event's available seat count by the same amount.
//
// Fields:
//  ID          – primary key identifier.
//  Seats       – number of seats reserved in this booking.
//  BookingDate – server-assigned creation timestamp.
//  UserID      – user who made the booking.
//  EventID     – event being booked.
type Booking struct {
    ID          uint64    // bookings.id
    Seats       uint32    // bookings.seats
    BookingDate time.Time // bookings.booking_date
    UserID      uint64    // bookings.user_id
    EventID     uint64    // bookings.event_id
}

// BookingUser is the slimmed user payload embedded in booking
// responses.  The password hash is never exposed.
type BookingUser struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
    Role  string `json:"role"`
}

// BookingDetail is a booking with its event and user associations
// resolved, as returned to API clients.
type BookingDetail struct {
    ID          uint64      `json:"id"`
    Seats       uint32      `json:"seats"`
    BookingDate time.Time   `json:"bookingDate"`
    User        BookingUser `json:"user"`
    Event       Event       `json:"event"`
}
