package model

import (
    "fmt"
    "time"
)

// Event represents a bookable occurrence with a fixed total capacity
// and a schedule.  The scheduled date and time-of-day are stored in
// separate columns (a DATE and an "HH:MM" string) and must be combined
// via StartsAt before any past/future comparison.  AvailableSeats is
// maintained by the reservation core and admin updates only; the
// invariant 0 <= AvailableSeats <= TotalSeats holds at all times.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – event title.
//  Description    – long-form description.
//  EventDate      – scheduled calendar date (time component is zero).
//  EventTime      – scheduled time of day in "HH:MM" 24h format.
//  Location       – venue or address.
//  TotalSeats     – fixed capacity, mutable by admins.
//  AvailableSeats – remaining capacity, derived from active bookings.
//  Type           – category tag (e.g. "conference", "concert").
//  Image          – optional image reference.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Event struct {
    ID             uint64    `json:"id"`             // events.id
    Title          string    `json:"title"`          // events.title
    Description    string    `json:"description"`    // events.description
    EventDate      time.Time `json:"eventDate"`      // events.event_date
    EventTime      string    `json:"eventTime"`      // events.event_time
    Location       string    `json:"location"`       // events.location
    TotalSeats     uint32    `json:"totalSeats"`     // events.total_seats
    AvailableSeats uint32    `json:"availableSeats"` // events.available_seats
    Type           string    `json:"type"`           // events.type
    Image          *string   `json:"image,omitempty"` // events.image (nullable)
    CreatedAt      time.Time `json:"createdAt"`      // events.created_at
    UpdatedAt      time.Time `json:"updatedAt"`      // events.updated_at
}

// StartsAt combines EventDate and EventTime into a single UTC instant.
// An EventTime that does not parse as "HH:MM" yields an error.
func (e *Event) StartsAt() (time.Time, error) {
    tod, err := time.Parse("15:04", e.EventTime)
    if err != nil {
        return time.Time{}, fmt.Errorf("invalid event time %q: %w", e.EventTime, err)
    }
    d := e.EventDate.UTC()
    return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, time.UTC), nil
}
