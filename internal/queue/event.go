// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking is successfully created.
// It carries enough context for downstream consumers to log, notify, or
// feed analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	EventID     uint64 `json:"event_id"`
	EventTitle  string `json:"event_title"`
	EventDate   string `json:"event_date"`
	EventTime   string `json:"event_time"`
	Location    string `json:"location"`
	Seats       uint32 `json:"seats"`
	BookedAt    string `json:"booked_at"`
}
