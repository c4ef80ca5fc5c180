package booking

// SeatPolicy bounds how many seats a single booking may reserve.  The
// original product rule was 1-4 seats per booking; whether that is a
// deliberate policy or a placeholder is unclear, so the bounds are
// kept configurable (BOOKING_MIN_SEATS / BOOKING_MAX_SEATS) rather
// than hardcoded.
type SeatPolicy struct {
    MinSeats uint32
    MaxSeats uint32
}

// DefaultSeatPolicy returns the 1-4 seats-per-booking bounds.
func DefaultSeatPolicy() SeatPolicy {
    return SeatPolicy{MinSeats: 1, MaxSeats: 4}
}

// normalize repairs zero or inverted bounds so the policy is always usable.
func (p SeatPolicy) normalize() SeatPolicy {
    if p.MinSeats == 0 {
        p.MinSeats = 1
    }
    if p.MaxSeats < p.MinSeats {
        p.MaxSeats = p.MinSeats
    }
    return p
}

// Validate checks a requested seat count against the policy.  Counts
// outside the bounds (including zero and negatives from malformed
// JSON) yield a SeatCountError.
func (p SeatPolicy) Validate(seats int) error {
    if seats < int(p.MinSeats) || seats > int(p.MaxSeats) {
        return &SeatCountError{Seats: seats, Min: p.MinSeats, Max: p.MaxSeats}
    }
    return nil
}
