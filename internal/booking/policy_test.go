package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatPolicyValidate(t *testing.T) {
	p := DefaultSeatPolicy()

	for seats := 1; seats <= 4; seats++ {
		assert.NoError(t, p.Validate(seats))
	}
	for _, seats := range []int{-3, 0, 5, 100} {
		err := p.Validate(seats)
		var sce *SeatCountError
		require.ErrorAs(t, err, &sce, "seats=%d", seats)
		assert.Equal(t, seats, sce.Seats)
		assert.Equal(t, "can only book 1-4 seats", sce.Error())
	}
}

func TestSeatPolicyNormalize(t *testing.T) {
	// Zero bounds fall back to a single-seat policy.
	p := SeatPolicy{}.normalize()
	assert.Equal(t, uint32(1), p.MinSeats)
	assert.Equal(t, uint32(1), p.MaxSeats)

	// Inverted bounds collapse to the minimum.
	p = SeatPolicy{MinSeats: 5, MaxSeats: 2}.normalize()
	assert.Equal(t, uint32(5), p.MinSeats)
	assert.Equal(t, uint32(5), p.MaxSeats)

	p = SeatPolicy{MinSeats: 2, MaxSeats: 8}.normalize()
	assert.Equal(t, SeatPolicy{MinSeats: 2, MaxSeats: 8}, p)
}
