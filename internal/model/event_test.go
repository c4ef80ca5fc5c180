package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStartsAt(t *testing.T) {
	e := Event{
		EventDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EventTime: "19:30",
	}
	at, err := e.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC), at)
}

func TestEventStartsAtBadTime(t *testing.T) {
	e := Event{
		EventDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EventTime: "7pm",
	}
	_, err := e.StartsAt()
	assert.Error(t, err)
}
