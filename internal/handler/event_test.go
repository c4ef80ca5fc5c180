package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventCreateValidation(t *testing.T) {
	h := NewEventHandler(nil, nil, "")

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing title", `{"description":"d","location":"l","eventDate":"2026-10-01","eventTime":"19:00","totalSeats":50}`},
		{"zero seats", `{"title":"t","description":"d","location":"l","eventDate":"2026-10-01","eventTime":"19:00","totalSeats":0}`},
		{"negative seats", `{"title":"t","description":"d","location":"l","eventDate":"2026-10-01","eventTime":"19:00","totalSeats":-5}`},
		{"bad date", `{"title":"t","description":"d","location":"l","eventDate":"01/10/2026","eventTime":"19:00","totalSeats":50}`},
		{"bad time", `{"title":"t","description":"d","location":"l","eventDate":"2026-10-01","eventTime":"7pm","totalSeats":50}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := testContext(http.MethodPost, "/v1/events", tc.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEventUpdateValidation(t *testing.T) {
	h := NewEventHandler(nil, nil, "")

	cases := []struct {
		name string
		id   string
		body string
	}{
		{"bad id", "abc", `{"title":"t"}`},
		{"empty title", "1", `{"title":"  "}`},
		{"empty location", "1", `{"location":""}`},
		{"zero seats", "1", `{"totalSeats":0}`},
		{"bad date", "1", `{"eventDate":"next tuesday"}`},
		{"bad time", "1", `{"eventTime":"25:99"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := testContext(http.MethodPatch, "/v1/events/"+tc.id, tc.body)
			c.SetParamNames("id")
			c.SetParamValues(tc.id)
			require.NoError(t, h.Update(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEventGetByIDRejectsBadID(t *testing.T) {
	h := NewEventHandler(nil, nil, "")
	for _, id := range []string{"abc", "0", "-1"} {
		c, rec := testContext(http.MethodGet, "/v1/events/"+id, "")
		c.SetParamNames("id")
		c.SetParamValues(id)
		require.NoError(t, h.GetByID(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id=%s", id)
	}
}
