package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasib2202/event-buddy/internal/booking"
)

func testContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{booking.ErrEventNotFound, http.StatusNotFound},
		{booking.ErrBookingNotFound, http.StatusNotFound},
		// Foreign bookings read as 404 so booking IDs cannot be probed.
		{booking.ErrForbidden, http.StatusNotFound},
		{booking.ErrPastEvent, http.StatusBadRequest},
		{booking.ErrNotEnoughSeats, http.StatusBadRequest},
		{&booking.SeatCountError{Seats: 9, Min: 1, Max: 4}, http.StatusBadRequest},
		{booking.ErrMissingIdentity, http.StatusBadRequest},
		{fmt.Errorf("%w: deadlock", booking.ErrTxConflict), http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := testContext(http.MethodPost, "/v1/bookings", "")
		require.NoError(t, bookingError(c, tc.err))
		assert.Equal(t, tc.want, rec.Code, "error %v", tc.err)
	}
}

func TestBookingCreateRequiresIdentity(t *testing.T) {
	h := NewBookingHandler(nil)
	c, rec := testContext(http.MethodPost, "/v1/bookings", `{"eventId":1,"seats":2}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingCreateRejectsMissingEventID(t *testing.T) {
	h := NewBookingHandler(nil)
	c, rec := testContext(http.MethodPost, "/v1/bookings", `{"seats":2}`)
	c.Set("user_id", float64(7))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingCancelRejectsBadID(t *testing.T) {
	h := NewBookingHandler(nil)
	for _, id := range []string{"abc", "0", "-4"} {
		c, rec := testContext(http.MethodDelete, "/v1/bookings/"+id, "")
		c.SetParamNames("id")
		c.SetParamValues(id)
		c.Set("user_id", float64(7))
		require.NoError(t, h.Cancel(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id=%s", id)
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	newCtx := func(v interface{}) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	for _, v := range []interface{}{uint64(9), int(9), int64(9), float64(9), "9"} {
		got, err := getUserID(newCtx(v))
		require.NoError(t, err, "%T", v)
		assert.Equal(t, uint64(9), got)
	}

	_, err := getUserID(newCtx(nil))
	assert.Error(t, err)
	_, err = getUserID(newCtx("not-a-number"))
	assert.Error(t, err)
}
