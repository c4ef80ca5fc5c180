package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hasib2202/event-buddy/internal/booking"
	"github.com/Hasib2202/event-buddy/internal/model"
	"github.com/Hasib2202/event-buddy/internal/queue"
	queue_publisher "github.com/Hasib2202/event-buddy/internal/service"
)

// BookingHandler exposes the reservation endpoints over the booking service.
type BookingHandler struct {
	Svc *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

type createBookingReq struct {
	EventID uint64 `json:"eventId"`
	Seats   int    `json:"seats"`
}

// Create reserves seats on an event for the signed-in user.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventId required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	detail, err := h.Svc.Reserve(ctx, req.EventID, req.Seats, uid)
	if err != nil {
		return bookingError(c, err)
	}

	// Side effects never block or fail the booking itself.
	go publishBookingCreated(detail)

	return c.JSON(http.StatusCreated, detail)
}

// ListMine returns the caller's bookings, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Svc.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// Cancel deletes one of the caller's bookings and frees its seats.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Svc.Cancel(ctx, bookingID, uid); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}

// bookingError maps service errors to HTTP responses.  Bookings owned
// by someone else surface as 404 so the endpoint leaks nothing about
// which booking IDs exist.
func bookingError(c echo.Context, err error) error {
	var seatErr *booking.SeatCountError
	switch {
	case errors.Is(err, booking.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, booking.ErrBookingNotFound), errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrPastEvent):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrPastEvent.Error()})
	case errors.Is(err, booking.ErrNotEnoughSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrNotEnoughSeats.Error()})
	case errors.As(err, &seatErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": seatErr.Error()})
	case errors.Is(err, booking.ErrMissingIdentity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrMissingIdentity.Error()})
	case errors.Is(err, booking.ErrTxConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking conflict, please retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
}

func publishBookingCreated(d *model.BookingDetail) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:  d.ID,
		UserID:     d.User.ID,
		UserName:   d.User.Name,
		UserEmail:  d.User.Email,
		EventID:    d.Event.ID,
		EventTitle: d.Event.Title,
		EventDate:  d.Event.EventDate.Format("2006-01-02"),
		EventTime:  d.Event.EventTime,
		Location:   d.Event.Location,
		Seats:      d.Seats,
		BookedAt:   d.BookingDate.UTC().Format(time.RFC3339),
	})
}
