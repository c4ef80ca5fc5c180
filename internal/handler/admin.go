package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hasib2202/event-buddy/internal/repository"
)

// AdminHandler serves the admin listing with per-event booking totals
// and the two role-gated dashboard stubs.
type AdminHandler struct {
	Events *repository.EventRepo
}

func NewAdminHandler(events *repository.EventRepo) *AdminHandler {
	return &AdminHandler{Events: events}
}

// ListEvents returns every event together with how many seats bookings
// currently hold on it.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.ListWithBookedSeats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// GetEvent returns one event with its booked-seat total.
func (h *AdminHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetWithBookedSeats(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ev)
}

// Dashboard greets the signed-in admin.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "welcome, admin",
		"user_id": c.Get("user_id"),
	})
}

// UserDashboard greets any signed-in user.
func (h *AdminHandler) UserDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "welcome",
		"user_id": c.Get("user_id"),
	})
}
