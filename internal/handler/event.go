package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Hasib2202/event-buddy/internal/middleware"
	"github.com/Hasib2202/event-buddy/internal/model"
	"github.com/Hasib2202/event-buddy/internal/repository"
)

// EventHandler serves the public catalogue and the admin CRUD surface.
// Admin writes purge the catalogue cache so public reads never serve a
// deleted or edited event for a full TTL.
type EventHandler struct {
	Events      *repository.EventRepo
	Cache       *redis.Client
	CachePrefix string
}

func NewEventHandler(events *repository.EventRepo, cache *redis.Client, cachePrefix string) *EventHandler {
	return &EventHandler{Events: events, Cache: cache, CachePrefix: cachePrefix}
}

// purgeCatalogue is best effort; a failed purge only extends staleness
// until the TTL expires.
func (h *EventHandler) purgeCatalogue() {
	if h.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = middleware.PurgeCache(ctx, h.Cache, h.CachePrefix)
}

type createEventReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	EventDate   string  `json:"eventDate"` // YYYY-MM-DD
	EventTime   string  `json:"eventTime"` // HH:MM
	Location    string  `json:"location"`
	TotalSeats  int64   `json:"totalSeats"`
	Type        string  `json:"type"`
	Image       *string `json:"image"`
}

type updateEventReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"eventDate"`
	EventTime   *string `json:"eventTime"`
	Location    *string `json:"location"`
	TotalSeats  *int64  `json:"totalSeats"`
	Type        *string `json:"type"`
	Image       *string `json:"image"`
}

func parseEventDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

func validEventTime(s string) bool {
	_, err := time.Parse("15:04", strings.TrimSpace(s))
	return err == nil
}

// List: public, newest events first.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// GetByID: public detail view.
func (h *EventHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ev)
}

// Create: admin only.  A new event starts with every seat available.
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" || req.Description == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/description/location required"})
	}
	if req.TotalSeats < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "totalSeats must be at least 1"})
	}
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventDate must be YYYY-MM-DD"})
	}
	if !validEventTime(req.EventTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventTime must be HH:MM"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   date,
		EventTime:   strings.TrimSpace(req.EventTime),
		Location:    req.Location,
		TotalSeats:  uint32(req.TotalSeats),
		Type:        strings.TrimSpace(req.Type),
		Image:       req.Image,
	}
	if err := h.Events.Create(ctx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	h.purgeCatalogue()
	return c.JSON(http.StatusCreated, ev)
}

// Update: admin only, partial.  Growing or shrinking totalSeats moves
// availableSeats by the same amount so booked seats stay booked.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var params repository.UpdateEventParams
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
		}
		params.Title = &t
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "description cannot be empty"})
		}
		params.Description = &d
	}
	if req.EventDate != nil {
		date, err := parseEventDate(*req.EventDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventDate must be YYYY-MM-DD"})
		}
		d := date.Format("2006-01-02")
		params.EventDate = &d
	}
	if req.EventTime != nil {
		if !validEventTime(*req.EventTime) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventTime must be HH:MM"})
		}
		t := strings.TrimSpace(*req.EventTime)
		params.EventTime = &t
	}
	if req.Location != nil {
		l := strings.TrimSpace(*req.Location)
		if l == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "location cannot be empty"})
		}
		params.Location = &l
	}
	if req.TotalSeats != nil {
		if *req.TotalSeats < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "totalSeats must be at least 1"})
		}
		ts := uint32(*req.TotalSeats)
		params.TotalSeats = &ts
	}
	if req.Type != nil {
		t := strings.TrimSpace(*req.Type)
		params.Type = &t
	}
	if req.Image != nil {
		params.Image = req.Image
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.Update(ctx, id, params)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrNoChange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
		}
	}
	h.purgeCatalogue()
	return c.JSON(http.StatusOK, ev)
}

// Delete: admin only.  Bookings go with the event (FK cascade).
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	h.purgeCatalogue()
	return c.JSON(http.StatusOK, echo.Map{"message": "event deleted"})
}
