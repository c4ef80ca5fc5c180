package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Hasib2202/event-buddy/internal/booking"
	"github.com/Hasib2202/event-buddy/internal/config"
	"github.com/Hasib2202/event-buddy/internal/database"
	"github.com/Hasib2202/event-buddy/internal/handler"
	"github.com/Hasib2202/event-buddy/internal/middleware"
	"github.com/Hasib2202/event-buddy/internal/queue"
	"github.com/Hasib2202/event-buddy/internal/repository"
	"github.com/Hasib2202/event-buddy/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the public-catalogue cache.  The
	// server still runs without it; those middlewares degrade to no-ops.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	store := repository.NewBookingStore(db)

	svc := booking.NewService(store, booking.SeatPolicy{
		MinSeats: uint32(cfg.BookingMinSeats),
		MaxSeats: uint32(cfg.BookingMaxSeats),
	})

	cacheCfg := config.LoadCacheConfig()

	authH := handler.NewAuthHandler(cfg, users, tokens)
	eventH := handler.NewEventHandler(events, rdb, cacheCfg.Prefix)
	adminH := handler.NewAdminHandler(events)
	bookingH := handler.NewBookingHandler(svc)

	e := echo.New()
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterEvents(e, eventH, adminH, cfg.JWTSecret, cacheCfg, rdb)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)

	// Background consumer that appends confirmed bookings to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
