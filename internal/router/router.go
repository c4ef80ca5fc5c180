// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Hasib2202/event-buddy/internal/config"
	"github.com/Hasib2202/event-buddy/internal/handler"
	"github.com/Hasib2202/event-buddy/internal/middleware"
	"github.com/Hasib2202/event-buddy/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication: the handler accepts a JSON
	// body containing a `refresh_token`, or a bearer token to end every
	// session of that user.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	auth.GET("/me", a.Me)

	// Alias so clients can call either /v1/auth/logout or /v1/logout.
	e.POST("/v1/logout", a.Logout)
}

// RegisterEvents registers the public catalogue endpoints and the
// admin-only event management surface.  Public reads are cached in
// Redis; write operations require the admin role.
func RegisterEvents(e *echo.Echo, ev *handler.EventHandler, ad *handler.AdminHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	// Guests can browse events without a token.
	pub := e.Group("/v1/events")
	if rdb != nil {
		pub.Use(middleware.NewRedisCache(cacheCfg, rdb))
	}
	pub.GET("", ev.List)
	pub.GET("/:id", ev.GetByID)

	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.POST("/events", ev.Create)
	admin.PATCH("/events/:id", ev.Update)
	admin.DELETE("/events/:id", ev.Delete)
	admin.GET("/admin/events", ad.ListEvents)
	admin.GET("/admin/events/:id", ad.GetEvent)
	admin.GET("/admin/dashboard", ad.Dashboard)

	user := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	user.GET("/user/dashboard", ad.UserDashboard)
}

// RegisterBookings registers booking endpoints under /v1.  All routes
// require a valid JWT; any signed-in user can book and manage their own
// bookings.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	g.POST("/bookings", b.Create)
	g.GET("/bookings/me", b.ListMine)
	g.DELETE("/bookings/:id", b.Cancel)
}
