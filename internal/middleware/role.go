package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // standard HTTP status codes

    "github.com/labstack/echo/v4" // echo middleware chaining and context
)

// RequireRole returns a middleware that enforces that the authenticated
// user holds one of the given roles ("user" or "admin", matching the
// JWT's "role" claim).  This is the single capability check performed at
// the request boundary; handlers and the reservation core behind it can
// assume the caller is authorized.  A missing or disallowed role aborts
// the request with 403 Forbidden.  JWTAuth must run first so the role is
// present in the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant-time lookups.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            v := c.Get("role")
            role, ok := v.(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
