package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT parsing and validation
    "github.com/labstack/echo/v4"  // Echo framework middleware types
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and role claims into the request context.
// The provided secret must match the one used when issuing tokens.  This
// middleware wraps protected routes so that handlers can access the
// authenticated user via c.Get("user_id") and c.Get("role").  A missing or
// invalid token yields 401; clients receiving 401 must re-authenticate.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header is "Bearer <jwt>".
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 and our secret.  The callback supplies the
            // signing key and rejects any other signing algorithm.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Identity is carried in the standard subject claim.  Type
            // assertions are left to downstream consumers.
            c.Set("user_id", subjectClaim(claims))
            c.Set("role", claims["role"])
            return next(c)
        }
    }
}
