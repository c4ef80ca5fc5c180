package middleware

// identity.go centralizes how a user identity is pulled out of JWT claims
// and the request context.  The issued token schema stores the user ID in
// the standard "sub" claim; tokens minted by older deployments carried a
// "user_id" claim instead, which is still accepted here as a migration
// shim only.  New code must not add further claim fallbacks.

import (
    "fmt"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// subjectClaim returns the identity value from a parsed claim set,
// preferring "sub" and falling back to the legacy "user_id" claim.
func subjectClaim(claims jwt.MapClaims) interface{} {
    if v, ok := claims["sub"]; ok && v != nil {
        return v
    }
    // legacy tokens only; remove once all pre-rotation tokens expired
    return claims["user_id"]
}

// currentUserID renders the authenticated user's ID as a string for use
// in cache and rate-limit keys.  Unauthenticated requests key as "anon".
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t != "" {
            return t
        }
    case float64:
        return fmt.Sprintf("%.0f", t)
    case uint64:
        return fmt.Sprintf("%d", t)
    case int64:
        return fmt.Sprintf("%d", t)
    }
    return "anon"
}
