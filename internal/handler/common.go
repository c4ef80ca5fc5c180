package handler // handler defines http handlers

import (
    "errors"  // sentinel used by getUserID
    "strconv" // string-to-int conversion

    "github.com/labstack/echo/v4" // echo request context types
)

// getUserID extracts the user_id set by the JWT middleware from the echo
// context and converts it to uint64.  JWT numeric claims decode as
// float64, so several representations must be accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}
