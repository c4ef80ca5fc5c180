package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func run(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = h(c)
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  float64(42),
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	rec, c := run(JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), c.Get("user_id"))
	assert.Equal(t, "user", c.Get("role"))
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := run(JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": float64(1),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	rec, _ := run(JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": float64(1),
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	rec, _ := run(JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthLegacyUserIDClaim(t *testing.T) {
	// Tokens minted before the claim rotation carry "user_id" instead of
	// "sub"; they must still resolve an identity.
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(7),
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec, c := run(JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), c.Get("user_id"))
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    interface{}
		allowed []string
		want    int
	}{
		{"admin allowed", "admin", []string{"admin"}, http.StatusOK},
		{"user rejected on admin route", "user", []string{"admin"}, http.StatusForbidden},
		{"user allowed on shared route", "user", []string{"user", "admin"}, http.StatusOK},
		{"missing role", nil, []string{"user"}, http.StatusForbidden},
		{"non-string role", 12, []string{"user"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}
			h := RequireRole(tc.allowed...)(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})
			_ = h(c)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestCurrentUserID(t *testing.T) {
	e := echo.New()
	newCtx := func(v interface{}) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	assert.Equal(t, "anon", currentUserID(newCtx(nil)))
	assert.Equal(t, "42", currentUserID(newCtx(float64(42))))
	assert.Equal(t, "42", currentUserID(newCtx(uint64(42))))
	assert.Equal(t, "42", currentUserID(newCtx(int64(42))))
	assert.Equal(t, "42", currentUserID(newCtx("42")))
	assert.Equal(t, "anon", currentUserID(newCtx("")))
}
