package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/quillpost/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims models.JwtCustomClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func run(t *testing.T, header string, h echo.HandlerFunc) (uint, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen uint
	err := JWTAuthMiddleware(secret)(func(c echo.Context) error {
		seen = UserIDFromContext(c)
		if h != nil {
			return h(c)
		}
		return nil
	})(c)
	return seen, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestJWTAuthMiddleware(t *testing.T) {
	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), models.JwtCustomClaims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})

	id, err := run(t, "Bearer "+valid, nil)
	if err != nil || id != 7 {
		t.Fatalf("expected user 7, got %d (%v)", id, err)
	}

	id, err = run(t, "", nil)
	if err != nil || id != 0 {
		t.Fatalf("expected anonymous visitor, got %d (%v)", id, err)
	}

	expired := sign(t, jwt.SigningMethodHS256, []byte(secret), models.JwtCustomClaims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	})
	zeroUser := sign(t, jwt.SigningMethodHS256, []byte(secret), models.JwtCustomClaims{})
	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), models.JwtCustomClaims{UserID: 7})

	for name, header := range map[string]string{
		"no scheme":  valid,
		"basic":      "Basic " + valid,
		"expired":    "Bearer " + expired,
		"zero user":  "Bearer " + zeroUser,
		"wrong key":  "Bearer " + wrongKey,
		"unsigned":   "Bearer " + sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, models.JwtCustomClaims{UserID: 7}),
		"extra part": "Bearer " + valid + " x",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, header, nil)
			if statusOf(t, err) != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	called := false
	next := func(echo.Context) error { called = true; return nil }

	if err := RequireUser(next)(c); statusOf(t, err) != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 for visitor, got %v", err)
	}

	c.Set(UserIDKey, uint(3))
	if err := RequireUser(next)(c); err != nil || !called {
		t.Fatalf("expected user to pass, got %v", err)
	}
}
