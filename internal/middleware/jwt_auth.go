package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/quillpost/backend/internal/models"
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key holding the acting user's id.
const UserIDKey = pkglog.FieldUserID

// JWTAuthMiddleware resolves the acting user from a bearer token signed
// with secret. Requests without an Authorization header continue as
// anonymous visitors; a malformed or invalid token is rejected.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.UserID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(UserIDKey, claims.UserID)
			return next(c)
		}
	}
}

// RequireUser rejects anonymous visitors.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if UserIDFromContext(c) == 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}
		return next(c)
	}
}

// UserIDFromContext returns the acting user's id, or 0 for a visitor.
func UserIDFromContext(c echo.Context) uint {
	if id, ok := c.Get(UserIDKey).(uint); ok {
		return id
	}
	return 0
}
