package log

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const headerRequestID = echo.HeaderXRequestID

// EchoMiddleware reads or generates a request id, stores a request-scoped
// logger in the request context and logs the completed request.
// The actor id is read from the echo context under FieldUserID when an
// auth middleware has set it.
func EchoMiddleware(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(headerRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			child := logger.With().
				Str(FieldRequestID, reqID).
				Str(FieldMethod, req.Method).
				Str(FieldPath, req.URL.Path).
				Str(FieldClientIP, c.RealIP()).
				Logger()

			c.Response().Header().Set(headerRequestID, reqID)
			c.SetRequest(req.WithContext(WithLogger(req.Context(), child)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			evt := child.Info().
				Int(FieldStatus, c.Response().Status).
				Float64(FieldLatency, float64(time.Since(start).Milliseconds()))
			if userID, ok := c.Get(FieldUserID).(uint); ok && userID != 0 {
				evt = evt.Uint(FieldUserID, userID)
			}
			evt.Msg("request completed")

			return nil
		}
	}
}
