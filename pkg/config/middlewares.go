package config

import (
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(pkglog.EchoMiddleware(*pkglog.L()))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
}
