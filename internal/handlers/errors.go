package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/quillpost/backend/internal/middleware"
	"github.com/anonto42/quillpost/backend/internal/repositories"
	"github.com/anonto42/quillpost/backend/internal/services"
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
	"github.com/labstack/echo/v4"
)

// respondError maps service failures onto HTTP. Validation messages are
// returned to the client; operational failures get a generic message.
func respondError(c echo.Context, err error) error {
	if messages := services.ValidationMessages(err); messages != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "errors": messages})
	}

	switch {
	case errors.Is(err, services.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform that action")
	case errors.Is(err, services.ErrInvalidSearchTerm):
		return echo.NewHTTPError(http.StatusBadRequest, "Search term must be a string")
	}

	pkglog.Ctx(c.Request().Context()).Error().Err(err).Msg("request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserIDFromContext(c)
}

type idParam struct {
	ID uint `param:"id" validate:"required,gt=0"`
}

// bindID reads and validates the :id path parameter.
func bindID(c echo.Context) (uint, error) {
	var p idParam
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	if err := c.Validate(&p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}
