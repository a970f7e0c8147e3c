package handlers

import (
	"net/http"

	"github.com/anonto42/quillpost/backend/internal/middleware"
	"github.com/anonto42/quillpost/backend/internal/models"
	"github.com/anonto42/quillpost/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followService *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follow/:username", h.FollowUser, middleware.RequireUser)
	g.DELETE("/follow/:username", h.UnfollowUser, middleware.RequireUser)
	g.POST("/follows", h.FollowJSON, middleware.RequireUser)
	g.DELETE("/follows", h.UnfollowJSON, middleware.RequireUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/is-following", h.IsFollowing)
}

type usernameParam struct {
	Username string `param:"username" validate:"required,max=45"`
}

// FollowUser makes the current user follow :username
func (h *FollowHandler) FollowUser(c echo.Context) error {
	var p usernameParam
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid username")
	}
	if err := c.Validate(&p); err != nil {
		return err
	}

	if err := h.followService.Create(c.Request().Context(), p.Username, getUserIDFromContext(c)); err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"following": true})
}

// UnfollowUser makes the current user stop following :username
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	var p usernameParam
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid username")
	}
	if err := c.Validate(&p); err != nil {
		return err
	}

	if err := h.followService.Delete(c.Request().Context(), p.Username, getUserIDFromContext(c)); err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"following": false})
}

// FollowJSON is FollowUser with the username in a JSON body. The username
// is passed through untyped; anything but a known username is rejected.
func (h *FollowHandler) FollowJSON(c echo.Context) error {
	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := h.followService.Create(c.Request().Context(), req.Username, getUserIDFromContext(c)); err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"following": true})
}

func (h *FollowHandler) UnfollowJSON(c echo.Context) error {
	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := h.followService.Delete(c.Request().Context(), req.Username, getUserIDFromContext(c)); err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"following": false})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	users, err := h.followService.GetFollowersByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, users)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	users, err := h.followService.GetFollowingByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, users)
}

// IsFollowing reports whether the current visitor follows :id
func (h *FollowHandler) IsFollowing(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	following, err := h.followService.IsVisitorFollowing(c.Request().Context(), id, getUserIDFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"following": following})
}
