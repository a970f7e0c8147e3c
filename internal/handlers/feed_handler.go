package handlers

import (
	"github.com/anonto42/quillpost/backend/internal/middleware"
	"github.com/anonto42/quillpost/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postService *services.PostService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postService *services.PostService) *FeedHandler {
	return &FeedHandler{postService: postService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed, middleware.RequireUser)
}

// GetFeed returns posts by everyone the current user follows, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.postService.GetFeed(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"posts": posts})
}
