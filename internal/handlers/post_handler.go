package handlers

import (
	"net/http"

	"github.com/anonto42/quillpost/backend/internal/middleware"
	"github.com/anonto42/quillpost/backend/internal/models"
	"github.com/anonto42/quillpost/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost, middleware.RequireUser)
	g.GET("/posts/search", h.SearchPosts)
	g.POST("/posts/search", h.SearchPostsJSON)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost, middleware.RequireUser)
	g.DELETE("/posts/:id", h.DeletePost, middleware.RequireUser)
	g.GET("/users/:id/posts", h.GetPostsByAuthor)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var input models.PostInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	id, err := h.postService.Create(c.Request().Context(), input, getUserIDFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"id": id}})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	post, err := h.postService.FindSingleByID(c.Request().Context(), id, getUserIDFromContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, post)
}

// UpdatePost replaces the title and body of a post owned by the current user
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	var input models.PostInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	res, err := h.postService.Update(c.Request().Context(), id, getUserIDFromContext(c), input)
	if err != nil {
		return respondError(c, err)
	}
	if res.Status == services.UpdateFailure {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "status": res.Status, "errors": res.Errors})
	}
	return ok(c, res)
}

// DeletePost deletes a post owned by the current user
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	if err := h.postService.Delete(c.Request().Context(), id, getUserIDFromContext(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type searchQuery struct {
	Q string `query:"q" validate:"max=200"`
}

// SearchPosts runs a full-text search from the q query parameter
func (h *PostHandler) SearchPosts(c echo.Context) error {
	var q searchQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid search query")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	return h.search(c, q.Q)
}

// SearchPostsJSON runs a full-text search from a JSON body. The term is
// passed through untyped so a non-string term is rejected by the service.
func (h *PostHandler) SearchPostsJSON(c echo.Context) error {
	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return h.search(c, req.SearchTerm)
}

func (h *PostHandler) search(c echo.Context, term any) error {
	posts, err := h.postService.Search(c.Request().Context(), term)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, posts)
}

// GetPostsByAuthor lists a user's posts, newest first
func (h *PostHandler) GetPostsByAuthor(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	posts, err := h.postService.FindByAuthorID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, posts)
}
