package handlers

import (
	"github.com/anonto42/quillpost/backend/internal/repositories"
	"github.com/anonto42/quillpost/backend/internal/services"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// UserHandler serves public profiles
type UserHandler struct {
	userRepository repositories.UserRepository
	followService  *services.FollowService
	postService    *services.PostService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followService *services.FollowService, postService *services.PostService) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		followService:  followService,
		postService:    postService,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetProfile)
}

// Profile is a user's public page header
type Profile struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	Avatar            string `json:"avatar"`
	IsVisitorsProfile bool   `json:"isVisitorsProfile"`
	IsFollowing       bool   `json:"isFollowing"`
	PostCount         int64  `json:"postCount"`
	FollowerCount     int64  `json:"followerCount"`
	FollowingCount    int64  `json:"followingCount"`
}

// GetProfile returns a user's profile with counts and the visitor's follow state
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	visitorID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	profile := Profile{
		ID:                user.ID,
		Username:          user.Username,
		Avatar:            user.Avatar,
		IsVisitorsProfile: visitorID == user.ID,
	}

	// independent reads
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile.PostCount, err = h.postService.CountPostsByAuthor(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		profile.FollowerCount, err = h.followService.CountFollowersByID(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		profile.FollowingCount, err = h.followService.CountFollowingByID(gctx, user.ID)
		return err
	})
	if visitorID != services.NoVisitor {
		g.Go(func() (err error) {
			profile.IsFollowing, err = h.followService.IsVisitorFollowing(gctx, user.ID, visitorID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return respondError(c, err)
	}

	return ok(c, profile)
}
