package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/quillpost/backend/internal/cache"
	"github.com/anonto42/quillpost/backend/internal/models"
	"github.com/anonto42/quillpost/backend/internal/repositories"
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
	"github.com/anonto42/quillpost/backend/pkg/sanitize"
)

const (
	MsgFollowUnknownUser = "You cannot follow a user that does not exist."
	MsgAlreadyFollowing  = "You are already following this user."
	MsgNotFollowing      = "You cannot stop following someone you do not already follow."
	MsgFollowYourself    = "You cannot follow yourself."
)

// FollowAction selects which edge-existence rule ValidateFollow applies.
type FollowAction string

const (
	FollowCreate FollowAction = "create"
	FollowDelete FollowAction = "delete"
)

// FollowSnapshot is the stored state a follow submission is validated against.
type FollowSnapshot struct {
	TargetFound bool
	TargetID    uint
	EdgeExists  bool
}

// ValidateFollow returns every rule the submission breaks, in order:
// unknown target, edge state for the action, then self-follow.
func ValidateFollow(action FollowAction, authorID uint, snap FollowSnapshot) []string {
	var messages []string

	if !snap.TargetFound {
		messages = append(messages, MsgFollowUnknownUser)
	}

	switch action {
	case FollowCreate:
		if snap.EdgeExists {
			messages = append(messages, MsgAlreadyFollowing)
		}
	case FollowDelete:
		if !snap.EdgeExists {
			messages = append(messages, MsgNotFollowing)
		}
	}

	if snap.TargetFound && snap.TargetID == authorID {
		messages = append(messages, MsgFollowYourself)
	}

	return messages
}

// FollowService validates and applies follow edges and answers relationship queries.
type FollowService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
	counts  cache.CountCache
}

// NewFollowService creates a new FollowService. A nil cache disables count caching.
func NewFollowService(users repositories.UserRepository, follows repositories.FollowRepository, counts cache.CountCache) *FollowService {
	if counts == nil {
		counts = cache.NopCountCache{}
	}
	return &FollowService{users: users, follows: follows, counts: counts}
}

// snapshot resolves the target username and checks for an existing edge.
// An unresolved target has no edge.
func (s *FollowService) snapshot(ctx context.Context, followedUsername string, authorID uint) (FollowSnapshot, error) {
	var snap FollowSnapshot

	user, err := s.users.GetUserByUsername(ctx, followedUsername)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return snap, nil
	case err != nil:
		return snap, fmt.Errorf("look up followed user: %w", err)
	}
	snap.TargetFound = true
	snap.TargetID = user.ID

	snap.EdgeExists, err = s.follows.IsFollowing(ctx, user.ID, authorID)
	if err != nil {
		return snap, fmt.Errorf("check follow edge: %w", err)
	}
	return snap, nil
}

// Create makes authorID follow the user named by followedUsername.
// Rule violations are returned as a *ValidationError.
func (s *FollowService) Create(ctx context.Context, followedUsername any, authorID uint) error {
	username := sanitize.CoerceString(followedUsername)

	snap, err := s.snapshot(ctx, username, authorID)
	if err != nil {
		return err
	}
	if err := newValidationError(ValidateFollow(FollowCreate, authorID, snap)); err != nil {
		return err
	}

	err = s.follows.CreateFollow(ctx, &models.Follow{FollowedID: snap.TargetID, AuthorID: authorID})
	if errors.Is(err, repositories.ErrAlreadyFollowing) {
		// lost a race with a concurrent follow of the same pair
		return &ValidationError{Messages: []string{MsgAlreadyFollowing}}
	}
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).
			Uint(pkglog.FieldFollowedID, snap.TargetID).
			Uint(pkglog.FieldAuthorID, authorID).
			Msg("failed to create follow")
		return fmt.Errorf("create follow: %w", err)
	}

	invalidateCounts(ctx, s.counts, cache.FollowersKey(snap.TargetID), cache.FollowingKey(authorID))
	return nil
}

// Delete removes the edge from authorID to the user named by followedUsername.
func (s *FollowService) Delete(ctx context.Context, followedUsername any, authorID uint) error {
	username := sanitize.CoerceString(followedUsername)

	snap, err := s.snapshot(ctx, username, authorID)
	if err != nil {
		return err
	}
	if err := newValidationError(ValidateFollow(FollowDelete, authorID, snap)); err != nil {
		return err
	}

	err = s.follows.DeleteFollow(ctx, snap.TargetID, authorID)
	if errors.Is(err, repositories.ErrFollowNotFound) {
		return &ValidationError{Messages: []string{MsgNotFollowing}}
	}
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).
			Uint(pkglog.FieldFollowedID, snap.TargetID).
			Uint(pkglog.FieldAuthorID, authorID).
			Msg("failed to delete follow")
		return fmt.Errorf("delete follow: %w", err)
	}

	invalidateCounts(ctx, s.counts, cache.FollowersKey(snap.TargetID), cache.FollowingKey(authorID))
	return nil
}

// IsVisitorFollowing reports whether visitorID follows followedID
func (s *FollowService) IsVisitorFollowing(ctx context.Context, followedID, visitorID uint) (bool, error) {
	ok, err := s.follows.IsFollowing(ctx, followedID, visitorID)
	if err != nil {
		return false, fmt.Errorf("check follow edge: %w", err)
	}
	return ok, nil
}

func (s *FollowService) GetFollowersByID(ctx context.Context, id uint) ([]models.UserCompact, error) {
	users, err := s.follows.GetFollowers(ctx, id)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint(pkglog.FieldUserID, id).Msg("failed to list followers")
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return users, nil
}

func (s *FollowService) GetFollowingByID(ctx context.Context, id uint) ([]models.UserCompact, error) {
	users, err := s.follows.GetFollowing(ctx, id)
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint(pkglog.FieldUserID, id).Msg("failed to list following")
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

func (s *FollowService) CountFollowersByID(ctx context.Context, id uint) (int64, error) {
	return cachedCount(ctx, s.counts, cache.FollowersKey(id), func() (int64, error) {
		return s.follows.GetFollowersCount(ctx, id)
	})
}

func (s *FollowService) CountFollowingByID(ctx context.Context, id uint) (int64, error) {
	return cachedCount(ctx, s.counts, cache.FollowingKey(id), func() (int64, error) {
		return s.follows.GetFollowingCount(ctx, id)
	})
}
