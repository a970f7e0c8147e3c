package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/quillpost/backend/internal/cache"
	"github.com/anonto42/quillpost/backend/internal/models"
	"github.com/anonto42/quillpost/backend/internal/repositories"
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
	"github.com/anonto42/quillpost/backend/pkg/sanitize"
)

const (
	MsgTitleRequired = "You must provide a title."
	MsgBodyRequired  = "You must provide post content."
)

// NoVisitor is the visitor id of an anonymous reader. Generated user ids start at 1.
const NoVisitor uint = 0

// UpdateStatus is the outcome of an update that reached the owned post.
type UpdateStatus string

const (
	UpdateSuccess UpdateStatus = "success"
	UpdateFailure UpdateStatus = "failure"
)

// UpdateResult reports a validation failure as a status rather than an
// error. Errors holds the messages when Status is UpdateFailure.
type UpdateResult struct {
	Status UpdateStatus `json:"status"`
	Errors []string     `json:"errors,omitempty"`
}

// CleanPost coerces, trims and strips a raw submission and stamps it with
// the author and creation time.
func CleanPost(input models.PostInput, userID uint, now time.Time) models.Post {
	return models.Post{
		Title:       sanitize.StripAllMarkup(sanitize.CoerceString(input.Title)),
		Body:        sanitize.StripAllMarkup(sanitize.CoerceString(input.Body)),
		Author:      userID,
		CreatedDate: models.NewTimestamp(now),
	}
}

// ValidatePost checks a cleaned post. Both checks always run.
func ValidatePost(post models.Post) []string {
	var messages []string
	if post.Title == "" {
		messages = append(messages, MsgTitleRequired)
	}
	if post.Body == "" {
		messages = append(messages, MsgBodyRequired)
	}
	return messages
}

// PostService validates, stores and queries posts.
type PostService struct {
	posts  repositories.PostRepository
	counts cache.CountCache
	now    func() time.Time
}

// NewPostService creates a new PostService. A nil cache disables count caching.
func NewPostService(posts repositories.PostRepository, counts cache.CountCache) *PostService {
	if counts == nil {
		counts = cache.NopCountCache{}
	}
	return &PostService{posts: posts, counts: counts, now: time.Now}
}

// Create stores a new post by userID and returns its generated id.
func (s *PostService) Create(ctx context.Context, input models.PostInput, userID uint) (uint, error) {
	post := CleanPost(input, userID, s.now())
	if err := newValidationError(ValidatePost(post)); err != nil {
		return 0, err
	}

	if err := s.posts.CreatePost(ctx, &post); err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint(pkglog.FieldUserID, userID).Msg("failed to create post")
		return 0, fmt.Errorf("create post: %w", err)
	}

	invalidateCounts(ctx, s.counts, cache.PostsKey(userID))
	return post.ID, nil
}

// Update replaces the title and body of postID when userID owns it.
// A missing post or a foreign owner is an error; a rejected submission is
// an UpdateFailure result.
func (s *PostService) Update(ctx context.Context, postID, userID uint, input models.PostInput) (UpdateResult, error) {
	post, err := s.FindSingleByID(ctx, postID, userID)
	if err != nil {
		return UpdateResult{}, err
	}
	if !post.IsVisitorOwner {
		return UpdateResult{}, ErrNotOwner
	}
	return s.actuallyUpdate(ctx, postID, userID, input)
}

func (s *PostService) actuallyUpdate(ctx context.Context, postID, userID uint, input models.PostInput) (UpdateResult, error) {
	post := CleanPost(input, userID, s.now())
	if messages := ValidatePost(post); len(messages) > 0 {
		return UpdateResult{Status: UpdateFailure, Errors: messages}, nil
	}

	err := s.posts.UpdatePostContent(ctx, postID, post.Title, post.Body)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return UpdateResult{}, ErrPostNotFound
	}
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint(pkglog.FieldPostID, postID).Msg("failed to update post")
		return UpdateResult{}, fmt.Errorf("update post: %w", err)
	}
	return UpdateResult{Status: UpdateSuccess}, nil
}

// FindSingleByID returns the post with its author's profile and whether
// visitorID is its author. Pass NoVisitor for anonymous readers.
func (s *PostService) FindSingleByID(ctx context.Context, id, visitorID uint) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	post.IsVisitorOwner = visitorID != NoVisitor && post.Author == visitorID
	return post, nil
}

// FindByAuthorID returns every post by authorID, newest first
func (s *PostService) FindByAuthorID(ctx context.Context, authorID uint) ([]models.PostView, error) {
	posts, err := s.posts.GetPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, nil
}

func (s *PostService) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return cachedCount(ctx, s.counts, cache.PostsKey(authorID), func() (int64, error) {
		return s.posts.CountPostsByAuthor(ctx, authorID)
	})
}

// Delete removes postID when currentUserID owns it.
func (s *PostService) Delete(ctx context.Context, postID, currentUserID uint) error {
	post, err := s.FindSingleByID(ctx, postID, currentUserID)
	if err != nil {
		return err
	}
	if !post.IsVisitorOwner {
		return ErrNotOwner
	}

	err = s.posts.DeletePost(ctx, postID)
	if errors.Is(err, repositories.ErrPostNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		pkglog.Ctx(ctx).Error().Err(err).Uint(pkglog.FieldPostID, postID).Msg("failed to delete post")
		return fmt.Errorf("delete post: %w", err)
	}

	invalidateCounts(ctx, s.counts, cache.PostsKey(post.Author))
	return nil
}

// Search returns posts matching searchTerm, most relevant first. A term
// that is not a string is rejected before any query runs; a blank one
// matches nothing.
func (s *PostService) Search(ctx context.Context, searchTerm any) ([]models.PostView, error) {
	term, ok := searchTerm.(string)
	if !ok {
		return nil, ErrInvalidSearchTerm
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.PostView{}, nil
	}

	posts, err := s.posts.SearchPosts(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

// GetFeed returns posts by everyone id follows, newest first
func (s *PostService) GetFeed(ctx context.Context, id uint) ([]models.PostView, error) {
	posts, err := s.posts.GetFeed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return posts, nil
}
