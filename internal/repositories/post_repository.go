package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/quillpost/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.PostView, error)
	GetPostsByAuthor(ctx context.Context, authorID uint) ([]models.PostView, error)
	CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error)
	UpdatePostContent(ctx context.Context, id uint, title, body string) error
	DeletePost(ctx context.Context, id uint) error
	SearchPosts(ctx context.Context, term string) ([]models.PostView, error)
	GetFeed(ctx context.Context, userID uint) ([]models.PostView, error)
}

// GormPostRepository implements PostRepository with GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// views selects posts joined with their author's profile.
func (r *GormPostRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("posts AS p").
		Select("p.id, p.title, p.body, p.author, p.created_date, u.username, u.avatar").
		Joins("JOIN users u ON p.author = u.id")
}

// newestFirst orders by creation time; id breaks ties inside one second.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("p.created_date DESC").Order("p.id DESC")
}

// CreatePost inserts a post and sets its generated ID
func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// GetPostByID retrieves a post with its author's profile
func (r *GormPostRepository) GetPostByID(ctx context.Context, id uint) (*models.PostView, error) {
	var posts []models.PostView
	if err := r.views(ctx).Where("p.id = ?", id).Limit(1).Scan(&posts).Error; err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return &posts[0], nil
}

// GetPostsByAuthor retrieves all posts by an author, newest first
func (r *GormPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint) ([]models.PostView, error) {
	posts := []models.PostView{}
	err := r.views(ctx).Where("p.author = ?", authorID).Scopes(newestFirst).Scan(&posts).Error
	return posts, err
}

func (r *GormPostRepository) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author = ?", authorID).Count(&count).Error
	return count, err
}

// UpdatePostContent changes only the title and body of a post
func (r *GormPostRepository) UpdatePostContent(ctx context.Context, id uint, title, body string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "body": body})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows when the values are unchanged,
		// so only treat this as missing when the row is really gone.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPostNotFound
		}
	}
	return nil
}

func (r *GormPostRepository) DeletePost(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// SearchPosts runs a full-text match on title and body, most relevant first.
// SQLite has no built-in ranking here, so it falls back to a substring
// match ordered newest first.
func (r *GormPostRepository) SearchPosts(ctx context.Context, term string) ([]models.PostView, error) {
	posts := []models.PostView{}
	q := r.views(ctx)

	switch r.db.Dialector.Name() {
	case "mysql":
		q = q.Where("MATCH(p.title, p.body) AGAINST(?)", term).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:                "MATCH(p.title, p.body) AGAINST(?) DESC",
				Vars:               []interface{}{term},
				WithoutParentheses: true,
			}})
	case "postgres":
		q = q.Where("to_tsvector('english', p.title || ' ' || p.body) @@ plainto_tsquery('english', ?)", term).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:                "ts_rank(to_tsvector('english', p.title || ' ' || p.body), plainto_tsquery('english', ?)) DESC",
				Vars:               []interface{}{term},
				WithoutParentheses: true,
			}})
	default:
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where("(LOWER(p.title) LIKE ? ESCAPE '\\' OR LOWER(p.body) LIKE ? ESCAPE '\\')", like, like).
			Scopes(newestFirst)
	}

	err := q.Scan(&posts).Error
	return posts, err
}

// GetFeed retrieves posts by everyone userID follows, newest first
func (r *GormPostRepository) GetFeed(ctx context.Context, userID uint) ([]models.PostView, error) {
	posts := []models.PostView{}
	followed := r.db.Table("follows").Select("followed_id").Where("author_id = ?", userID)
	err := r.views(ctx).Where("p.author IN (?)", followed).Scopes(newestFirst).Scan(&posts).Error
	return posts, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ PostRepository = (*GormPostRepository)(nil)
