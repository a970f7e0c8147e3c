package repositories

import (
	"context"

	"github.com/anonto42/quillpost/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations.
// An edge is identified by (followedID, authorID): authorID follows followedID.
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followedID, authorID uint) error
	IsFollowing(ctx context.Context, followedID, authorID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.UserCompact, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.UserCompact, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
}

// GormFollowRepository implements FollowRepository with GORM
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GormFollowRepository
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// CreateFollow inserts an edge. A second insert of the same pair fails
// with ErrAlreadyFollowing through the unique index.
func (r *GormFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(follow).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

func (r *GormFollowRepository) DeleteFollow(ctx context.Context, followedID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("followed_id = ? AND author_id = ?", followedID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

func (r *GormFollowRepository) IsFollowing(ctx context.Context, followedID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ? AND author_id = ?", followedID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers lists the users following userID
func (r *GormFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	users := []models.UserCompact{}
	err := r.db.WithContext(ctx).Table("follows").
		Select("users.username, users.avatar").
		Joins("JOIN users ON follows.author_id = users.id").
		Where("follows.followed_id = ?", userID).
		Scan(&users).Error
	return users, err
}

// GetFollowing lists the users userID follows
func (r *GormFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	users := []models.UserCompact{}
	err := r.db.WithContext(ctx).Table("follows").
		Select("users.username, users.avatar").
		Joins("JOIN users ON follows.followed_id = users.id").
		Where("follows.author_id = ?", userID).
		Scan(&users).Error
	return users, err
}

func (r *GormFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", userID).Count(&count).Error
	return count, err
}

var _ FollowRepository = (*GormFollowRepository)(nil)
