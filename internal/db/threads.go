package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/createconomy/createconomy/internal/models"
)

// ThreadRepository provides thread-related database operations
type ThreadRepository struct {
	*Repository
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(repo *Repository) *ThreadRepository {
	return &ThreadRepository{Repository: repo}
}

// GetByID retrieves a thread by ID
func (r *ThreadRepository) GetByID(ctx context.Context, id int64) (*models.Thread, error) {
	var thread models.Thread
	if err := r.db.WithContext(ctx).First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &thread, nil
}

// Create creates a thread and, for poll threads, its options in one
// transaction
func (r *ThreadRepository) Create(ctx context.Context, thread *models.Thread, options []models.PollOption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].ThreadID = thread.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.ThreadRank{
			ThreadID:  thread.ID,
			UpdatedAt: time.Now().UTC(),
		}).Error
	})
}

// IncrementViews bumps the view counter and returns the committed value
func (r *ThreadRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Raw("UPDATE cc_threads SET view_count = view_count + 1 WHERE id = ? RETURNING view_count", id).
		Scan(&count).Error
	return count, err
}

// SetPinned sets the pinned flag
func (r *ThreadRepository) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", id).
		Update("is_pinned", pinned).Error
}

// SetLocked sets the locked flag
func (r *ThreadRepository) SetLocked(ctx context.Context, id int64, locked bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", id).
		Update("is_locked", locked).Error
}

// SoftDelete marks a thread deleted without removing the row
func (r *ThreadRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// CategoryRepository provides category-related database operations
type CategoryRepository struct {
	*Repository
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(repo *Repository) *CategoryRepository {
	return &CategoryRepository{Repository: repo}
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// List retrieves all categories ordered by slug
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := r.db.WithContext(ctx).Order("slug").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FollowRepository provides follow-related database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// IsFollowing reports whether follower follows followee
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// Follow creates the relationship; repeated calls are no-ops
func (r *FollowRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return fmt.Errorf("cannot follow self")
	}
	follow := models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		FirstOrCreate(&follow).Error
	return err
}

// Unfollow removes the relationship; repeated calls are no-ops
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

// Counts returns follower and following totals for a user
func (r *FollowRepository) Counts(ctx context.Context, userID int64) (followers, following int64, err error) {
	if err = r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&followers).Error; err != nil {
		return
	}
	err = r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&following).Error
	return
}
