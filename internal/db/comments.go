package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/createconomy/createconomy/internal/models"
)

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create inserts a comment and bumps the thread's comment counter in one
// transaction
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Thread{}).
			Where("id = ?", comment.ThreadID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
}

// Edit replaces a comment's body
func (r *CommentRepository) Edit(ctx context.Context, id int64, body string) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND is_deleted = false", id).
		Updates(map[string]interface{}{
			"body":      body,
			"edited_at": time.Now().UTC(),
		}).Error
}

// SoftDelete replaces the body with the deletion marker. Children keep
// their parent reference so reply chains stay renderable.
func (r *CommentRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"body":       models.DeletedBody,
			"is_deleted": true,
		}).Error
}

// sortOrderClause maps a sort mode to the SQL ordering applied at read
// time. The best/controversial expressions mirror the ranking package.
func sortOrderClause(sort string) string {
	switch sort {
	case models.SortNew:
		return "created_at DESC, id DESC"
	case models.SortTop:
		return "score DESC, id DESC"
	case models.SortControversial:
		return "(CASE WHEN up_count = 0 OR down_count = 0 THEN 0 " +
			"ELSE power(up_count + down_count, " +
			"least(up_count, down_count)::float / greatest(up_count, down_count)) END) DESC, id DESC"
	default: // best
		return "((CASE WHEN score > 0 THEN 1 WHEN score < 0 THEN -1 ELSE 0 END) " +
			"* log(greatest(abs(score), 1)::numeric)::float " +
			"+ extract(epoch FROM created_at - TIMESTAMP '2024-01-01 00:00:00')/45000.0) DESC, id DESC"
	}
}

// ListByThread returns one page of a thread's comments in the given sort
// order. Each comment carries its parent ID; callers rebuild the tree.
// hasMore signals additional pages past offset+limit.
func (r *CommentRepository) ListByThread(ctx context.Context, threadID int64, sort string, offset, limit int) ([]*models.Comment, bool, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order(sortOrderClause(sort)).
		Offset(offset).
		Limit(limit + 1).
		Find(&comments).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}
	return comments, hasMore, nil
}
