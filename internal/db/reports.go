package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/createconomy/createconomy/internal/models"
)

// ReportRepository provides report-related database operations
type ReportRepository struct {
	*Repository
}

// NewReportRepository creates a new report repository
func NewReportRepository(repo *Repository) *ReportRepository {
	return &ReportRepository{Repository: repo}
}

// HasPending reports whether the reporter already holds a pending report
// on the target
func (r *ReportRepository) HasPending(ctx context.Context, reporterID int64, targetType string, targetID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("reporter_id = ? AND target_type = ? AND target_id = ? AND status = ?",
			reporterID, targetType, targetID, models.ReportPending).
		Count(&count).Error
	return count > 0, err
}

// Create creates a new report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// GetByReference retrieves a report by its public reference
func (r *ReportRepository) GetByReference(ctx context.Context, reference string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// List returns one page of reports, optionally filtered by status, newest
// first
func (r *ReportRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Report, bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []*models.Report
	err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit + 1).
		Find(&reports).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(reports) > limit
	if hasMore {
		reports = reports[:limit]
	}
	return reports, hasMore, nil
}

// Resolve transitions a pending report to its final status
func (r *ReportRepository) Resolve(ctx context.Context, reportID, reviewerID int64, status, note string) error {
	return r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, models.ReportPending).
		Updates(map[string]interface{}{
			"status":          status,
			"reviewer_id":     reviewerID,
			"resolution_note": sql.NullString{String: note, Valid: note != ""},
			"reviewed_at":     time.Now().UTC(),
		}).Error
}

// PendingCount returns the moderation queue depth
func (r *ReportRepository) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("status = ?", models.ReportPending).
		Count(&count).Error
	return count, err
}
