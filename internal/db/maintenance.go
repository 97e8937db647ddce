package db

import (
	"context"
	"time"

	"github.com/createconomy/createconomy/internal/models"
)

// MaintenanceRepository provides the batch queries the background worker
// runs on a schedule
type MaintenanceRepository struct {
	*Repository
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(repo *Repository) *MaintenanceRepository {
	return &MaintenanceRepository{Repository: repo}
}

// PurgeSessions deletes sessions that expired or were revoked before the
// cutoff. Returns the number of rows removed.
func (r *MaintenanceRepository) PurgeSessions(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM cc_sessions WHERE id IN (
			SELECT id FROM cc_sessions
			WHERE expires_at < ? OR revoked_at < ?
			LIMIT ?)`,
		cutoff, cutoff, limit)
	return res.RowsAffected, res.Error
}

// ExpireOfferCodes deactivates codes that passed their expiry or used up
// their redemption budget. Returns the number of rows changed.
func (r *MaintenanceRepository) ExpireOfferCodes(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OfferCode{}).
		Where("is_active = true").
		Where("(expires_at IS NOT NULL AND expires_at < ?) OR (max_uses IS NOT NULL AND current_uses >= max_uses)", now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// ThreadVotes holds the vote aggregate a rank refresh needs
type ThreadVotes struct {
	ThreadID  int64
	Ups       int64
	Downs     int64
	CreatedAt time.Time
}

// StaleThreadVotes returns vote aggregates for threads whose rank row is
// older than their newest reaction
func (r *MaintenanceRepository) StaleThreadVotes(ctx context.Context, limit int) ([]ThreadVotes, error) {
	var rows []ThreadVotes
	err := r.db.WithContext(ctx).Raw(
		`SELECT t.id AS thread_id,
			COUNT(*) FILTER (WHERE re.kind = ?) AS ups,
			COUNT(*) FILTER (WHERE re.kind = ?) AS downs,
			t.created_at
		FROM cc_threads t
		JOIN cc_thread_ranks rk ON rk.thread_id = t.id
		LEFT JOIN cc_reactions re
			ON re.target_type = ? AND re.target_id = t.id
		WHERE t.is_deleted = false
		GROUP BY t.id, rk.updated_at, t.created_at
		HAVING MAX(re.created_at) > rk.updated_at
		LIMIT ?`,
		models.ReactionUpvote, models.ReactionDownvote, models.TargetThread, limit).
		Scan(&rows).Error
	return rows, err
}

// SaveRank upserts a thread's precomputed sort scores
func (r *MaintenanceRepository) SaveRank(ctx context.Context, rank *models.ThreadRank) error {
	return r.db.WithContext(ctx).Save(rank).Error
}
