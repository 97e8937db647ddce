// Package worker runs the periodic maintenance tasks: purging dead
// sessions, retiring spent offer codes and repairing stale thread ranks.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/ranking"
	"github.com/createconomy/createconomy/pkg/config"
	"github.com/createconomy/createconomy/pkg/logging"
)

// Sessions expired or revoked this long ago are eligible for deletion
const sessionRetention = 24 * time.Hour

// Worker manages the maintenance schedule
type Worker struct {
	config *config.WorkerConfig
	repo   *db.MaintenanceRepository
	logger *zap.Logger
}

// New creates a new maintenance worker
func New(cfg *config.WorkerConfig, database *db.DB) *Worker {
	repo := db.NewMaintenanceRepository(db.NewRepository(database.DB))
	return &Worker{
		config: cfg,
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "worker")),
	}
}

// Run executes the maintenance tasks on the configured interval until
// ctx is canceled
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Starting maintenance worker",
		zap.Duration("interval", w.config.Interval))

	for {
		w.runOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.config.Interval):
		}
	}
}

// runOnce runs each task; a failing task does not block the others
func (w *Worker) runOnce(ctx context.Context) {
	if n, err := w.purgeSessions(ctx); err != nil {
		w.logger.Error("Failed to purge sessions", zap.Error(err))
	} else if n > 0 {
		w.logger.Info("Purged sessions", zap.Int64("count", n))
	}

	if n, err := w.repo.ExpireOfferCodes(ctx, time.Now().UTC()); err != nil {
		w.logger.Error("Failed to expire offer codes", zap.Error(err))
	} else if n > 0 {
		w.logger.Info("Expired offer codes", zap.Int64("count", n))
	}

	if n, err := w.refreshRanks(ctx); err != nil {
		w.logger.Error("Failed to refresh thread ranks", zap.Error(err))
	} else if n > 0 {
		w.logger.Info("Refreshed thread ranks", zap.Int("count", n))
	}
}

func (w *Worker) purgeSessions(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-sessionRetention)

	// Delete in batches until the backlog is drained
	var total int64
	for {
		n, err := w.repo.PurgeSessions(ctx, cutoff, w.config.MaxBatch)
		total += n
		if err != nil || n < int64(w.config.MaxBatch) {
			return total, err
		}
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
	}
}

// refreshRanks recomputes sort scores for threads whose rank row fell
// behind their reactions. Normally the reaction toggle keeps ranks in
// step; this repairs drift after crashes or manual data fixes.
func (w *Worker) refreshRanks(ctx context.Context) (int, error) {
	stale, err := w.repo.StaleThreadVotes(ctx, w.config.MaxBatch)
	if err != nil {
		return 0, err
	}

	for i, tv := range stale {
		rank := &models.ThreadRank{
			ThreadID:           tv.ThreadID,
			ScoreHot:           ranking.Hot(tv.Ups, tv.Downs, tv.CreatedAt),
			ScoreControversial: ranking.Controversial(tv.Ups, tv.Downs),
			UpdatedAt:          time.Now().UTC(),
		}
		if err := w.repo.SaveRank(ctx, rank); err != nil {
			return i, err
		}
	}
	return len(stale), nil
}
