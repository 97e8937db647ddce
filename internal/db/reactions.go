package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/createconomy/createconomy/internal/models"
	"github.com/createconomy/createconomy/internal/ranking"
)

// Toggle action results
const (
	ToggleVoted   = "voted"
	ToggleRemoved = "removed"
)

// ReactionRepository provides reaction-related database operations
type ReactionRepository struct {
	*Repository
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(repo *Repository) *ReactionRepository {
	return &ReactionRepository{Repository: repo}
}

// togglePlan describes the row changes a reaction toggle performs
type togglePlan struct {
	Action string
	Clear  []string
	Insert bool
}

// planToggle decides a toggle outcome from the kinds the user currently
// holds on the target. Holding the requested kind removes it; otherwise
// the conflicting kind (upvote vs downvote) is cleared and the new kind
// inserted.
func planToggle(held []string, kind string) togglePlan {
	for _, h := range held {
		if h == kind {
			return togglePlan{Action: ToggleRemoved, Clear: []string{kind}}
		}
	}

	plan := togglePlan{Action: ToggleVoted, Insert: true}
	if conflict := models.ConflictingKind(kind); conflict != "" {
		for _, h := range held {
			if h == conflict {
				plan.Clear = append(plan.Clear, conflict)
			}
		}
	}
	return plan
}

// Toggle adds or removes a reaction per planToggle. An advisory lock on
// (target, user) serializes concurrent toggles, so the read-then-write
// below cannot interleave with another toggle on the same pair and the
// up/down exclusivity holds under race. Target counters are recomputed
// from live rows inside the same transaction so displayed counts always
// match live reaction counts.
func (r *ReactionRepository) Toggle(ctx context.Context, targetType string, targetID, userID int64, kind string) (string, error) {
	var action string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, "reaction:"+targetType, targetID, userID); err != nil {
			return err
		}

		var held []string
		if err := tx.Model(&models.Reaction{}).
			Where("target_type = ? AND target_id = ? AND user_id = ?", targetType, targetID, userID).
			Pluck("kind", &held).Error; err != nil {
			return err
		}

		plan := planToggle(held, kind)
		action = plan.Action

		if len(plan.Clear) > 0 {
			if err := tx.Where(
				"target_type = ? AND target_id = ? AND user_id = ? AND kind IN ?",
				targetType, targetID, userID, plan.Clear,
			).Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
		}
		if plan.Insert {
			reaction := &models.Reaction{
				TargetType: targetType,
				TargetID:   targetID,
				UserID:     userID,
				Kind:       kind,
				CreatedAt:  time.Now().UTC(),
			}
			if err := tx.Create(reaction).Error; err != nil {
				return err
			}
		}

		// Bookmarks do not affect scores
		if models.ScoreDelta(kind) == 0 {
			return nil
		}
		return refreshTargetScore(tx, targetType, targetID)
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// refreshTargetScore recomputes a target's vote counters from live
// reaction rows and, for threads, refreshes the stored rank scores.
func refreshTargetScore(tx *gorm.DB, targetType string, targetID int64) error {
	var ups, downs int64
	if err := tx.Model(&models.Reaction{}).
		Where("target_type = ? AND target_id = ? AND kind = ?", targetType, targetID, models.ReactionUpvote).
		Count(&ups).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Reaction{}).
		Where("target_type = ? AND target_id = ? AND kind = ?", targetType, targetID, models.ReactionDownvote).
		Count(&downs).Error; err != nil {
		return err
	}

	score := ups - downs

	switch targetType {
	case models.TargetComment:
		return tx.Model(&models.Comment{}).
			Where("id = ?", targetID).
			Updates(map[string]interface{}{
				"score":      score,
				"up_count":   ups,
				"down_count": downs,
			}).Error

	case models.TargetThread:
		var thread models.Thread
		if err := tx.Select("id", "created_at").First(&thread, targetID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Thread{}).
			Where("id = ?", targetID).
			Update("score", score).Error; err != nil {
			return err
		}
		rank := models.ThreadRank{
			ThreadID:           targetID,
			ScoreHot:           ranking.Hot(ups, downs, thread.CreatedAt),
			ScoreControversial: ranking.Controversial(ups, downs),
			UpdatedAt:          time.Now().UTC(),
		}
		return tx.Save(&rank).Error
	}
	return nil
}

// GetUserReactions returns the kinds the user holds on a target
func (r *ReactionRepository) GetUserReactions(ctx context.Context, targetType string, targetID, userID int64) ([]string, error) {
	var kinds []string
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("target_type = ? AND target_id = ? AND user_id = ?", targetType, targetID, userID).
		Pluck("kind", &kinds).Error
	if err != nil {
		return nil, err
	}
	return kinds, nil
}

// CountByKind returns the live count of reactions of a kind on a target
func (r *ReactionRepository) CountByKind(ctx context.Context, targetType string, targetID int64, kind string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("target_type = ? AND target_id = ? AND kind = ?", targetType, targetID, kind).
		Count(&count).Error
	return count, err
}
