package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/createconomy/createconomy/internal/models"
)

// PollRepository provides poll-related database operations
type PollRepository struct {
	*Repository
}

// NewPollRepository creates a new poll repository
func NewPollRepository(repo *Repository) *PollRepository {
	return &PollRepository{Repository: repo}
}

// GetOptions returns a poll's options ordered by index
func (r *PollRepository) GetOptions(ctx context.Context, threadID int64) ([]models.PollOption, error) {
	var options []models.PollOption
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("option_index").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

// votePlan describes the row changes a poll vote performs
type votePlan struct {
	Action   string
	ClearAll bool
	Insert   bool
}

// planVote decides a vote outcome from the option indexes the user
// currently holds. Voting an already-selected option removes it; on a
// single-select poll a vote on a new option replaces all prior votes.
func planVote(held []int, optionIndex int, multiSelect bool) votePlan {
	for _, h := range held {
		if h == optionIndex {
			return votePlan{Action: ToggleRemoved, ClearAll: !multiSelect}
		}
	}
	return votePlan{
		Action:   ToggleVoted,
		ClearAll: !multiSelect && len(held) > 0,
		Insert:   true,
	}
}

// Vote toggles a vote for the given option per planVote. An advisory
// lock on (thread, user) serializes concurrent votes, so two racing
// single-select votes cannot both pass the replacement step and leave
// the user holding two options.
func (r *PollRepository) Vote(ctx context.Context, threadID, userID int64, optionIndex int, multiSelect bool) (string, error) {
	var action string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, "pollvote", threadID, userID); err != nil {
			return err
		}

		var held []int
		if err := tx.Model(&models.PollVote{}).
			Where("thread_id = ? AND user_id = ?", threadID, userID).
			Pluck("option_index", &held).Error; err != nil {
			return err
		}

		plan := planVote(held, optionIndex, multiSelect)
		action = plan.Action

		if plan.ClearAll {
			if err := tx.Where(
				"thread_id = ? AND user_id = ?",
				threadID, userID,
			).Delete(&models.PollVote{}).Error; err != nil {
				return err
			}
		} else if plan.Action == ToggleRemoved {
			if err := tx.Where(
				"thread_id = ? AND user_id = ? AND option_index = ?",
				threadID, userID, optionIndex,
			).Delete(&models.PollVote{}).Error; err != nil {
				return err
			}
		}

		if plan.Insert {
			vote := &models.PollVote{
				ThreadID:    threadID,
				UserID:      userID,
				OptionIndex: optionIndex,
				CreatedAt:   time.Now().UTC(),
			}
			if err := tx.Create(vote).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// RemoveVotes deletes all of a user's votes on a poll and returns how many
// were removed
func (r *PollRepository) RemoveVotes(ctx context.Context, threadID, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Delete(&models.PollVote{})
	return res.RowsAffected, res.Error
}

// optionCount is a grouped tally row
type optionCount struct {
	OptionIndex int   `gorm:"column:option_index"`
	Count       int64 `gorm:"column:count"`
}

// CountVotes returns the live vote count per option index
func (r *PollRepository) CountVotes(ctx context.Context, threadID int64) (map[int]int64, error) {
	var rows []optionCount
	err := r.db.WithContext(ctx).
		Model(&models.PollVote{}).
		Select("option_index, count(*) as count").
		Where("thread_id = ?", threadID).
		Group("option_index").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.OptionIndex] = row.Count
	}
	return counts, nil
}

// UserVotes returns the option indexes the user has voted for
func (r *PollRepository) UserVotes(ctx context.Context, threadID, userID int64) ([]int, error) {
	var indexes []int
	err := r.db.WithContext(ctx).
		Model(&models.PollVote{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Order("option_index").
		Pluck("option_index", &indexes).Error
	if err != nil {
		return nil, err
	}
	return indexes, nil
}
