package models

import (
	"time"
)

// PollOption is a single choice on a poll thread
type PollOption struct {
	ThreadID    int64  `gorm:"primaryKey;column:thread_id"`
	OptionIndex int    `gorm:"primaryKey;column:option_index"`
	Label       string `gorm:"type:varchar(200);not null;column:label"`
}

// TableName specifies the table name for PollOption
func (PollOption) TableName() string {
	return "cc_poll_options"
}

// PollVote records one user's vote for one option. Single-select polls
// hold at most one row per (thread, user); multi-select polls hold at most
// one row per (thread, user, option).
type PollVote struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ThreadID    int64     `gorm:"not null;uniqueIndex:cc_poll_votes_ux;column:thread_id"`
	UserID      int64     `gorm:"not null;uniqueIndex:cc_poll_votes_ux;index;column:user_id"`
	OptionIndex int       `gorm:"not null;uniqueIndex:cc_poll_votes_ux;column:option_index"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for PollVote
func (PollVote) TableName() string {
	return "cc_poll_votes"
}

// Poll option count bounds
const (
	PollMinOptions = 2
	PollMaxOptions = 10
)
