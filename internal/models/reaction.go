package models

import (
	"time"
)

// Reaction is a named user-to-target relation. At most one reaction of a
// given kind exists per (user, target); upvote and downvote on the same
// target are mutually exclusive.
type Reaction struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	TargetType string    `gorm:"type:varchar(8);not null;uniqueIndex:cc_reactions_ux;column:target_type"`
	TargetID   int64     `gorm:"not null;uniqueIndex:cc_reactions_ux;column:target_id"`
	UserID     int64     `gorm:"not null;uniqueIndex:cc_reactions_ux;index;column:user_id"`
	Kind       string    `gorm:"type:varchar(8);not null;uniqueIndex:cc_reactions_ux;column:kind"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Reaction
func (Reaction) TableName() string {
	return "cc_reactions"
}

// Reaction kind constants
const (
	ReactionUpvote   = "up"
	ReactionDownvote = "down"
	ReactionBookmark = "bookmark"
)

// Reaction target type constants
const (
	TargetThread  = "thread"
	TargetComment = "comment"
)

// ValidReactionKind reports whether the given kind is recognized
func ValidReactionKind(kind string) bool {
	switch kind {
	case ReactionUpvote, ReactionDownvote, ReactionBookmark:
		return true
	}
	return false
}

// ValidTargetType reports whether the given target type is recognized
func ValidTargetType(targetType string) bool {
	return targetType == TargetThread || targetType == TargetComment
}

// ConflictingKind returns the kind that must be cleared before the given
// kind is set, or "" when the kind has no exclusivity constraint.
func ConflictingKind(kind string) string {
	switch kind {
	case ReactionUpvote:
		return ReactionDownvote
	case ReactionDownvote:
		return ReactionUpvote
	}
	return ""
}

// ScoreDelta returns the contribution of a reaction kind to a target's score
func ScoreDelta(kind string) int64 {
	switch kind {
	case ReactionUpvote:
		return 1
	case ReactionDownvote:
		return -1
	}
	return 0
}
