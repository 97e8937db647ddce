package models

import (
	"database/sql"
	"time"
)

// Thread represents a top-level forum post
type Thread struct {
	ID         int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Title      string         `gorm:"type:varchar(300);not null;column:title"`
	PostType   string         `gorm:"type:varchar(8);not null;default:'text';column:post_type"`
	Body       sql.NullString `gorm:"type:text;column:body"`
	LinkURL    sql.NullString `gorm:"type:varchar(2048);column:link_url"`
	ImageURL   sql.NullString `gorm:"type:varchar(2048);column:image_url"`
	AuthorID   int64          `gorm:"not null;index;column:author_id"`
	CategoryID int64          `gorm:"not null;index;column:category_id"`
	Tags       sql.NullString `gorm:"type:varchar(255);column:tags"`
	Flair      sql.NullString `gorm:"type:varchar(32);column:flair"`

	// Counters kept in step with committed rows, never client-supplied
	Score        int64 `gorm:"not null;default:0;column:score"`
	ViewCount    int64 `gorm:"not null;default:0;column:view_count"`
	CommentCount int64 `gorm:"not null;default:0;column:comment_count"`

	IsPinned  bool `gorm:"not null;default:false;column:is_pinned"`
	IsLocked  bool `gorm:"not null;default:false;column:is_locked"`
	IsDeleted bool `gorm:"not null;default:false;column:is_deleted"`

	// Poll metadata, meaningful only when PostType is "poll"
	PollEndsAt      sql.NullTime `gorm:"column:poll_ends_at"`
	PollMultiSelect bool         `gorm:"not null;default:false;column:poll_multi_select"`

	CreatedAt time.Time    `gorm:"not null;column:created_at"`
	EditedAt  sql.NullTime `gorm:"column:edited_at"`

	Author   *User       `gorm:"foreignKey:AuthorID;references:ID"`
	Category *Category   `gorm:"foreignKey:CategoryID;references:ID"`
	Options  []PollOption `gorm:"foreignKey:ThreadID;references:ID"`
}

// TableName specifies the table name for Thread
func (Thread) TableName() string {
	return "cc_threads"
}

// Thread post type constants
const (
	PostTypeText  = "text"
	PostTypeLink  = "link"
	PostTypeImage = "image"
	PostTypePoll  = "poll"
)

// PollHasEnded reports whether the thread's poll closed before now
func (t *Thread) PollHasEnded(now time.Time) bool {
	return t.PollEndsAt.Valid && !now.Before(t.PollEndsAt.Time)
}

// Category represents a forum category
type Category struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Slug        string         `gorm:"type:varchar(64);not null;uniqueIndex:cc_categories_slug_ux;column:slug"`
	Name        string         `gorm:"type:varchar(100);not null;column:name"`
	Description sql.NullString `gorm:"type:varchar(500);column:description"`
	CreatedAt   time.Time      `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "cc_categories"
}

// ThreadRank stores precomputed sort scores for a thread, refreshed on
// reaction changes. Read-time sorts order by these columns.
type ThreadRank struct {
	ThreadID          int64     `gorm:"primaryKey;column:thread_id"`
	ScoreHot          float64   `gorm:"type:float;not null;default:0;column:score_hot"`
	ScoreControversial float64  `gorm:"type:float;not null;default:0;column:score_controversial"`
	UpdatedAt         time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for ThreadRank
func (ThreadRank) TableName() string {
	return "cc_thread_ranks"
}
