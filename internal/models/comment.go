package models

import (
	"database/sql"
	"time"
)

// DeletedBody replaces a comment's body on soft delete. Children are
// retained so reply chains stay intact.
const DeletedBody = "[deleted]"

// Comment represents a reply within a thread
type Comment struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	ThreadID int64         `gorm:"not null;index;column:thread_id"`
	ParentID sql.NullInt64 `gorm:"index;column:parent_id"`
	AuthorID int64         `gorm:"not null;index;column:author_id"`
	Body     string        `gorm:"type:text;not null;column:body"`

	Score     int64 `gorm:"not null;default:0;column:score"`
	UpCount   int64 `gorm:"not null;default:0;column:up_count"`
	DownCount int64 `gorm:"not null;default:0;column:down_count"`

	IsDeleted bool `gorm:"not null;default:false;column:is_deleted"`

	CreatedAt time.Time    `gorm:"not null;column:created_at"`
	EditedAt  sql.NullTime `gorm:"column:edited_at"`

	Thread *Thread  `gorm:"foreignKey:ThreadID;references:ID"`
	Parent *Comment `gorm:"foreignKey:ParentID;references:ID"`
	Author *User    `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "cc_comments"
}

// Comment sort mode constants
const (
	SortBest          = "best"
	SortNew           = "new"
	SortTop           = "top"
	SortControversial = "controversial"
)

// ValidSort reports whether the given sort mode is recognized
func ValidSort(sort string) bool {
	switch sort {
	case SortBest, SortNew, SortTop, SortControversial:
		return true
	}
	return false
}
