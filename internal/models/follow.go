package models

import (
	"time"
)

// Follow represents a follow relationship between two users
type Follow struct {
	FollowerID int64     `gorm:"primaryKey;column:follower_id"`
	FolloweeID int64     `gorm:"primaryKey;column:followee_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	Follower *User `gorm:"foreignKey:FollowerID;references:ID"`
	Followee *User `gorm:"foreignKey:FolloweeID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "cc_follows"
}
