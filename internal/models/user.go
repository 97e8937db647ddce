package models

import (
	"database/sql"
	"time"
)

// User represents a platform account
type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string         `gorm:"type:varchar(32);not null;uniqueIndex:cc_users_username_ux;column:username"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex:cc_users_email_ux;column:email"`
	PasswordHash string         `gorm:"type:varchar(255);not null;column:password_hash"`
	Role         string         `gorm:"type:varchar(16);not null;default:'user';column:role"`

	// Profile fields
	DisplayName sql.NullString `gorm:"type:varchar(50);column:display_name"`
	Bio         sql.NullString `gorm:"type:varchar(500);column:bio"`
	AvatarURL   sql.NullString `gorm:"type:varchar(1024);column:avatar_url"`
	Phone       sql.NullString `gorm:"type:varchar(32);column:phone"`
	Address     sql.NullString `gorm:"type:varchar(500);column:address"`
	Preferences sql.NullString `gorm:"type:text;column:preferences"`

	// Moderation state. Account deletion soft-bans the profile.
	IsBanned  bool         `gorm:"not null;default:false;column:is_banned"`
	BannedAt  sql.NullTime `gorm:"column:banned_at"`
	BanReason sql.NullString `gorm:"type:varchar(500);column:ban_reason"`

	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "cc_users"
}

// User role constants
const (
	RoleUser      = "user"
	RoleSeller    = "seller"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// CanModerate reports whether the user holds a moderation-capable role
func (u *User) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// Session represents an authenticated session
type Session struct {
	ID        string       `gorm:"type:uuid;primaryKey;column:id"`
	UserID    int64        `gorm:"not null;index;column:user_id"`
	ExpiresAt time.Time    `gorm:"not null;column:expires_at"`
	RevokedAt sql.NullTime `gorm:"column:revoked_at"`
	CreatedAt time.Time    `gorm:"not null;column:created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "cc_sessions"
}

// Active reports whether the session is usable at the given time
func (s *Session) Active(now time.Time) bool {
	return !s.RevokedAt.Valid && now.Before(s.ExpiresAt)
}
