package models

import (
	"database/sql"
	"time"
)

// Report is a user-submitted moderation report. Duplicate pending reports
// from the same reporter on the same target are rejected.
type Report struct {
	ID         int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Reference  string         `gorm:"type:uuid;not null;uniqueIndex:cc_reports_ref_ux;column:reference"`
	TargetType string         `gorm:"type:varchar(8);not null;index:cc_reports_target_idx;column:target_type"`
	TargetID   int64          `gorm:"not null;index:cc_reports_target_idx;column:target_id"`
	ReporterID int64          `gorm:"not null;index;column:reporter_id"`
	Reason     string         `gorm:"type:varchar(16);not null;column:reason"`
	Details    sql.NullString `gorm:"type:varchar(500);column:details"`

	Status         string         `gorm:"type:varchar(10);not null;default:'pending';index;column:status"`
	ReviewerID     sql.NullInt64  `gorm:"column:reviewer_id"`
	ResolutionNote sql.NullString `gorm:"type:varchar(500);column:resolution_note"`

	CreatedAt  time.Time    `gorm:"not null;column:created_at"`
	ReviewedAt sql.NullTime `gorm:"column:reviewed_at"`

	Reporter *User `gorm:"foreignKey:ReporterID;references:ID"`
	Reviewer *User `gorm:"foreignKey:ReviewerID;references:ID"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "cc_reports"
}

// Report status constants
const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportActioned  = "actioned"
	ReportDismissed = "dismissed"
)

// Report reason constants
const (
	ReasonSpam           = "spam"
	ReasonHarassment     = "harassment"
	ReasonIllegal        = "illegal"
	ReasonNSFW           = "nsfw"
	ReasonMisinformation = "misinformation"
	ReasonOther          = "other"
)

// MaxReportDetails caps the free-text detail length
const MaxReportDetails = 500

// ValidReportReason reports whether the given reason is recognized
func ValidReportReason(reason string) bool {
	switch reason {
	case ReasonSpam, ReasonHarassment, ReasonIllegal, ReasonNSFW, ReasonMisinformation, ReasonOther:
		return true
	}
	return false
}
