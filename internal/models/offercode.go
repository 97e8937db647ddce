package models

import (
	"database/sql"
	"time"
)

// OfferCode is a seller discount code. Codes are stored upper-normalized
// and unique per seller. Deletion is a soft deactivation so redemption
// history survives.
type OfferCode struct {
	ID       int64  `gorm:"primaryKey;autoIncrement;column:id"`
	SellerID int64  `gorm:"not null;uniqueIndex:cc_offer_codes_ux;column:seller_id"`
	Code     string `gorm:"type:varchar(32);not null;uniqueIndex:cc_offer_codes_ux;column:code"`

	// DiscountValue holds a percentage for "percent" codes and minor
	// currency units (cents) for "fixed" codes.
	DiscountType  string `gorm:"type:varchar(8);not null;column:discount_type"`
	DiscountValue int64  `gorm:"not null;column:discount_value"`

	// Redemption counters are displayed here and enforced at checkout by
	// the storefront service.
	CurrentUses int64         `gorm:"not null;default:0;column:current_uses"`
	MaxUses     sql.NullInt64 `gorm:"column:max_uses"`

	IsActive  bool         `gorm:"not null;default:true;column:is_active"`
	ExpiresAt sql.NullTime `gorm:"column:expires_at"`
	CreatedAt time.Time    `gorm:"not null;column:created_at"`

	Seller *User `gorm:"foreignKey:SellerID;references:ID"`
}

// TableName specifies the table name for OfferCode
func (OfferCode) TableName() string {
	return "cc_offer_codes"
}

// Discount type constants
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// SellerRequest is a user's application for the seller role
type SellerRequest struct {
	ID            int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID        int64          `gorm:"not null;index;column:user_id"`
	BusinessName  string         `gorm:"type:varchar(200);not null;column:business_name"`
	BusinessEmail sql.NullString `gorm:"type:varchar(255);column:business_email"`
	Description   sql.NullString `gorm:"type:varchar(1000);column:description"`
	Status        string         `gorm:"type:varchar(10);not null;default:'pending';index;column:status"`
	CreatedAt     time.Time      `gorm:"not null;column:created_at"`
	ReviewedAt    sql.NullTime   `gorm:"column:reviewed_at"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for SellerRequest
func (SellerRequest) TableName() string {
	return "cc_seller_requests"
}

// Seller request status constants
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)
