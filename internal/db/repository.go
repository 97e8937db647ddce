package db

import (
	"gorm.io/gorm"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying connection for ad-hoc queries
func (r *Repository) DB() *gorm.DB {
	return r.db
}
