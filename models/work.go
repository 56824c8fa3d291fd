// Package models contains domain entities and business models for the estimation and portfolio system
package models

import (
	"time"

	"github.com/lib/pq"
)

type Work struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"size:255;not null" json:"title"`
	CategoryID uint           `gorm:"not null;index:idx_works_category_id" json:"category_id"`
	ImagePath  string         `gorm:"size:512;not null" json:"image_path"`
	Tags       pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt  time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Work) TableName() string {
	return "works"
}

// WorkFilter represents filter criteria for work queries
type WorkFilter struct {
	ID         *uint
	CategoryID *uint
}

// WorkWithCategory is a work row joined with its category name for listings.
type WorkWithCategory struct {
	Work
	CategoryName string `json:"category_name"`
}
