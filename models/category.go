// Package models contains domain entities and business models for the estimation and portfolio system
package models

import (
	"time"
)

// Category groups portfolio works. Deleting a category removes its works first;
// the storage layer is not assumed to enforce the foreign key.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryFilter represents filter criteria for category queries
type CategoryFilter struct {
	ID   *uint
	Name *string
}
