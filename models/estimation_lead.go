// Package models contains domain entities and business models for the estimation and portfolio system
package models

import (
	"time"
)

// EstimationLead is a submitted estimation request with optional contact details.
// Leads are append-only: created once, then only read or bulk-cleared.
type EstimationLead struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectType  string    `gorm:"size:64;not null;index:idx_estimation_leads_project_type" json:"project_type"`
	ServiceClass string    `gorm:"size:32;not null" json:"service_class"`
	AreaSqm      float64   `gorm:"type:numeric(10,2);not null" json:"area_sqm"`
	TotalFils    int64     `gorm:"not null" json:"total_fils"`
	Phone        *string   `gorm:"size:32" json:"phone,omitempty"`
	Email        *string   `gorm:"size:255" json:"email,omitempty"`
	ContactName  *string   `gorm:"size:255" json:"contact_name,omitempty"`
	CreatedAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_estimation_leads_created_at" json:"created_at"`
}

func (EstimationLead) TableName() string {
	return "estimation_leads"
}

// EstimationLeadFilter represents filter criteria for lead queries
type EstimationLeadFilter struct {
	ID            *uint
	ProjectType   *string
	ServiceClass  *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// LeadStats aggregates the numbers shown on the admin dashboard.
type LeadStats struct {
	TotalCount     int64 `json:"total_count"`
	ThisMonthCount int64 `json:"this_month_count"`
	TotalValueFils int64 `json:"total_value_fils"`
}
