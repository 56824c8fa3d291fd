// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/breezeline/interiors-api/models"
	"gorm.io/gorm"
)

// EstimationLeadRepositoryImpl is the Postgres-backed LeadStore.
type EstimationLeadRepositoryImpl struct {
	*BaseRepository[models.EstimationLead, models.EstimationLeadFilter]
}

// NewEstimationLeadRepository creates a new lead repository
func NewEstimationLeadRepository(db *gorm.DB) LeadStore {
	return &EstimationLeadRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EstimationLead, models.EstimationLeadFilter](db),
	}
}

// Append inserts one lead record. The database assigns the id.
func (r *EstimationLeadRepositoryImpl) Append(ctx context.Context, lead *models.EstimationLead) error {
	return r.Save(ctx, lead)
}

// Recent returns the most recently created leads, newest first.
func (r *EstimationLeadRepositoryImpl) Recent(ctx context.Context, limit int) ([]*models.EstimationLead, error) {
	db := r.getDB(ctx)

	var leads []*models.EstimationLead
	query := db.Model(&models.EstimationLead{}).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// Stats aggregates total count, count since monthStart and summed value.
func (r *EstimationLeadRepositoryImpl) Stats(ctx context.Context, monthStart time.Time) (*models.LeadStats, error) {
	db := r.getDB(ctx)

	var stats models.LeadStats
	if err := db.Model(&models.EstimationLead{}).Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.EstimationLead{}).
		Where("created_at >= ?", monthStart).
		Count(&stats.ThisMonthCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.EstimationLead{}).
		Select("COALESCE(SUM(total_fils), 0)").
		Scan(&stats.TotalValueFils).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// Clear removes all leads.
func (r *EstimationLeadRepositoryImpl) Clear(ctx context.Context) error {
	db := r.getDB(ctx)
	return db.Where("1 = 1").Delete(&models.EstimationLead{}).Error
}
