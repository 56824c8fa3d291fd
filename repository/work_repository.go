// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/breezeline/interiors-api/models"
	"gorm.io/gorm"
)

// WorkRepositoryImpl implements WorkRepository interface
type WorkRepositoryImpl struct {
	*BaseRepository[models.Work, models.WorkFilter]
}

// NewWorkRepository creates a new work repository
func NewWorkRepository(db *gorm.DB) WorkRepository {
	return &WorkRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Work, models.WorkFilter](db),
	}
}

// Update persists changed fields of an existing work
func (r *WorkRepositoryImpl) Update(ctx context.Context, work *models.Work) error {
	db := r.getDB(ctx)
	return db.Save(work).Error
}

// Delete removes a single work record
func (r *WorkRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Work{}, id).Error
}

// DeleteByCategory removes every work referencing the given category
func (r *WorkRepositoryImpl) DeleteByCategory(ctx context.Context, categoryID uint) error {
	db := r.getDB(ctx)
	return db.Where("category_id = ?", categoryID).Delete(&models.Work{}).Error
}

// ListWithCategory returns all works joined with their category name
func (r *WorkRepositoryImpl) ListWithCategory(ctx context.Context) ([]*models.WorkWithCategory, error) {
	db := r.getDB(ctx)

	var rows []*models.WorkWithCategory
	err := db.Model(&models.Work{}).
		Select("works.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = works.category_id").
		Order("works.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *WorkRepositoryImpl) applyFilter(query *gorm.DB, filter models.WorkFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	return query
}

// ByFilter retrieves works based on filter criteria
func (r *WorkRepositoryImpl) ByFilter(ctx context.Context, filter models.WorkFilter, orderBy string, limit, offset int) ([]*models.Work, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Work{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var works []*models.Work
	if err := query.Find(&works).Error; err != nil {
		return nil, err
	}
	return works, nil
}

// Count returns the number of works matching the filter
func (r *WorkRepositoryImpl) Count(ctx context.Context, filter models.WorkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Work{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any work matching the filter exists
func (r *WorkRepositoryImpl) Exists(ctx context.Context, filter models.WorkFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
