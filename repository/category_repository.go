// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/breezeline/interiors-api/models"
	"gorm.io/gorm"
)

// CategoryRepositoryImpl implements CategoryRepository interface
type CategoryRepositoryImpl struct {
	*BaseRepository[models.Category, models.CategoryFilter]
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &CategoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Category, models.CategoryFilter](db),
	}
}

// Update persists changed fields of an existing category
func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *models.Category) error {
	db := r.getDB(ctx)
	return db.Save(category).Error
}

// Delete removes the category row only. Cascading the dependent works is the
// flow's responsibility so the two steps stay explicit.
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Category{}, id).Error
}

func (r *CategoryRepositoryImpl) applyFilter(query *gorm.DB, filter models.CategoryFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves categories based on filter criteria
func (r *CategoryRepositoryImpl) ByFilter(ctx context.Context, filter models.CategoryFilter, orderBy string, limit, offset int) ([]*models.Category, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Category{}), filter)

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

	var categories []*models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Count returns the number of categories matching the filter
func (r *CategoryRepositoryImpl) Count(ctx context.Context, filter models.CategoryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Category{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any category matching the filter exists
func (r *CategoryRepositoryImpl) Exists(ctx context.Context, filter models.CategoryFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
