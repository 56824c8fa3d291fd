// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/breezeline/interiors-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// LeadStore defines operations for estimation leads. Leads are append-only:
// there is no update, only append, read and bulk clear. Both the Postgres and
// the bounded in-memory implementations satisfy this one contract.
type LeadStore interface {
	Append(ctx context.Context, lead *models.EstimationLead) error
	Recent(ctx context.Context, limit int) ([]*models.EstimationLead, error)
	Stats(ctx context.Context, monthStart time.Time) (*models.LeadStats, error)
	Clear(ctx context.Context) error
}

// AdminRepository defines operations for admin accounts
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// CategoryRepository defines operations for portfolio categories
type CategoryRepository interface {
	Repository[models.Category, models.CategoryFilter]
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

// WorkRepository defines operations for portfolio works
type WorkRepository interface {
	Repository[models.Work, models.WorkFilter]
	Update(ctx context.Context, work *models.Work) error
	Delete(ctx context.Context, id uint) error
	DeleteByCategory(ctx context.Context, categoryID uint) error
	ListWithCategory(ctx context.Context) ([]*models.WorkWithCategory, error)
}
