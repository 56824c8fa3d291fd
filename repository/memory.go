// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/utils"
)

// MemoryLeadCapacity bounds the in-memory lead store. When full, the oldest
// lead is dropped in the same critical section as the append, so readers never
// observe more than MemoryLeadCapacity records.
const MemoryLeadCapacity = 1000

// MemoryLeadStore is the db-less LeadStore used by the in-memory deployment
// mode and the test suite.
type MemoryLeadStore struct {
	mu     sync.RWMutex
	leads  []*models.EstimationLead
	nextID uint
	cap    int
}

// NewMemoryLeadStore creates a bounded in-memory lead store.
func NewMemoryLeadStore() *MemoryLeadStore {
	return &MemoryLeadStore{nextID: 1, cap: MemoryLeadCapacity}
}

// Append stores a copy of the lead, assigns the id and createdAt, and evicts
// the oldest record when over capacity. Eviction is FIFO: leads are never
// touched after creation, so recency of access is meaningless.
func (s *MemoryLeadStore) Append(ctx context.Context, lead *models.EstimationLead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead.ID = s.nextID
	s.nextID++
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = utils.UTCNow()
	}

	stored := *lead
	s.leads = append(s.leads, &stored)
	if len(s.leads) > s.cap {
		s.leads = s.leads[len(s.leads)-s.cap:]
	}
	return nil
}

// Recent returns up to limit leads, newest first.
func (s *MemoryLeadStore) Recent(ctx context.Context, limit int) ([]*models.EstimationLead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.leads)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*models.EstimationLead, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		copied := *s.leads[i]
		out = append(out, &copied)
	}
	return out, nil
}

// Stats aggregates over the retained window.
func (s *MemoryLeadStore) Stats(ctx context.Context, monthStart time.Time) (*models.LeadStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.LeadStats{TotalCount: int64(len(s.leads))}
	for _, lead := range s.leads {
		stats.TotalValueFils += lead.TotalFils
		if !lead.CreatedAt.Before(monthStart) {
			stats.ThisMonthCount++
		}
	}
	return stats, nil
}

// Clear drops all retained leads. The id counter keeps running so cleared and
// new leads never share an id.
func (s *MemoryLeadStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = nil
	return nil
}

// MemoryAdminRepository is the db-less AdminRepository.
type MemoryAdminRepository struct {
	mu     sync.RWMutex
	admins map[uint]*models.Admin
	nextID uint
}

func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{admins: make(map[uint]*models.Admin), nextID: 1}
}

func (r *MemoryAdminRepository) ByID(ctx context.Context, id uint) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	copied := *admin
	return &copied, nil
}

func (r *MemoryAdminRepository) ByUsername(ctx context.Context, username string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, admin := range r.admins {
		if admin.Username == username {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryAdminRepository) Save(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if admin.ID == 0 {
		admin.ID = r.nextID
		r.nextID++
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = utils.UTCNow()
	}
	admin.UpdatedAt = utils.UTCNow()
	stored := *admin
	r.admins[admin.ID] = &stored
	return nil
}

func (r *MemoryAdminRepository) TouchLastLogin(ctx context.Context, adminID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if admin, ok := r.admins[adminID]; ok {
		admin.LastLoginAt = &at
		admin.UpdatedAt = at
	}
	return nil
}

func (r *MemoryAdminRepository) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Admin
	for _, admin := range r.admins {
		if filter.ID != nil && admin.ID != *filter.ID {
			continue
		}
		if filter.Username != nil && admin.Username != *filter.Username {
			continue
		}
		if filter.IsActive != nil && utils.IsTrue(admin.IsActive) != *filter.IsActive {
			continue
		}
		copied := *admin
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MemoryAdminRepository) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	admins, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(admins)), nil
}

func (r *MemoryAdminRepository) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

// MemoryPortfolioStore backs both CategoryRepository and WorkRepository with a
// single lock, so the two-step cascade delete is atomic for readers.
type MemoryPortfolioStore struct {
	mu         sync.RWMutex
	categories map[uint]*models.Category
	works      map[uint]*models.Work
	nextCatID  uint
	nextWorkID uint
}

func NewMemoryPortfolioStore() *MemoryPortfolioStore {
	return &MemoryPortfolioStore{
		categories: make(map[uint]*models.Category),
		works:      make(map[uint]*models.Work),
		nextCatID:  1,
		nextWorkID: 1,
	}
}

// Categories returns a CategoryRepository view over the store.
func (s *MemoryPortfolioStore) Categories() CategoryRepository { return &memoryCategoryRepo{s} }

// Works returns a WorkRepository view over the store.
func (s *MemoryPortfolioStore) Works() WorkRepository { return &memoryWorkRepo{s} }

type memoryCategoryRepo struct{ store *MemoryPortfolioStore }

func (r *memoryCategoryRepo) ByID(ctx context.Context, id uint) (*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	category, ok := r.store.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (r *memoryCategoryRepo) Save(ctx context.Context, category *models.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if category.ID == 0 {
		category.ID = r.store.nextCatID
		r.store.nextCatID++
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = utils.UTCNow()
	}
	category.UpdatedAt = utils.UTCNow()
	stored := *category
	r.store.categories[category.ID] = &stored
	return nil
}

func (r *memoryCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	return r.Save(ctx, category)
}

func (r *memoryCategoryRepo) Delete(ctx context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.categories, id)
	return nil
}

func (r *memoryCategoryRepo) ByFilter(ctx context.Context, filter models.CategoryFilter, orderBy string, limit, offset int) ([]*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*models.Category, 0, len(r.store.categories))
	for id := uint(1); id < r.store.nextCatID; id++ {
		category, ok := r.store.categories[id]
		if !ok {
			continue
		}
		if filter.ID != nil && category.ID != *filter.ID {
			continue
		}
		if filter.Name != nil && category.Name != *filter.Name {
			continue
		}
		copied := *category
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memoryCategoryRepo) Count(ctx context.Context, filter models.CategoryFilter) (int64, error) {
	categories, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(categories)), nil
}

func (r *memoryCategoryRepo) Exists(ctx context.Context, filter models.CategoryFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

type memoryWorkRepo struct{ store *MemoryPortfolioStore }

func (r *memoryWorkRepo) ByID(ctx context.Context, id uint) (*models.Work, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	work, ok := r.store.works[id]
	if !ok {
		return nil, nil
	}
	copied := *work
	return &copied, nil
}

func (r *memoryWorkRepo) Save(ctx context.Context, work *models.Work) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if work.ID == 0 {
		work.ID = r.store.nextWorkID
		r.store.nextWorkID++
	}
	if work.CreatedAt.IsZero() {
		work.CreatedAt = utils.UTCNow()
	}
	work.UpdatedAt = utils.UTCNow()
	stored := *work
	r.store.works[work.ID] = &stored
	return nil
}

func (r *memoryWorkRepo) Update(ctx context.Context, work *models.Work) error {
	return r.Save(ctx, work)
}

func (r *memoryWorkRepo) Delete(ctx context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.works, id)
	return nil
}

func (r *memoryWorkRepo) DeleteByCategory(ctx context.Context, categoryID uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, work := range r.store.works {
		if work.CategoryID == categoryID {
			delete(r.store.works, id)
		}
	}
	return nil
}

func (r *memoryWorkRepo) ListWithCategory(ctx context.Context) ([]*models.WorkWithCategory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*models.WorkWithCategory, 0, len(r.store.works))
	for id := uint(1); id < r.store.nextWorkID; id++ {
		work, ok := r.store.works[id]
		if !ok {
			continue
		}
		row := &models.WorkWithCategory{Work: *work}
		if category, ok := r.store.categories[work.CategoryID]; ok {
			row.CategoryName = category.Name
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *memoryWorkRepo) ByFilter(ctx context.Context, filter models.WorkFilter, orderBy string, limit, offset int) ([]*models.Work, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*models.Work, 0, len(r.store.works))
	for id := uint(1); id < r.store.nextWorkID; id++ {
		work, ok := r.store.works[id]
		if !ok {
			continue
		}
		if filter.ID != nil && work.ID != *filter.ID {
			continue
		}
		if filter.CategoryID != nil && work.CategoryID != *filter.CategoryID {
			continue
		}
		copied := *work
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memoryWorkRepo) Count(ctx context.Context, filter models.WorkFilter) (int64, error) {
	works, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(works)), nil
}

func (r *memoryWorkRepo) Exists(ctx context.Context, filter models.WorkFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}
