package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLeadStore(t *testing.T) {
	ctx := context.Background()

	newLead := func(totalFils int64) *models.EstimationLead {
		return &models.EstimationLead{
			ProjectType:  "2BHK",
			ServiceClass: "Standard",
			AreaSqm:      50,
			TotalFils:    totalFils,
		}
	}

	t.Run("AppendAssignsIDAndCreatedAt", func(t *testing.T) {
		store := NewMemoryLeadStore()
		lead := newLead(11000000)
		require.NoError(t, store.Append(ctx, lead))
		assert.Equal(t, uint(1), lead.ID)
		assert.False(t, lead.CreatedAt.IsZero())

		second := newLead(11000000)
		require.NoError(t, store.Append(ctx, second))
		assert.Equal(t, uint(2), second.ID)
	})

	t.Run("RecentNewestFirst", func(t *testing.T) {
		store := NewMemoryLeadStore()
		for i := 0; i < 5; i++ {
			require.NoError(t, store.Append(ctx, newLead(int64(i))))
		}

		leads, err := store.Recent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, leads, 3)
		assert.Equal(t, uint(5), leads[0].ID)
		assert.Equal(t, uint(4), leads[1].ID)
		assert.Equal(t, uint(3), leads[2].ID)
	})

	t.Run("RecentZeroLimitReturnsAll", func(t *testing.T) {
		store := NewMemoryLeadStore()
		for i := 0; i < 7; i++ {
			require.NoError(t, store.Append(ctx, newLead(100)))
		}
		leads, err := store.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, leads, 7)
	})

	t.Run("RecentReturnsCopies", func(t *testing.T) {
		store := NewMemoryLeadStore()
		require.NoError(t, store.Append(ctx, newLead(500)))

		leads, err := store.Recent(ctx, 1)
		require.NoError(t, err)
		leads[0].TotalFils = 999

		again, err := store.Recent(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(500), again[0].TotalFils)
	})

	t.Run("EvictsOldestAtCapacity", func(t *testing.T) {
		store := NewMemoryLeadStore()
		for i := 0; i < MemoryLeadCapacity+10; i++ {
			require.NoError(t, store.Append(ctx, newLead(1)))
		}

		leads, err := store.Recent(ctx, 0)
		require.NoError(t, err)
		require.Len(t, leads, MemoryLeadCapacity)
		// newest first: ids run from cap+10 down to 11; 1..10 were evicted
		assert.Equal(t, uint(MemoryLeadCapacity+10), leads[0].ID)
		assert.Equal(t, uint(11), leads[len(leads)-1].ID)

		stats, err := store.Stats(ctx, utils.StartOfMonth(utils.UTCNow()))
		require.NoError(t, err)
		assert.Equal(t, int64(MemoryLeadCapacity), stats.TotalCount)
	})

	t.Run("Stats", func(t *testing.T) {
		store := NewMemoryLeadStore()
		monthStart := utils.StartOfMonth(utils.UTCNow())

		old := newLead(1000)
		old.CreatedAt = monthStart.Add(-time.Hour)
		require.NoError(t, store.Append(ctx, old))

		fresh := newLead(2000)
		require.NoError(t, store.Append(ctx, fresh))

		stats, err := store.Stats(ctx, monthStart)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalCount)
		assert.Equal(t, int64(1), stats.ThisMonthCount)
		assert.Equal(t, int64(3000), stats.TotalValueFils)
	})

	t.Run("ClearKeepsIDCounter", func(t *testing.T) {
		store := NewMemoryLeadStore()
		require.NoError(t, store.Append(ctx, newLead(1)))
		require.NoError(t, store.Append(ctx, newLead(2)))
		require.NoError(t, store.Clear(ctx))

		leads, err := store.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, leads)

		next := newLead(3)
		require.NoError(t, store.Append(ctx, next))
		assert.Equal(t, uint(3), next.ID)
	})
}

func TestMemoryAdminRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAndLookup", func(t *testing.T) {
		repo := NewMemoryAdminRepository()
		admin := &models.Admin{
			Username:     "studio",
			PasswordHash: "hash",
			IsActive:     utils.ToPtr(true),
		}
		require.NoError(t, repo.Save(ctx, admin))
		assert.NotZero(t, admin.ID)

		byID, err := repo.ByID(ctx, admin.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "studio", byID.Username)

		byName, err := repo.ByUsername(ctx, "studio")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, admin.ID, byName.ID)
	})

	t.Run("MissingAdminIsNilNotError", func(t *testing.T) {
		repo := NewMemoryAdminRepository()
		admin, err := repo.ByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, admin)
	})

	t.Run("TouchLastLogin", func(t *testing.T) {
		repo := NewMemoryAdminRepository()
		admin := &models.Admin{Username: "studio", PasswordHash: "hash"}
		require.NoError(t, repo.Save(ctx, admin))

		at := utils.UTCNow()
		require.NoError(t, repo.TouchLastLogin(ctx, admin.ID, at))

		reloaded, err := repo.ByID(ctx, admin.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded.LastLoginAt)
		assert.True(t, reloaded.LastLoginAt.Equal(at))
	})

	t.Run("ExistsByFilter", func(t *testing.T) {
		repo := NewMemoryAdminRepository()
		admin := &models.Admin{Username: "studio", PasswordHash: "hash", IsActive: utils.ToPtr(true)}
		require.NoError(t, repo.Save(ctx, admin))

		exists, err := repo.Exists(ctx, models.AdminFilter{Username: utils.ToPtr("studio")})
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, models.AdminFilter{IsActive: utils.ToPtr(false)})
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestMemoryPortfolioStore(t *testing.T) {
	ctx := context.Background()

	seedCategory := func(t *testing.T, store *MemoryPortfolioStore, name string) *models.Category {
		t.Helper()
		category := &models.Category{Name: name}
		require.NoError(t, store.Categories().Save(ctx, category))
		return category
	}

	seedWork := func(t *testing.T, store *MemoryPortfolioStore, title string, categoryID uint) *models.Work {
		t.Helper()
		work := &models.Work{Title: title, CategoryID: categoryID, ImagePath: fmt.Sprintf("%s.jpg", title)}
		require.NoError(t, store.Works().Save(ctx, work))
		return work
	}

	t.Run("CategoryCRUD", func(t *testing.T) {
		store := NewMemoryPortfolioStore()
		category := seedCategory(t, store, "Residential")
		assert.NotZero(t, category.ID)

		category.Name = "Residential fit-outs"
		require.NoError(t, store.Categories().Update(ctx, category))

		reloaded, err := store.Categories().ByID(ctx, category.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, "Residential fit-outs", reloaded.Name)

		require.NoError(t, store.Categories().Delete(ctx, category.ID))
		gone, err := store.Categories().ByID(ctx, category.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("CategoriesListedInInsertionOrder", func(t *testing.T) {
		store := NewMemoryPortfolioStore()
		seedCategory(t, store, "Residential")
		seedCategory(t, store, "Commercial")
		seedCategory(t, store, "Hospitality")

		categories, err := store.Categories().ByFilter(ctx, models.CategoryFilter{}, "id ASC", 0, 0)
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Residential", categories[0].Name)
		assert.Equal(t, "Commercial", categories[1].Name)
		assert.Equal(t, "Hospitality", categories[2].Name)
	})

	t.Run("WorkFilterByCategory", func(t *testing.T) {
		store := NewMemoryPortfolioStore()
		residential := seedCategory(t, store, "Residential")
		commercial := seedCategory(t, store, "Commercial")
		seedWork(t, store, "loft", residential.ID)
		seedWork(t, store, "office", commercial.ID)
		seedWork(t, store, "villa", residential.ID)

		works, err := store.Works().ByFilter(ctx, models.WorkFilter{CategoryID: utils.ToPtr(residential.ID)}, "id ASC", 0, 0)
		require.NoError(t, err)
		require.Len(t, works, 2)
		assert.Equal(t, "loft", works[0].Title)
		assert.Equal(t, "villa", works[1].Title)
	})

	t.Run("DeleteByCategory", func(t *testing.T) {
		store := NewMemoryPortfolioStore()
		residential := seedCategory(t, store, "Residential")
		commercial := seedCategory(t, store, "Commercial")
		seedWork(t, store, "loft", residential.ID)
		seedWork(t, store, "office", commercial.ID)
		seedWork(t, store, "villa", residential.ID)

		require.NoError(t, store.Works().DeleteByCategory(ctx, residential.ID))

		remaining, err := store.Works().ByFilter(ctx, models.WorkFilter{}, "id ASC", 0, 0)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, "office", remaining[0].Title)
	})

	t.Run("ListWithCategoryJoinsName", func(t *testing.T) {
		store := NewMemoryPortfolioStore()
		residential := seedCategory(t, store, "Residential")
		seedWork(t, store, "loft", residential.ID)

		rows, err := store.Works().ListWithCategory(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "loft", rows[0].Title)
		assert.Equal(t, "Residential", rows[0].CategoryName)
	})

	t.Run("ListWithCategoryToleratesMissingCategory", func(t *testing.T) {
		store := NewMemoryPortfolioStore()
		seedWork(t, store, "orphan", 42)

		rows, err := store.Works().ListWithCategory(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].CategoryName)
	})
}
