// Package testing provides test utilities and fixture builders for the estimation and portfolio system
package testing

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"

	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/repository"
	"github.com/breezeline/interiors-api/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestAdminPassword is the plaintext behind every fixture admin's hash.
const TestAdminPassword = "TestPass123!"

// TestFixtures provides helper methods for creating test data against the
// in-memory stores.
type TestFixtures struct {
	Leads     *repository.MemoryLeadStore
	Admins    *repository.MemoryAdminRepository
	Portfolio *repository.MemoryPortfolioStore
}

// NewTestFixtures creates a fixtures instance backed by fresh in-memory stores.
func NewTestFixtures() *TestFixtures {
	return &TestFixtures{
		Leads:     repository.NewMemoryLeadStore(),
		Admins:    repository.NewMemoryAdminRepository(),
		Portfolio: repository.NewMemoryPortfolioStore(),
	}
}

// CreateTestAdmin creates an active admin whose password is TestAdminPassword.
func (tf *TestFixtures) CreateTestAdmin(username string) (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestAdminPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}
	if err := tf.Admins.Save(context.Background(), admin); err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}

// CreateTestLead creates a plausible lead with randomized contact details.
func (tf *TestFixtures) CreateTestLead(projectType, serviceClass string, areaSqm float64, totalFils int64) (*models.EstimationLead, error) {
	randomDigits := fmt.Sprintf("%07d", rand.Intn(9000000)+1000000)

	lead := &models.EstimationLead{
		ProjectType:  projectType,
		ServiceClass: serviceClass,
		AreaSqm:      areaSqm,
		TotalFils:    totalFils,
		Phone:        utils.ToPtr(fmt.Sprintf("+97150%s", randomDigits)),
		Email:        utils.ToPtr(fmt.Sprintf("client.%s@example.com", randomDigits)),
		ContactName:  utils.ToPtr("Test Client"),
		CreatedAt:    utils.UTCNow(),
	}
	if err := tf.Leads.Append(context.Background(), lead); err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}
	return lead, nil
}

// CreateTestCategory creates a portfolio category.
func (tf *TestFixtures) CreateTestCategory(name string) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Description: utils.ToPtr(fmt.Sprintf("%s projects", name)),
	}
	if err := tf.Portfolio.Categories().Save(context.Background(), category); err != nil {
		return nil, fmt.Errorf("failed to create test category: %w", err)
	}
	return category, nil
}

// CreateTestWork creates a work in the given category. ImagePath points at a
// filename that does not exist on disk; tests that need a real file should use
// the portfolio flow's upload path instead.
func (tf *TestFixtures) CreateTestWork(title string, categoryID uint) (*models.Work, error) {
	work := &models.Work{
		Title:      title,
		CategoryID: categoryID,
		ImagePath:  fmt.Sprintf("%08d.png", rand.Intn(90000000)+10000000),
		Tags:       []string{"modern", "residential"},
	}
	if err := tf.Portfolio.Works().Save(context.Background(), work); err != nil {
		return nil, fmt.Errorf("failed to create test work: %w", err)
	}
	return work, nil
}

// TestPNG renders a small solid PNG suitable for upload tests.
func TestPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 180, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Sprintf("failed to encode test png: %v", err))
	}
	return buf.Bytes()
}
