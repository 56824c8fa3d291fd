package dto

import "io"

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=128" example:"Residential"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1024" example:"Apartments and villas"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=128" example:"Residential"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1024" example:"Apartments and villas"`
}

// CategoryInfo represents a category in API responses
type CategoryInfo struct {
	ID          uint    `json:"id" example:"3"`
	Name        string  `json:"name" example:"Residential"`
	Description *string `json:"description,omitempty" example:"Apartments and villas"`
	CreatedAt   string  `json:"createdAt" example:"2025-01-15T10:30:00Z"`
}

// CreateWorkRequest contains multipart upload details passed from handler to flow.
type CreateWorkRequest struct {
	Title            string    `json:"-"`
	CategoryID       uint      `json:"-"`
	Tags             []string  `json:"-"`
	OriginalFilename string    `json:"-"`
	FileSize         int64     `json:"-"`
	Image            io.Reader `json:"-"`
}

// UpdateWorkRequest contains partial work fields; Image is nil when unchanged.
type UpdateWorkRequest struct {
	Title            *string   `json:"-"`
	CategoryID       *uint     `json:"-"`
	Tags             *[]string `json:"-"`
	OriginalFilename string    `json:"-"`
	FileSize         int64     `json:"-"`
	Image            io.Reader `json:"-"`
}

// WorkInfo represents a portfolio work joined with its category name
type WorkInfo struct {
	ID           uint     `json:"id" example:"12"`
	Title        string   `json:"title" example:"Marina loft refit"`
	CategoryID   uint     `json:"categoryId" example:"3"`
	CategoryName string   `json:"categoryName" example:"Residential"`
	ImageURL     string   `json:"imageUrl" example:"/uploads/works/550e8400-e29b-41d4-a716-446655440000.jpg"`
	Tags         []string `json:"tags" example:"loft,marina"`
	CreatedAt    string   `json:"createdAt" example:"2025-01-15T10:30:00Z"`
}
