// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/breezeline/interiors-api/app/dto"
	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/utils"
)

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// ToLeadInfoDTO converts a stored lead to its API representation
func ToLeadInfoDTO(lead models.EstimationLead) dto.EstimationLeadInfo {
	return dto.EstimationLeadInfo{
		ID:             lead.ID,
		ProjectType:    lead.ProjectType,
		ServiceClass:   lead.ServiceClass,
		AreaSqm:        lead.AreaSqm,
		TotalPrice:     lead.TotalFils,
		FormattedTotal: utils.FormatAED(lead.TotalFils),
		Phone:          lead.Phone,
		Email:          lead.Email,
		ContactName:    lead.ContactName,
		CreatedAt:      lead.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToCategoryInfoDTO converts a category to its API representation
func ToCategoryInfoDTO(category models.Category) dto.CategoryInfo {
	return dto.CategoryInfo{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToWorkInfoDTO converts a joined work row to its API representation
func ToWorkInfoDTO(work models.WorkWithCategory, publicPath string) dto.WorkInfo {
	return dto.WorkInfo{
		ID:           work.ID,
		Title:        work.Title,
		CategoryID:   work.CategoryID,
		CategoryName: work.CategoryName,
		ImageURL:     publicPath + "/" + work.ImagePath,
		Tags:         append([]string{}, work.Tags...),
		CreatedAt:    work.CreatedAt.UTC().Format(time.RFC3339),
	}
}
