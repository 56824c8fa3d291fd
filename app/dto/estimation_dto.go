package dto

// CalculateEstimationRequest represents the request payload for a price estimate
type CalculateEstimationRequest struct {
	ProjectType  string  `json:"projectType" validate:"required,min=2,max=64" example:"2BHK"`
	ServiceClass string  `json:"serviceClass" validate:"required,oneof=Standard Premium" example:"Standard"`
	AreaSqm      float64 `json:"area" validate:"required" example:"120"`
}

// CalculateEstimationResponse carries the computed quote back to the client.
// unitPrice and totalPrice are AED fils (1 AED = 100 fils); formattedTotal is
// the display string.
type CalculateEstimationResponse struct {
	ProjectType    string  `json:"projectType" example:"2BHK"`
	ServiceClass   string  `json:"serviceClass" example:"Standard"`
	AreaSqm        float64 `json:"area" example:"120"`
	UnitPrice      int64   `json:"unitPrice" example:"220000"`
	TotalPrice     int64   `json:"totalPrice" example:"26400000"`
	FormattedTotal string  `json:"formattedTotal" example:"AED 264,000.00"`
}

// SubmitEstimationRequest represents the request payload for submitting a lead.
// TotalPrice is AED fils; it is required but recomputed server-side before
// persisting.
type SubmitEstimationRequest struct {
	ProjectType  string  `json:"projectType" validate:"required,min=2,max=64" example:"2BHK"`
	ServiceClass string  `json:"serviceClass" validate:"required,oneof=Standard Premium" example:"Standard"`
	AreaSqm      float64 `json:"area" validate:"required" example:"120"`
	TotalPrice   int64   `json:"totalPrice" validate:"required" example:"26400000"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=5,max=32" example:"+971501234567"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"client@example.com"`
	ContactName  *string `json:"contactName,omitempty" validate:"omitempty,min=2,max=128" example:"Sara Ahmed"`
}

// SubmitEstimationResponse represents the persisted lead acknowledgement.
// TotalPrice is AED fils.
type SubmitEstimationResponse struct {
	ID             uint   `json:"id" example:"42"`
	TotalPrice     int64  `json:"totalPrice" example:"26400000"`
	FormattedTotal string `json:"formattedTotal" example:"AED 264,000.00"`
	EmailSent      bool   `json:"emailSent" example:"true"`
	CreatedAt      string `json:"createdAt" example:"2025-01-15T10:30:00Z"`
}

// EstimationLeadInfo represents a stored lead in admin listings. TotalPrice
// is AED fils.
type EstimationLeadInfo struct {
	ID             uint    `json:"id" example:"42"`
	ProjectType    string  `json:"projectType" example:"2BHK"`
	ServiceClass   string  `json:"serviceClass" example:"Standard"`
	AreaSqm        float64 `json:"area" example:"120"`
	TotalPrice     int64   `json:"totalPrice" example:"26400000"`
	FormattedTotal string  `json:"formattedTotal" example:"AED 264,000.00"`
	Phone          *string `json:"phone,omitempty" example:"+971501234567"`
	Email          *string `json:"email,omitempty" example:"client@example.com"`
	ContactName    *string `json:"contactName,omitempty" example:"Sara Ahmed"`
	CreatedAt      string  `json:"createdAt" example:"2025-01-15T10:30:00Z"`
}

// EstimationStatsInfo aggregates lead counters for the admin dashboard.
// TotalValue is AED fils.
type EstimationStatsInfo struct {
	TotalCount          int64  `json:"totalCount" example:"128"`
	ThisMonthCount      int64  `json:"thisMonthCount" example:"17"`
	TotalValue          int64  `json:"totalValue" example:"912400000"`
	FormattedTotalValue string `json:"formattedTotalValue" example:"AED 9,124,000.00"`
}

// ListEstimationsResponse bundles recent leads with their stats
type ListEstimationsResponse struct {
	Leads []EstimationLeadInfo `json:"leads"`
	Stats EstimationStatsInfo  `json:"stats"`
}

// PriceListEntry represents one row of the public rate table. Rates are AED
// fils per square metre.
type PriceListEntry struct {
	ProjectType string `json:"projectType" example:"2BHK"`
	Standard    int64  `json:"Standard" example:"220000"`
	Premium     int64  `json:"Premium" example:"250000"`
}
