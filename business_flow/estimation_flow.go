package businessflow

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/breezeline/interiors-api/app/dto"
	"github.com/breezeline/interiors-api/app/services"
	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/pricing"
	"github.com/breezeline/interiors-api/repository"
	"github.com/breezeline/interiors-api/utils"
)

// DefaultLeadListLimit bounds admin lead listings when no limit is given.
const DefaultLeadListLimit = 100

// notifyTimeout bounds the detached email dispatch so a stuck SMTP server
// cannot pin goroutines forever.
const notifyTimeout = 30 * time.Second

// EstimationFlow represents the price estimation and lead capture flow
type EstimationFlow interface {
	Calculate(ctx context.Context, req *dto.CalculateEstimationRequest) (*dto.CalculateEstimationResponse, error)
	Submit(ctx context.Context, req *dto.SubmitEstimationRequest, metadata *ClientMetadata) (*dto.SubmitEstimationResponse, error)
	List(ctx context.Context, limit int) (*dto.ListEstimationsResponse, error)
	Clear(ctx context.Context) error
	ExportXLSX(ctx context.Context) (string, []byte, error)
	PriceList() []dto.PriceListEntry
}

// EstimationFlowImpl implements EstimationFlow
type EstimationFlowImpl struct {
	leadStore repository.LeadStore
	notifier  services.NotificationService
}

// NewEstimationFlow creates a new estimation flow. A nil notifier disables
// email dispatch without affecting persistence.
func NewEstimationFlow(leadStore repository.LeadStore, notifier services.NotificationService) EstimationFlow {
	return &EstimationFlowImpl{
		leadStore: leadStore,
		notifier:  notifier,
	}
}

// Calculate computes a quote from the rate table. No side effects.
func (ef *EstimationFlowImpl) Calculate(_ context.Context, req *dto.CalculateEstimationRequest) (*dto.CalculateEstimationResponse, error) {
	quote, err := pricing.Estimate(req.ProjectType, req.ServiceClass, req.AreaSqm)
	if err != nil {
		return nil, mapPricingError(err)
	}

	return &dto.CalculateEstimationResponse{
		ProjectType:    quote.ProjectType,
		ServiceClass:   quote.ServiceClass,
		AreaSqm:        quote.AreaSqm,
		UnitPrice:      quote.UnitFils,
		TotalPrice:     quote.TotalFils,
		FormattedTotal: utils.FormatAED(quote.TotalFils),
	}, nil
}

// Submit recomputes the quote server-side, persists the lead and dispatches
// notification emails on a detached goroutine. The client-submitted total is
// required but never trusted; the stored and mailed amount is always the
// server-computed one. Email failures are logged and never fail the request.
func (ef *EstimationFlowImpl) Submit(ctx context.Context, req *dto.SubmitEstimationRequest, metadata *ClientMetadata) (*dto.SubmitEstimationResponse, error) {
	quote, err := pricing.Estimate(req.ProjectType, req.ServiceClass, req.AreaSqm)
	if err != nil {
		return nil, mapPricingError(err)
	}

	lead := &models.EstimationLead{
		ProjectType:  quote.ProjectType,
		ServiceClass: quote.ServiceClass,
		AreaSqm:      quote.AreaSqm,
		TotalFils:    quote.TotalFils,
		Phone:        req.Phone,
		Email:        req.Email,
		ContactName:  req.ContactName,
		CreatedAt:    utils.UTCNow(),
	}

	if err := ef.leadStore.Append(ctx, lead); err != nil {
		return nil, NewBusinessError("LEAD_PERSIST_FAILED", "Failed to store estimation lead", err)
	}

	emailSent := false
	if ef.notifier != nil {
		emailSent = req.Email != nil && *req.Email != ""
		go ef.dispatchNotifications(*lead, metadata)
	}

	return &dto.SubmitEstimationResponse{
		ID:             lead.ID,
		TotalPrice:     lead.TotalFils,
		FormattedTotal: utils.FormatAED(lead.TotalFils),
		EmailSent:      emailSent,
		CreatedAt:      lead.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// dispatchNotifications runs outside the request lifecycle. It copies the lead
// so the caller can return immediately.
func (ef *EstimationFlowImpl) dispatchNotifications(lead models.EstimationLead, metadata *ClientMetadata) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("lead notification panic for lead %d: %v", lead.ID, r)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ef.notifier.SendLeadAlert(&lead); err != nil {
			log.Printf("failed to send lead alert for lead %d: %v", lead.ID, err)
		}
		if lead.Email != nil && *lead.Email != "" {
			if err := ef.notifier.SendLeadConfirmation(&lead); err != nil {
				log.Printf("failed to send lead confirmation for lead %d: %v", lead.ID, err)
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(notifyTimeout):
		ip := ""
		if metadata != nil {
			ip = metadata.IPAddress
		}
		log.Printf("lead notification timed out for lead %d (client %s)", lead.ID, ip)
	}
}

// List returns the most recent leads together with aggregate stats.
func (ef *EstimationFlowImpl) List(ctx context.Context, limit int) (*dto.ListEstimationsResponse, error) {
	if limit <= 0 {
		limit = DefaultLeadListLimit
	}

	leads, err := ef.leadStore.Recent(ctx, limit)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list estimation leads", err)
	}

	stats, err := ef.leadStore.Stats(ctx, utils.StartOfMonth(utils.UTCNow()))
	if err != nil {
		return nil, NewBusinessError("LEAD_STATS_FAILED", "Failed to compute lead stats", err)
	}

	resp := &dto.ListEstimationsResponse{
		Leads: make([]dto.EstimationLeadInfo, 0, len(leads)),
		Stats: dto.EstimationStatsInfo{
			TotalCount:          stats.TotalCount,
			ThisMonthCount:      stats.ThisMonthCount,
			TotalValue:          stats.TotalValueFils,
			FormattedTotalValue: utils.FormatAED(stats.TotalValueFils),
		},
	}
	for _, lead := range leads {
		resp.Leads = append(resp.Leads, ToLeadInfoDTO(*lead))
	}
	return resp, nil
}

// Clear removes every stored lead.
func (ef *EstimationFlowImpl) Clear(ctx context.Context) error {
	if err := ef.leadStore.Clear(ctx); err != nil {
		return NewBusinessError("LEAD_CLEAR_FAILED", "Failed to clear estimation leads", err)
	}
	return nil
}

// ExportXLSX renders every stored lead into a single-sheet workbook.
func (ef *EstimationFlowImpl) ExportXLSX(ctx context.Context) (string, []byte, error) {
	leads, err := ef.leadStore.Recent(ctx, 0)
	if err != nil {
		return "", nil, NewBusinessError("LEAD_EXPORT_FAILED", "Failed to read estimation leads", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Leads"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "project_type", "service_class", "area_sqm", "total_aed", "phone", "email", "contact_name", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, lead := range leads {
		record := []string{
			strconv.FormatUint(uint64(lead.ID), 10),
			lead.ProjectType,
			lead.ServiceClass,
			strconv.FormatFloat(lead.AreaSqm, 'f', 2, 64),
			utils.FormatAED(lead.TotalFils),
			utils.Deref(lead.Phone, ""),
			utils.Deref(lead.Email, ""),
			utils.Deref(lead.ContactName, ""),
			lead.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := "estimation_leads_" + utils.UTCNow().Format("2006-01-02") + ".xlsx"
	return filename, buf.Bytes(), nil
}

// PriceList exposes the static rate table in stable order.
func (ef *EstimationFlowImpl) PriceList() []dto.PriceListEntry {
	table := pricing.Table()
	types := pricing.ProjectTypes()
	entries := make([]dto.PriceListEntry, 0, len(types))
	for _, t := range types {
		rate := table[t]
		entries = append(entries, dto.PriceListEntry{
			ProjectType: t,
			Standard:    rate.Standard,
			Premium:     rate.Premium,
		})
	}
	return entries
}

func mapPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrUnknownRate):
		return NewBusinessError("ESTIMATION_UNKNOWN_RATE", "Unknown project type or service class", ErrUnknownProjectType)
	case errors.Is(err, pricing.ErrAreaNotFinite):
		return NewBusinessError("ESTIMATION_INVALID_AREA", "Area must be a finite number", ErrAreaNotANumber)
	case errors.Is(err, pricing.ErrAreaOutOfRange):
		return NewBusinessErrorf("ESTIMATION_AREA_OUT_OF_RANGE", "Area must be between %d and %d sqm", ErrAreaOutOfRange, pricing.MinAreaSqm, pricing.MaxAreaSqm)
	default:
		return NewBusinessError("ESTIMATION_FAILED", "Failed to compute estimation", err)
	}
}
