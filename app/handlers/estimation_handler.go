package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/breezeline/interiors-api/app/dto"
	businessflow "github.com/breezeline/interiors-api/business_flow"
)

// EstimationHandlerInterface defines the contract for estimation handlers
type EstimationHandlerInterface interface {
	Calculate(c fiber.Ctx) error
	Submit(c fiber.Ctx) error
	PriceList(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Clear(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// EstimationHandler implements EstimationHandlerInterface
type EstimationHandler struct {
	flow      businessflow.EstimationFlow
	validator *validator.Validate
}

func NewEstimationHandler(flow businessflow.EstimationFlow) EstimationHandlerInterface {
	return &EstimationHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Calculate returns a quote for the given project type, service class and area
// @Summary Calculate estimation
// @Description Compute a price quote from the rate table without storing anything
// @Tags Estimation
// @Accept json
// @Produce json
// @Param request body dto.CalculateEstimationRequest true "Estimation input"
// @Success 200 {object} dto.APIResponse{data=dto.CalculateEstimationResponse} "Estimation calculated"
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Router /api/calculate-estimation [post]
func (h *EstimationHandler) Calculate(c fiber.Ctx) error {
	var req dto.CalculateEstimationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	resp, err := h.flow.Calculate(createRequestContext(c, "/api/calculate-estimation"), &req)
	if err != nil {
		return h.estimationError(c, err)
	}
	return SuccessResponse(c, fiber.StatusOK, "Estimation calculated", resp)
}

// Submit stores a lead and dispatches notification emails
// @Summary Submit estimation
// @Description Persist an estimation lead; the total is recomputed server-side
// @Tags Estimation
// @Accept json
// @Produce json
// @Param request body dto.SubmitEstimationRequest true "Lead data"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitEstimationResponse} "Lead stored"
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Storage failure"
// @Router /api/submit-estimation [post]
func (h *EstimationHandler) Submit(c fiber.Ctx) error {
	var req dto.SubmitEstimationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	resp, err := h.flow.Submit(createRequestContext(c, "/api/submit-estimation"), &req, metadata)
	if err != nil {
		return h.estimationError(c, err)
	}
	return SuccessResponse(c, fiber.StatusCreated, "Estimation submitted", resp)
}

// PriceList returns the full static rate table
// @Summary Price list
// @Tags Estimation
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PriceListEntry} "Price list"
// @Router /api/price-list [get]
func (h *EstimationHandler) PriceList(c fiber.Ctx) error {
	return SuccessResponse(c, fiber.StatusOK, "Price list", h.flow.PriceList())
}

// List returns recent leads with aggregate stats
// @Summary List estimation leads
// @Tags Estimation
// @Produce json
// @Param limit query int false "Maximum number of leads" default(100)
// @Success 200 {object} dto.APIResponse{data=dto.ListEstimationsResponse} "Leads"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/estimations [get]
func (h *EstimationHandler) List(c fiber.Ctx) error {
	limit := businessflow.DefaultLeadListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return ErrorResponse(c, fiber.StatusBadRequest, "limit must be a positive integer", "VALIDATION_ERROR", nil)
		}
		limit = parsed
	}

	resp, err := h.flow.List(createRequestContext(c, "/api/estimations"), limit)
	if err != nil {
		log.Println("Lead listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list leads", "LEAD_LIST_FAILED", nil)
	}
	return SuccessResponse(c, fiber.StatusOK, "Leads retrieved", resp)
}

// Clear removes every stored lead
// @Summary Clear estimation leads
// @Tags Estimation
// @Produce json
// @Success 200 {object} dto.APIResponse "Leads cleared"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/estimations [delete]
func (h *EstimationHandler) Clear(c fiber.Ctx) error {
	if err := h.flow.Clear(createRequestContext(c, "/api/estimations")); err != nil {
		log.Println("Lead clearing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to clear leads", "LEAD_CLEAR_FAILED", nil)
	}
	return SuccessResponse(c, fiber.StatusOK, "Leads cleared", nil)
}

// Export streams every stored lead as an xlsx workbook
// @Summary Export estimation leads
// @Tags Estimation
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Workbook"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/estimations/export [get]
func (h *EstimationHandler) Export(c fiber.Ctx) error {
	filename, content, err := h.flow.ExportXLSX(createRequestContext(c, "/api/estimations/export"))
	if err != nil {
		log.Println("Lead export failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export leads", "LEAD_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}

func (h *EstimationHandler) estimationError(c fiber.Ctx, err error) error {
	switch {
	case businessflow.IsUnknownProjectType(err), businessflow.IsUnknownServiceClass(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "Unknown project type or service class", "UNKNOWN_RATE", nil)
	case businessflow.IsAreaOutOfRange(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "Area is out of the accepted range", "AREA_OUT_OF_RANGE", nil)
	case errors.Is(err, businessflow.ErrAreaNotANumber):
		return ErrorResponse(c, fiber.StatusBadRequest, "Area must be a finite number", "INVALID_AREA", nil)
	default:
		log.Println("Estimation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Estimation failed", "ESTIMATION_FAILED", nil)
	}
}
