package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/breezeline/interiors-api/app/dto"
	businessflow "github.com/breezeline/interiors-api/business_flow"
	"github.com/breezeline/interiors-api/utils"
)

// PortfolioHandlerInterface defines the contract for portfolio handlers
type PortfolioHandlerInterface interface {
	ListCategories(c fiber.Ctx) error
	CreateCategory(c fiber.Ctx) error
	UpdateCategory(c fiber.Ctx) error
	DeleteCategory(c fiber.Ctx) error
	ListWorks(c fiber.Ctx) error
	CreateWork(c fiber.Ctx) error
	UpdateWork(c fiber.Ctx) error
	DeleteWork(c fiber.Ctx) error
	PreviewWork(c fiber.Ctx) error
}

// PortfolioHandler implements PortfolioHandlerInterface
type PortfolioHandler struct {
	flow      businessflow.PortfolioFlow
	validator *validator.Validate
}

func NewPortfolioHandler(flow businessflow.PortfolioFlow) PortfolioHandlerInterface {
	return &PortfolioHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ListCategories returns every portfolio category
// @Summary List categories
// @Tags Portfolio
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryInfo} "Categories"
// @Router /api/categories [get]
func (h *PortfolioHandler) ListCategories(c fiber.Ctx) error {
	categories, err := h.flow.ListCategories(createRequestContext(c, "/api/categories"))
	if err != nil {
		log.Println("Category listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list categories", "CATEGORY_LIST_FAILED", nil)
	}
	return SuccessResponse(c, fiber.StatusOK, "Categories retrieved", categories)
}

// CreateCategory creates a portfolio category
// @Summary Create category
// @Tags Portfolio
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category data"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryInfo} "Category created"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/categories [post]
func (h *PortfolioHandler) CreateCategory(c fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	category, err := h.flow.CreateCategory(createRequestContext(c, "/api/categories"), &req)
	if err != nil {
		return h.portfolioError(c, err, "Failed to create category")
	}
	return SuccessResponse(c, fiber.StatusCreated, "Category created", category)
}

// UpdateCategory partially updates a category
// @Summary Update category
// @Tags Portfolio
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CategoryInfo} "Category updated"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Router /api/categories/{id} [put]
func (h *PortfolioHandler) UpdateCategory(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", "INVALID_ID", nil)
	}

	var req dto.UpdateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	category, err := h.flow.UpdateCategory(createRequestContext(c, "/api/categories/:id"), id, &req)
	if err != nil {
		return h.portfolioError(c, err, "Failed to update category")
	}
	return SuccessResponse(c, fiber.StatusOK, "Category updated", category)
}

// DeleteCategory removes a category and all of its works
// @Summary Delete category
// @Tags Portfolio
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} dto.APIResponse "Category deleted"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Router /api/categories/{id} [delete]
func (h *PortfolioHandler) DeleteCategory(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", "INVALID_ID", nil)
	}

	if err := h.flow.DeleteCategory(createRequestContext(c, "/api/categories/:id"), id); err != nil {
		return h.portfolioError(c, err, "Failed to delete category")
	}
	return SuccessResponse(c, fiber.StatusOK, "Category deleted", nil)
}

// ListWorks returns every work joined with its category name
// @Summary List works
// @Tags Portfolio
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.WorkInfo} "Works"
// @Router /api/works [get]
func (h *PortfolioHandler) ListWorks(c fiber.Ctx) error {
	works, err := h.flow.ListWorks(createRequestContext(c, "/api/works"))
	if err != nil {
		log.Println("Work listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list works", "WORK_LIST_FAILED", nil)
	}
	return SuccessResponse(c, fiber.StatusOK, "Works retrieved", works)
}

// CreateWork uploads a new work with its image
// @Summary Create work
// @Description Multipart upload: title, categoryId and an image file (jpg/jpeg/png/gif/webp, <=5MB)
// @Tags Portfolio
// @Accept mpfd
// @Produce json
// @Param title formData string true "Work title"
// @Param categoryId formData int true "Category ID"
// @Param tags formData string false "Comma-separated tags"
// @Param image formData file true "Image file"
// @Success 201 {object} dto.APIResponse{data=dto.WorkInfo} "Work created"
// @Failure 400 {object} dto.APIResponse "Invalid request or image"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Router /api/works [post]
func (h *PortfolioHandler) CreateWork(c fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "title is required", "VALIDATION_ERROR", nil)
	}
	categoryID, err := strconv.ParseUint(c.FormValue("categoryId"), 10, 32)
	if err != nil || categoryID == 0 {
		return ErrorResponse(c, fiber.StatusBadRequest, "categoryId must be a positive integer", "VALIDATION_ERROR", nil)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "image is required", "INVALID_IMAGE", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid image", "INVALID_IMAGE", err.Error())
	}
	defer file.Close()

	req := dto.CreateWorkRequest{
		Title:            title,
		CategoryID:       uint(categoryID),
		Tags:             splitTags(c.FormValue("tags")),
		OriginalFilename: fileHeader.Filename,
		FileSize:         fileHeader.Size,
		Image:            file,
	}

	work, err := h.flow.CreateWork(createRequestContext(c, "/api/works"), &req)
	if err != nil {
		return h.portfolioError(c, err, "Failed to create work")
	}
	return SuccessResponse(c, fiber.StatusCreated, "Work created", work)
}

// UpdateWork partially updates a work; a new image replaces the old file
// @Summary Update work
// @Tags Portfolio
// @Accept mpfd
// @Produce json
// @Param id path int true "Work ID"
// @Param title formData string false "Work title"
// @Param categoryId formData int false "Category ID"
// @Param image formData file false "Replacement image"
// @Success 200 {object} dto.APIResponse{data=dto.WorkInfo} "Work updated"
// @Failure 404 {object} dto.APIResponse "Work or category not found"
// @Router /api/works/{id} [put]
func (h *PortfolioHandler) UpdateWork(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid work ID", "INVALID_ID", nil)
	}

	var req dto.UpdateWorkRequest
	if title := strings.TrimSpace(c.FormValue("title")); title != "" {
		req.Title = utils.ToPtr(title)
	}
	if raw := c.FormValue("categoryId"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || categoryID == 0 {
			return ErrorResponse(c, fiber.StatusBadRequest, "categoryId must be a positive integer", "VALIDATION_ERROR", nil)
		}
		req.CategoryID = utils.ToPtr(uint(categoryID))
	}
	if raw := c.FormValue("tags"); raw != "" {
		req.Tags = utils.ToPtr(splitTags(raw))
	}
	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "invalid image", "INVALID_IMAGE", err.Error())
		}
		defer file.Close()
		req.OriginalFilename = fileHeader.Filename
		req.FileSize = fileHeader.Size
		req.Image = file
	}

	work, err := h.flow.UpdateWork(createRequestContext(c, "/api/works/:id"), id, &req)
	if err != nil {
		return h.portfolioError(c, err, "Failed to update work")
	}
	return SuccessResponse(c, fiber.StatusOK, "Work updated", work)
}

// DeleteWork removes a work and its image file
// @Summary Delete work
// @Tags Portfolio
// @Produce json
// @Param id path int true "Work ID"
// @Success 200 {object} dto.APIResponse "Work deleted"
// @Failure 404 {object} dto.APIResponse "Work not found"
// @Router /api/works/{id} [delete]
func (h *PortfolioHandler) DeleteWork(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid work ID", "INVALID_ID", nil)
	}

	if err := h.flow.DeleteWork(createRequestContext(c, "/api/works/:id"), id); err != nil {
		return h.portfolioError(c, err, "Failed to delete work")
	}
	return SuccessResponse(c, fiber.StatusOK, "Work deleted", nil)
}

// PreviewWork returns a downscaled jpeg of the work image
// @Summary Preview work image
// @Tags Portfolio
// @Produce image/jpeg
// @Param id path int true "Work ID"
// @Success 200 {file} binary "Preview"
// @Failure 404 {object} dto.APIResponse "Work not found"
// @Router /api/works/{id}/preview [get]
func (h *PortfolioHandler) PreviewWork(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid work ID", "INVALID_ID", nil)
	}

	filename, contentType, data, err := h.flow.PreviewWork(createRequestContext(c, "/api/works/:id/preview"), id)
	if err != nil {
		return h.portfolioError(c, err, "Failed to preview work")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}

// splitTags parses the comma-separated tags form field
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDParam(c fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}

func (h *PortfolioHandler) portfolioError(c fiber.Ctx, err error, fallback string) error {
	switch {
	case businessflow.IsCategoryNotFound(err):
		return ErrorResponse(c, fiber.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND", nil)
	case businessflow.IsWorkNotFound(err):
		return ErrorResponse(c, fiber.StatusNotFound, "Work not found", "WORK_NOT_FOUND", nil)
	case businessflow.IsImageTooLarge(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "Image too large", "IMAGE_TOO_LARGE", nil)
	case businessflow.IsUnsupportedImage(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "Unsupported image format", "INVALID_IMAGE_TYPE", nil)
	}
	if be, ok := err.(*businessflow.BusinessError); ok && strings.HasSuffix(be.Code, "VALIDATION_FAILED") {
		return ErrorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
	}
	log.Println(fallback, err)
	return ErrorResponse(c, fiber.StatusInternalServerError, fallback, "PORTFOLIO_OPERATION_FAILED", nil)
}
