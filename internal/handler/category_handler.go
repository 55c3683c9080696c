package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/middleware"
	"github.com/moneyflow/moneyflow-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
	iconService     *service.IconService
}

// NewCategoryHandler creates a new CategoryHandler. iconService may be disabled.
func NewCategoryHandler(categoryService *service.CategoryService, iconService *service.IconService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		iconService:     iconService,
	}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// UpdateCategoryRequest is a partial category update. Icons change through the icon endpoints.
type UpdateCategoryRequest struct {
	Name  domain.Optional[string] `json:"name"`
	Color domain.Optional[string] `json:"color"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID               int32   `json:"id"`
	Name             string  `json:"name"`
	Color            string  `json:"color"`
	Global           bool    `json:"global"`
	IconURL          *string `json:"iconUrl,omitempty"`
	TransactionCount int64   `json:"transactionCount"`
	Balance          string  `json:"balance"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(middleware.GetUserID(c), req.Name, req.Color)
	if err != nil {
		return handleServiceError(c, err, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, h.toCategoryResponse(c, category))
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryService.GetCategories(middleware.GetUserID(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to get categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = h.toCategoryResponse(c, category)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateCategory handles PATCH /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(middleware.GetUserID(c), id, domain.CategoryPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to update category")
	}
	return c.JSON(http.StatusOK, h.toCategoryResponse(c, category))
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(middleware.GetUserID(c), id); err != nil {
		return handleServiceError(c, err, "Failed to delete category")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadIcon handles PUT /api/v1/categories/:id/icon (multipart field "file")
func (h *CategoryHandler) UploadIcon(c echo.Context) error {
	if !h.iconService.IsEnabled() {
		return NewServiceUnavailableError(c, "Icon uploads are disabled (storage not configured)")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}
	if file.Size > service.MaxIconSize {
		return handleServiceError(c, service.ErrIconTooLarge, "")
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxIconSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	userID := middleware.GetUserID(c)
	category, err := h.iconService.UploadCategoryIcon(c.Request().Context(), userID, id, data, file.Filename)
	if err != nil {
		return handleServiceError(c, err, "Failed to upload icon")
	}

	log.Info().Str("user_id", userID.String()).Int32("category_id", id).Msg("Category icon uploaded")
	return c.JSON(http.StatusOK, h.toCategoryResponse(c, category))
}

// DeleteIcon handles DELETE /api/v1/categories/:id/icon
func (h *CategoryHandler) DeleteIcon(c echo.Context) error {
	if !h.iconService.IsEnabled() {
		return NewServiceUnavailableError(c, "Icon uploads are disabled (storage not configured)")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	category, err := h.iconService.RemoveCategoryIcon(c.Request().Context(), middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to delete icon")
	}
	return c.JSON(http.StatusOK, h.toCategoryResponse(c, category))
}

func (h *CategoryHandler) toCategoryResponse(c echo.Context, category *domain.Category) CategoryResponse {
	response := CategoryResponse{
		ID:               category.ID,
		Name:             category.Name,
		Color:            category.Color,
		Global:           category.IsGlobal(),
		TransactionCount: category.TransactionCount,
		Balance:          category.Balance.StringFixed(2),
		CreatedAt:        category.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        category.UpdatedAt.Format(time.RFC3339),
	}

	url, err := h.iconService.IconURL(c.Request().Context(), category)
	if err != nil {
		log.Warn().Err(err).Int32("category_id", category.ID).Msg("Failed to presign icon URL")
	} else if url != "" {
		response.IconURL = &url
	}
	return response
}
