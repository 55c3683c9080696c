package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/middleware"
	"github.com/moneyflow/moneyflow-backend/internal/service"
)

// LabelHandler handles label-related HTTP requests
type LabelHandler struct {
	labelService *service.LabelService
}

func NewLabelHandler(labelService *service.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

type CreateLabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type LabelResponse struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateLabel handles POST /api/v1/labels
func (h *LabelHandler) CreateLabel(c echo.Context) error {
	var req CreateLabelRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	label, err := h.labelService.CreateLabel(middleware.GetUserID(c), req.Name, req.Color)
	if err != nil {
		return handleServiceError(c, err, "Failed to create label")
	}
	return c.JSON(http.StatusCreated, toLabelResponse(label))
}

// GetLabels handles GET /api/v1/labels
func (h *LabelHandler) GetLabels(c echo.Context) error {
	labels, err := h.labelService.GetLabels(middleware.GetUserID(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to get labels")
	}

	response := make([]LabelResponse, len(labels))
	for i, label := range labels {
		response[i] = toLabelResponse(label)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateLabel handles PATCH /api/v1/labels/:id
func (h *LabelHandler) UpdateLabel(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid label ID", nil)
	}

	var patch domain.LabelPatch
	if err := c.Bind(&patch); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	label, err := h.labelService.UpdateLabel(middleware.GetUserID(c), id, patch)
	if err != nil {
		return handleServiceError(c, err, "Failed to update label")
	}
	return c.JSON(http.StatusOK, toLabelResponse(label))
}

// DeleteLabel handles DELETE /api/v1/labels/:id
func (h *LabelHandler) DeleteLabel(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid label ID", nil)
	}

	if err := h.labelService.DeleteLabel(middleware.GetUserID(c), id); err != nil {
		return handleServiceError(c, err, "Failed to delete label")
	}
	return c.NoContent(http.StatusNoContent)
}

func toLabelResponse(l *domain.Label) LabelResponse {
	return LabelResponse{ID: l.ID, Name: l.Name, Color: l.Color}
}
