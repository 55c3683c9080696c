package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/middleware"
	"github.com/moneyflow/moneyflow-backend/internal/service"
	"github.com/shopspring/decimal"
)

const budgetDateLayout = "2006-01-02"

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	Name        string  `json:"name"`
	Value       string  `json:"value"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	CategoryIDs []int32 `json:"categoryIds"`
	LabelIDs    []int32 `json:"labelIds"`
}

// UpdateBudgetRequest is a partial budget update
type UpdateBudgetRequest struct {
	Name        domain.Optional[string]  `json:"name"`
	Value       domain.Optional[string]  `json:"value"`
	StartDate   domain.Optional[string]  `json:"startDate"`
	EndDate     domain.Optional[string]  `json:"endDate"`
	CategoryIDs domain.Optional[[]int32] `json:"categoryIds"`
	LabelIDs    domain.Optional[[]int32] `json:"labelIds"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Value       string  `json:"value"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	CategoryIDs []int32 `json:"categoryIds"`
	LabelIDs    []int32 `json:"labelIds"`
}

// BudgetProgressResponse represents spending against a budget
type BudgetProgressResponse struct {
	BudgetID  int32  `json:"budgetId"`
	Target    string `json:"target"`
	Spent     string `json:"spent"`
	Remaining string `json:"remaining"`
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return NewValidationError(c, "Invalid value", []ValidationError{
			{Field: "value", Message: "Must be a valid decimal number"},
		})
	}
	start, err := time.Parse(budgetDateLayout, req.StartDate)
	if err != nil {
		return budgetDateError(c, "startDate")
	}
	end, err := time.Parse(budgetDateLayout, req.EndDate)
	if err != nil {
		return budgetDateError(c, "endDate")
	}

	budget, err := h.budgetService.CreateBudget(middleware.GetUserID(c), service.CreateBudgetInput{
		Name:        req.Name,
		Value:       value,
		StartDate:   start,
		EndDate:     end,
		CategoryIDs: req.CategoryIDs,
		LabelIDs:    req.LabelIDs,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to create budget")
	}
	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	budgets, err := h.budgetService.GetBudgets(middleware.GetUserID(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to get budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, budget := range budgets {
		response[i] = toBudgetResponse(budget)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.GetBudgetByID(middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget handles PATCH /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	patch := domain.BudgetPatch{
		Name:        req.Name,
		CategoryIDs: req.CategoryIDs,
		LabelIDs:    req.LabelIDs,
	}
	if req.Value.Set {
		value, err := decimal.NewFromString(req.Value.Value)
		if err != nil {
			return NewValidationError(c, "Invalid value", []ValidationError{
				{Field: "value", Message: "Must be a valid decimal number"},
			})
		}
		patch.Value = domain.Some(value)
	}
	if req.StartDate.Set {
		start, err := time.Parse(budgetDateLayout, req.StartDate.Value)
		if err != nil {
			return budgetDateError(c, "startDate")
		}
		patch.StartDate = domain.Some(start)
	}
	if req.EndDate.Set {
		end, err := time.Parse(budgetDateLayout, req.EndDate.Value)
		if err != nil {
			return budgetDateError(c, "endDate")
		}
		patch.EndDate = domain.Some(end)
	}

	budget, err := h.budgetService.UpdateBudget(middleware.GetUserID(c), id, patch)
	if err != nil {
		return handleServiceError(c, err, "Failed to update budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(middleware.GetUserID(c), id); err != nil {
		return handleServiceError(c, err, "Failed to delete budget")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetProgress handles GET /api/v1/budgets/:id/progress
func (h *BudgetHandler) GetProgress(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	progress, err := h.budgetService.GetProgress(middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to compute budget progress")
	}
	return c.JSON(http.StatusOK, BudgetProgressResponse{
		BudgetID:  progress.BudgetID,
		Target:    progress.Target.StringFixed(2),
		Spent:     progress.Spent.StringFixed(2),
		Remaining: progress.Remaining.StringFixed(2),
	})
}

func budgetDateError(c echo.Context, field string) error {
	return NewValidationError(c, "Invalid date", []ValidationError{
		{Field: field, Message: "Must be in YYYY-MM-DD format"},
	})
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	categories, labels := b.CategoryIDs, b.LabelIDs
	if categories == nil {
		categories = []int32{}
	}
	if labels == nil {
		labels = []int32{}
	}
	return BudgetResponse{
		ID:          b.ID,
		Name:        b.Name,
		Value:       b.Value.StringFixed(2),
		StartDate:   b.StartDate.Format(budgetDateLayout),
		EndDate:     b.EndDate.Format(budgetDateLayout),
		CategoryIDs: categories,
		LabelIDs:    labels,
	}
}
