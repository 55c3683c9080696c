package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/middleware"
	"github.com/moneyflow/moneyflow-backend/internal/service"
)

// ReportHandler serves the aggregate reports
type ReportHandler struct {
	reportService *service.ReportService
	chartService  *service.ChartService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, chartService *service.ChartService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		chartService:  chartService,
	}
}

// SpendingFlow handles GET /api/v1/reports/spending-flow
func (h *ReportHandler) SpendingFlow(c echo.Context) error {
	req, invalid := parseReportRequest(c)
	if invalid != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*invalid})
	}

	report, err := h.reportService.BuildSpendingFlowReport(middleware.GetUserID(c), *req)
	if err != nil {
		return handleServiceError(c, err, "Failed to build spending flow report")
	}
	return c.JSON(http.StatusOK, report)
}

// SpendingFlowChart handles GET /api/v1/reports/spending-flow/chart and returns a PNG
func (h *ReportHandler) SpendingFlowChart(c echo.Context) error {
	req, invalid := parseReportRequest(c)
	if invalid != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*invalid})
	}

	report, err := h.reportService.BuildSpendingFlowReport(middleware.GetUserID(c), *req)
	if err != nil {
		return handleServiceError(c, err, "Failed to build spending flow report")
	}

	png, err := h.chartService.RenderSpendingFlow(report)
	if err != nil {
		if errors.Is(err, service.ErrNothingToPlot) {
			return NewNotFoundError(c, "Report has no data to plot")
		}
		return handleServiceError(c, err, "Failed to render chart")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// CategoryBreakdown handles GET /api/v1/reports/category-breakdown
func (h *ReportHandler) CategoryBreakdown(c echo.Context) error {
	req, invalid := parseReportRequest(c)
	if invalid != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*invalid})
	}

	report, err := h.reportService.BuildCategoryBreakdownReport(middleware.GetUserID(c), *req)
	if err != nil {
		return handleServiceError(c, err, "Failed to build category breakdown report")
	}
	return c.JSON(http.StatusOK, report)
}

// parseReportRequest reads the report query parameters. Dates, timezone and
// type are validated by the report service.
func parseReportRequest(c echo.Context) (*domain.ReportRequest, *ValidationError) {
	walletIDs, err := parseIDList(c.QueryParam("walletIds"))
	if err != nil {
		return nil, &ValidationError{Field: "walletIds", Message: "Must be a comma separated list of ids"}
	}
	categoryIDs, err := parseIDList(c.QueryParam("categoryIds"))
	if err != nil {
		return nil, &ValidationError{Field: "categoryIds", Message: "Must be a comma separated list of ids"}
	}

	req := &domain.ReportRequest{
		WalletIDs:   walletIDs,
		CategoryIDs: categoryIDs,
	}
	if raw := c.QueryParam("type"); raw != "" {
		txType := domain.TransactionType(raw)
		req.Type = &txType
	}
	if raw := c.QueryParam("startDate"); raw != "" {
		req.StartDate = &raw
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		req.EndDate = &raw
	}
	if raw := c.QueryParam("timezone"); raw != "" {
		req.Timezone = &raw
	}
	if raw := c.QueryParam("signed"); raw != "" {
		signed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &ValidationError{Field: "signed", Message: "Must be true or false"}
		}
		req.Signed = signed
	}
	return req, nil
}
