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

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	WalletID         int32   `json:"walletId"`
	ReceiverWalletID *int32  `json:"receiverWalletId,omitempty"`
	CategoryID       *int32  `json:"categoryId,omitempty"`
	LabelIDs         []int32 `json:"labelIds,omitempty"`
	Description      string  `json:"description"`
	Value            string  `json:"value"`
	Type             string  `json:"type"`
	Date             *string `json:"date,omitempty"`
}

// UpdateTransactionRequest is a partial update; absent fields are left untouched
type UpdateTransactionRequest struct {
	Description      domain.Optional[string]  `json:"description"`
	Value            domain.Optional[string]  `json:"value"`
	Type             domain.Optional[string]  `json:"type"`
	Date             domain.Optional[string]  `json:"date"`
	WalletID         domain.Optional[int32]   `json:"walletId"`
	ReceiverWalletID domain.Optional[*int32]  `json:"receiverWalletId"`
	CategoryID       domain.Optional[*int32]  `json:"categoryId"`
	LabelIDs         domain.Optional[[]int32] `json:"labelIds"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID               int32   `json:"id"`
	WalletID         int32   `json:"walletId"`
	ReceiverWalletID *int32  `json:"receiverWalletId,omitempty"`
	CategoryID       *int32  `json:"categoryId,omitempty"`
	LabelIDs         []int32 `json:"labelIds"`
	Description      string  `json:"description"`
	Value            string  `json:"value"`
	Type             string  `json:"type"`
	Date             string  `json:"date"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents a page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.WalletID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "walletId", Message: "Wallet ID is required"},
		})
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return NewValidationError(c, "Invalid value", []ValidationError{
			{Field: "value", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseDateInput(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be RFC 3339, YYYY-MM-DD HH:MM:SS or YYYY-MM-DD"},
			})
		}
		date = &parsed
	}

	transaction, err := h.transactionService.CreateTransaction(userID, service.CreateTransactionInput{
		WalletID:         req.WalletID,
		ReceiverWalletID: req.ReceiverWalletID,
		CategoryID:       req.CategoryID,
		LabelIDs:         req.LabelIDs,
		Description:      req.Description,
		Value:            value,
		Type:             domain.TransactionType(req.Type),
		Date:             date,
	})
	if err != nil && !balanceOnly(c, err) {
		return handleServiceError(c, err, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	filters := &domain.TransactionFilters{
		Page:     parsePositiveInt(c.QueryParam("page"), 1),
		PageSize: parsePositiveInt(c.QueryParam("pageSize"), domain.DefaultPageSize),
	}

	var err error
	if filters.WalletID, err = parseOptionalID(c.QueryParam("walletId")); err != nil {
		return NewValidationError(c, "Invalid walletId", nil)
	}
	if filters.CategoryID, err = parseOptionalID(c.QueryParam("categoryId")); err != nil {
		return NewValidationError(c, "Invalid categoryId", nil)
	}
	if raw := c.QueryParam("type"); raw != "" {
		txType := domain.TransactionType(raw)
		if !txType.IsValid() {
			return handleServiceError(c, domain.ErrInvalidTransactionType, "")
		}
		filters.Type = &txType
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"startDate", &filters.StartDate},
		{"endDate", &filters.EndDate},
	} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		parsed, err := parseDateInput(raw)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: p.name, Message: "Must be RFC 3339, YYYY-MM-DD HH:MM:SS or YYYY-MM-DD"},
			})
		}
		*p.dst = &parsed
	}

	result, err := h.transactionService.ListTransactions(middleware.GetUserID(c), filters)
	if err != nil {
		return handleServiceError(c, err, "Failed to list transactions")
	}

	response := PaginatedTransactionsResponse{
		Data:       make([]TransactionResponse, len(result.Data)),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
	for i, tx := range result.Data {
		response.Data[i] = toTransactionResponse(tx)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction handles PATCH /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	patch := domain.TransactionPatch{
		Description:      req.Description,
		WalletID:         req.WalletID,
		ReceiverWalletID: req.ReceiverWalletID,
		CategoryID:       req.CategoryID,
		LabelIDs:         req.LabelIDs,
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
	if req.Type.Set {
		patch.Type = domain.Some(domain.TransactionType(req.Type.Value))
	}
	if req.Date.Set {
		date, err := parseDateInput(req.Date.Value)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be RFC 3339, YYYY-MM-DD HH:MM:SS or YYYY-MM-DD"},
			})
		}
		patch.Date = domain.Some(date)
	}

	transaction, err := h.transactionService.UpdateTransaction(middleware.GetUserID(c), id, patch)
	if err != nil && !balanceOnly(c, err) {
		return handleServiceError(c, err, "Failed to update transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	err = h.transactionService.DeleteTransaction(middleware.GetUserID(c), id)
	if err != nil && !balanceOnly(c, err) {
		return handleServiceError(c, err, "Failed to delete transaction")
	}
	return c.NoContent(http.StatusNoContent)
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	labels := t.LabelIDs
	if labels == nil {
		labels = []int32{}
	}
	return TransactionResponse{
		ID:               t.ID,
		WalletID:         t.WalletID,
		ReceiverWalletID: t.ReceiverWalletID,
		CategoryID:       t.CategoryID,
		LabelIDs:         labels,
		Description:      t.Description,
		Value:            t.Value.StringFixed(2),
		Type:             string(t.Type),
		Date:             t.Date.UTC().Format(time.RFC3339),
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        t.UpdatedAt.Format(time.RFC3339),
	}
}
