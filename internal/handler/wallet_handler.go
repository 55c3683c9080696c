package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/middleware"
	"github.com/moneyflow/moneyflow-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService  *service.WalletService
	balanceService *service.BalanceService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *service.WalletService, balanceService *service.BalanceService) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		balanceService: balanceService,
	}
}

// CreateWalletRequest represents the create wallet request body
type CreateWalletRequest struct {
	Name          string `json:"name"`
	Color         string `json:"color"`
	InitialAmount string `json:"initialAmount"`
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID            int32  `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	Amount        string `json:"amount"`
	InitialAmount string `json:"initialAmount"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// CreateWallet handles POST /api/v1/wallets
func (h *WalletHandler) CreateWallet(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateWalletRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	initial := decimal.Zero
	if req.InitialAmount != "" {
		parsed, err := decimal.NewFromString(req.InitialAmount)
		if err != nil {
			return NewValidationError(c, "Invalid initial amount", []ValidationError{
				{Field: "initialAmount", Message: "Must be a valid decimal number"},
			})
		}
		initial = parsed
	}

	wallet, err := h.walletService.CreateWallet(userID, service.CreateWalletInput{
		Name:          req.Name,
		Color:         req.Color,
		InitialAmount: initial,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to create wallet")
	}

	log.Info().Str("user_id", userID.String()).Int32("wallet_id", wallet.ID).Msg("Wallet created")
	return c.JSON(http.StatusCreated, toWalletResponse(wallet))
}

// GetWallets handles GET /api/v1/wallets
func (h *WalletHandler) GetWallets(c echo.Context) error {
	wallets, err := h.walletService.GetWallets(middleware.GetUserID(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to get wallets")
	}

	response := make([]WalletResponse, len(wallets))
	for i, wallet := range wallets {
		response[i] = toWalletResponse(wallet)
	}
	return c.JSON(http.StatusOK, response)
}

// GetWallet handles GET /api/v1/wallets/:id
func (h *WalletHandler) GetWallet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	wallet, err := h.walletService.GetWalletByID(middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get wallet")
	}
	return c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// UpdateWallet handles PATCH /api/v1/wallets/:id
func (h *WalletHandler) UpdateWallet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	var patch domain.WalletPatch
	if err := c.Bind(&patch); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	wallet, err := h.walletService.UpdateWallet(middleware.GetUserID(c), id, patch)
	if err != nil {
		return handleServiceError(c, err, "Failed to update wallet")
	}
	return c.JSON(http.StatusOK, toWalletResponse(wallet))
}

// DeleteWallet handles DELETE /api/v1/wallets/:id
func (h *WalletHandler) DeleteWallet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	if err := h.walletService.DeleteWallet(middleware.GetUserID(c), id); err != nil {
		return handleServiceError(c, err, "Failed to delete wallet")
	}
	return c.NoContent(http.StatusNoContent)
}

// RecomputeBalance handles POST /api/v1/wallets/:id/recompute
func (h *WalletHandler) RecomputeBalance(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	wallet, err := h.balanceService.RecomputeOwned(middleware.GetUserID(c), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to recompute wallet balance")
	}
	return c.JSON(http.StatusOK, toWalletResponse(wallet))
}

func toWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:            w.ID,
		Name:          w.Name,
		Color:         w.Color,
		Amount:        w.Amount.StringFixed(2),
		InitialAmount: w.InitialAmount.StringFixed(2),
		CreatedAt:     w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     w.UpdatedAt.Format(time.RFC3339),
	}
}
