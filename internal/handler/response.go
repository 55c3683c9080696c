package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://moneyflow.app/errors/validation"
	ErrorTypeNotFound     = "https://moneyflow.app/errors/not-found"
	ErrorTypeUnauthorized = "https://moneyflow.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://moneyflow.app/errors/forbidden"
	ErrorTypeConflict     = "https://moneyflow.app/errors/conflict"
	ErrorTypeInternal     = "https://moneyflow.app/errors/internal"
	ErrorTypeUnavailable  = "https://moneyflow.app/errors/unavailable"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldErrors maps validation sentinels to the request field they concern
var fieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrNameRequired, "name", "Name is required"},
	{domain.ErrNameTooLong, "name", "Name must be 255 characters or less"},
	{domain.ErrDescriptionRequired, "description", "Description is required"},
	{domain.ErrDescriptionTooLong, "description", "Description must be 255 characters or less"},
	{domain.ErrInvalidColor, "color", "Color must be a hex value like #a1b2c3"},
	{domain.ErrInvalidAmount, "value", "Value must be greater than zero"},
	{domain.ErrInvalidTransactionType, "type", "Type must be one of: INCOME, EXPENSE, TRANSFER"},
	{domain.ErrReceiverRequired, "receiverWalletId", "Transfers require a receiver wallet"},
	{domain.ErrSameWallet, "receiverWalletId", "Receiver wallet must differ from the source wallet"},
	{domain.ErrInvalidDate, "date", "Dates must use the format YYYY-MM-DD HH:MM:SS"},
	{domain.ErrInvalidTimezone, "timezone", "Unknown timezone"},
	{domain.ErrInvalidDateWindow, "endDate", "Start date must not be after end date"},
	{domain.ErrReportWindowTooLong, "startDate", fmt.Sprintf("Reports cover at most %d days", service.MaxReportDays)},
	{domain.ErrWalletsRequired, "walletIds", "At least one wallet is required"},
	{service.ErrIconTooLarge, "file", "File too large. Maximum size is 2MB"},
	{service.ErrInvalidIconFormat, "file", "Invalid format. Supported: JPEG, PNG, GIF"},
	{service.ErrIconTooSmall, "file", "Image too small. Minimum 16x16 pixels"},
	{service.ErrInvalidIconData, "file", "Invalid image data"},
}

var notFoundErrors = []error{
	domain.ErrNotFound,
	domain.ErrUserNotFound,
	domain.ErrWalletNotFound,
	domain.ErrTransactionNotFound,
	domain.ErrCategoryNotFound,
	domain.ErrLabelNotFound,
	domain.ErrBudgetNotFound,
}

// handleServiceError turns a service error into a problem details response.
// Unexpected errors are logged and reported as internal errors with the given detail.
func handleServiceError(c echo.Context, err error, internalDetail string) error {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: fe.field, Message: fe.message},
			})
		}
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return NewValidationError(c, err.Error(), nil)
	}
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			return NewNotFoundError(c, capitalize(nf.Error()))
		}
	}
	switch {
	case errors.Is(err, domain.ErrGlobalCategory):
		return NewForbiddenError(c, "Global categories are read-only")
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, "Resource belongs to another user")
	case errors.Is(err, service.ErrIconStorageNotConfigured):
		return NewServiceUnavailableError(c, "Icon uploads are disabled (storage not configured)")
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(internalDetail)
	return NewInternalError(c, internalDetail)
}

// balanceOnly reports whether err only signals a failed wallet recompute after
// the write itself succeeded. The write is then reported as successful.
func balanceOnly(c echo.Context, err error) bool {
	if err == nil || !errors.Is(err, domain.ErrBalanceRecompute) {
		return false
	}
	log.Warn().Err(err).Str("path", c.Request().URL.Path).Msg("Write succeeded but wallet balance is stale")
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
