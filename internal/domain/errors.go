package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInternalError          = errors.New("internal error")
	ErrUserNotFound           = errors.New("user not found")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrLabelNotFound          = errors.New("label not found")
	ErrBudgetNotFound         = errors.New("budget not found")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
	ErrInvalidColor           = errors.New("invalid color")
	ErrGlobalCategory         = errors.New("global categories are read-only")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrReceiverRequired       = errors.New("transfers require a receiver wallet")
	ErrSameWallet             = errors.New("receiver wallet must differ from source wallet")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidTimezone        = errors.New("invalid timezone")
	ErrInvalidDateWindow      = errors.New("start date must not be after end date")
	ErrReportWindowTooLong    = errors.New("report window is too long")
	ErrWalletsRequired        = errors.New("at least one wallet is required")
	ErrBalanceRecompute       = errors.New("wallet balance recompute failed")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 255
)
