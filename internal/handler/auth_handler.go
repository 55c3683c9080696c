package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/middleware"
	"github.com/moneyflow/moneyflow-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// AuthCallbackResponse represents the response from the auth callback
type AuthCallbackResponse struct {
	User      UserResponse `json:"user"`
	IsNewUser bool         `json:"isNewUser"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  *string  `json:"name"`
	Roles []string `json:"roles"`
}

// Callback handles the identity provider callback after successful authentication.
// It creates the local user on first login.
// POST /auth/callback
func (h *AuthHandler) Callback(c echo.Context) error {
	externalID := middleware.GetExternalID(c)
	if externalID == "" {
		log.Error().Msg("No external ID in context - middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	customClaims := middleware.GetCustomClaims(c)
	var email, name string
	if customClaims != nil {
		email = customClaims.Email
		name = customClaims.Name
	}

	if email == "" {
		log.Error().Str("external_id", externalID).Msg("No email in JWT claims")
		return NewValidationError(c, "Email is required for authentication", []ValidationError{
			{Field: "email", Message: "Email claim is missing from token"},
		})
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}

	result, err := h.authService.AuthenticateUser(externalID, email, namePtr)
	if err != nil {
		log.Error().Err(err).Str("external_id", externalID).Msg("Failed to authenticate user")
		return NewInternalError(c, "Failed to authenticate user")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		User:      toUserResponse(result.User),
		IsNewUser: result.IsNewUser,
	})
}

// Me returns the current authenticated user's information
// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to get user")
	}
	return c.JSON(http.StatusOK, AuthCallbackResponse{User: toUserResponse(user)})
}

// LogoutResponse represents the response from logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// Logout handles user logout. Sessions live in the identity provider.
// POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	log.Info().Str("user_id", middleware.GetUserID(c).String()).Msg("User logged out")

	return c.JSON(http.StatusOK, LogoutResponse{
		Message: "Logged out successfully",
	})
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Roles: u.Roles,
	}
}
