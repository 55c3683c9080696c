package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	IsNewUser bool
}

// AuthenticateUser handles the login callback from the identity provider,
// creating the local user on first sight
func (s *AuthService) AuthenticateUser(externalID, email string, name *string) (*AuthResult, error) {
	existing, err := s.userRepo.GetByExternalID(externalID)
	if err == nil {
		log.Info().Str("user_id", existing.ID.String()).Msg("Existing user authenticated")
		return &AuthResult{User: existing}, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		log.Error().Err(err).Str("external_id", externalID).Msg("Failed to get user")
		return nil, err
	}

	user, err := s.userRepo.CreateOrGetByExternalID(externalID, email, name)
	if err != nil {
		log.Error().Err(err).Str("external_id", externalID).Msg("Failed to create or get user")
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("Created new user")
	return &AuthResult{User: user, IsNewUser: true}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByExternalID retrieves a user by identity provider subject
func (s *AuthService) GetUserByExternalID(externalID string) (*domain.User, error) {
	return s.userRepo.GetByExternalID(externalID)
}

// GetUserIDByExternalID resolves the local user ID of an identity provider subject
func (s *AuthService) GetUserIDByExternalID(externalID string) (uuid.UUID, error) {
	user, err := s.userRepo.GetByExternalID(externalID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
