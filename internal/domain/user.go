package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system. Credentials live in the identity provider;
// ExternalID is the provider's subject claim.
type User struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"externalId"`
	Email      string    `json:"email"`
	Name       *string   `json:"name"`
	Roles      []string  `json:"roles"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const RoleUser = "ROLE_USER"

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByExternalID(externalID string) (*User, error)
	CreateOrGetByExternalID(externalID, email string, name *string) (*User, error)
}
