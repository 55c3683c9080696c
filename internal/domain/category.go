package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups transactions. A nil UserID marks a global category shared by everyone.
type Category struct {
	ID               int32           `json:"id"`
	UserID           *uuid.UUID      `json:"userId,omitempty"`
	Name             string          `json:"name"`
	Color            string          `json:"color"`
	Icon             *string         `json:"icon,omitempty"`
	TransactionCount int64           `json:"transactionCount"`
	Balance          decimal.Decimal `json:"balance"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// IsGlobal reports whether the category is shared rather than user-owned
func (c *Category) IsGlobal() bool {
	return c.UserID == nil
}

// VisibleTo reports whether userID may reference the category
func (c *Category) VisibleTo(userID uuid.UUID) bool {
	return c.UserID == nil || *c.UserID == userID
}

type CategoryPatch struct {
	Name  Optional[string]  `json:"name"`
	Color Optional[string]  `json:"color"`
	Icon  Optional[*string] `json:"icon"`
}

// Apply returns a copy of c with the present patch fields applied
func (p CategoryPatch) Apply(c Category) Category {
	c.Name = p.Name.Or(c.Name)
	c.Color = p.Color.Or(c.Color)
	c.Icon = p.Icon.Or(c.Icon)
	return c
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(id int32) (*Category, error)
	// ListForUser returns global categories followed by the user's own, ordered by id
	ListForUser(userID uuid.UUID) ([]*Category, error)
	Update(category *Category) (*Category, error)
	Delete(id int32) error
}
