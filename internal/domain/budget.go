package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a spending target over a date window, tagged with categories and labels
type Budget struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Name        string          `json:"name"`
	Value       decimal.Decimal `json:"value"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	CategoryIDs []int32         `json:"categoryIds"`
	LabelIDs    []int32         `json:"labelIds"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Covers reports whether a transaction's category or labels tie it to the budget.
// The date window is applied by the caller.
func (b *Budget) Covers(t *Transaction) bool {
	if t.CategoryID != nil {
		for _, id := range b.CategoryIDs {
			if id == *t.CategoryID {
				return true
			}
		}
	}
	return t.HasLabel(b.LabelIDs)
}

type BudgetPatch struct {
	Name        Optional[string]          `json:"name"`
	Value       Optional[decimal.Decimal] `json:"value"`
	StartDate   Optional[time.Time]       `json:"startDate"`
	EndDate     Optional[time.Time]       `json:"endDate"`
	CategoryIDs Optional[[]int32]         `json:"categoryIds"`
	LabelIDs    Optional[[]int32]         `json:"labelIds"`
}

func (p BudgetPatch) Apply(b Budget) Budget {
	b.Name = p.Name.Or(b.Name)
	b.Value = p.Value.Or(b.Value)
	b.StartDate = p.StartDate.Or(b.StartDate)
	b.EndDate = p.EndDate.Or(b.EndDate)
	if p.CategoryIDs.Set {
		b.CategoryIDs = append([]int32(nil), p.CategoryIDs.Value...)
	}
	if p.LabelIDs.Set {
		b.LabelIDs = append([]int32(nil), p.LabelIDs.Value...)
	}
	return b
}

// BudgetProgress holds spending against a budget's target
type BudgetProgress struct {
	BudgetID  int32           `json:"budgetId"`
	Target    decimal.Decimal `json:"target"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(id int32) (*Budget, error)
	ListForUser(userID uuid.UUID) ([]*Budget, error)
	Update(budget *Budget) (*Budget, error)
	Delete(id int32) error
}
