package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// IsValid reports whether t is one of the known transaction types
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

type Transaction struct {
	ID               int32           `json:"id"`
	WalletID         int32           `json:"walletId"`
	ReceiverWalletID *int32          `json:"receiverWalletId,omitempty"`
	CategoryID       *int32          `json:"categoryId,omitempty"`
	LabelIDs         []int32         `json:"labelIds"`
	Description      string          `json:"description"`
	Value            decimal.Decimal `json:"value"`
	Type             TransactionType `json:"type"`
	Date             time.Time       `json:"date"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// SignedValue is the transaction's contribution to its wallet balance.
// Only EXPENSE debits; TRANSFER credits the source wallet like INCOME.
func (t *Transaction) SignedValue() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Value.Neg()
	}
	return t.Value
}

// HasLabel reports whether the transaction carries any of the given labels
func (t *Transaction) HasLabel(labelIDs []int32) bool {
	for _, have := range t.LabelIDs {
		for _, want := range labelIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TransactionPatch is a partial transaction update
type TransactionPatch struct {
	Description      Optional[string]          `json:"description"`
	Value            Optional[decimal.Decimal] `json:"value"`
	Type             Optional[TransactionType] `json:"type"`
	Date             Optional[time.Time]       `json:"date"`
	WalletID         Optional[int32]           `json:"walletId"`
	ReceiverWalletID Optional[*int32]          `json:"receiverWalletId"`
	CategoryID       Optional[*int32]          `json:"categoryId"`
	LabelIDs         Optional[[]int32]         `json:"labelIds"`
}

// Apply returns a copy of t with the present patch fields applied
func (p TransactionPatch) Apply(t Transaction) Transaction {
	t.Description = p.Description.Or(t.Description)
	t.Value = p.Value.Or(t.Value)
	t.Type = p.Type.Or(t.Type)
	t.Date = p.Date.Or(t.Date)
	t.WalletID = p.WalletID.Or(t.WalletID)
	t.ReceiverWalletID = p.ReceiverWalletID.Or(t.ReceiverWalletID)
	t.CategoryID = p.CategoryID.Or(t.CategoryID)
	if p.LabelIDs.Set {
		t.LabelIDs = append([]int32(nil), p.LabelIDs.Value...)
	}
	return t
}

type TransactionFilters struct {
	WalletID   *int32
	CategoryID *int32
	Type       *TransactionType
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int32
	PageSize   int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// ReportFilter selects the raw transactions feeding a report. A nil StartDate
// leaves the window open towards the past.
type ReportFilter struct {
	WalletIDs   []int32
	CategoryIDs []int32
	Type        *TransactionType
	StartDate   *time.Time
	EndDate     time.Time
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(id int32) (*Transaction, error)
	ListByWallets(walletIDs []int32, filters *TransactionFilters) (*PaginatedTransactions, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(id int32) error
	FindMatching(filter ReportFilter) ([]*Transaction, error)
}
