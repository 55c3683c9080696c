package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID            int32           `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	Color         string          `json:"color"`
	Amount        decimal.Decimal `json:"amount"`
	InitialAmount decimal.Decimal `json:"initialAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// OwnedBy reports whether the wallet belongs to userID
func (w *Wallet) OwnedBy(userID uuid.UUID) bool {
	return w.UserID == userID
}

// WalletPatch is a partial wallet update. Amount is derived and never patched.
type WalletPatch struct {
	Name  Optional[string] `json:"name"`
	Color Optional[string] `json:"color"`
}

// Apply returns a copy of w with the present patch fields applied
func (p WalletPatch) Apply(w Wallet) Wallet {
	w.Name = p.Name.Or(w.Name)
	w.Color = p.Color.Or(w.Color)
	return w
}

type WalletRepository interface {
	Create(wallet *Wallet) (*Wallet, error)
	GetByID(id int32) (*Wallet, error)
	GetAllByUser(userID uuid.UUID) ([]*Wallet, error)
	Save(wallet *Wallet) (*Wallet, error)
	Delete(id int32) error
	GetTransactions(walletID int32) ([]*Transaction, error)
}
