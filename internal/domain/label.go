package domain

import (
	"time"

	"github.com/google/uuid"
)

type Label struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LabelPatch struct {
	Name  Optional[string] `json:"name"`
	Color Optional[string] `json:"color"`
}

func (p LabelPatch) Apply(l Label) Label {
	l.Name = p.Name.Or(l.Name)
	l.Color = p.Color.Or(l.Color)
	return l
}

type LabelRepository interface {
	Create(label *Label) (*Label, error)
	GetByID(id int32) (*Label, error)
	ListForUser(userID uuid.UUID) ([]*Label, error)
	Update(label *Label) (*Label, error)
	Delete(id int32) error
}
