package service

import (
	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
)

// LabelService handles label-related business logic
type LabelService struct {
	labelRepo domain.LabelRepository
}

// NewLabelService creates a new LabelService
func NewLabelService(labelRepo domain.LabelRepository) *LabelService {
	return &LabelService{labelRepo: labelRepo}
}

func (s *LabelService) CreateLabel(userID uuid.UUID, name, color string) (*domain.Label, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}
	return s.labelRepo.Create(&domain.Label{UserID: userID, Name: name, Color: color})
}

func (s *LabelService) GetLabels(userID uuid.UUID) ([]*domain.Label, error) {
	return s.labelRepo.ListForUser(userID)
}

func (s *LabelService) GetLabelByID(userID uuid.UUID, id int32) (*domain.Label, error) {
	label, err := s.labelRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if label.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return label, nil
}

func (s *LabelService) UpdateLabel(userID uuid.UUID, id int32, patch domain.LabelPatch) (*domain.Label, error) {
	label, err := s.GetLabelByID(userID, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*label)
	if updated.Name, err = normalizeName(updated.Name); err != nil {
		return nil, err
	}
	if err := validateColor(updated.Color); err != nil {
		return nil, err
	}
	return s.labelRepo.Update(&updated)
}

// DeleteLabel removes a label and its links to transactions and budgets
func (s *LabelService) DeleteLabel(userID uuid.UUID, id int32) error {
	if _, err := s.GetLabelByID(userID, id); err != nil {
		return err
	}
	return s.labelRepo.Delete(id)
}
