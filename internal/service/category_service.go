package service

import (
	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CategoryService handles category-related business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	publisher    websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		publisher:    &websocket.NoOpPublisher{},
	}
}

// SetEventPublisher sets the event publisher for category notifications
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// CreateCategory creates a category owned by the user
func (s *CategoryService) CreateCategory(userID uuid.UUID, name, color string) (*domain.Category, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}

	owner := userID
	category, err := s.categoryRepo.Create(&domain.Category{
		UserID: &owner,
		Name:   name,
		Color:  color,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create category")
		return nil, err
	}
	return category, nil
}

// GetCategories lists the global categories followed by the user's own
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.ListForUser(userID)
}

// GetCategoryByID retrieves a category visible to the user
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !category.VisibleTo(userID) {
		return nil, domain.ErrForbidden
	}
	return category, nil
}

// UpdateCategory applies a partial update to one of the user's own categories
func (s *CategoryService) UpdateCategory(userID uuid.UUID, id int32, patch domain.CategoryPatch) (*domain.Category, error) {
	category, err := s.ownedCategory(userID, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*category)
	if updated.Name, err = normalizeName(updated.Name); err != nil {
		return nil, err
	}
	if err := validateColor(updated.Color); err != nil {
		return nil, err
	}

	saved, err := s.categoryRepo.Update(&updated)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(userID, websocket.CategoryUpdated(saved))
	return saved, nil
}

// DeleteCategory deletes one of the user's own categories. Transactions keep
// existing with no category.
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id int32) error {
	if _, err := s.ownedCategory(userID, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}

// ownedCategory returns a category the user may modify; global ones are read-only
func (s *CategoryService) ownedCategory(userID uuid.UUID, id int32) (*domain.Category, error) {
	category, err := s.GetCategoryByID(userID, id)
	if err != nil {
		return nil, err
	}
	if category.IsGlobal() {
		return nil, domain.ErrGlobalCategory
	}
	return category, nil
}
