package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/util"
	"github.com/moneyflow/moneyflow-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget-related business logic
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.CategoryRepository
	labelRepo       domain.LabelRepository
	walletRepo      domain.WalletRepository
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
	labelRepo domain.LabelRepository,
	walletRepo domain.WalletRepository,
	transactionRepo domain.TransactionRepository,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		labelRepo:       labelRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		publisher:       &websocket.NoOpPublisher{},
	}
}

// SetEventPublisher sets the event publisher for budget notifications
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	Name        string
	Value       decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	CategoryIDs []int32
	LabelIDs    []int32
}

// CreateBudget creates a budget owned by the user
func (s *BudgetService) CreateBudget(userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	budget := &domain.Budget{
		UserID:      userID,
		Name:        input.Name,
		Value:       input.Value,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CategoryIDs: input.CategoryIDs,
		LabelIDs:    input.LabelIDs,
	}
	if err := s.validate(userID, budget); err != nil {
		return nil, err
	}

	created, err := s.budgetRepo.Create(budget)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget")
		return nil, err
	}
	return created, nil
}

// GetBudgets lists the user's budgets
func (s *BudgetService) GetBudgets(userID uuid.UUID) ([]*domain.Budget, error) {
	return s.budgetRepo.ListForUser(userID)
}

// GetBudgetByID retrieves a budget owned by the user
func (s *BudgetService) GetBudgetByID(userID uuid.UUID, id int32) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if budget.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return budget, nil
}

// UpdateBudget applies a partial update
func (s *BudgetService) UpdateBudget(userID uuid.UUID, id int32, patch domain.BudgetPatch) (*domain.Budget, error) {
	budget, err := s.GetBudgetByID(userID, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*budget)
	if err := s.validate(userID, &updated); err != nil {
		return nil, err
	}

	saved, err := s.budgetRepo.Update(&updated)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(userID, websocket.BudgetUpdated(saved))
	return saved, nil
}

// DeleteBudget deletes a budget owned by the user
func (s *BudgetService) DeleteBudget(userID uuid.UUID, id int32) error {
	if _, err := s.GetBudgetByID(userID, id); err != nil {
		return err
	}
	return s.budgetRepo.Delete(id)
}

// GetProgress sums the EXPENSE transactions of the user's wallets that fall
// in the budget window (whole days, UTC) and match one of its categories or labels
func (s *BudgetService) GetProgress(userID uuid.UUID, id int32) (*domain.BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, id)
	if err != nil {
		return nil, err
	}

	progress := &domain.BudgetProgress{
		BudgetID:  budget.ID,
		Target:    budget.Value,
		Spent:     decimal.Zero,
		Remaining: budget.Value,
	}

	wallets, err := s.walletRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return progress, nil
	}
	walletIDs := make([]int32, len(wallets))
	for i, w := range wallets {
		walletIDs[i] = w.ID
	}

	expense := domain.TransactionTypeExpense
	start := util.StartOfDay(budget.StartDate, time.UTC)
	transactions, err := s.transactionRepo.FindMatching(domain.ReportFilter{
		WalletIDs: walletIDs,
		Type:      &expense,
		StartDate: &start,
		EndDate:   util.StartOfDay(budget.EndDate, time.UTC).Add(24*time.Hour - time.Second),
	})
	if err != nil {
		log.Error().Err(err).Int32("budget_id", id).Msg("Failed to load budget transactions")
		return nil, err
	}

	for _, t := range transactions {
		if budget.Covers(t) {
			progress.Spent = progress.Spent.Add(t.Value)
		}
	}
	progress.Remaining = budget.Value.Sub(progress.Spent)
	return progress, nil
}

func (s *BudgetService) validate(userID uuid.UUID, b *domain.Budget) error {
	name, err := normalizeName(b.Name)
	if err != nil {
		return err
	}
	b.Name = name

	if b.Value.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return domain.ErrInvalidDate
	}
	if b.StartDate.After(b.EndDate) {
		return domain.ErrInvalidDateWindow
	}

	for _, id := range b.CategoryIDs {
		category, err := s.categoryRepo.GetByID(id)
		if err != nil {
			return err
		}
		if !category.VisibleTo(userID) {
			return domain.ErrForbidden
		}
	}
	for _, id := range b.LabelIDs {
		label, err := s.labelRepo.GetByID(id)
		if err != nil {
			return err
		}
		if label.UserID != userID {
			return domain.ErrForbidden
		}
	}

	if b.CategoryIDs == nil {
		b.CategoryIDs = []int32{}
	}
	if b.LabelIDs == nil {
		b.LabelIDs = []int32{}
	}
	return nil
}
