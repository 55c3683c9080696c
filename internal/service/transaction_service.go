package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo   domain.TransactionRepository
	walletRepo        domain.WalletRepository
	categoryRepo      domain.CategoryRepository
	labelRepo         domain.LabelRepository
	balance           *BalanceService
	publisher         websocket.EventPublisher
	recomputeOnDelete bool
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	walletRepo domain.WalletRepository,
	categoryRepo domain.CategoryRepository,
	labelRepo domain.LabelRepository,
	balance *BalanceService,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		categoryRepo:    categoryRepo,
		labelRepo:       labelRepo,
		balance:         balance,
		publisher:       &websocket.NoOpPublisher{},
	}
}

// SetEventPublisher sets the event publisher for transaction notifications
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// SetRecomputeOnDelete toggles the balance recompute after a deletion
func (s *TransactionService) SetRecomputeOnDelete(enabled bool) {
	s.recomputeOnDelete = enabled
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	WalletID         int32
	ReceiverWalletID *int32
	CategoryID       *int32
	LabelIDs         []int32
	Description      string
	Value            decimal.Decimal
	Type             domain.TransactionType
	Date             *time.Time
}

// CreateTransaction validates and stores a transaction, then recomputes the
// source wallet. A recompute failure is returned alongside the stored
// transaction, wrapped in domain.ErrBalanceRecompute.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	date := time.Now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}

	transaction := &domain.Transaction{
		WalletID:         input.WalletID,
		ReceiverWalletID: input.ReceiverWalletID,
		CategoryID:       input.CategoryID,
		LabelIDs:         input.LabelIDs,
		Description:      input.Description,
		Value:            input.Value,
		Type:             input.Type,
		Date:             date,
	}
	if err := s.validate(userID, transaction); err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int32("wallet_id", input.WalletID).Msg("Failed to create transaction")
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionCreated(created))
	return created, s.recompute(created.WalletID)
}

// GetTransaction retrieves a transaction recorded on one of the user's wallets
func (s *TransactionService) GetTransaction(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedWallet(userID, transaction.WalletID); err != nil {
		return nil, err
	}
	return transaction, nil
}

// ListTransactions lists transactions across all wallets of the user
func (s *TransactionService) ListTransactions(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters != nil && filters.WalletID != nil {
		if _, err := s.ownedWallet(userID, *filters.WalletID); err != nil {
			return nil, err
		}
	}

	wallets, err := s.walletRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}
	walletIDs := make([]int32, len(wallets))
	for i, w := range wallets {
		walletIDs[i] = w.ID
	}

	return s.transactionRepo.ListByWallets(walletIDs, filters)
}

// UpdateTransaction applies a partial update. Both the previous and the new
// source wallet are recomputed when the transaction moves between wallets.
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id int32, patch domain.TransactionPatch) (*domain.Transaction, error) {
	existing, err := s.GetTransaction(userID, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*existing)
	updated.Date = updated.Date.UTC()
	if err := s.validate(userID, &updated); err != nil {
		return nil, err
	}

	saved, err := s.transactionRepo.Update(&updated)
	if err != nil {
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to update transaction")
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionUpdated(saved))

	affected := []int32{saved.WalletID}
	if existing.WalletID != saved.WalletID {
		affected = append(affected, existing.WalletID)
	}
	return saved, s.recompute(affected...)
}

// DeleteTransaction removes a transaction. The wallet balance is only
// recomputed when recompute-on-delete is enabled.
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id int32) error {
	existing, err := s.GetTransaction(userID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(id); err != nil {
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return err
	}

	s.publisher.Publish(userID, websocket.TransactionDeleted(map[string]interface{}{
		"id":       existing.ID,
		"walletId": existing.WalletID,
	}))

	if !s.recomputeOnDelete {
		return nil
	}
	return s.recompute(existing.WalletID)
}

// recompute refreshes every listed wallet balance. A failure on one wallet
// does not skip the others; all failures are joined.
func (s *TransactionService) recompute(walletIDs ...int32) error {
	var errs []error
	for _, walletID := range walletIDs {
		if _, err := s.balance.RecomputeWalletBalance(walletID); err != nil {
			log.Warn().Err(err).Int32("wallet_id", walletID).Msg("Wallet balance recompute failed after transaction write")
			if !errors.Is(err, domain.ErrBalanceRecompute) {
				err = fmt.Errorf("%w: %w", domain.ErrBalanceRecompute, err)
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// validate normalizes and checks a transaction about to be written
func (s *TransactionService) validate(userID uuid.UUID, t *domain.Transaction) error {
	t.Description = strings.TrimSpace(t.Description)
	if t.Description == "" {
		return domain.ErrDescriptionRequired
	}
	if len(t.Description) > domain.MaxDescriptionLength {
		return domain.ErrDescriptionTooLong
	}

	if t.Value.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return domain.ErrInvalidTransactionType
	}

	if _, err := s.ownedWallet(userID, t.WalletID); err != nil {
		return err
	}

	if t.Type == domain.TransactionTypeTransfer {
		if t.ReceiverWalletID == nil {
			return domain.ErrReceiverRequired
		}
		if *t.ReceiverWalletID == t.WalletID {
			return domain.ErrSameWallet
		}
		if _, err := s.ownedWallet(userID, *t.ReceiverWalletID); err != nil {
			return err
		}
	} else {
		t.ReceiverWalletID = nil
	}

	if t.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(*t.CategoryID)
		if err != nil {
			return err
		}
		if !category.VisibleTo(userID) {
			return domain.ErrForbidden
		}
	}

	for _, labelID := range t.LabelIDs {
		label, err := s.labelRepo.GetByID(labelID)
		if err != nil {
			return err
		}
		if label.UserID != userID {
			return domain.ErrForbidden
		}
	}
	if t.LabelIDs == nil {
		t.LabelIDs = []int32{}
	}

	return nil
}

func (s *TransactionService) ownedWallet(userID uuid.UUID, walletID int32) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return wallet, nil
}
