package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BalanceService keeps the cached wallet amount in line with the wallet's transactions
type BalanceService struct {
	walletRepo domain.WalletRepository
	publisher  websocket.EventPublisher
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(walletRepo domain.WalletRepository) *BalanceService {
	return &BalanceService{
		walletRepo: walletRepo,
		publisher:  &websocket.NoOpPublisher{},
	}
}

// SetEventPublisher sets the event publisher for wallet.updated notifications
func (s *BalanceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// RecomputeWalletBalance replaces the wallet amount with the signed sum of
// the transactions recorded on it. EXPENSE debits; INCOME and TRANSFER
// credit. The receiver side of a transfer is not summed here.
func (s *BalanceService) RecomputeWalletBalance(walletID int32) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(walletID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.walletRepo.GetTransactions(walletID)
	if err != nil {
		return nil, fmt.Errorf("%w: load transactions: %w", domain.ErrBalanceRecompute, err)
	}

	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.SignedValue())
	}
	wallet.Amount = total

	saved, err := s.walletRepo.Save(wallet)
	if err != nil {
		return nil, fmt.Errorf("%w: save wallet %d: %w", domain.ErrBalanceRecompute, walletID, err)
	}

	log.Debug().
		Int32("wallet_id", walletID).
		Int("transactions", len(transactions)).
		Str("amount", total.String()).
		Msg("Wallet balance recomputed")

	s.publisher.Publish(saved.UserID, websocket.WalletUpdated(saved))
	return saved, nil
}

// RecomputeOwned recomputes a wallet after checking it belongs to userID
func (s *BalanceService) RecomputeOwned(userID uuid.UUID, walletID int32) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return s.RecomputeWalletBalance(walletID)
}
