package service

import (
	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// WalletService handles wallet-related business logic
type WalletService struct {
	walletRepo domain.WalletRepository
}

// NewWalletService creates a new WalletService
func NewWalletService(walletRepo domain.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

// CreateWalletInput holds the input for creating a wallet
type CreateWalletInput struct {
	Name          string
	Color         string
	InitialAmount decimal.Decimal
}

// CreateWallet creates a wallet whose cached amount starts at the initial amount
func (s *WalletService) CreateWallet(userID uuid.UUID, input CreateWalletInput) (*domain.Wallet, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validateColor(input.Color); err != nil {
		return nil, err
	}

	wallet := &domain.Wallet{
		UserID:        userID,
		Name:          name,
		Color:         input.Color,
		Amount:        input.InitialAmount,
		InitialAmount: input.InitialAmount,
	}

	created, err := s.walletRepo.Create(wallet)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create wallet")
		return nil, err
	}
	return created, nil
}

// GetWallets retrieves all wallets of a user
func (s *WalletService) GetWallets(userID uuid.UUID) ([]*domain.Wallet, error) {
	return s.walletRepo.GetAllByUser(userID)
}

// GetWalletByID retrieves a wallet owned by the user
func (s *WalletService) GetWalletByID(userID uuid.UUID, id int32) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !wallet.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return wallet, nil
}

// UpdateWallet applies a partial update to name and color
func (s *WalletService) UpdateWallet(userID uuid.UUID, id int32, patch domain.WalletPatch) (*domain.Wallet, error) {
	wallet, err := s.GetWalletByID(userID, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*wallet)
	if updated.Name, err = normalizeName(updated.Name); err != nil {
		return nil, err
	}
	if err := validateColor(updated.Color); err != nil {
		return nil, err
	}

	return s.walletRepo.Save(&updated)
}

// DeleteWallet deletes a wallet together with its transactions
func (s *WalletService) DeleteWallet(userID uuid.UUID, id int32) error {
	if _, err := s.GetWalletByID(userID, id); err != nil {
		return err
	}
	return s.walletRepo.Delete(id)
}
