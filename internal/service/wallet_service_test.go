package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreateWallet_SeedsAmountFromInitialAmount(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository(testutil.NewMockTransactionRepository())
	service := NewWalletService(walletRepo)
	userID := uuid.New()

	wallet, err := service.CreateWallet(userID, CreateWalletInput{
		Name:          "  Main  ",
		Color:         "#12ab9F",
		InitialAmount: decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if wallet.Name != "Main" {
		t.Errorf("Expected trimmed name 'Main', got %q", wallet.Name)
	}
	if !wallet.Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected amount 250, got %s", wallet.Amount)
	}
	if wallet.UserID != userID {
		t.Errorf("Expected user %s, got %s", userID, wallet.UserID)
	}
}

func TestCreateWallet_Validation(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository(nil)
	service := NewWalletService(walletRepo)

	_, err := service.CreateWallet(uuid.New(), CreateWalletInput{Name: "", Color: "#000000"})
	if err != domain.ErrNameRequired {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	_, err = service.CreateWallet(uuid.New(), CreateWalletInput{Name: "Main", Color: "red"})
	if err != domain.ErrInvalidColor {
		t.Errorf("Expected ErrInvalidColor, got %v", err)
	}

	long := make([]byte, domain.MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = service.CreateWallet(uuid.New(), CreateWalletInput{Name: string(long), Color: "#000000"})
	if err != domain.ErrNameTooLong {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
}

func TestUpdateWallet_PatchKeepsAmount(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository(nil)
	service := NewWalletService(walletRepo)
	userID := uuid.New()
	walletRepo.AddWallet(&domain.Wallet{ID: 1, UserID: userID, Name: "Main", Color: "#000000", Amount: decimal.NewFromInt(35)})

	updated, err := service.UpdateWallet(userID, 1, domain.WalletPatch{Color: domain.Some("#ffffff")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Name != "Main" || updated.Color != "#ffffff" {
		t.Errorf("Unexpected wallet after patch: %+v", updated)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(35)) {
		t.Errorf("Expected amount to stay 35, got %s", updated.Amount)
	}
}

func TestWalletOwnership(t *testing.T) {
	walletRepo := testutil.NewMockWalletRepository(nil)
	service := NewWalletService(walletRepo)
	owner := uuid.New()
	walletRepo.AddWallet(&domain.Wallet{ID: 1, UserID: owner, Name: "Main", Color: "#000000"})

	if _, err := service.GetWalletByID(uuid.New(), 1); err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if _, err := service.GetWalletByID(owner, 2); err != domain.ErrWalletNotFound {
		t.Errorf("Expected ErrWalletNotFound, got %v", err)
	}
	if err := service.DeleteWallet(uuid.New(), 1); err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if err := service.DeleteWallet(owner, 1); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	wallets, err := service.GetWallets(owner)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(wallets) != 0 {
		t.Errorf("Expected no wallets after delete, got %d", len(wallets))
	}
}
