package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBalance(t *testing.T) (*BalanceService, *testutil.MockWalletRepository, *testutil.MockTransactionRepository, uuid.UUID) {
	t.Helper()
	transactionRepo := testutil.NewMockTransactionRepository()
	walletRepo := testutil.NewMockWalletRepository(transactionRepo)
	userID := uuid.New()
	walletRepo.AddWallet(&domain.Wallet{ID: 1, UserID: userID, Name: "Main", Color: "#000000"})
	walletRepo.AddWallet(&domain.Wallet{ID: 2, UserID: userID, Name: "Savings", Color: "#ffffff", Amount: testutil.Amount("7")})
	return NewBalanceService(walletRepo), walletRepo, transactionRepo, userID
}

func addTx(repo *testutil.MockTransactionRepository, id, walletID int32, typ domain.TransactionType, value string, date time.Time) *domain.Transaction {
	tx := &domain.Transaction{
		ID:          id,
		WalletID:    walletID,
		Description: "tx",
		Value:       testutil.Amount(value),
		Type:        typ,
		Date:        date,
	}
	repo.AddTransaction(tx)
	return tx
}

func TestRecomputeWalletBalance_MixedIncomeExpense(t *testing.T) {
	service, walletRepo, transactionRepo, _ := setupBalance(t)
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	addTx(transactionRepo, 1, 1, domain.TransactionTypeExpense, "10", day)
	addTx(transactionRepo, 2, 1, domain.TransactionTypeExpense, "5", day)
	addTx(transactionRepo, 3, 1, domain.TransactionTypeIncome, "50", day.AddDate(0, 0, 2))

	wallet, err := service.RecomputeWalletBalance(1)
	require.NoError(t, err)
	assert.True(t, wallet.Amount.Equal(testutil.Amount("35")), "got %s", wallet.Amount)
	assert.True(t, walletRepo.Wallets[1].Amount.Equal(testutil.Amount("35")))
	assert.Equal(t, 1, walletRepo.SaveCalls)
}

func TestRecomputeWalletBalance_Idempotent(t *testing.T) {
	service, walletRepo, transactionRepo, _ := setupBalance(t)
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	addTx(transactionRepo, 1, 1, domain.TransactionTypeIncome, "100.25", day)
	addTx(transactionRepo, 2, 1, domain.TransactionTypeExpense, "0.25", day)

	first, err := service.RecomputeWalletBalance(1)
	require.NoError(t, err)
	second, err := service.RecomputeWalletBalance(1)
	require.NoError(t, err)

	assert.True(t, first.Amount.Equal(second.Amount))
	assert.True(t, walletRepo.Wallets[1].Amount.Equal(testutil.Amount("100")))
}

func TestRecomputeWalletBalance_TransferCreditsSourceOnly(t *testing.T) {
	service, walletRepo, transactionRepo, _ := setupBalance(t)
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	addTx(transactionRepo, 1, 1, domain.TransactionTypeIncome, "10", day)
	transfer := addTx(transactionRepo, 2, 1, domain.TransactionTypeTransfer, "5", day)
	receiver := int32(2)
	transfer.ReceiverWalletID = &receiver

	_, err := service.RecomputeWalletBalance(1)
	require.NoError(t, err)
	_, err = service.RecomputeWalletBalance(2)
	require.NoError(t, err)

	assert.True(t, walletRepo.Wallets[1].Amount.Equal(testutil.Amount("15")))
	assert.True(t, walletRepo.Wallets[2].Amount.IsZero(), "receiver wallet must not absorb the transfer")
}

func TestRecomputeWalletBalance_IgnoresInitialAmount(t *testing.T) {
	service, walletRepo, transactionRepo, _ := setupBalance(t)
	walletRepo.Wallets[1].InitialAmount = testutil.Amount("1000")
	addTx(transactionRepo, 1, 1, domain.TransactionTypeIncome, "20", time.Now())

	wallet, err := service.RecomputeWalletBalance(1)
	require.NoError(t, err)
	assert.True(t, wallet.Amount.Equal(testutil.Amount("20")))
	assert.True(t, wallet.InitialAmount.Equal(testutil.Amount("1000")))
}

func TestRecomputeWalletBalance_EmptyWalletIsZero(t *testing.T) {
	service, walletRepo, _, _ := setupBalance(t)

	_, err := service.RecomputeWalletBalance(2)
	require.NoError(t, err)
	assert.True(t, walletRepo.Wallets[2].Amount.IsZero())
}

func TestRecomputeWalletBalance_WalletNotFound(t *testing.T) {
	service, _, _, _ := setupBalance(t)

	_, err := service.RecomputeWalletBalance(99)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestRecomputeWalletBalance_SaveFailure(t *testing.T) {
	service, walletRepo, _, _ := setupBalance(t)
	dbErr := errors.New("connection reset")
	walletRepo.SaveFn = func(wallet *domain.Wallet) (*domain.Wallet, error) {
		return nil, dbErr
	}

	_, err := service.RecomputeWalletBalance(1)
	assert.ErrorIs(t, err, domain.ErrBalanceRecompute)
	assert.ErrorIs(t, err, dbErr)
}

func TestRecomputeWalletBalance_PublishesWalletUpdated(t *testing.T) {
	service, _, _, userID := setupBalance(t)
	publisher := &testutil.RecordingPublisher{}
	service.SetEventPublisher(publisher)

	_, err := service.RecomputeWalletBalance(1)
	require.NoError(t, err)

	require.Len(t, publisher.Events, 1)
	assert.Equal(t, userID, publisher.Events[0].UserID)
	assert.Equal(t, []string{"wallet.updated"}, publisher.Types())
}

func TestRecomputeOwned(t *testing.T) {
	service, _, _, userID := setupBalance(t)

	_, err := service.RecomputeOwned(userID, 1)
	assert.NoError(t, err)

	_, err = service.RecomputeOwned(uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = service.RecomputeOwned(userID, 42)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}
