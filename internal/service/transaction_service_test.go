package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transactionFixture struct {
	service      *TransactionService
	transactions *testutil.MockTransactionRepository
	wallets      *testutil.MockWalletRepository
	categories   *testutil.MockCategoryRepository
	labels       *testutil.MockLabelRepository
	publisher    *testutil.RecordingPublisher
	userID       uuid.UUID
	otherUserID  uuid.UUID
}

func setupTransactions(t *testing.T) *transactionFixture {
	t.Helper()
	transactionRepo := testutil.NewMockTransactionRepository()
	walletRepo := testutil.NewMockWalletRepository(transactionRepo)
	categoryRepo := testutil.NewMockCategoryRepository()
	labelRepo := testutil.NewMockLabelRepository()
	publisher := &testutil.RecordingPublisher{}

	userID := uuid.New()
	otherUserID := uuid.New()
	walletRepo.AddWallet(&domain.Wallet{ID: 1, UserID: userID, Name: "Main"})
	walletRepo.AddWallet(&domain.Wallet{ID: 2, UserID: userID, Name: "Savings"})
	walletRepo.AddWallet(&domain.Wallet{ID: 3, UserID: otherUserID, Name: "Foreign"})
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Food"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Private", UserID: &otherUserID})
	labelRepo.AddLabel(&domain.Label{ID: 1, UserID: userID, Name: "holiday"})
	labelRepo.AddLabel(&domain.Label{ID: 2, UserID: otherUserID, Name: "theirs"})

	balance := NewBalanceService(walletRepo)
	balance.SetEventPublisher(publisher)
	service := NewTransactionService(transactionRepo, walletRepo, categoryRepo, labelRepo, balance)
	service.SetEventPublisher(publisher)

	return &transactionFixture{
		service:      service,
		transactions: transactionRepo,
		wallets:      walletRepo,
		categories:   categoryRepo,
		labels:       labelRepo,
		publisher:    publisher,
		userID:       userID,
		otherUserID:  otherUserID,
	}
}

func expenseInput(walletID int32, value string) CreateTransactionInput {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return CreateTransactionInput{
		WalletID:    walletID,
		Description: "Groceries",
		Value:       testutil.Amount(value),
		Type:        domain.TransactionTypeExpense,
		Date:        &date,
	}
}

func TestCreateTransaction_Success(t *testing.T) {
	f := setupTransactions(t)

	input := expenseInput(1, "150")
	input.CategoryID = idPtr(1)
	input.LabelIDs = []int32{1}

	transaction, err := f.service.CreateTransaction(f.userID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.Description != "Groceries" {
		t.Errorf("Expected description 'Groceries', got %s", transaction.Description)
	}
	if !transaction.Value.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected value 150, got %s", transaction.Value)
	}
	if transaction.WalletID != 1 {
		t.Errorf("Expected wallet ID 1, got %d", transaction.WalletID)
	}

	// Balance recomputed synchronously
	if !f.wallets.Wallets[1].Amount.Equal(decimal.NewFromInt(-150)) {
		t.Errorf("Expected wallet amount -150, got %s", f.wallets.Wallets[1].Amount)
	}

	assert.Equal(t, []string{"transaction.created", "wallet.updated"}, f.publisher.Types())
}

func TestCreateTransaction_DefaultsDateToNow(t *testing.T) {
	f := setupTransactions(t)
	input := expenseInput(1, "1")
	input.Date = nil

	before := time.Now().UTC()
	transaction, err := f.service.CreateTransaction(f.userID, input)
	require.NoError(t, err)
	assert.False(t, transaction.Date.Before(before.Add(-time.Second)))
	assert.Equal(t, []int32{}, transaction.LabelIDs)
}

func TestCreateTransaction_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateTransactionInput)
		wantErr error
	}{
		{"empty description", func(in *CreateTransactionInput) { in.Description = "   " }, domain.ErrDescriptionRequired},
		{"long description", func(in *CreateTransactionInput) { in.Description = string(make([]byte, 256)) + "x" }, domain.ErrDescriptionTooLong},
		{"zero value", func(in *CreateTransactionInput) { in.Value = decimal.Zero }, domain.ErrInvalidAmount},
		{"negative value", func(in *CreateTransactionInput) { in.Value = decimal.NewFromInt(-4) }, domain.ErrInvalidAmount},
		{"bad type", func(in *CreateTransactionInput) { in.Type = "REFUND" }, domain.ErrInvalidTransactionType},
		{"unknown wallet", func(in *CreateTransactionInput) { in.WalletID = 42 }, domain.ErrWalletNotFound},
		{"foreign wallet", func(in *CreateTransactionInput) { in.WalletID = 3 }, domain.ErrForbidden},
		{"foreign category", func(in *CreateTransactionInput) { in.CategoryID = idPtr(2) }, domain.ErrForbidden},
		{"unknown category", func(in *CreateTransactionInput) { in.CategoryID = idPtr(9) }, domain.ErrCategoryNotFound},
		{"foreign label", func(in *CreateTransactionInput) { in.LabelIDs = []int32{2} }, domain.ErrForbidden},
		{"unknown label", func(in *CreateTransactionInput) { in.LabelIDs = []int32{8} }, domain.ErrLabelNotFound},
		{"transfer without receiver", func(in *CreateTransactionInput) { in.Type = domain.TransactionTypeTransfer }, domain.ErrReceiverRequired},
		{"transfer to same wallet", func(in *CreateTransactionInput) {
			in.Type = domain.TransactionTypeTransfer
			in.ReceiverWalletID = idPtr(1)
		}, domain.ErrSameWallet},
		{"transfer to foreign wallet", func(in *CreateTransactionInput) {
			in.Type = domain.TransactionTypeTransfer
			in.ReceiverWalletID = idPtr(3)
		}, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTransactions(t)
			input := expenseInput(1, "10")
			tt.mutate(&input)

			_, err := f.service.CreateTransaction(f.userID, input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.transactions.Transactions, "nothing may be stored")
		})
	}
}

func TestCreateTransaction_TransferCreditsSource(t *testing.T) {
	f := setupTransactions(t)
	input := expenseInput(1, "25")
	input.Type = domain.TransactionTypeTransfer
	input.ReceiverWalletID = idPtr(2)

	transaction, err := f.service.CreateTransaction(f.userID, input)
	require.NoError(t, err)
	require.NotNil(t, transaction.ReceiverWalletID)

	assert.True(t, f.wallets.Wallets[1].Amount.Equal(decimal.NewFromInt(25)))
	assert.True(t, f.wallets.Wallets[2].Amount.IsZero())
}

func TestCreateTransaction_ReceiverDroppedForNonTransfer(t *testing.T) {
	f := setupTransactions(t)
	input := expenseInput(1, "5")
	input.ReceiverWalletID = idPtr(2)

	transaction, err := f.service.CreateTransaction(f.userID, input)
	require.NoError(t, err)
	assert.Nil(t, transaction.ReceiverWalletID)
}

func TestCreateTransaction_RecomputeFailureKeepsTransaction(t *testing.T) {
	f := setupTransactions(t)
	f.wallets.SaveFn = func(wallet *domain.Wallet) (*domain.Wallet, error) {
		return nil, errors.New("deadlock detected")
	}

	transaction, err := f.service.CreateTransaction(f.userID, expenseInput(1, "10"))
	assert.ErrorIs(t, err, domain.ErrBalanceRecompute)
	require.NotNil(t, transaction)
	assert.Len(t, f.transactions.Transactions, 1)
}

func TestUpdateTransaction_PatchesAndRecomputes(t *testing.T) {
	f := setupTransactions(t)
	created, err := f.service.CreateTransaction(f.userID, expenseInput(1, "10"))
	require.NoError(t, err)

	patch := domain.TransactionPatch{
		Value: domain.Some(decimal.NewFromInt(40)),
		Type:  domain.Some(domain.TransactionTypeIncome),
	}
	updated, err := f.service.UpdateTransaction(f.userID, created.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, "Groceries", updated.Description, "absent fields stay untouched")
	assert.True(t, updated.Value.Equal(decimal.NewFromInt(40)))
	assert.True(t, f.wallets.Wallets[1].Amount.Equal(decimal.NewFromInt(40)))
}

func TestUpdateTransaction_MoveRecomputesBothWallets(t *testing.T) {
	f := setupTransactions(t)
	created, err := f.service.CreateTransaction(f.userID, expenseInput(1, "10"))
	require.NoError(t, err)
	require.True(t, f.wallets.Wallets[1].Amount.Equal(decimal.NewFromInt(-10)))

	_, err = f.service.UpdateTransaction(f.userID, created.ID, domain.TransactionPatch{WalletID: domain.Some(int32(2))})
	require.NoError(t, err)

	assert.True(t, f.wallets.Wallets[1].Amount.IsZero(), "previous wallet must lose the transaction")
	assert.True(t, f.wallets.Wallets[2].Amount.Equal(decimal.NewFromInt(-10)))
}

func TestUpdateTransaction_MoveRecomputesPreviousWalletWhenNewOneFails(t *testing.T) {
	f := setupTransactions(t)
	created, err := f.service.CreateTransaction(f.userID, expenseInput(1, "10"))
	require.NoError(t, err)

	f.wallets.SaveFn = func(wallet *domain.Wallet) (*domain.Wallet, error) {
		if wallet.ID == 2 {
			return nil, errors.New("connection reset")
		}
		stored := *wallet
		f.wallets.Wallets[wallet.ID] = &stored
		return wallet, nil
	}

	moved, err := f.service.UpdateTransaction(f.userID, created.ID, domain.TransactionPatch{WalletID: domain.Some(int32(2))})
	assert.ErrorIs(t, err, domain.ErrBalanceRecompute)
	require.NotNil(t, moved)
	assert.Equal(t, int32(2), moved.WalletID)

	assert.Equal(t, 3, f.wallets.SaveCalls, "create, failed new wallet, previous wallet")
	assert.True(t, f.wallets.Wallets[1].Amount.IsZero(), "previous wallet is recomputed despite the failure")
}

func TestUpdateTransaction_ClearCategory(t *testing.T) {
	f := setupTransactions(t)
	input := expenseInput(1, "10")
	input.CategoryID = idPtr(1)
	created, err := f.service.CreateTransaction(f.userID, input)
	require.NoError(t, err)

	updated, err := f.service.UpdateTransaction(f.userID, created.ID, domain.TransactionPatch{CategoryID: domain.Some[*int32](nil)})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}

func TestUpdateTransaction_Forbidden(t *testing.T) {
	f := setupTransactions(t)
	created, err := f.service.CreateTransaction(f.userID, expenseInput(1, "10"))
	require.NoError(t, err)

	_, err = f.service.UpdateTransaction(f.otherUserID, created.ID, domain.TransactionPatch{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.UpdateTransaction(f.userID, created.ID, domain.TransactionPatch{WalletID: domain.Some(int32(3))})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteTransaction_NoRecomputeByDefault(t *testing.T) {
	f := setupTransactions(t)
	created, err := f.service.CreateTransaction(f.userID, expenseInput(1, "10"))
	require.NoError(t, err)
	saves := f.wallets.SaveCalls

	require.NoError(t, f.service.DeleteTransaction(f.userID, created.ID))

	assert.Empty(t, f.transactions.Transactions)
	assert.Equal(t, saves, f.wallets.SaveCalls)
	assert.True(t, f.wallets.Wallets[1].Amount.Equal(decimal.NewFromInt(-10)), "stale amount is kept")
}

func TestDeleteTransaction_RecomputeWhenEnabled(t *testing.T) {
	f := setupTransactions(t)
	f.service.SetRecomputeOnDelete(true)
	created, err := f.service.CreateTransaction(f.userID, expenseInput(1, "10"))
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteTransaction(f.userID, created.ID))
	assert.True(t, f.wallets.Wallets[1].Amount.IsZero())
	assert.Contains(t, f.publisher.Types(), "transaction.deleted")
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	f := setupTransactions(t)

	err := f.service.DeleteTransaction(f.userID, 77)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestListTransactions_OnlyOwnWallets(t *testing.T) {
	f := setupTransactions(t)
	_, err := f.service.CreateTransaction(f.userID, expenseInput(1, "1"))
	require.NoError(t, err)
	_, err = f.service.CreateTransaction(f.userID, expenseInput(2, "2"))
	require.NoError(t, err)
	f.transactions.AddTransaction(&domain.Transaction{ID: 50, WalletID: 3, Value: decimal.NewFromInt(9), Type: domain.TransactionTypeIncome})

	page, err := f.service.ListTransactions(f.userID, &domain.TransactionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)

	page, err = f.service.ListTransactions(f.userID, &domain.TransactionFilters{WalletID: idPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalItems)

	_, err = f.service.ListTransactions(f.userID, &domain.TransactionFilters{WalletID: idPtr(3)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
