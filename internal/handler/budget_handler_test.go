package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/service"
	"github.com/moneyflow/moneyflow-backend/internal/testutil"
)

type budgetHandlerFixture struct {
	handler *BudgetHandler
	budgets *testutil.MockBudgetRepository
	userID  uuid.UUID
}

func setupBudgetHandler(t *testing.T) *budgetHandlerFixture {
	t.Helper()
	transactionRepo := testutil.NewMockTransactionRepository()
	walletRepo := testutil.NewMockWalletRepository(transactionRepo)
	categoryRepo := testutil.NewMockCategoryRepository()
	labelRepo := testutil.NewMockLabelRepository()
	budgetRepo := testutil.NewMockBudgetRepository()

	userID := uuid.New()
	walletRepo.AddWallet(&domain.Wallet{ID: 1, UserID: userID, Name: "Main"})
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Food"})
	labelRepo.AddLabel(&domain.Label{ID: 1, UserID: userID, Name: "Trip"})
	labelRepo.AddLabel(&domain.Label{ID: 2, UserID: uuid.New(), Name: "Theirs"})

	food := int32(1)
	march := func(day, hour int) time.Time { return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC) }
	for _, tx := range []*domain.Transaction{
		{ID: 1, WalletID: 1, CategoryID: &food, Value: testutil.Amount("12.50"), Type: domain.TransactionTypeExpense, Date: march(2, 10)},
		{ID: 2, WalletID: 1, Value: testutil.Amount("30"), Type: domain.TransactionTypeExpense, LabelIDs: []int32{1}, Date: march(31, 23)},
		{ID: 3, WalletID: 1, CategoryID: &food, Value: testutil.Amount("100"), Type: domain.TransactionTypeIncome, Date: march(5, 10)},
		{ID: 4, WalletID: 1, CategoryID: &food, Value: testutil.Amount("7"), Type: domain.TransactionTypeExpense, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 5, WalletID: 1, Value: testutil.Amount("8"), Type: domain.TransactionTypeExpense, Date: march(3, 10)},
	} {
		transactionRepo.AddTransaction(tx)
	}

	budgets := service.NewBudgetService(budgetRepo, categoryRepo, labelRepo, walletRepo, transactionRepo)
	return &budgetHandlerFixture{
		handler: NewBudgetHandler(budgets),
		budgets: budgetRepo,
		userID:  userID,
	}
}

func TestCreateBudget(t *testing.T) {
	f := setupBudgetHandler(t)
	body := `{"name":"March food","value":"200","startDate":"2024-03-01","endDate":"2024-03-31","categoryIds":[1],"labelIds":[1]}`
	c, rec := newContext(http.MethodPost, "/api/v1/budgets", body, f.userID)

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("CreateBudget returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Value != "200.00" {
		t.Errorf("Expected value 200.00, got %s", response.Value)
	}
	if response.StartDate != "2024-03-01" || response.EndDate != "2024-03-31" {
		t.Errorf("Unexpected window %s..%s", response.StartDate, response.EndDate)
	}
	if len(f.budgets.Budgets) != 1 {
		t.Errorf("Expected 1 stored budget, got %d", len(f.budgets.Budgets))
	}
}

func TestCreateBudget_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"bad start date", `{"name":"B","value":"1","startDate":"03/01/2024","endDate":"2024-03-31"}`, http.StatusBadRequest, "startDate"},
		{"bad end date", `{"name":"B","value":"1","startDate":"2024-03-01","endDate":"tomorrow"}`, http.StatusBadRequest, "endDate"},
		{"bad value", `{"name":"B","value":"lots","startDate":"2024-03-01","endDate":"2024-03-31"}`, http.StatusBadRequest, "value"},
		{"zero value", `{"name":"B","value":"0","startDate":"2024-03-01","endDate":"2024-03-31"}`, http.StatusBadRequest, "value"},
		{"inverted window", `{"name":"B","value":"1","startDate":"2024-03-31","endDate":"2024-03-01"}`, http.StatusBadRequest, "endDate"},
		{"missing name", `{"name":" ","value":"1","startDate":"2024-03-01","endDate":"2024-03-31"}`, http.StatusBadRequest, "name"},
		{"foreign label", `{"name":"B","value":"1","startDate":"2024-03-01","endDate":"2024-03-31","labelIds":[2]}`, http.StatusForbidden, ""},
		{"unknown category", `{"name":"B","value":"1","startDate":"2024-03-01","endDate":"2024-03-31","categoryIds":[9]}`, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupBudgetHandler(t)
			c, rec := newContext(http.MethodPost, "/api/v1/budgets", tt.body, f.userID)

			if err := f.handler.CreateBudget(c); err != nil {
				t.Fatalf("CreateBudget returned error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("Expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.field != "" {
				problem := decodeProblem(t, rec)
				if len(problem.Errors) != 1 || problem.Errors[0].Field != tt.field {
					t.Errorf("Expected a single error on %s, got %+v", tt.field, problem.Errors)
				}
			}
		})
	}
}

func TestGetProgress(t *testing.T) {
	f := setupBudgetHandler(t)
	f.budgets.AddBudget(&domain.Budget{
		ID:          1,
		UserID:      f.userID,
		Name:        "March",
		Value:       testutil.Amount("100"),
		StartDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		CategoryIDs: []int32{1},
		LabelIDs:    []int32{1},
	})

	c, rec := newContext(http.MethodGet, "/api/v1/budgets/1/progress", "", f.userID, "id", "1")
	if err := f.handler.GetProgress(c); err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response BudgetProgressResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	// Income, the April expense and the untagged expense do not count
	if response.Spent != "42.50" {
		t.Errorf("Expected spent 42.50, got %s", response.Spent)
	}
	if response.Remaining != "57.50" {
		t.Errorf("Expected remaining 57.50, got %s", response.Remaining)
	}
}

func TestBudgetAccess(t *testing.T) {
	f := setupBudgetHandler(t)
	f.budgets.AddBudget(&domain.Budget{
		ID:        1,
		UserID:    uuid.New(),
		Name:      "Theirs",
		Value:     testutil.Amount("10"),
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	})

	tests := []struct {
		name   string
		id     string
		call   func(*BudgetHandler, echo.Context) error
		status int
	}{
		{"get foreign", "1", (*BudgetHandler).GetBudget, http.StatusForbidden},
		{"progress foreign", "1", (*BudgetHandler).GetProgress, http.StatusForbidden},
		{"delete foreign", "1", (*BudgetHandler).DeleteBudget, http.StatusForbidden},
		{"get unknown", "7", (*BudgetHandler).GetBudget, http.StatusNotFound},
		{"malformed id", "x", (*BudgetHandler).GetBudget, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/v1/budgets/"+tt.id, "", f.userID, "id", tt.id)
			if err := tt.call(f.handler, c); err != nil {
				t.Fatalf("Handler returned error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestUpdateBudget(t *testing.T) {
	f := setupBudgetHandler(t)
	f.budgets.AddBudget(&domain.Budget{
		ID:        1,
		UserID:    f.userID,
		Name:      "March",
		Value:     testutil.Amount("100"),
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	})

	c, rec := newContext(http.MethodPatch, "/api/v1/budgets/1", `{"value":"150.5","endDate":"2024-04-15","categoryIds":[1]}`, f.userID, "id", "1")
	if err := f.handler.UpdateBudget(c); err != nil {
		t.Fatalf("UpdateBudget returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "March" || response.Value != "150.50" || response.EndDate != "2024-04-15" {
		t.Errorf("Unexpected budget after patch: %+v", response)
	}
	if len(response.CategoryIDs) != 1 || response.CategoryIDs[0] != 1 {
		t.Errorf("Expected categories [1], got %v", response.CategoryIDs)
	}
}
