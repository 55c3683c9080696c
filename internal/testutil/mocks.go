package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(externalID, email string, name *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByExternalID retrieves a user by identity provider subject
func (m *MockUserRepository) GetByExternalID(externalID string) (*domain.User, error) {
	if user, ok := m.Users[externalID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByExternalID creates or retrieves a user by identity provider subject
func (m *MockUserRepository) CreateOrGetByExternalID(externalID, email string, name *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(externalID, email, name)
	}
	if user, ok := m.Users[externalID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		Roles:      []string{domain.RoleUser},
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.AddUser(user)
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.ExternalID] = user
	m.ByID[user.ID] = user
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	FindCalls    []domain.ReportFilter
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	if tx, ok := m.Transactions[id]; ok {
		copied := *tx
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// ListByWallets retrieves transactions of the given wallets with optional filters and pagination
func (m *MockTransactionRepository) ListByWallets(walletIDs []int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var matched []*domain.Transaction
	for _, tx := range m.sorted() {
		if !containsID(walletIDs, tx.WalletID) {
			continue
		}
		if filters != nil {
			if filters.WalletID != nil && tx.WalletID != *filters.WalletID {
				continue
			}
			if filters.Type != nil && tx.Type != *filters.Type {
				continue
			}
			if filters.CategoryID != nil && (tx.CategoryID == nil || *tx.CategoryID != *filters.CategoryID) {
				continue
			}
			if filters.StartDate != nil && tx.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && tx.Date.After(*filters.EndDate) {
				continue
			}
		}
		matched = append(matched, tx)
	}

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}

	totalItems := int64(len(matched))
	start := int((page - 1) * pageSize)
	end := start + int(pageSize)
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// Update replaces a stored transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	if _, ok := m.Transactions[transaction.ID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.UpdatedAt = time.Now()
	stored := *transaction
	m.Transactions[transaction.ID] = &stored
	return transaction, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(id int32) error {
	if _, ok := m.Transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// FindMatching returns transactions matching a report filter, ordered by date
func (m *MockTransactionRepository) FindMatching(filter domain.ReportFilter) ([]*domain.Transaction, error) {
	m.FindCalls = append(m.FindCalls, filter)

	var result []*domain.Transaction
	for _, tx := range m.sorted() {
		if !containsID(filter.WalletIDs, tx.WalletID) {
			continue
		}
		if len(filter.CategoryIDs) > 0 && (tx.CategoryID == nil || !containsID(filter.CategoryIDs, *tx.CategoryID)) {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.StartDate != nil && tx.Date.Before(*filter.StartDate) {
			continue
		}
		if tx.Date.After(filter.EndDate) {
			continue
		}
		result = append(result, tx)
	}
	return result, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.Transactions[transaction.ID] = transaction
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
}

// ByWallet returns the stored transactions of a wallet in date order
func (m *MockTransactionRepository) ByWallet(walletID int32) []*domain.Transaction {
	var result []*domain.Transaction
	for _, tx := range m.sorted() {
		if tx.WalletID == walletID {
			result = append(result, tx)
		}
	}
	return result
}

func (m *MockTransactionRepository) sorted() []*domain.Transaction {
	result := make([]*domain.Transaction, 0, len(m.Transactions))
	for _, tx := range m.Transactions {
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].ID < result[j].ID
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// MockWalletRepository is a mock implementation of domain.WalletRepository.
// Transactions are read from the shared transaction mock, as the database would.
type MockWalletRepository struct {
	Wallets      map[int32]*domain.Wallet
	NextID       int32
	Transactions *MockTransactionRepository
	SaveFn       func(wallet *domain.Wallet) (*domain.Wallet, error)
	SaveCalls    int
}

// NewMockWalletRepository creates a new MockWalletRepository
func NewMockWalletRepository(transactions *MockTransactionRepository) *MockWalletRepository {
	return &MockWalletRepository{
		Wallets:      make(map[int32]*domain.Wallet),
		NextID:       1,
		Transactions: transactions,
	}
}

// Create creates a new wallet
func (m *MockWalletRepository) Create(wallet *domain.Wallet) (*domain.Wallet, error) {
	wallet.ID = m.NextID
	m.NextID++
	wallet.CreatedAt = time.Now()
	wallet.UpdatedAt = time.Now()
	m.Wallets[wallet.ID] = wallet
	return wallet, nil
}

// GetByID retrieves a wallet by ID
func (m *MockWalletRepository) GetByID(id int32) (*domain.Wallet, error) {
	if wallet, ok := m.Wallets[id]; ok {
		copied := *wallet
		return &copied, nil
	}
	return nil, domain.ErrWalletNotFound
}

// GetAllByUser retrieves all wallets of a user ordered by ID
func (m *MockWalletRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Wallet, error) {
	var result []*domain.Wallet
	for _, wallet := range m.Wallets {
		if wallet.UserID == userID {
			result = append(result, wallet)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Save persists all wallet columns
func (m *MockWalletRepository) Save(wallet *domain.Wallet) (*domain.Wallet, error) {
	m.SaveCalls++
	if m.SaveFn != nil {
		return m.SaveFn(wallet)
	}
	if _, ok := m.Wallets[wallet.ID]; !ok {
		return nil, domain.ErrWalletNotFound
	}
	wallet.UpdatedAt = time.Now()
	stored := *wallet
	m.Wallets[wallet.ID] = &stored
	return wallet, nil
}

// Delete removes a wallet and cascades to its transactions
func (m *MockWalletRepository) Delete(id int32) error {
	if _, ok := m.Wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	delete(m.Wallets, id)
	if m.Transactions != nil {
		for txID, tx := range m.Transactions.Transactions {
			if tx.WalletID == id {
				delete(m.Transactions.Transactions, txID)
			}
		}
	}
	return nil
}

// GetTransactions returns the transactions recorded on a wallet
func (m *MockWalletRepository) GetTransactions(walletID int32) ([]*domain.Transaction, error) {
	if m.Transactions == nil {
		return nil, nil
	}
	return m.Transactions.ByWallet(walletID), nil
}

// AddWallet adds a wallet to the mock repository (helper for tests)
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet) {
	m.Wallets[wallet.ID] = wallet
	if wallet.ID >= m.NextID {
		m.NextID = wallet.ID + 1
	}
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	category.ID = m.NextID
	m.NextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(id int32) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok {
		copied := *category
		return &copied, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// ListForUser returns global categories followed by the user's own, each ordered by ID
func (m *MockCategoryRepository) ListForUser(userID uuid.UUID) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, category := range m.Categories {
		if category.VisibleTo(userID) {
			result = append(result, category)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsGlobal() != result[j].IsGlobal() {
			return result[i].IsGlobal()
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update replaces a stored category
func (m *MockCategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	if _, ok := m.Categories[category.ID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	stored := *category
	m.Categories[category.ID] = &stored
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(id int32) error {
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

// MockLabelRepository is a mock implementation of domain.LabelRepository
type MockLabelRepository struct {
	Labels map[int32]*domain.Label
	NextID int32
}

// NewMockLabelRepository creates a new MockLabelRepository
func NewMockLabelRepository() *MockLabelRepository {
	return &MockLabelRepository{
		Labels: make(map[int32]*domain.Label),
		NextID: 1,
	}
}

// Create creates a new label
func (m *MockLabelRepository) Create(label *domain.Label) (*domain.Label, error) {
	label.ID = m.NextID
	m.NextID++
	m.Labels[label.ID] = label
	return label, nil
}

// GetByID retrieves a label by ID
func (m *MockLabelRepository) GetByID(id int32) (*domain.Label, error) {
	if label, ok := m.Labels[id]; ok {
		copied := *label
		return &copied, nil
	}
	return nil, domain.ErrLabelNotFound
}

// ListForUser returns the user's labels ordered by ID
func (m *MockLabelRepository) ListForUser(userID uuid.UUID) ([]*domain.Label, error) {
	var result []*domain.Label
	for _, label := range m.Labels {
		if label.UserID == userID {
			result = append(result, label)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update replaces a stored label
func (m *MockLabelRepository) Update(label *domain.Label) (*domain.Label, error) {
	if _, ok := m.Labels[label.ID]; !ok {
		return nil, domain.ErrLabelNotFound
	}
	stored := *label
	m.Labels[label.ID] = &stored
	return label, nil
}

// Delete removes a label
func (m *MockLabelRepository) Delete(id int32) error {
	if _, ok := m.Labels[id]; !ok {
		return domain.ErrLabelNotFound
	}
	delete(m.Labels, id)
	return nil
}

// AddLabel adds a label to the mock repository (helper for tests)
func (m *MockLabelRepository) AddLabel(label *domain.Label) {
	m.Labels[label.ID] = label
	if label.ID >= m.NextID {
		m.NextID = label.ID + 1
	}
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	budget.ID = m.NextID
	m.NextID++
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget by ID
func (m *MockBudgetRepository) GetByID(id int32) (*domain.Budget, error) {
	if budget, ok := m.Budgets[id]; ok {
		copied := *budget
		return &copied, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// ListForUser returns the user's budgets ordered by ID
func (m *MockBudgetRepository) ListForUser(userID uuid.UUID) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for _, budget := range m.Budgets {
		if budget.UserID == userID {
			result = append(result, budget)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update replaces a stored budget
func (m *MockBudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	if _, ok := m.Budgets[budget.ID]; !ok {
		return nil, domain.ErrBudgetNotFound
	}
	stored := *budget
	m.Budgets[budget.ID] = &stored
	return budget, nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(id int32) error {
	if _, ok := m.Budgets[id]; !ok {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	m.Budgets[budget.ID] = budget
	if budget.ID >= m.NextID {
		m.NextID = budget.ID + 1
	}
}

// MockObjectStore is an in-memory object store
type MockObjectStore struct {
	Objects   map[string][]byte
	Types     map[string]string
	UploadErr error
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

// Upload stores the object in memory and returns its path
func (m *MockObjectStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf
	m.Types[objectPath] = contentType
	return objectPath, nil
}

// Delete removes an object
func (m *MockObjectStore) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	delete(m.Types, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://objects.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}

// RecordingPublisher records published events for assertions
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is an event captured by RecordingPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// Publish implements websocket.EventPublisher
func (p *RecordingPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the published event types in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Event.Type
	}
	return types
}

func containsID(ids []int32, id int32) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Amount is a shorthand for decimal.RequireFromString in tests
func Amount(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
