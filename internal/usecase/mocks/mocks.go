package mocks

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/infrastructure/metrics"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// NewMetrics returns a metrics set backed by a private registry so each
// test gets its own counters.
func NewMetrics() *metrics.Metrics {
	return metrics.NewWith(prometheus.NewRegistry())
}

// MockTransaction is a mock implementation of usecase.Transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of usecase.TransactionManager.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Transactions returns all transactions handed out so far.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTransaction(nil), m.txs...)
}

// MockRetrier runs the operation once with no retry.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "id-" + strconv.Itoa(m.next)
}

// MockMovementRepository is an in-memory implementation of
// usecase.MovementRepository. Create assigns serial ids and strictly
// increasing created-at timestamps, so the latest-by-insertion-order
// semantics hold in tests.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements []*domain.Movement
	nextID    int64
	clock     time.Time

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	LatestFunc            func(ctx context.Context, actorID string) (*domain.Movement, error)
	GetByIDFunc           func(ctx context.Context, id int64) (*domain.Movement, error)
	ListFunc              func(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	ListByActorFunc       func(ctx context.Context, actorID string) ([]*domain.Movement, error)
	ListChainFunc         func(ctx context.Context, actorID string) ([]*domain.Movement, error)
	PatchByReferenceFunc  func(ctx context.Context, tx usecase.Transaction, referenceID, kind string, amount decimal.Decimal, description string, occurredAt *time.Time) error
	DeleteByReferenceFunc func(ctx context.Context, tx usecase.Transaction, referenceID, kind string) error
	LockActorFunc         func(ctx context.Context, tx usecase.Transaction, actorID string) error
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{clock: time.Now().UTC()}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Millisecond)
	movement.ID = m.nextID
	movement.CreatedAt = m.clock
	if movement.OccurredAt.IsZero() {
		movement.OccurredAt = m.clock
	}
	stored := *movement
	m.movements = append(m.movements, &stored)
	return nil
}

func (m *MockMovementRepository) Latest(ctx context.Context, actorID string) (*domain.Movement, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, actorID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.movements) - 1; i >= 0; i-- {
		if m.movements[i].ActorID == actorID {
			cp := *m.movements[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) LatestTx(ctx context.Context, tx usecase.Transaction, actorID string) (*domain.Movement, error) {
	return m.Latest(ctx, actorID)
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id int64) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mv := range m.movements {
		if mv.ID == id {
			cp := *mv
			return &cp, nil
		}
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if filter.ActorID != "" && mv.ActorID != filter.ActorID {
			continue
		}
		if filter.Kind != "" && !strings.Contains(strings.ToLower(mv.Kind), strings.ToLower(filter.Kind)) {
			continue
		}
		if filter.Inbound != nil && mv.Inbound != *filter.Inbound {
			continue
		}
		if filter.DateFrom != nil && mv.OccurredAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && mv.OccurredAt.After(*filter.DateTo) {
			continue
		}
		cp := *mv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (m *MockMovementRepository) ListByActor(ctx context.Context, actorID string) ([]*domain.Movement, error) {
	if m.ListByActorFunc != nil {
		return m.ListByActorFunc(ctx, actorID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if mv.ActorID == actorID {
			cp := *mv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (m *MockMovementRepository) ListChain(ctx context.Context, actorID string) ([]*domain.Movement, error) {
	if m.ListChainFunc != nil {
		return m.ListChainFunc(ctx, actorID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if mv.ActorID == actorID {
			cp := *mv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockMovementRepository) PatchByReference(ctx context.Context, tx usecase.Transaction, referenceID, kind string, amount decimal.Decimal, description string, occurredAt *time.Time) error {
	if m.PatchByReferenceFunc != nil {
		return m.PatchByReferenceFunc(ctx, tx, referenceID, kind, amount, description, occurredAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mv := range m.movements {
		if mv.ReferenceID == referenceID && mv.Kind == kind {
			mv.Amount = amount
			mv.Description = description
			if occurredAt != nil {
				mv.OccurredAt = *occurredAt
			}
			return nil
		}
	}
	return domain.ErrMovementNotFound
}

func (m *MockMovementRepository) DeleteByReference(ctx context.Context, tx usecase.Transaction, referenceID, kind string) error {
	if m.DeleteByReferenceFunc != nil {
		return m.DeleteByReferenceFunc(ctx, tx, referenceID, kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mv := range m.movements {
		if mv.ReferenceID == referenceID && mv.Kind == kind {
			m.movements = append(m.movements[:i], m.movements[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockMovementRepository) LockActor(ctx context.Context, tx usecase.Transaction, actorID string) error {
	if m.LockActorFunc != nil {
		return m.LockActorFunc(ctx, tx, actorID)
	}
	return nil
}

// All returns a copy of everything stored, in insertion order.
func (m *MockMovementRepository) All() []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Movement, 0, len(m.movements))
	for _, mv := range m.movements {
		cp := *mv
		out = append(out, &cp)
	}
	return out
}

// MockSettingsRepository is an in-memory implementation of
// usecase.SettingsRepository.
type MockSettingsRepository struct {
	mu       sync.Mutex
	settings *domain.Settings

	GetOrCreateFunc func(ctx context.Context) (*domain.Settings, error)
	UpdateFunc      func(ctx context.Context, settings *domain.Settings) error
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

func (m *MockSettingsRepository) GetOrCreate(ctx context.Context) (*domain.Settings, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		m.settings = domain.DefaultSettings(time.Now().UTC())
	}
	cp := *m.settings
	return &cp, nil
}

func (m *MockSettingsRepository) GetOrCreateTx(ctx context.Context, tx usecase.Transaction) (*domain.Settings, error) {
	return m.GetOrCreate(ctx)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *domain.Settings) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, settings)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *settings
	m.settings = &cp
	return nil
}

// Seed sets the stored settings row directly.
func (m *MockSettingsRepository) Seed(settings *domain.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *settings
	m.settings = &cp
}

// MockProductRepository is an in-memory implementation of
// usecase.ProductRepository.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product

	GetByIDFunc     func(ctx context.Context, id string) (*domain.Product, error)
	AdjustStockFunc func(ctx context.Context, tx usecase.Transaction, id string, delta int64) error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]*domain.Product)}
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Product, error) {
	return m.GetByID(ctx, id)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Product
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, tx usecase.Transaction, id string, delta int64) error {
	if m.AdjustStockFunc != nil {
		return m.AdjustStockFunc(ctx, tx, id, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

// MockSaleRepository is an in-memory implementation of
// usecase.SaleRepository.
type MockSaleRepository struct {
	mu    sync.RWMutex
	sales map[string]*domain.Sale

	CreateFunc func(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error
	DeleteFunc func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{sales: make(map[string]*domain.Sale)}
}

func (m *MockSaleRepository) Create(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, sale)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sale
	m.sales[sale.ID] = &cp
	return nil
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sales[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrSaleNotFound
}

func (m *MockSaleRepository) List(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Sale
	for _, s := range m.sales {
		if filter.ActorID != "" && s.ActorID != filter.ActorID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MockSaleRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sales, id)
	return nil
}

// MockPurchaseRepository is an in-memory implementation of
// usecase.PurchaseRepository.
type MockPurchaseRepository struct {
	mu        sync.RWMutex
	purchases map[string]*domain.Purchase

	CreateFunc func(ctx context.Context, tx usecase.Transaction, purchase *domain.Purchase) error
	DeleteFunc func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockPurchaseRepository() *MockPurchaseRepository {
	return &MockPurchaseRepository{purchases: make(map[string]*domain.Purchase)}
}

func (m *MockPurchaseRepository) Create(ctx context.Context, tx usecase.Transaction, purchase *domain.Purchase) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, purchase)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *purchase
	m.purchases[purchase.ID] = &cp
	return nil
}

func (m *MockPurchaseRepository) GetByID(ctx context.Context, id string) (*domain.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.purchases[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPurchaseNotFound
}

func (m *MockPurchaseRepository) List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Purchase
	for _, p := range m.purchases {
		if filter.ActorID != "" && p.ActorID != filter.ActorID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MockPurchaseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.purchases, id)
	return nil
}

// MockIncomeRepository is an in-memory implementation of
// usecase.IncomeRepository.
type MockIncomeRepository struct {
	mu      sync.RWMutex
	incomes map[string]*domain.Income

	CreateFunc func(ctx context.Context, tx usecase.Transaction, income *domain.Income) error
}

func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{incomes: make(map[string]*domain.Income)}
}

func (m *MockIncomeRepository) Create(ctx context.Context, tx usecase.Transaction, income *domain.Income) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, income)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *income
	m.incomes[income.ID] = &cp
	return nil
}

func (m *MockIncomeRepository) GetByID(ctx context.Context, id string) (*domain.Income, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inc, ok := m.incomes[id]; ok {
		cp := *inc
		return &cp, nil
	}
	return nil, domain.ErrIncomeNotFound
}

func (m *MockIncomeRepository) List(ctx context.Context, filter domain.IncomeFilter) ([]*domain.Income, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Income
	for _, inc := range m.incomes {
		if filter.ActorID != "" && inc.ActorID != filter.ActorID {
			continue
		}
		cp := *inc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MockIncomeRepository) Update(ctx context.Context, tx usecase.Transaction, income *domain.Income) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.incomes[income.ID]; !ok {
		return domain.ErrIncomeNotFound
	}
	cp := *income
	m.incomes[income.ID] = &cp
	return nil
}

func (m *MockIncomeRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.incomes, id)
	return nil
}

// MockExpenseRepository is an in-memory implementation of
// usecase.ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense

	CreateFunc func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{expenses: make(map[string]*domain.Expense)}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *expense
	m.expenses[expense.ID] = &cp
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Expense
	for _, e := range m.expenses {
		if filter.ActorID != "" && e.ActorID != filter.ActorID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MockExpenseRepository) Update(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[expense.ID]; !ok {
		return domain.ErrExpenseNotFound
	}
	cp := *expense
	m.expenses[expense.ID] = &cp
	return nil
}

func (m *MockExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expenses, id)
	return nil
}

// MockUserRepository is an in-memory implementation of
// usecase.UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
