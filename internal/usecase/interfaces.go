package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
)

// MovementRepository defines data access for ledger movements.
type MovementRepository interface {
	// Create inserts a movement and fills in its serial ID and CreatedAt.
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	// Latest returns the movement with the greatest CreatedAt for the
	// actor, or domain.ErrMovementNotFound.
	Latest(ctx context.Context, actorID string) (*domain.Movement, error)
	// LatestTx is Latest executed inside the given transaction.
	LatestTx(ctx context.Context, tx Transaction, actorID string) (*domain.Movement, error)
	GetByID(ctx context.Context, id int64) (*domain.Movement, error)
	List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	// ListByActor returns all movements for an actor ordered by
	// OccurredAt descending (dashboard ordering).
	ListByActor(ctx context.Context, actorID string) ([]*domain.Movement, error)
	// ListChain returns all movements for an actor in insertion order
	// (CreatedAt then id ascending), the order balances were chained in.
	ListChain(ctx context.Context, actorID string) ([]*domain.Movement, error)
	// PatchByReference updates amount, description and occurred_at of
	// the single movement matching referenceID and kind. It does not
	// touch balance_after.
	PatchByReference(ctx context.Context, tx Transaction, referenceID, kind string, amount decimal.Decimal, description string, occurredAt *time.Time) error
	// DeleteByReference removes the movement matching referenceID and
	// kind, if any.
	DeleteByReference(ctx context.Context, tx Transaction, referenceID, kind string) error
	// LockActor serializes concurrent recorders for one actor until the
	// transaction ends.
	LockActor(ctx context.Context, tx Transaction, actorID string) error
}

// SettingsRepository defines data access for the settings singleton.
type SettingsRepository interface {
	// GetOrCreate returns the single settings row, creating it with
	// defaults if absent. Creation is idempotent under races.
	GetOrCreate(ctx context.Context) (*domain.Settings, error)
	GetOrCreateTx(ctx context.Context, tx Transaction) (*domain.Settings, error)
	Update(ctx context.Context, settings *domain.Settings) error
}

// ProductRepository defines data access for products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	// AdjustStock applies delta to the product's stock. A negative delta
	// that would drive stock below zero fails with
	// domain.ErrInsufficientStock and changes nothing.
	AdjustStock(ctx context.Context, tx Transaction, id string, delta int64) error
}

// SaleRepository defines data access for sales.
type SaleRepository interface {
	Create(ctx context.Context, tx Transaction, sale *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// PurchaseRepository defines data access for purchases.
type PurchaseRepository interface {
	Create(ctx context.Context, tx Transaction, purchase *domain.Purchase) error
	GetByID(ctx context.Context, id string) (*domain.Purchase, error)
	List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// IncomeRepository defines data access for manual financial entries.
type IncomeRepository interface {
	Create(ctx context.Context, tx Transaction, income *domain.Income) error
	GetByID(ctx context.Context, id string) (*domain.Income, error)
	List(ctx context.Context, filter domain.IncomeFilter) ([]*domain.Income, error)
	Update(ctx context.Context, tx Transaction, income *domain.Income) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error)
	Update(ctx context.Context, tx Transaction, expense *domain.Expense) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient conflicts (deadlock,
// serialization failure) a bounded number of times.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs for domain aggregates.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
