package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

const movementColumns = `id, actor_id, kind, reference_id, description, amount, inbound, occurred_at, balance_after, created_at`

// MovementRepository implements movement persistence. All writes go
// through the caller's transaction; the single-writer guarantee per
// actor comes from LockActor, not from this type.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new movement repository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create inserts a movement and fills in its serial ID and CreatedAt.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	query := `
		INSERT INTO movements (actor_id, kind, reference_id, description, amount, inbound, occurred_at, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return pgxTxOf(tx).QueryRow(ctx, query,
		movement.ActorID,
		movement.Kind,
		nullableString(movement.ReferenceID),
		movement.Description,
		movement.Amount,
		movement.Inbound,
		movement.OccurredAt,
		movement.BalanceAfter,
	).Scan(&movement.ID, &movement.CreatedAt)
}

// Latest returns the most recently inserted movement for the actor.
// Ties on created_at break on the serial id, so the winner is always
// the last row written.
func (r *MovementRepository) Latest(ctx context.Context, actorID string) (*domain.Movement, error) {
	return r.latest(ctx, r.pool, actorID)
}

// LatestTx is Latest executed inside the given transaction.
func (r *MovementRepository) LatestTx(ctx context.Context, tx usecase.Transaction, actorID string) (*domain.Movement, error) {
	return r.latest(ctx, pgxTxOf(tx), actorID)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *MovementRepository) latest(ctx context.Context, q querier, actorID string) (*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE actor_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	movement, err := scanMovement(q.QueryRow(ctx, query, actorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMovementNotFound
	}

	return movement, err
}

// GetByID retrieves a movement by its serial ID.
func (r *MovementRepository) GetByID(ctx context.Context, id int64) (*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE id = $1
	`

	movement, err := scanMovement(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMovementNotFound
	}

	return movement, err
}

// List retrieves movements matching the filter, ordered by occurrence
// date ascending. The date range applies to occurred_at and the kind
// filter matches case-insensitively.
func (r *MovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE ($1::text = '' OR actor_id = $1)
		  AND ($2::timestamptz IS NULL OR occurred_at >= $2)
		  AND ($3::timestamptz IS NULL OR occurred_at <= $3)
		  AND ($4::text = '' OR kind ILIKE '%' || $4 || '%')
		  AND ($5::boolean IS NULL OR inbound = $5)
		ORDER BY occurred_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query,
		filter.ActorID,
		filter.DateFrom,
		filter.DateTo,
		filter.Kind,
		filter.Inbound,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// ListByActor retrieves every movement for an actor, newest occurrence
// first.
func (r *MovementRepository) ListByActor(ctx context.Context, actorID string) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE actor_id = $1
		ORDER BY occurred_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// ListChain retrieves every movement for an actor in insertion order,
// the order the balance recurrence was computed in.
func (r *MovementRepository) ListChain(ctx context.Context, actorID string) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE actor_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// PatchByReference rewrites amount, description and optionally
// occurred_at of the movement matching referenceID and kind. The
// stored balance_after is left as originally written.
func (r *MovementRepository) PatchByReference(ctx context.Context, tx usecase.Transaction, referenceID, kind string, amount decimal.Decimal, description string, occurredAt *time.Time) error {
	query := `
		UPDATE movements
		SET amount = $3,
		    description = $4,
		    occurred_at = COALESCE($5, occurred_at)
		WHERE reference_id = $1 AND kind = $2
	`

	tag, err := pgxTxOf(tx).Exec(ctx, query, referenceID, kind, amount, description, occurredAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// DeleteByReference removes the movement matching referenceID and
// kind, if any.
func (r *MovementRepository) DeleteByReference(ctx context.Context, tx usecase.Transaction, referenceID, kind string) error {
	query := `DELETE FROM movements WHERE reference_id = $1 AND kind = $2`

	_, err := pgxTxOf(tx).Exec(ctx, query, referenceID, kind)
	return err
}

// LockActor takes a transaction-scoped advisory lock keyed on the
// actor, serializing concurrent recorders for that actor until the
// transaction ends.
func (r *MovementRepository) LockActor(ctx context.Context, tx usecase.Transaction, actorID string) error {
	_, err := pgxTxOf(tx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, actorID)
	return err
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		movement    domain.Movement
		referenceID *string
	)

	err := row.Scan(
		&movement.ID,
		&movement.ActorID,
		&movement.Kind,
		&referenceID,
		&movement.Description,
		&movement.Amount,
		&movement.Inbound,
		&movement.OccurredAt,
		&movement.BalanceAfter,
		&movement.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if referenceID != nil {
		movement.ReferenceID = *referenceID
	}

	return &movement, nil
}

func scanMovements(rows pgx.Rows) ([]*domain.Movement, error) {
	var movements []*domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	return movements, rows.Err()
}

// nullableString maps "" to NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
