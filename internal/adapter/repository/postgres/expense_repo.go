package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// ExpenseRepository implements expense persistence.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new expense repository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts an expense.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, actor_id, kind, description, amount, note, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTxOf(tx).Exec(ctx, query,
		expense.ID,
		expense.ActorID,
		expense.Kind,
		expense.Description,
		expense.Amount,
		expense.Note,
		expense.Date,
		expense.CreatedAt,
	)

	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	query := `
		SELECT id, actor_id, kind, description, amount, note, date, created_at
		FROM expenses
		WHERE id = $1
	`

	var expense domain.Expense
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&expense.ID,
		&expense.ActorID,
		&expense.Kind,
		&expense.Description,
		&expense.Amount,
		&expense.Note,
		&expense.Date,
		&expense.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExpenseNotFound
	}

	if err != nil {
		return nil, err
	}

	return &expense, nil
}

// List retrieves expenses matching the filter, newest first. Kind
// matches case-insensitively as a substring, mirroring the list
// screen's search box.
func (r *ExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	query := `
		SELECT id, actor_id, kind, description, amount, note, date, created_at
		FROM expenses
		WHERE ($1::text = '' OR actor_id = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		  AND ($4::text = '' OR kind ILIKE '%' || $4 || '%')
		  AND ($5::numeric IS NULL OR amount >= $5)
		  AND ($6::numeric IS NULL OR amount <= $6)
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query,
		filter.ActorID,
		filter.DateFrom,
		filter.DateTo,
		filter.Kind,
		filter.AmountMin,
		filter.AmountMax,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		var expense domain.Expense
		err := rows.Scan(
			&expense.ID,
			&expense.ActorID,
			&expense.Kind,
			&expense.Description,
			&expense.Amount,
			&expense.Note,
			&expense.Date,
			&expense.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, &expense)
	}

	return expenses, rows.Err()
}

// Update overwrites an expense.
func (r *ExpenseRepository) Update(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	query := `
		UPDATE expenses
		SET kind = $2, description = $3, amount = $4, note = $5, date = $6
		WHERE id = $1
	`

	tag, err := pgxTxOf(tx).Exec(ctx, query,
		expense.ID,
		expense.Kind,
		expense.Description,
		expense.Amount,
		expense.Note,
		expense.Date,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

// Delete removes an expense.
func (r *ExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	_, err := pgxTxOf(tx).Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return err
}
