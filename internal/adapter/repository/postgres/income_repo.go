package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// IncomeRepository implements persistence for manual financial
// entries.
type IncomeRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeRepository creates a new income repository.
func NewIncomeRepository(pool *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{pool: pool}
}

// Create inserts an income entry.
func (r *IncomeRepository) Create(ctx context.Context, tx usecase.Transaction, income *domain.Income) error {
	query := `
		INSERT INTO incomes (id, actor_id, kind, amount, date, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTxOf(tx).Exec(ctx, query,
		income.ID,
		income.ActorID,
		income.Kind,
		income.Amount,
		income.Date,
		income.Note,
		income.CreatedAt,
	)

	return err
}

// GetByID retrieves an income entry by ID.
func (r *IncomeRepository) GetByID(ctx context.Context, id string) (*domain.Income, error) {
	query := `
		SELECT id, actor_id, kind, amount, date, note, created_at
		FROM incomes
		WHERE id = $1
	`

	var income domain.Income
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&income.ID,
		&income.ActorID,
		&income.Kind,
		&income.Amount,
		&income.Date,
		&income.Note,
		&income.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIncomeNotFound
	}

	if err != nil {
		return nil, err
	}

	return &income, nil
}

// List retrieves income entries matching the filter, newest first.
func (r *IncomeRepository) List(ctx context.Context, filter domain.IncomeFilter) ([]*domain.Income, error) {
	query := `
		SELECT id, actor_id, kind, amount, date, note, created_at
		FROM incomes
		WHERE ($1::text = '' OR actor_id = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		  AND ($4::text = '' OR kind ILIKE '%' || $4 || '%')
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query,
		filter.ActorID,
		filter.DateFrom,
		filter.DateTo,
		filter.Kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incomes []*domain.Income
	for rows.Next() {
		var income domain.Income
		err := rows.Scan(
			&income.ID,
			&income.ActorID,
			&income.Kind,
			&income.Amount,
			&income.Date,
			&income.Note,
			&income.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, &income)
	}

	return incomes, rows.Err()
}

// Update overwrites an income entry.
func (r *IncomeRepository) Update(ctx context.Context, tx usecase.Transaction, income *domain.Income) error {
	query := `
		UPDATE incomes
		SET kind = $2, amount = $3, date = $4, note = $5
		WHERE id = $1
	`

	tag, err := pgxTxOf(tx).Exec(ctx, query,
		income.ID,
		income.Kind,
		income.Amount,
		income.Date,
		income.Note,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrIncomeNotFound
	}

	return nil
}

// Delete removes an income entry.
func (r *IncomeRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	_, err := pgxTxOf(tx).Exec(ctx, `DELETE FROM incomes WHERE id = $1`, id)
	return err
}
