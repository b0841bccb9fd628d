package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

const productColumns = `id, name, description, price, stock, active, created_at, updated_at`

// ProductRepository implements product persistence.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new product repository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	)

	return err
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getByID(ctx, r.pool, id)
}

// GetByIDTx is GetByID executed inside the given transaction.
func (r *ProductRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Product, error) {
	return r.getByID(ctx, pgxTxOf(tx), id)
}

func (r *ProductRepository) getByID(ctx context.Context, q querier, id string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := q.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}

	if err != nil {
		return nil, err
	}

	return &product, nil
}

// List retrieves products with pagination, newest first.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var product domain.Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.Active,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}

// AdjustStock applies delta to the product's stock. The guard in the
// WHERE clause makes the decrement atomic: a concurrent sale cannot
// drive stock below zero.
func (r *ProductRepository) AdjustStock(ctx context.Context, tx usecase.Transaction, id string, delta int64) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
	`

	tag, err := pgxTxOf(tx).Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing product from an exhausted one.
		if _, err := r.getByID(ctx, pgxTxOf(tx), id); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}

	return nil
}
