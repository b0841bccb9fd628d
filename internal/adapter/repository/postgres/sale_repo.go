package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// SaleRepository implements sale persistence. Line items live in
// sale_items and are written together with their sale; ON DELETE
// CASCADE removes them with it.
type SaleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository creates a new sale repository.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// Create inserts a sale and its line items.
func (r *SaleRepository) Create(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	pgtx := pgxTxOf(tx)

	query := `
		INSERT INTO sales (id, actor_id, payment_method, date, total, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgtx.Exec(ctx, query,
		sale.ID,
		sale.ActorID,
		sale.PaymentMethod,
		sale.Date,
		sale.Total,
		sale.Description,
		sale.CreatedAt,
	)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i := range sale.Items {
		item := &sale.Items[i]
		if _, err := pgtx.Exec(ctx, itemQuery,
			item.ID,
			item.SaleID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
		); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a sale with its line items.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT id, actor_id, payment_method, date, total, description, created_at
		FROM sales
		WHERE id = $1
	`

	var sale domain.Sale
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&sale.ID,
		&sale.ActorID,
		&sale.PaymentMethod,
		&sale.Date,
		&sale.Total,
		&sale.Description,
		&sale.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSaleNotFound
	}

	if err != nil {
		return nil, err
	}

	items, err := r.itemsBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Items = items

	return &sale, nil
}

// List retrieves sales matching the filter, newest first. Line items
// are loaded per sale.
func (r *SaleRepository) List(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error) {
	query := `
		SELECT id, actor_id, payment_method, date, total, description, created_at
		FROM sales
		WHERE ($1::text = '' OR actor_id = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		  AND ($4::text = '' OR payment_method = $4)
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query,
		filter.ActorID,
		filter.DateFrom,
		filter.DateTo,
		filter.PaymentMethod,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		var sale domain.Sale
		err := rows.Scan(
			&sale.ID,
			&sale.ActorID,
			&sale.PaymentMethod,
			&sale.Date,
			&sale.Total,
			&sale.Description,
			&sale.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sales = append(sales, &sale)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sale := range sales {
		items, err := r.itemsBySale(ctx, sale.ID)
		if err != nil {
			return nil, err
		}
		sale.Items = items
	}

	return sales, nil
}

// Delete removes a sale; its items go with it via CASCADE.
func (r *SaleRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	_, err := pgxTxOf(tx).Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	return err
}

func (r *SaleRepository) itemsBySale(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.SaleItem
	for rows.Next() {
		var item domain.SaleItem
		err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
