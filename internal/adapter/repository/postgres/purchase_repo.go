package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// PurchaseRepository implements purchase persistence.
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository creates a new purchase repository.
func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

// Create inserts a purchase and its line items.
func (r *PurchaseRepository) Create(ctx context.Context, tx usecase.Transaction, purchase *domain.Purchase) error {
	pgtx := pgxTxOf(tx)

	query := `
		INSERT INTO purchases (id, actor_id, supplier, date, total, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgtx.Exec(ctx, query,
		purchase.ID,
		purchase.ActorID,
		purchase.Supplier,
		purchase.Date,
		purchase.Total,
		purchase.Note,
		purchase.CreatedAt,
	)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i := range purchase.Items {
		item := &purchase.Items[i]
		if _, err := pgtx.Exec(ctx, itemQuery,
			item.ID,
			item.PurchaseID,
			item.ProductID,
			item.Quantity,
			item.UnitCost,
		); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a purchase with its line items.
func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*domain.Purchase, error) {
	query := `
		SELECT id, actor_id, supplier, date, total, note, created_at
		FROM purchases
		WHERE id = $1
	`

	var purchase domain.Purchase
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&purchase.ID,
		&purchase.ActorID,
		&purchase.Supplier,
		&purchase.Date,
		&purchase.Total,
		&purchase.Note,
		&purchase.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPurchaseNotFound
	}

	if err != nil {
		return nil, err
	}

	items, err := r.itemsByPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	purchase.Items = items

	return &purchase, nil
}

// List retrieves purchases matching the filter, newest first.
func (r *PurchaseRepository) List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	query := `
		SELECT id, actor_id, supplier, date, total, note, created_at
		FROM purchases
		WHERE ($1::text = '' OR actor_id = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		  AND ($4::text = '' OR supplier ILIKE '%' || $4 || '%')
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query,
		filter.ActorID,
		filter.DateFrom,
		filter.DateTo,
		filter.Supplier,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		var purchase domain.Purchase
		err := rows.Scan(
			&purchase.ID,
			&purchase.ActorID,
			&purchase.Supplier,
			&purchase.Date,
			&purchase.Total,
			&purchase.Note,
			&purchase.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, &purchase)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, purchase := range purchases {
		items, err := r.itemsByPurchase(ctx, purchase.ID)
		if err != nil {
			return nil, err
		}
		purchase.Items = items
	}

	return purchases, nil
}

// Delete removes a purchase; its items go with it via CASCADE.
func (r *PurchaseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	_, err := pgxTxOf(tx).Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	return err
}

func (r *PurchaseRepository) itemsByPurchase(ctx context.Context, purchaseID string) ([]domain.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_cost
		FROM purchase_items
		WHERE purchase_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.PurchaseItem
	for rows.Next() {
		var item domain.PurchaseItem
		err := rows.Scan(
			&item.ID,
			&item.PurchaseID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitCost,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
