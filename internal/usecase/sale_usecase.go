package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
)

// SaleUseCase handles sale business logic. Creating a sale decrements
// stock and records an inbound movement; cancelling restores stock,
// records a compensating outbound movement and deletes the sale. Each
// path is one atomic transaction.
type SaleUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	saleRepo    SaleRepository
	productRepo ProductRepository
	recorder    MovementRecorder
	idGen       IDGenerator
}

// NewSaleUseCase creates a new SaleUseCase.
func NewSaleUseCase(
	txManager TransactionManager,
	retrier Retrier,
	saleRepo SaleRepository,
	productRepo ProductRepository,
	recorder MovementRecorder,
	idGen IDGenerator,
) *SaleUseCase {
	return &SaleUseCase{
		txManager:   txManager,
		retrier:     retrier,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		recorder:    recorder,
		idGen:       idGen,
	}
}

// SaleItemInput is one product line on a new sale.
type SaleItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateSaleInput represents input for creating a sale.
type CreateSaleInput struct {
	ActorID       string
	PaymentMethod string
	Date          *time.Time
	Description   string
	Items         []SaleItemInput
}

// CreateSale creates a sale, decrements stock per line item and records
// the inbound movement, all in one transaction.
func (uc *SaleUseCase) CreateSale(ctx context.Context, input CreateSaleInput) (*domain.Sale, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}

		if item.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidUnitPrice
		}
	}

	var sale *domain.Sale

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()

		date := now
		if input.Date != nil {
			date = *input.Date
		}

		sale = &domain.Sale{
			ID:            uc.idGen.Generate(),
			ActorID:       input.ActorID,
			PaymentMethod: input.PaymentMethod,
			Date:          date,
			Description:   input.Description,
			CreatedAt:     now,
		}

		for _, item := range input.Items {
			product, err := uc.productRepo.GetByIDTx(ctx, tx, item.ProductID)
			if err != nil {
				return err
			}

			if !product.Active {
				return fmt.Errorf("%w: %s", domain.ErrProductInactive, product.Name)
			}

			if !product.HasStock(item.Quantity) {
				return fmt.Errorf("%w: product %q has %d, requested %d",
					domain.ErrInsufficientStock, product.Name, product.Stock, item.Quantity)
			}

			sale.Items = append(sale.Items, domain.SaleItem{
				ID:        uc.idGen.Generate(),
				SaleID:    sale.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: domain.RoundMoney(item.UnitPrice),
			})
		}

		sale.Total = domain.SaleTotal(sale.Items)

		if err := uc.saleRepo.Create(ctx, tx, sale); err != nil {
			return err
		}

		for _, item := range sale.Items {
			if err := uc.productRepo.AdjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		_, err = uc.recorder.RecordTx(ctx, tx, RecordInput{
			ActorID:     input.ActorID,
			Kind:        domain.KindSale,
			Inbound:     true,
			Amount:      sale.Total,
			Description: fmt.Sprintf("Venda %s", sale.ID),
			ReferenceID: sale.ID,
		})
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// CancelSale restores stock per line item, records the outbound
// reversal movement and deletes the sale, all in one transaction.
func (uc *SaleUseCase) CancelSale(ctx context.Context, id, actorID string) (*domain.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sale.ActorID != actorID {
		return nil, domain.ErrForbidden
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		for _, item := range sale.Items {
			if err := uc.productRepo.AdjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		_, err = uc.recorder.RecordTx(ctx, tx, RecordInput{
			ActorID:     actorID,
			Kind:        domain.KindSaleCancelled,
			Inbound:     false,
			Amount:      sale.Total,
			Description: fmt.Sprintf("Cancelamento da venda %s", sale.ID),
			ReferenceID: sale.ID,
		})
		if err != nil {
			return err
		}

		if err := uc.saleRepo.Delete(ctx, tx, sale.ID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// GetSale retrieves a sale by ID with its items.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return uc.saleRepo.GetByID(ctx, id)
}

// ListSales lists sales matching the filter, newest first.
func (uc *SaleUseCase) ListSales(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, domain.ErrInvalidDateRange
	}

	return uc.saleRepo.List(ctx, filter)
}
