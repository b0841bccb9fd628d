package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
)

// PurchaseUseCase handles purchase business logic. Creating a purchase
// increments stock and records an outbound movement; deleting reverses
// the stock (failing when there is not enough left to reverse), records
// an inbound movement and removes the purchase. One transaction each.
type PurchaseUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	purchaseRepo PurchaseRepository
	productRepo  ProductRepository
	recorder     MovementRecorder
	idGen        IDGenerator
}

// NewPurchaseUseCase creates a new PurchaseUseCase.
func NewPurchaseUseCase(
	txManager TransactionManager,
	retrier Retrier,
	purchaseRepo PurchaseRepository,
	productRepo ProductRepository,
	recorder MovementRecorder,
	idGen IDGenerator,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txManager:    txManager,
		retrier:      retrier,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		recorder:     recorder,
		idGen:        idGen,
	}
}

// PurchaseItemInput is one product line on a new purchase.
type PurchaseItemInput struct {
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// CreatePurchaseInput represents input for creating a purchase.
type CreatePurchaseInput struct {
	ActorID  string
	Supplier string
	Date     *time.Time
	Note     string
	Items    []PurchaseItemInput
}

// CreatePurchase creates a purchase, increments stock per line item and
// records the outbound movement, all in one transaction.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*domain.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}

		if item.UnitCost.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidUnitPrice
		}
	}

	var purchase *domain.Purchase

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

		purchase = &domain.Purchase{
			ID:        uc.idGen.Generate(),
			ActorID:   input.ActorID,
			Supplier:  input.Supplier,
			Date:      date,
			Note:      input.Note,
			CreatedAt: now,
		}

		for _, item := range input.Items {
			product, err := uc.productRepo.GetByIDTx(ctx, tx, item.ProductID)
			if err != nil {
				return err
			}

			if !product.Active {
				return fmt.Errorf("%w: %s", domain.ErrProductInactive, product.Name)
			}

			purchase.Items = append(purchase.Items, domain.PurchaseItem{
				ID:         uc.idGen.Generate(),
				PurchaseID: purchase.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitCost:   domain.RoundMoney(item.UnitCost),
			})
		}

		purchase.Total = domain.PurchaseTotal(purchase.Items)

		if err := uc.purchaseRepo.Create(ctx, tx, purchase); err != nil {
			return err
		}

		for _, item := range purchase.Items {
			if err := uc.productRepo.AdjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		description := fmt.Sprintf("Compra de produtos %s", purchase.ID)
		if purchase.Supplier != "" {
			description += " - Fornecedor: " + purchase.Supplier
		}

		_, err = uc.recorder.RecordTx(ctx, tx, RecordInput{
			ActorID:     input.ActorID,
			Kind:        domain.KindPurchase,
			Inbound:     false,
			Amount:      purchase.Total,
			Description: description,
			ReferenceID: purchase.ID,
		})
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}

// DeletePurchase reverses the stock added by the purchase, records the
// inbound reversal movement and deletes the purchase. When any product
// no longer has enough stock to reverse, the whole transaction fails
// and nothing is committed.
func (uc *PurchaseUseCase) DeletePurchase(ctx context.Context, id, actorID string) error {
	purchase, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if purchase.ActorID != actorID {
		return domain.ErrForbidden
	}

	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		for _, item := range purchase.Items {
			if err := uc.productRepo.AdjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		_, err = uc.recorder.RecordTx(ctx, tx, RecordInput{
			ActorID:     actorID,
			Kind:        domain.KindPurchaseVoided,
			Inbound:     true,
			Amount:      purchase.Total,
			Description: fmt.Sprintf("Estorno da compra %s", purchase.ID),
			ReferenceID: purchase.ID,
		})
		if err != nil {
			return err
		}

		if err := uc.purchaseRepo.Delete(ctx, tx, purchase.ID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// GetPurchase retrieves a purchase by ID with its items, checking ownership.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, id, actorID string) (*domain.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if purchase.ActorID != actorID {
		return nil, domain.ErrForbidden
	}

	return purchase, nil
}

// ListPurchases lists purchases matching the filter, newest first.
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, domain.ErrInvalidDateRange
	}

	return uc.purchaseRepo.List(ctx, filter)
}
