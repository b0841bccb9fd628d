package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
)

// IncomeUseCase handles manual financial entries. Creation records an
// inbound movement; deletion records an outbound reversal. Updates
// patch the previously written movement row in place instead of
// recording again, so the balance recurrence is not re-run for that or
// later movements. That is the documented behavior of the edit path,
// not an oversight.
type IncomeUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	incomeRepo   IncomeRepository
	movementRepo MovementRepository
	recorder     MovementRecorder
	idGen        IDGenerator
}

// NewIncomeUseCase creates a new IncomeUseCase.
func NewIncomeUseCase(
	txManager TransactionManager,
	retrier Retrier,
	incomeRepo IncomeRepository,
	movementRepo MovementRepository,
	recorder MovementRecorder,
	idGen IDGenerator,
) *IncomeUseCase {
	return &IncomeUseCase{
		txManager:    txManager,
		retrier:      retrier,
		incomeRepo:   incomeRepo,
		movementRepo: movementRepo,
		recorder:     recorder,
		idGen:        idGen,
	}
}

// CreateIncomeInput represents input for creating an income entry.
type CreateIncomeInput struct {
	ActorID string
	Kind    string
	Amount  decimal.Decimal
	Date    *time.Time
	Note    string
}

// CreateIncome creates the entry and records the inbound movement in
// one transaction.
func (uc *IncomeUseCase) CreateIncome(ctx context.Context, input CreateIncomeInput) (*domain.Income, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	var income *domain.Income

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

		income = &domain.Income{
			ID:        uc.idGen.Generate(),
			ActorID:   input.ActorID,
			Kind:      input.Kind,
			Amount:    domain.RoundMoney(input.Amount),
			Date:      date,
			Note:      input.Note,
			CreatedAt: now,
		}

		if err := uc.incomeRepo.Create(ctx, tx, income); err != nil {
			return err
		}

		_, err = uc.recorder.RecordTx(ctx, tx, RecordInput{
			ActorID:     input.ActorID,
			Kind:        domain.KindIncome,
			Inbound:     true,
			Amount:      income.Amount,
			Description: fmt.Sprintf("Entrada Financeira (%s)", income.Kind),
			ReferenceID: income.ID,
		})
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return income, nil
}

// UpdateIncomeInput represents input for updating an income entry.
// Nil fields are left unchanged.
type UpdateIncomeInput struct {
	Kind   *string
	Amount *decimal.Decimal
	Date   *time.Time
	Note   *string
}

// UpdateIncome patches the entry and, when the amount changed, the
// matching movement row. It deliberately does not record a new
// movement: that would double-count the entry.
func (uc *IncomeUseCase) UpdateIncome(ctx context.Context, id, actorID string, input UpdateIncomeInput) (*domain.Income, error) {
	income, err := uc.incomeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if income.ActorID != actorID {
		return nil, domain.ErrForbidden
	}

	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}

	amountChanged := input.Amount != nil && !input.Amount.Equal(income.Amount)

	if input.Kind != nil {
		income.Kind = *input.Kind
	}

	if input.Amount != nil {
		income.Amount = domain.RoundMoney(*input.Amount)
	}

	if input.Date != nil {
		income.Date = *input.Date
	}

	if input.Note != nil {
		income.Note = *input.Note
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.incomeRepo.Update(ctx, tx, income); err != nil {
			return err
		}

		if amountChanged {
			err := uc.movementRepo.PatchByReference(ctx, tx, income.ID, domain.KindIncome,
				income.Amount, fmt.Sprintf("Entrada Financeira (%s)", income.Kind), nil)
			if err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return income, nil
}

// DeleteIncome records the outbound reversal movement and deletes the
// entry in one transaction.
func (uc *IncomeUseCase) DeleteIncome(ctx context.Context, id, actorID string) (*domain.Income, error) {
	income, err := uc.incomeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if income.ActorID != actorID {
		return nil, domain.ErrForbidden
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		_, err = uc.recorder.RecordTx(ctx, tx, RecordInput{
			ActorID:     actorID,
			Kind:        domain.KindIncomeReversal,
			Inbound:     false,
			Amount:      income.Amount,
			Description: fmt.Sprintf("Estorno de Entrada Financeira %s", income.ID),
			ReferenceID: income.ID,
		})
		if err != nil {
			return err
		}

		if err := uc.incomeRepo.Delete(ctx, tx, income.ID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return income, nil
}

// GetIncome retrieves an income entry by ID.
func (uc *IncomeUseCase) GetIncome(ctx context.Context, id string) (*domain.Income, error) {
	return uc.incomeRepo.GetByID(ctx, id)
}

// ListIncomes lists income entries matching the filter, newest first.
func (uc *IncomeUseCase) ListIncomes(ctx context.Context, filter domain.IncomeFilter) ([]*domain.Income, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, domain.ErrInvalidDateRange
	}

	return uc.incomeRepo.List(ctx, filter)
}
