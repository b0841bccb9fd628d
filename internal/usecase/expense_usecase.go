package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
)

// ExpenseUseCase handles expenses. Creation records an outbound
// movement. Updates patch the previously written movement row in place
// (same edit-path behavior as incomes). Deletion removes the matching
// movement row instead of recording a reversal.
type ExpenseUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	expenseRepo  ExpenseRepository
	movementRepo MovementRepository
	recorder     MovementRecorder
	idGen        IDGenerator
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	retrier Retrier,
	expenseRepo ExpenseRepository,
	movementRepo MovementRepository,
	recorder MovementRecorder,
	idGen IDGenerator,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:    txManager,
		retrier:      retrier,
		expenseRepo:  expenseRepo,
		movementRepo: movementRepo,
		recorder:     recorder,
		idGen:        idGen,
	}
}

// CreateExpenseInput represents input for creating an expense.
type CreateExpenseInput struct {
	ActorID     string
	Kind        string
	Description string
	Amount      decimal.Decimal
	Note        string
	Date        *time.Time
}

// CreateExpense creates the expense and records the outbound movement
// in one transaction.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	if err := domain.ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var expense *domain.Expense

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

		expense = &domain.Expense{
			ID:          uc.idGen.Generate(),
			ActorID:     input.ActorID,
			Kind:        strings.TrimSpace(input.Kind),
			Description: strings.TrimSpace(input.Description),
			Amount:      domain.RoundMoney(input.Amount),
			Note:        strings.TrimSpace(input.Note),
			Date:        date,
			CreatedAt:   now,
		}

		if err := uc.expenseRepo.Create(ctx, tx, expense); err != nil {
			return err
		}

		_, err = uc.recorder.RecordTx(ctx, tx, RecordInput{
			ActorID:     input.ActorID,
			Kind:        domain.KindExpense,
			Inbound:     false,
			Amount:      expense.Amount,
			Description: "Despesa - " + expense.Description,
			ReferenceID: expense.ID,
		})
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpenseInput represents input for updating an expense. Nil
// fields are left unchanged.
type UpdateExpenseInput struct {
	Kind        *string
	Description *string
	Amount      *decimal.Decimal
	Note        *string
	Date        *time.Time
}

// UpdateExpense patches the expense and the matching movement row's
// amount, description and occurrence date. No new movement is recorded
// and the balance recurrence is not re-run.
func (uc *ExpenseUseCase) UpdateExpense(ctx context.Context, id, actorID string, input UpdateExpenseInput) (*domain.Expense, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if expense.ActorID != actorID {
		return nil, domain.ErrForbidden
	}

	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}

	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
	}

	if input.Kind != nil {
		if err := domain.ValidateKind(*input.Kind); err != nil {
			return nil, err
		}

		expense.Kind = strings.TrimSpace(*input.Kind)
	}

	if input.Description != nil {
		expense.Description = strings.TrimSpace(*input.Description)
	}

	if input.Amount != nil {
		expense.Amount = domain.RoundMoney(*input.Amount)
	}

	if input.Note != nil {
		expense.Note = strings.TrimSpace(*input.Note)
	}

	if input.Date != nil {
		expense.Date = *input.Date
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.expenseRepo.Update(ctx, tx, expense); err != nil {
			return err
		}

		err = uc.movementRepo.PatchByReference(ctx, tx, expense.ID, domain.KindExpense,
			expense.Amount, "Despesa - "+expense.Description, input.Date)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// DeleteExpense removes the matching movement row and the expense in
// one transaction.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, id, actorID string) error {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if expense.ActorID != actorID {
		return domain.ErrForbidden
	}

	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.movementRepo.DeleteByReference(ctx, tx, expense.ID, domain.KindExpense); err != nil {
			return err
		}

		if err := uc.expenseRepo.Delete(ctx, tx, expense.ID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// GetExpense retrieves an expense by ID, checking ownership.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id, actorID string) (*domain.Expense, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if expense.ActorID != actorID {
		return nil, domain.ErrForbidden
	}

	return expense, nil
}

// ListExpenses lists expenses matching the filter, newest first.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, domain.ErrInvalidDateRange
	}

	return uc.expenseRepo.List(ctx, filter)
}
