package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// SaleItemRequest is one line item on a sale request.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest represents a request to create a sale.
type CreateSaleRequest struct {
	PaymentMethod string            `json:"payment_method"`
	Date          *time.Time        `json:"date,omitempty"`
	Description   string            `json:"description,omitempty"`
	Items         []SaleItemRequest `json:"items"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateSaleRequest) ToUseCaseInput(actorID string) usecase.CreateSaleInput {
	items := make([]usecase.SaleItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = usecase.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return usecase.CreateSaleInput{
		ActorID:       actorID,
		PaymentMethod: r.PaymentMethod,
		Date:          r.Date,
		Description:   r.Description,
		Items:         items,
	}
}

// PurchaseItemRequest is one line item on a purchase request.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest represents a request to create a purchase.
type CreatePurchaseRequest struct {
	Supplier string                `json:"supplier,omitempty"`
	Date     *time.Time            `json:"date,omitempty"`
	Note     string                `json:"note,omitempty"`
	Items    []PurchaseItemRequest `json:"items"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePurchaseRequest) ToUseCaseInput(actorID string) usecase.CreatePurchaseInput {
	items := make([]usecase.PurchaseItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = usecase.PurchaseItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		}
	}

	return usecase.CreatePurchaseInput{
		ActorID:  actorID,
		Supplier: r.Supplier,
		Date:     r.Date,
		Note:     r.Note,
		Items:    items,
	}
}

// CreateIncomeRequest represents a request to create a manual
// financial entry.
type CreateIncomeRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Date   *time.Time      `json:"date,omitempty"`
	Note   string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateIncomeRequest) ToUseCaseInput(actorID string) usecase.CreateIncomeInput {
	return usecase.CreateIncomeInput{
		ActorID: actorID,
		Kind:    r.Kind,
		Amount:  r.Amount,
		Date:    r.Date,
		Note:    r.Note,
	}
}

// UpdateIncomeRequest represents a partial income update. Absent
// fields are left unchanged.
type UpdateIncomeRequest struct {
	Kind   *string          `json:"kind,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Date   *time.Time       `json:"date,omitempty"`
	Note   *string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateIncomeRequest) ToUseCaseInput() usecase.UpdateIncomeInput {
	return usecase.UpdateIncomeInput{
		Kind:   r.Kind,
		Amount: r.Amount,
		Date:   r.Date,
		Note:   r.Note,
	}
}

// CreateExpenseRequest represents a request to create an expense.
type CreateExpenseRequest struct {
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput(actorID string) usecase.CreateExpenseInput {
	return usecase.CreateExpenseInput{
		ActorID:     actorID,
		Kind:        r.Kind,
		Description: r.Description,
		Amount:      r.Amount,
		Note:        r.Note,
		Date:        r.Date,
	}
}

// UpdateExpenseRequest represents a partial expense update.
type UpdateExpenseRequest struct {
	Kind        *string          `json:"kind,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Note        *string          `json:"note,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateExpenseRequest) ToUseCaseInput() usecase.UpdateExpenseInput {
	return usecase.UpdateExpenseInput{
		Kind:        r.Kind,
		Description: r.Description,
		Amount:      r.Amount,
		Note:        r.Note,
		Date:        r.Date,
	}
}

// RecordAdjustmentRequest represents a manual balance adjustment.
type RecordAdjustmentRequest struct {
	Inbound     bool            `json:"inbound"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordAdjustmentRequest) ToUseCaseInput(actorID string) usecase.RecordAdjustmentInput {
	return usecase.RecordAdjustmentInput{
		ActorID:     actorID,
		Inbound:     r.Inbound,
		Amount:      r.Amount,
		Description: r.Description,
	}
}

// UpdateSettingsRequest represents a partial settings update.
type UpdateSettingsRequest struct {
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
	CurrentMonth   *int             `json:"current_month,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateSettingsRequest) ToUseCaseInput() usecase.UpdateSettingsInput {
	return usecase.UpdateSettingsInput{
		OpeningBalance: r.OpeningBalance,
		CurrentMonth:   r.CurrentMonth,
	}
}

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// LoginRequest represents a login attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateProductRequest) ToUseCaseInput() usecase.CreateProductInput {
	return usecase.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
	}
}
