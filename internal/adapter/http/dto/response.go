package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// MovementResponse represents a ledger movement in API responses.
type MovementResponse struct {
	ID           int64           `json:"id"`
	ActorID      string          `json:"actor_id"`
	Kind         string          `json:"kind"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Inbound      bool            `json:"inbound"`
	OccurredAt   time.Time       `json:"occurred_at"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MovementFromDomain converts domain movement to response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:           m.ID,
		ActorID:      m.ActorID,
		Kind:         m.Kind,
		ReferenceID:  m.ReferenceID,
		Description:  m.Description,
		Amount:       m.Amount,
		Inbound:      m.Inbound,
		OccurredAt:   m.OccurredAt,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// BalanceResponse represents the current resolved balance.
type BalanceResponse struct {
	ActorID string          `json:"actor_id"`
	Balance decimal.Decimal `json:"balance"`
}

// DashboardResponse represents the dashboard rollup.
type DashboardResponse struct {
	TotalInbound   decimal.Decimal            `json:"total_inbound"`
	TotalOutbound  decimal.Decimal            `json:"total_outbound"`
	NetProfit      decimal.Decimal            `json:"net_profit"`
	InboundByKind  map[string]decimal.Decimal `json:"inbound_by_kind"`
	OutboundByKind map[string]decimal.Decimal `json:"outbound_by_kind"`
	Recent         []*MovementResponse        `json:"recent"`
	CurrentBalance decimal.Decimal            `json:"current_balance"`
}

// DashboardFromDomain converts the domain rollup to a response.
func DashboardFromDomain(s *domain.DashboardSummary) *DashboardResponse {
	return &DashboardResponse{
		TotalInbound:   s.TotalInbound,
		TotalOutbound:  s.TotalOutbound,
		NetProfit:      s.NetProfit,
		InboundByKind:  s.InboundByKind,
		OutboundByKind: s.OutboundByKind,
		Recent:         MovementsFromDomain(s.Recent),
		CurrentBalance: s.CurrentBalance,
	}
}

// SaleItemResponse represents a sale line item in API responses.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID            string              `json:"id"`
	ActorID       string              `json:"actor_id"`
	PaymentMethod string              `json:"payment_method"`
	Date          time.Time           `json:"date"`
	Total         decimal.Decimal     `json:"total"`
	Description   string              `json:"description,omitempty"`
	Items         []*SaleItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// SaleFromDomain converts domain sale to response.
func SaleFromDomain(s *domain.Sale) *SaleResponse {
	items := make([]*SaleItemResponse, len(s.Items))
	for i := range s.Items {
		item := &s.Items[i]
		items[i] = &SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		}
	}

	return &SaleResponse{
		ID:            s.ID,
		ActorID:       s.ActorID,
		PaymentMethod: s.PaymentMethod,
		Date:          s.Date,
		Total:         s.Total,
		Description:   s.Description,
		Items:         items,
		CreatedAt:     s.CreatedAt,
	}
}

// SalesFromDomain converts domain sales to responses.
func SalesFromDomain(sales []*domain.Sale) []*SaleResponse {
	result := make([]*SaleResponse, len(sales))
	for i, s := range sales {
		result[i] = SaleFromDomain(s)
	}
	return result
}

// PurchaseItemResponse represents a purchase line item in API responses.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse represents a purchase in API responses.
type PurchaseResponse struct {
	ID        string                  `json:"id"`
	ActorID   string                  `json:"actor_id"`
	Supplier  string                  `json:"supplier,omitempty"`
	Date      time.Time               `json:"date"`
	Total     decimal.Decimal         `json:"total"`
	Note      string                  `json:"note,omitempty"`
	Items     []*PurchaseItemResponse `json:"items"`
	CreatedAt time.Time               `json:"created_at"`
}

// PurchaseFromDomain converts domain purchase to response.
func PurchaseFromDomain(p *domain.Purchase) *PurchaseResponse {
	items := make([]*PurchaseItemResponse, len(p.Items))
	for i := range p.Items {
		item := &p.Items[i]
		items[i] = &PurchaseItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			Subtotal:  item.Subtotal(),
		}
	}

	return &PurchaseResponse{
		ID:        p.ID,
		ActorID:   p.ActorID,
		Supplier:  p.Supplier,
		Date:      p.Date,
		Total:     p.Total,
		Note:      p.Note,
		Items:     items,
		CreatedAt: p.CreatedAt,
	}
}

// PurchasesFromDomain converts domain purchases to responses.
func PurchasesFromDomain(purchases []*domain.Purchase) []*PurchaseResponse {
	result := make([]*PurchaseResponse, len(purchases))
	for i, p := range purchases {
		result[i] = PurchaseFromDomain(p)
	}
	return result
}

// IncomeResponse represents a manual financial entry in API responses.
type IncomeResponse struct {
	ID        string          `json:"id"`
	ActorID   string          `json:"actor_id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// IncomeFromDomain converts domain income to response.
func IncomeFromDomain(in *domain.Income) *IncomeResponse {
	return &IncomeResponse{
		ID:        in.ID,
		ActorID:   in.ActorID,
		Kind:      in.Kind,
		Amount:    in.Amount,
		Date:      in.Date,
		Note:      in.Note,
		CreatedAt: in.CreatedAt,
	}
}

// IncomesFromDomain converts domain incomes to responses.
func IncomesFromDomain(incomes []*domain.Income) []*IncomeResponse {
	result := make([]*IncomeResponse, len(incomes))
	for i, in := range incomes {
		result[i] = IncomeFromDomain(in)
	}
	return result
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	ActorID     string          `json:"actor_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		ActorID:     e.ActorID,
		Kind:        e.Kind,
		Description: e.Description,
		Amount:      e.Amount,
		Note:        e.Note,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// SettingsResponse represents back-office settings in API responses.
type SettingsResponse struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentMonth   int             `json:"current_month"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SettingsFromDomain converts domain settings to response.
func SettingsFromDomain(s *domain.Settings) *SettingsResponse {
	return &SettingsResponse{
		OpeningBalance: s.OpeningBalance,
		CurrentMonth:   s.CurrentMonth,
		CreatedAt:      s.CreatedAt,
	}
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductFromDomain converts domain product to response.
func ProductFromDomain(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductsFromDomain converts domain products to responses.
func ProductsFromDomain(products []*domain.Product) []*ProductResponse {
	result := make([]*ProductResponse, len(products))
	for i, p := range products {
		result[i] = ProductFromDomain(p)
	}
	return result
}

// UserResponse represents a user in API responses. The password hash
// never leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ChainDiscrepancyResponse represents one movement whose stored
// balance disagrees with the replayed recurrence.
type ChainDiscrepancyResponse struct {
	MovementID int64           `json:"movement_id"`
	Kind       string          `json:"kind"`
	Expected   decimal.Decimal `json:"expected"`
	Stored     decimal.Decimal `json:"stored"`
	Difference decimal.Decimal `json:"difference"`
}

// ChainReportResponse represents a movement chain verification result.
type ChainReportResponse struct {
	ActorID       string                     `json:"actor_id"`
	Movements     int                        `json:"movements"`
	Consistent    bool                       `json:"consistent"`
	Discrepancies []ChainDiscrepancyResponse `json:"discrepancies"`
	FinalBalance  decimal.Decimal            `json:"final_balance"`
	CheckedAt     time.Time                  `json:"checked_at"`
}

// ChainReportFromUseCase converts a verification report to a response.
func ChainReportFromUseCase(r *usecase.ChainReport) *ChainReportResponse {
	discrepancies := make([]ChainDiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ChainDiscrepancyResponse{
			MovementID: d.MovementID,
			Kind:       d.Kind,
			Expected:   d.Expected,
			Stored:     d.Stored,
			Difference: d.Difference,
		}
	}

	return &ChainReportResponse{
		ActorID:       r.ActorID,
		Movements:     r.Movements,
		Consistent:    r.Consistent,
		Discrepancies: discrepancies,
		FinalBalance:  r.FinalBalance,
		CheckedAt:     r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
