package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operational cost. Creating one writes an outbound
// movement; deleting one removes that movement instead of writing a
// reversal.
type Expense struct {
	ID          string
	ActorID     string
	Kind        string
	Description string
	Amount      decimal.Decimal
	Note        string
	Date        time.Time
	CreatedAt   time.Time
}

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Kind      string
	DateFrom  *time.Time
	DateTo    *time.Time
	AmountMin *decimal.Decimal
	AmountMax *decimal.Decimal
	ActorID   string
}
