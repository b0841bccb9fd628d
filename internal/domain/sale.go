package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a completed sale with its line items. Cancelling a sale
// deletes the row after restoring stock and writing a compensating
// movement.
type Sale struct {
	ID            string
	ActorID       string
	PaymentMethod string
	Date          time.Time
	Total         decimal.Decimal
	Description   string
	Items         []SaleItem
	CreatedAt     time.Time
}

// SaleItem is one product line on a sale.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity x unit price for the line.
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// SaleTotal sums the line subtotals, rounded to MoneyScale.
func SaleTotal(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}

	return RoundMoney(total)
}

// SaleFilter narrows sale listings.
type SaleFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	PaymentMethod string
	ActorID       string
}
