package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a stock purchase with its line items.
type Purchase struct {
	ID        string
	ActorID   string
	Supplier  string
	Date      time.Time
	Total     decimal.Decimal
	Note      string
	Items     []PurchaseItem
	CreatedAt time.Time
}

// PurchaseItem is one product line on a purchase.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitCost   decimal.Decimal
}

// Subtotal returns quantity x unit cost for the line.
func (i *PurchaseItem) Subtotal() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(i.Quantity))
}

// PurchaseTotal sums the line subtotals, rounded to MoneyScale.
func PurchaseTotal(items []PurchaseItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}

	return RoundMoney(total)
}

// PurchaseFilter narrows purchase listings.
type PurchaseFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Supplier string
	ActorID  string
}
