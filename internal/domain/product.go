package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an inventory item. Stock is mutated only by sale and
// purchase producers inside their transactions.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStock reports whether qty units can be taken from stock.
func (p *Product) HasStock(qty int64) bool {
	return p.Stock >= qty
}
