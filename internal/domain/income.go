package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is a manual financial entry (contribution, donation, service
// fee and the like). Creating one writes an inbound movement; deleting
// one writes an outbound reversal.
type Income struct {
	ID        string
	ActorID   string
	Kind      string
	Amount    decimal.Decimal
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

// IncomeFilter narrows income listings.
type IncomeFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Kind     string
	ActorID  string
}
