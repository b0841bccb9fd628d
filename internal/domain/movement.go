package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every persisted monetary
// value is rounded to.
const MoneyScale = 2

// Recommended movement kinds. The column is an open string so new
// producers can introduce kinds without a migration.
const (
	KindSale           = "venda"
	KindSaleCancelled  = "cancelamento_venda"
	KindPurchase       = "compra"
	KindPurchaseVoided = "compra_cancelada"
	KindIncome         = "entrada_financeira"
	KindIncomeReversal = "reversao_entrada"
	KindExpense        = "despesa"
	KindAdjustment     = "ajuste"
)

// Movement is a single financial ledger record. It is immutable once
// written, except for the narrow income/expense edit path that patches
// amount, description and occurred_at in place.
//
// OccurredAt is the date the movement is presented under and may be
// backdated; CreatedAt is the true insertion time and is the only
// ordering key used for balance resolution.
type Movement struct {
	ID           int64
	ActorID      string
	Kind         string
	ReferenceID  string
	Description  string
	Amount       decimal.Decimal
	Inbound      bool
	OccurredAt   time.Time
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// Apply returns the balance that results from applying the movement to
// the given balance, rounded to MoneyScale.
func (m *Movement) Apply(balance decimal.Decimal) decimal.Decimal {
	if m.Inbound {
		return balance.Add(m.Amount).Round(MoneyScale)
	}

	return balance.Sub(m.Amount).Round(MoneyScale)
}

// RoundMoney rounds a monetary value to MoneyScale (half up).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// MovementFilter narrows movement listings. Zero values mean "no
// filter". The date range applies to OccurredAt, not CreatedAt.
type MovementFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Kind     string
	Inbound  *bool
	ActorID  string
}

// Validate checks filter consistency.
func (f *MovementFilter) Validate() error {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return ErrInvalidDateRange
	}

	return nil
}

// DashboardSummary is the read-only rollup served to the dashboard.
type DashboardSummary struct {
	TotalInbound   decimal.Decimal
	TotalOutbound  decimal.Decimal
	NetProfit      decimal.Decimal
	InboundByKind  map[string]decimal.Decimal
	OutboundByKind map[string]decimal.Decimal
	Recent         []*Movement
	CurrentBalance decimal.Decimal
}
