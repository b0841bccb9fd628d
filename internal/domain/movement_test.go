package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMovement_Apply(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		inbound bool
		want    string
	}{
		{"inbound adds", "100.00", "25.50", true, "125.5"},
		{"outbound subtracts", "100.00", "25.50", false, "74.5"},
		{"outbound below zero", "10.00", "25.00", false, "-15"},
		{"rounds half up", "0.00", "10.005", true, "10.01"},
		{"rounds half up outbound", "0.00", "10.005", false, "-10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, _ := decimal.NewFromString(tt.balance)
			amount, _ := decimal.NewFromString(tt.amount)
			want, _ := decimal.NewFromString(tt.want)

			m := &Movement{Amount: amount, Inbound: tt.inbound}

			got := m.Apply(balance)
			if !got.Equal(want) {
				t.Errorf("Apply(%s) = %s, want %s", tt.balance, got, want)
			}
		})
	}
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"-10.005", "-10.01"},
		{"2.675", "2.68"},
		{"100", "100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			in, _ := decimal.NewFromString(tt.in)

			got := RoundMoney(in).StringFixed(2)
			if got != tt.want {
				t.Errorf("RoundMoney(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestMovementFilter_Validate(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-24 * time.Hour)

	tests := []struct {
		name        string
		filter      MovementFilter
		expectError bool
	}{
		{"empty filter", MovementFilter{}, false},
		{"from only", MovementFilter{DateFrom: &earlier}, false},
		{"to only", MovementFilter{DateTo: &now}, false},
		{"valid range", MovementFilter{DateFrom: &earlier, DateTo: &now}, false},
		{"inverted range", MovementFilter{DateFrom: &now, DateTo: &earlier}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaleTotal(t *testing.T) {
	items := []SaleItem{
		{Quantity: 3, UnitPrice: decimal.NewFromFloat(19.90)},
		{Quantity: 2, UnitPrice: decimal.NewFromFloat(0.75)},
	}

	got := SaleTotal(items)
	if got.StringFixed(2) != "61.20" {
		t.Errorf("SaleTotal = %s, want 61.20", got.StringFixed(2))
	}
}

func TestPurchaseTotal(t *testing.T) {
	items := []PurchaseItem{
		{Quantity: 10, UnitCost: decimal.NewFromFloat(7.25)},
		{Quantity: 1, UnitCost: decimal.NewFromFloat(100)},
	}

	got := PurchaseTotal(items)
	if got.StringFixed(2) != "172.50" {
		t.Errorf("PurchaseTotal = %s, want 172.50", got.StringFixed(2))
	}
}

func TestProduct_HasStock(t *testing.T) {
	p := &Product{Stock: 5}

	if !p.HasStock(5) {
		t.Error("expected stock for exact quantity")
	}

	if p.HasStock(6) {
		t.Error("expected no stock above quantity")
	}
}
