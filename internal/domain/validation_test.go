package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   error
	}{
		{"positive", decimal.NewFromFloat(0.01), nil},
		{"zero", decimal.Zero, ErrInvalidAmount},
		{"negative", decimal.NewFromInt(-1), ErrInvalidAmount},
		{"at limit", decimal.RequireFromString(MaxMovementAmount), nil},
		{"above limit", decimal.RequireFromString(MaxMovementAmount).Add(decimal.NewFromInt(1)), ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.amount)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateAmount(%s) = %v, want %v", tt.amount, err, tt.want)
			}
		})
	}
}

func TestValidateKind(t *testing.T) {
	if err := ValidateKind("venda"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for _, kind := range []string{"", "   "} {
		if err := ValidateKind(kind); !errors.Is(err, ErrEmptyKind) {
			t.Errorf("ValidateKind(%q) = %v, want ErrEmptyKind", kind, err)
		}
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("Aluguel"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateDescription(" "); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("expected ErrEmptyDescription, got %v", err)
	}

	long := strings.Repeat("a", MaxDescriptionLength+1)
	if err := ValidateDescription(long); !errors.Is(err, ErrDescriptionTooLong) {
		t.Errorf("expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "maria.silva@example.com.br"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "plain", "missing@tld", "@nouser.com"}
	for _, email := range invalid {
		if err := ValidateEmail(email); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("ValidateEmail(%q) = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Sup3rSecret", true},
		{"too short", "Ab1", false},
		{"no uppercase", "sup3rsecret", false},
		{"no lowercase", "SUP3RSECRET", false},
		{"no digit", "SuperSecret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)

			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if !tt.ok && !errors.Is(err, ErrPasswordTooWeak) {
				t.Errorf("expected ErrPasswordTooWeak, got %v", err)
			}
		})
	}
}
