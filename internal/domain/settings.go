package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the fixed primary key of the single settings row.
const SettingsID = 1

// Settings is the process-wide configuration singleton. It is created
// lazily on first read and never deleted. OpeningBalance seeds the
// balance of any actor with no ledger history.
type Settings struct {
	OpeningBalance decimal.Decimal
	CurrentMonth   int
	CreatedAt      time.Time
}

// DefaultSettings returns the row written on lazy creation.
func DefaultSettings(now time.Time) *Settings {
	return &Settings{
		OpeningBalance: decimal.Zero,
		CurrentMonth:   int(now.Month()),
		CreatedAt:      now,
	}
}
