package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// VerifyUseCase checks that an actor's stored movement chain satisfies
// the balance recurrence. Direct movement patches (manual entry and
// expense updates) bypass the recurrence, so stored balance_after
// values can drift from the recomputed chain; this surfaces where.
type VerifyUseCase struct {
	movementRepo MovementRepository
	settingsRepo SettingsRepository
}

// NewVerifyUseCase creates a new verify use case.
func NewVerifyUseCase(movementRepo MovementRepository, settingsRepo SettingsRepository) *VerifyUseCase {
	return &VerifyUseCase{
		movementRepo: movementRepo,
		settingsRepo: settingsRepo,
	}
}

// ChainDiscrepancy is one movement whose stored balance disagrees with
// the balance recomputed from its predecessor.
type ChainDiscrepancy struct {
	MovementID int64
	Kind       string
	Expected   decimal.Decimal
	Stored     decimal.Decimal
	Difference decimal.Decimal
}

// ChainReport is the result of verifying one actor's movement chain.
type ChainReport struct {
	ActorID       string
	Movements     int
	Consistent    bool
	Discrepancies []ChainDiscrepancy
	FinalBalance  decimal.Decimal
	CheckedAt     time.Time
}

// VerifyChain walks the actor's movements in insertion order, replaying
// the balance recurrence from the opening balance, and reports every
// row whose stored balance disagrees. Each expected value is computed
// from the previous STORED balance, so one bad row produces one
// discrepancy instead of cascading down the chain.
func (uc *VerifyUseCase) VerifyChain(ctx context.Context, actorID string) (*ChainReport, error) {
	settings, err := uc.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	movements, err := uc.movementRepo.ListChain(ctx, actorID)
	if err != nil {
		return nil, err
	}

	report := &ChainReport{
		ActorID:      actorID,
		Movements:    len(movements),
		FinalBalance: settings.OpeningBalance,
		CheckedAt:    time.Now().UTC(),
	}

	previous := settings.OpeningBalance
	for _, m := range movements {
		expected := m.Apply(previous)
		if !m.BalanceAfter.Equal(expected) {
			report.Discrepancies = append(report.Discrepancies, ChainDiscrepancy{
				MovementID: m.ID,
				Kind:       m.Kind,
				Expected:   expected,
				Stored:     m.BalanceAfter,
				Difference: m.BalanceAfter.Sub(expected),
			})
		}
		previous = m.BalanceAfter
	}

	report.Consistent = len(report.Discrepancies) == 0
	report.FinalBalance = previous

	return report, nil
}
