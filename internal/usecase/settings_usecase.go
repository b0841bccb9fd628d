package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
)

// SettingsUseCase handles the configuration singleton.
type SettingsUseCase struct {
	settingsRepo SettingsRepository
}

// NewSettingsUseCase creates a new SettingsUseCase.
func NewSettingsUseCase(settingsRepo SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{settingsRepo: settingsRepo}
}

// GetSettings returns the settings row, creating it with defaults on
// first read.
func (uc *SettingsUseCase) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return uc.settingsRepo.GetOrCreate(ctx)
}

// UpdateSettingsInput represents input for updating settings. Nil
// fields are left unchanged.
type UpdateSettingsInput struct {
	OpeningBalance *decimal.Decimal
	CurrentMonth   *int
}

// UpdateSettings updates opening balance and/or current month.
func (uc *SettingsUseCase) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error) {
	if input.OpeningBalance != nil && input.OpeningBalance.IsNegative() {
		return nil, domain.ErrNegativeOpening
	}

	if input.CurrentMonth != nil && (*input.CurrentMonth < 1 || *input.CurrentMonth > 12) {
		return nil, domain.ErrInvalidMonth
	}

	settings, err := uc.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if input.OpeningBalance != nil {
		settings.OpeningBalance = domain.RoundMoney(*input.OpeningBalance)
	}

	if input.CurrentMonth != nil {
		settings.CurrentMonth = *input.CurrentMonth
	}

	if err := uc.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
