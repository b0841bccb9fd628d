package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// SettingsRepository implements persistence for the single settings
// row. The table carries a CHECK (id = 1) so there is never more than
// one row.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// GetOrCreate returns the settings row, inserting defaults on first
// use. ON CONFLICT DO NOTHING makes concurrent first reads converge on
// one row.
func (r *SettingsRepository) GetOrCreate(ctx context.Context) (*domain.Settings, error) {
	return r.getOrCreate(ctx, r.pool)
}

// GetOrCreateTx is GetOrCreate executed inside the given transaction.
func (r *SettingsRepository) GetOrCreateTx(ctx context.Context, tx usecase.Transaction) (*domain.Settings, error) {
	return r.getOrCreate(ctx, pgxTxOf(tx))
}

// settingsQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type settingsQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *SettingsRepository) getOrCreate(ctx context.Context, q settingsQuerier) (*domain.Settings, error) {
	defaults := domain.DefaultSettings(time.Now().UTC())

	insert := `
		INSERT INTO settings (id, opening_balance, current_month, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := q.Exec(ctx, insert,
		domain.SettingsID,
		defaults.OpeningBalance,
		defaults.CurrentMonth,
		defaults.CreatedAt,
	); err != nil {
		return nil, err
	}

	query := `
		SELECT opening_balance, current_month, created_at
		FROM settings
		WHERE id = $1
	`

	var settings domain.Settings
	err := q.QueryRow(ctx, query, domain.SettingsID).Scan(
		&settings.OpeningBalance,
		&settings.CurrentMonth,
		&settings.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

// Update overwrites the settings row.
func (r *SettingsRepository) Update(ctx context.Context, settings *domain.Settings) error {
	query := `
		UPDATE settings
		SET opening_balance = $2, current_month = $3
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		domain.SettingsID,
		settings.OpeningBalance,
		settings.CurrentMonth,
	)

	return err
}
