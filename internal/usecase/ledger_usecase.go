package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/infrastructure/metrics"
)

// MovementRecorder is the single choke-point for writing ledger
// movements. Every producer funnels through it; no other code path may
// insert movement rows.
type MovementRecorder interface {
	RecordTx(ctx context.Context, tx Transaction, input RecordInput) (*domain.Movement, error)
}

// RecordInput describes one ledger movement to record.
type RecordInput struct {
	ActorID     string
	Kind        string
	Inbound     bool
	Amount      decimal.Decimal
	Description string
	ReferenceID string
	OccurredAt  *time.Time
}

// LedgerUseCase implements the movement recorder, balance resolution
// and the read-side rollups.
type LedgerUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	movementRepo MovementRepository
	settingsRepo SettingsRepository
	metrics      *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	retrier Retrier,
	movementRepo MovementRepository,
	settingsRepo SettingsRepository,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		retrier:      retrier,
		movementRepo: movementRepo,
		settingsRepo: settingsRepo,
		metrics:      metrics,
	}
}

// RecordTx records a movement inside the caller's transaction. It
// serializes on the actor, resolves the latest balance, chains the new
// balance and inserts the row. Balances may go negative; that is
// accepted business behavior, not an error.
func (uc *LedgerUseCase) RecordTx(ctx context.Context, tx Transaction, input RecordInput) (*domain.Movement, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	// Hold off concurrent recorders for the same actor until commit.
	if err := uc.movementRepo.LockActor(ctx, tx, input.ActorID); err != nil {
		return nil, err
	}

	current, err := uc.currentBalanceTx(ctx, tx, input.ActorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	movement := &domain.Movement{
		ActorID:     input.ActorID,
		Kind:        input.Kind,
		ReferenceID: input.ReferenceID,
		Description: input.Description,
		Amount:      domain.RoundMoney(input.Amount),
		Inbound:     input.Inbound,
		OccurredAt:  occurredAt,
	}
	movement.BalanceAfter = movement.Apply(current)

	if err := uc.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, err
	}

	uc.metrics.MovementsRecorded.WithLabelValues(movement.Kind).Inc()
	uc.metrics.MovementAmount.Observe(movement.Amount.InexactFloat64())

	return movement, nil
}

// Record records a movement in its own transaction, retrying on
// transient conflicts.
func (uc *LedgerUseCase) Record(ctx context.Context, input RecordInput) (*domain.Movement, error) {
	start := time.Now()

	var movement *domain.Movement

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		movement, err = uc.RecordTx(ctx, tx, input)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		uc.metrics.RecordErrors.WithLabelValues(recordErrorType(err)).Inc()
		return nil, err
	}

	uc.metrics.RecordDuration.Observe(time.Since(start).Seconds())

	return movement, nil
}

// recordErrorType buckets record failures for the error counter.
func recordErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrEmptyKind):
		return "validation"
	default:
		return "storage"
	}
}

// RecordAdjustmentInput represents input for a manual adjustment.
type RecordAdjustmentInput struct {
	ActorID     string
	Inbound     bool
	Amount      decimal.Decimal
	Description string
}

// RecordAdjustment records a manual adjustment movement. Adjustments
// reference no domain entity.
func (uc *LedgerUseCase) RecordAdjustment(ctx context.Context, input RecordAdjustmentInput) (*domain.Movement, error) {
	return uc.Record(ctx, RecordInput{
		ActorID:     input.ActorID,
		Kind:        domain.KindAdjustment,
		Inbound:     input.Inbound,
		Amount:      input.Amount,
		Description: input.Description,
	})
}

// CurrentBalance returns the actor's running balance: the balance
// snapshot of the latest movement by insertion order, or the configured
// opening balance when the actor has no history. Backdated movements do
// not change which movement is latest.
func (uc *LedgerUseCase) CurrentBalance(ctx context.Context, actorID string) (decimal.Decimal, error) {
	uc.metrics.BalanceResolved.Inc()

	latest, err := uc.movementRepo.Latest(ctx, actorID)
	if err == nil {
		return latest.BalanceAfter, nil
	}

	if !errors.Is(err, domain.ErrMovementNotFound) {
		return decimal.Zero, err
	}

	settings, err := uc.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return settings.OpeningBalance, nil
}

func (uc *LedgerUseCase) currentBalanceTx(ctx context.Context, tx Transaction, actorID string) (decimal.Decimal, error) {
	latest, err := uc.movementRepo.LatestTx(ctx, tx, actorID)
	if err == nil {
		return latest.BalanceAfter, nil
	}

	if !errors.Is(err, domain.ErrMovementNotFound) {
		return decimal.Zero, err
	}

	settings, err := uc.settingsRepo.GetOrCreateTx(ctx, tx)
	if err != nil {
		return decimal.Zero, err
	}

	return settings.OpeningBalance, nil
}

// GetMovement retrieves a movement by ID.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id int64) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// ListMovements lists movements matching the filter, ordered by
// occurrence date ascending.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	return uc.movementRepo.List(ctx, filter)
}

const dashboardRecentLimit = 5

// DashboardSummary builds the dashboard rollup for an actor: totals by
// direction, totals by kind, the five most recently dated movements and
// the current balance. The recent list is ordered by OccurredAt, unlike
// balance resolution which orders by CreatedAt.
func (uc *LedgerUseCase) DashboardSummary(ctx context.Context, actorID string) (*domain.DashboardSummary, error) {
	movements, err := uc.movementRepo.ListByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	totalInbound := decimal.Zero
	totalOutbound := decimal.Zero
	inboundByKind := make(map[string]decimal.Decimal)
	outboundByKind := make(map[string]decimal.Decimal)

	for _, m := range movements {
		if m.Inbound {
			totalInbound = totalInbound.Add(m.Amount)
			inboundByKind[m.Kind] = inboundByKind[m.Kind].Add(m.Amount)
		} else {
			totalOutbound = totalOutbound.Add(m.Amount)
			outboundByKind[m.Kind] = outboundByKind[m.Kind].Add(m.Amount)
		}
	}

	recent := movements
	if len(recent) > dashboardRecentLimit {
		recent = recent[:dashboardRecentLimit]
	}

	balance, err := uc.CurrentBalance(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		TotalInbound:   domain.RoundMoney(totalInbound),
		TotalOutbound:  domain.RoundMoney(totalOutbound),
		NetProfit:      domain.RoundMoney(totalInbound.Sub(totalOutbound)),
		InboundByKind:  inboundByKind,
		OutboundByKind: outboundByKind,
		Recent:         recent,
		CurrentBalance: balance,
	}, nil
}
