package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
	"github.com/caixaflow/backoffice/internal/usecase/mocks"
)

func newLedgerFixture() (*usecase.LedgerUseCase, *mocks.MockMovementRepository, *mocks.MockSettingsRepository) {
	movementRepo := mocks.NewMockMovementRepository()
	settingsRepo := mocks.NewMockSettingsRepository()
	uc := usecase.NewLedgerUseCase(mocks.NewMockTransactionManager(), mocks.NewMockRetrier(), movementRepo, settingsRepo, mocks.NewMetrics())

	return uc, movementRepo, settingsRepo
}

func TestLedgerUseCase_Record_RejectsNonPositiveAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"zero", decimal.Zero},
		{"negative", decimal.NewFromInt(-10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, movementRepo, _ := newLedgerFixture()

			_, err := uc.Record(context.Background(), usecase.RecordInput{
				ActorID:     "user-1",
				Kind:        domain.KindAdjustment,
				Inbound:     true,
				Amount:      tt.amount,
				Description: "bad",
			})
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount, got %v", err)
			}

			if n := len(movementRepo.All()); n != 0 {
				t.Errorf("expected no rows written, got %d", n)
			}
		})
	}
}

func TestLedgerUseCase_Record_RejectsEmptyKind(t *testing.T) {
	uc, _, _ := newLedgerFixture()

	_, err := uc.Record(context.Background(), usecase.RecordInput{
		ActorID:     "user-1",
		Kind:        "  ",
		Inbound:     true,
		Amount:      decimal.NewFromInt(10),
		Description: "no kind",
	})
	if !errors.Is(err, domain.ErrEmptyKind) {
		t.Fatalf("expected ErrEmptyKind, got %v", err)
	}
}

func TestLedgerUseCase_Record_BalanceChain(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	ctx := context.Background()

	// Opening balance 0: +2000, -500, +800 must chain to 2000, 1500, 2300.
	steps := []struct {
		inbound bool
		amount  int64
		want    string
	}{
		{true, 2000, "2000"},
		{false, 500, "1500"},
		{true, 800, "2300"},
	}

	for _, step := range steps {
		m, err := uc.Record(ctx, usecase.RecordInput{
			ActorID:     "user-1",
			Kind:        domain.KindAdjustment,
			Inbound:     step.inbound,
			Amount:      decimal.NewFromInt(step.amount),
			Description: "aporte",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want, _ := decimal.NewFromString(step.want)
		if !m.BalanceAfter.Equal(want) {
			t.Errorf("balance after %+v = %s, want %s", step, m.BalanceAfter, want)
		}
	}

	balance, err := uc.CurrentBalance(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if balance.StringFixed(2) != "2300.00" {
		t.Errorf("current balance = %s, want 2300.00", balance.StringFixed(2))
	}
}

func TestLedgerUseCase_Record_Recurrence(t *testing.T) {
	uc, movementRepo, settingsRepo := newLedgerFixture()
	ctx := context.Background()

	opening := decimal.NewFromFloat(100.50)
	settingsRepo.Seed(&domain.Settings{OpeningBalance: opening, CurrentMonth: 1})

	amounts := []struct {
		inbound bool
		amount  float64
	}{
		{true, 10.10}, {false, 3.33}, {true, 0.01}, {false, 200},
	}

	for _, a := range amounts {
		_, err := uc.Record(ctx, usecase.RecordInput{
			ActorID:     "user-1",
			Kind:        domain.KindAdjustment,
			Inbound:     a.inbound,
			Amount:      decimal.NewFromFloat(a.amount),
			Description: "mov",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Replay balance_after over created_at order from the opening balance.
	prev := opening
	for i, m := range movementRepo.All() {
		want := m.Apply(prev)
		if !m.BalanceAfter.Equal(want) {
			t.Errorf("movement %d: balance_after = %s, want %s", i, m.BalanceAfter, want)
		}
		prev = m.BalanceAfter
	}

	// Balances can go negative; the last one is 100.50+10.10-3.33+0.01-200.
	if prev.StringFixed(2) != "-92.72" {
		t.Errorf("final balance = %s, want -92.72", prev.StringFixed(2))
	}
}

func TestLedgerUseCase_Record_Rounding(t *testing.T) {
	uc, _, _ := newLedgerFixture()

	m, err := uc.Record(context.Background(), usecase.RecordInput{
		ActorID:     "user-1",
		Kind:        domain.KindAdjustment,
		Inbound:     true,
		Amount:      decimal.NewFromFloat(10.005),
		Description: "rounds half up",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Amount.StringFixed(2) != "10.01" {
		t.Errorf("amount = %s, want 10.01", m.Amount.StringFixed(2))
	}

	if m.BalanceAfter.StringFixed(2) != "10.01" {
		t.Errorf("balance_after = %s, want 10.01", m.BalanceAfter.StringFixed(2))
	}
}

func TestLedgerUseCase_CurrentBalance_UsesOpeningBalanceWithoutHistory(t *testing.T) {
	uc, _, settingsRepo := newLedgerFixture()

	settingsRepo.Seed(&domain.Settings{OpeningBalance: decimal.NewFromInt(750), CurrentMonth: 3})

	balance, err := uc.CurrentBalance(context.Background(), "fresh-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !balance.Equal(decimal.NewFromInt(750)) {
		t.Errorf("balance = %s, want 750", balance)
	}
}

func TestLedgerUseCase_CurrentBalance_LazyCreatesSettings(t *testing.T) {
	uc, _, _ := newLedgerFixture()

	balance, err := uc.CurrentBalance(context.Background(), "fresh-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !balance.IsZero() {
		t.Errorf("balance = %s, want 0", balance)
	}
}

func TestLedgerUseCase_Record_BackdatedMovementResolvesAsLatest(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	ctx := context.Background()

	_, err := uc.Record(ctx, usecase.RecordInput{
		ActorID: "user-1", Kind: domain.KindAdjustment, Inbound: true,
		Amount: decimal.NewFromInt(100), Description: "today",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Backdated by a year, but written last: still resolved as if it
	// happened now, because balance resolution orders by insertion.
	backdated := time.Now().UTC().AddDate(-1, 0, 0)
	m, err := uc.Record(ctx, usecase.RecordInput{
		ActorID: "user-1", Kind: domain.KindAdjustment, Inbound: false,
		Amount: decimal.NewFromInt(30), Description: "last year", OccurredAt: &backdated,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !m.BalanceAfter.Equal(decimal.NewFromInt(70)) {
		t.Errorf("balance_after = %s, want 70", m.BalanceAfter)
	}

	balance, err := uc.CurrentBalance(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("current balance = %s, want 70 (backdated entry is still latest)", balance)
	}
}

func TestLedgerUseCase_RecordAdjustment(t *testing.T) {
	uc, movementRepo, _ := newLedgerFixture()

	m, err := uc.RecordAdjustment(context.Background(), usecase.RecordAdjustmentInput{
		ActorID:     "user-1",
		Inbound:     false,
		Amount:      decimal.NewFromInt(55),
		Description: "ajuste de caixa",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Kind != domain.KindAdjustment {
		t.Errorf("kind = %s, want %s", m.Kind, domain.KindAdjustment)
	}

	if m.ReferenceID != "" {
		t.Errorf("adjustments must not carry a reference, got %q", m.ReferenceID)
	}

	if n := len(movementRepo.All()); n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestLedgerUseCase_DashboardSummary(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	ctx := context.Background()

	inputs := []struct {
		kind    string
		inbound bool
		amount  int64
	}{
		{domain.KindSale, true, 100},
		{domain.KindSale, true, 200},
		{domain.KindIncome, true, 50},
		{domain.KindPurchase, false, 120},
		{domain.KindExpense, false, 80},
		{domain.KindExpense, false, 20},
	}

	for _, in := range inputs {
		_, err := uc.Record(ctx, usecase.RecordInput{
			ActorID: "user-1", Kind: in.kind, Inbound: in.inbound,
			Amount: decimal.NewFromInt(in.amount), Description: in.kind,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	summary, err := uc.DashboardSummary(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalInbound.StringFixed(2) != "350.00" {
		t.Errorf("total inbound = %s, want 350.00", summary.TotalInbound.StringFixed(2))
	}

	if summary.TotalOutbound.StringFixed(2) != "220.00" {
		t.Errorf("total outbound = %s, want 220.00", summary.TotalOutbound.StringFixed(2))
	}

	if !summary.NetProfit.Equal(summary.TotalInbound.Sub(summary.TotalOutbound)) {
		t.Errorf("net profit = %s, want inbound - outbound", summary.NetProfit)
	}

	if !summary.InboundByKind[domain.KindSale].Equal(decimal.NewFromInt(300)) {
		t.Errorf("inbound by kind[venda] = %s, want 300", summary.InboundByKind[domain.KindSale])
	}

	if !summary.OutboundByKind[domain.KindExpense].Equal(decimal.NewFromInt(100)) {
		t.Errorf("outbound by kind[despesa] = %s, want 100", summary.OutboundByKind[domain.KindExpense])
	}

	if len(summary.Recent) != 5 {
		t.Errorf("recent = %d entries, want 5", len(summary.Recent))
	}

	balance, err := uc.CurrentBalance(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.CurrentBalance.Equal(balance) {
		t.Errorf("dashboard balance %s != current balance %s", summary.CurrentBalance, balance)
	}
}

func TestLedgerUseCase_ListMovements_ValidatesDateRange(t *testing.T) {
	uc, _, _ := newLedgerFixture()

	from := time.Now()
	to := from.Add(-time.Hour)

	_, err := uc.ListMovements(context.Background(), domain.MovementFilter{DateFrom: &from, DateTo: &to})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestLedgerUseCase_ListMovements_KindSubstringMatch(t *testing.T) {
	uc, _, _ := newLedgerFixture()
	ctx := context.Background()

	for _, kind := range []string{domain.KindSale, domain.KindSaleCancelled, domain.KindExpense} {
		_, err := uc.Record(ctx, usecase.RecordInput{
			ActorID:     "user-1",
			Kind:        kind,
			Inbound:     true,
			Amount:      decimal.NewFromInt(10),
			Description: kind,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// "venda" matches both venda and cancelamento_venda, any case.
	for _, filter := range []string{"venda", "VENDA"} {
		movements, err := uc.ListMovements(ctx, domain.MovementFilter{Kind: filter})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movements) != 2 {
			t.Errorf("kind %q matched %d movements, want 2", filter, len(movements))
		}
	}
}

func TestLedgerUseCase_GetMovement_NotFound(t *testing.T) {
	uc, _, _ := newLedgerFixture()

	_, err := uc.GetMovement(context.Background(), 9999)
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}
}

func TestLedgerUseCase_Record_RollsBackOnInsertFailure(t *testing.T) {
	movementRepo := mocks.NewMockMovementRepository()
	settingsRepo := mocks.NewMockSettingsRepository()
	txManager := mocks.NewMockTransactionManager()
	uc := usecase.NewLedgerUseCase(txManager, mocks.NewMockRetrier(), movementRepo, settingsRepo, mocks.NewMetrics())

	movementRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
		return errors.New("insert failed")
	}

	_, err := uc.Record(context.Background(), usecase.RecordInput{
		ActorID: "user-1", Kind: domain.KindAdjustment, Inbound: true,
		Amount: decimal.NewFromInt(10), Description: "boom",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	txs := txManager.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	if txs[0].Committed {
		t.Error("transaction must not commit when the insert fails")
	}

	if !txs[0].RolledBack {
		t.Error("transaction must roll back when the insert fails")
	}
}

func TestLedgerUseCase_RecordTx_LocksActorBeforeBalanceRead(t *testing.T) {
	uc, movementRepo, _ := newLedgerFixture()

	var calls []string
	movementRepo.LockActorFunc = func(ctx context.Context, tx usecase.Transaction, actorID string) error {
		calls = append(calls, "lock "+actorID)
		return nil
	}
	movementRepo.LatestFunc = func(ctx context.Context, actorID string) (*domain.Movement, error) {
		calls = append(calls, "latest")
		return nil, domain.ErrMovementNotFound
	}
	movementRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
		calls = append(calls, "create")
		movement.ID = 1
		return nil
	}

	ctx := context.Background()
	tx, err := mocks.NewMockTransactionManager().Begin(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.RecordTx(ctx, tx, usecase.RecordInput{
		ActorID: "user-1", Kind: domain.KindAdjustment, Inbound: true,
		Amount: decimal.NewFromInt(10), Description: "ordered",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "lock user-1, latest, create"
	if got := strings.Join(calls, ", "); got != want {
		t.Fatalf("call order %q, want %q", got, want)
	}
}

func TestLedgerUseCase_Record_ConcurrentRecordersChainConsistently(t *testing.T) {
	movementRepo := mocks.NewMockMovementRepository()
	settingsRepo := mocks.NewMockSettingsRepository()
	txManager := mocks.NewMockTransactionManager()
	uc := usecase.NewLedgerUseCase(txManager, mocks.NewMockRetrier(), movementRepo, settingsRepo, mocks.NewMetrics())

	// Model the per-actor advisory lock: acquired in LockActor, held
	// until the transaction commits or rolls back.
	var actorMu sync.Mutex
	txManager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		tx := &mocks.MockTransaction{}
		var once sync.Once
		unlock := func() { once.Do(actorMu.Unlock) }
		tx.CommitFunc = func(ctx context.Context) error {
			tx.Committed = true
			unlock()
			return nil
		}
		tx.RollbackFunc = func(ctx context.Context) error {
			unlock()
			return nil
		}
		return tx, nil
	}
	movementRepo.LockActorFunc = func(ctx context.Context, tx usecase.Transaction, actorID string) error {
		actorMu.Lock()
		return nil
	}

	const recorders = 8

	var wg sync.WaitGroup
	for i := 0; i < recorders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Record(context.Background(), usecase.RecordInput{
				ActorID: "user-1", Kind: domain.KindAdjustment, Inbound: true,
				Amount: decimal.NewFromInt(1), Description: "concurrent",
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	movements := movementRepo.All()
	if len(movements) != recorders {
		t.Fatalf("expected %d movements, got %d", recorders, len(movements))
	}

	// Every balance must chain off its predecessor; no two recorders
	// may have read the same "latest" row.
	previous := decimal.Zero
	for i, mv := range movements {
		expected := previous.Add(decimal.NewFromInt(1))
		if !mv.BalanceAfter.Equal(expected) {
			t.Fatalf("movement %d: balance %s, want %s", i, mv.BalanceAfter, expected)
		}
		previous = mv.BalanceAfter
	}

	if !previous.Equal(decimal.NewFromInt(recorders)) {
		t.Errorf("final balance %s, want %d", previous, recorders)
	}
}
