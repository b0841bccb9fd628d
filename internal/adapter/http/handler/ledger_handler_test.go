package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/adapter/http/dto"
	"github.com/caixaflow/backoffice/internal/adapter/http/middleware"
	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

type ledgerServiceStub struct {
	balanceFn   func(ctx context.Context, actorID string) (decimal.Decimal, error)
	dashboardFn func(ctx context.Context, actorID string) (*domain.DashboardSummary, error)
	listFn      func(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	getFn       func(ctx context.Context, id int64) (*domain.Movement, error)
	adjustFn    func(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.Movement, error)
}

func (s *ledgerServiceStub) CurrentBalance(ctx context.Context, actorID string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, actorID)
}

func (s *ledgerServiceStub) DashboardSummary(ctx context.Context, actorID string) (*domain.DashboardSummary, error) {
	return s.dashboardFn(ctx, actorID)
}

func (s *ledgerServiceStub) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	return s.listFn(ctx, filter)
}

func (s *ledgerServiceStub) GetMovement(ctx context.Context, id int64) (*domain.Movement, error) {
	return s.getFn(ctx, id)
}

func (s *ledgerServiceStub) RecordAdjustment(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.Movement, error) {
	return s.adjustFn(ctx, input)
}

func withUser(r *http.Request, id string) *http.Request {
	user := &domain.User{ID: id, Email: id + "@example.com", Role: domain.RoleOperator}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, user))
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func TestLedgerHandler_Balance(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		balanceFn: func(ctx context.Context, actorID string) (decimal.Decimal, error) {
			if actorID != "actor-1" {
				t.Fatalf("expected actor-1, got %s", actorID)
			}
			return decimal.RequireFromString("1234.56"), nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/balance", nil), "actor-1")
	rec := httptest.NewRecorder()

	handler.Balance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("expected balance 1234.56, got %s", resp.Balance)
	}
}

func TestLedgerHandler_Balance_Unauthenticated(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		balanceFn: func(ctx context.Context, actorID string) (decimal.Decimal, error) {
			t.Fatal("CurrentBalance should not be called")
			return decimal.Zero, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	rec := httptest.NewRecorder()

	handler.Balance(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLedgerHandler_Dashboard(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		dashboardFn: func(ctx context.Context, actorID string) (*domain.DashboardSummary, error) {
			return &domain.DashboardSummary{
				TotalInbound:   decimal.RequireFromString("300"),
				TotalOutbound:  decimal.RequireFromString("120"),
				NetProfit:      decimal.RequireFromString("180"),
				InboundByKind:  map[string]decimal.Decimal{domain.KindSale: decimal.RequireFromString("300")},
				OutboundByKind: map[string]decimal.Decimal{domain.KindExpense: decimal.RequireFromString("120")},
				Recent:         []*domain.Movement{{ID: 1, ActorID: actorID, Kind: domain.KindSale}},
				CurrentBalance: decimal.RequireFromString("180"),
			}, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "actor-1")
	rec := httptest.NewRecorder()

	handler.Dashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.DashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Recent) != 1 {
		t.Fatalf("expected 1 recent movement, got %d", len(resp.Recent))
	}
	if !resp.NetProfit.Equal(decimal.RequireFromString("180")) {
		t.Fatalf("expected net profit 180, got %s", resp.NetProfit)
	}
}

func TestLedgerHandler_List_ScopesToCaller(t *testing.T) {
	var captured domain.MovementFilter

	handler := NewLedgerHandler(&ledgerServiceStub{
		listFn: func(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
			captured = filter
			return []*domain.Movement{}, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/movements?kind=venda&inbound=true", nil), "actor-7")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.ActorID != "actor-7" {
		t.Fatalf("expected filter scoped to actor-7, got %q", captured.ActorID)
	}
	if captured.Kind != "venda" || captured.Inbound == nil || !*captured.Inbound {
		t.Fatalf("unexpected filter %+v", captured)
	}
}

func TestLedgerHandler_List_InvalidDateRange(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		listFn: func(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
			return nil, domain.ErrInvalidDateRange
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/movements?date_from=2026-02-01T00:00:00Z&date_to=2026-01-01T00:00:00Z", nil), "actor-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_Get(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Movement, error) {
			if id != 42 {
				t.Fatalf("expected id 42, got %d", id)
			}
			return &domain.Movement{ID: id, Kind: domain.KindSale}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/movements/42", nil), "id", "42")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLedgerHandler_Get_InvalidID(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Movement, error) {
			t.Fatal("GetMovement should not be called")
			return nil, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/movements/abc", nil), "id", "abc")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_RecordAdjustment(t *testing.T) {
	var captured usecase.RecordAdjustmentInput

	handler := NewLedgerHandler(&ledgerServiceStub{
		adjustFn: func(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.Movement, error) {
			captured = input
			return &domain.Movement{ID: 1, Kind: domain.KindAdjustment, Amount: input.Amount}, nil
		},
	})

	body, _ := json.Marshal(dto.RecordAdjustmentRequest{
		Inbound:     false,
		Amount:      decimal.RequireFromString("55.10"),
		Description: "Acerto de caixa",
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/adjustments", bytes.NewReader(body)), "actor-1")
	rec := httptest.NewRecorder()

	handler.RecordAdjustment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if captured.ActorID != "actor-1" || captured.Inbound {
		t.Fatalf("unexpected input %+v", captured)
	}
	if !captured.Amount.Equal(decimal.RequireFromString("55.10")) {
		t.Fatalf("expected amount 55.10, got %s", captured.Amount)
	}
}

func TestLedgerHandler_RecordAdjustment_InvalidBody(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		adjustFn: func(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.Movement, error) {
			t.Fatal("RecordAdjustment should not be called")
			return nil, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/adjustments", bytes.NewBufferString("{bad json")), "actor-1")
	rec := httptest.NewRecorder()

	handler.RecordAdjustment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
