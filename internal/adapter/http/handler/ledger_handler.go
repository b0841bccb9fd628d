package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/caixaflow/backoffice/internal/adapter/http/dto"
	"github.com/caixaflow/backoffice/internal/adapter/http/middleware"
	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CurrentBalance(ctx context.Context, actorID string) (decimal.Decimal, error)
	DashboardSummary(ctx context.Context, actorID string) (*domain.DashboardSummary, error)
	ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	GetMovement(ctx context.Context, id int64) (*domain.Movement, error)
	RecordAdjustment(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.Movement, error)
}

// LedgerHandler handles movement, balance and dashboard requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Balance returns the caller's current running balance.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	balance, err := h.ledgerUC.CurrentBalance(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{ActorID: user.ID, Balance: balance})
}

// Dashboard returns the caller's dashboard rollup.
func (h *LedgerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	summary, err := h.ledgerUC.DashboardSummary(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build dashboard", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromDomain(summary))
}

// List lists the caller's movements, filtered by query parameters.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	filter := domain.MovementFilter{
		ActorID:  user.ID,
		DateFrom: parseTimeQuery(r, "date_from"),
		DateTo:   parseTimeQuery(r, "date_to"),
		Kind:     r.URL.Query().Get("kind"),
		Inbound:  parseBoolQuery(r, "inbound"),
	}

	movements, err := h.ledgerUC.ListMovements(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// Get retrieves a movement by ID.
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid movement ID", err.Error())
		return
	}

	movement, err := h.ledgerUC.GetMovement(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// RecordAdjustment records a manual balance adjustment.
func (h *LedgerHandler) RecordAdjustment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.RecordAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.ledgerUC.RecordAdjustment(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record adjustment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}
