package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caixaflow/backoffice/internal/adapter/http/dto"
	"github.com/caixaflow/backoffice/internal/adapter/http/middleware"
	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/infrastructure/metrics"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// SaleService defines the behavior needed by SaleHandler.
type SaleService interface {
	CreateSale(ctx context.Context, input usecase.CreateSaleInput) (*domain.Sale, error)
	CancelSale(ctx context.Context, id, actorID string) (*domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error)
}

// SaleHandler handles sale-related HTTP requests.
type SaleHandler struct {
	saleUC  SaleService
	metrics *metrics.Metrics
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(saleUC SaleService, m *metrics.Metrics) *SaleHandler {
	return &SaleHandler{saleUC: saleUC, metrics: m}
}

// Create creates a new sale.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sale, err := h.saleUC.CreateSale(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create sale", err.Error())
		return
	}

	h.metrics.SalesCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.SaleFromDomain(sale))
}

// Cancel cancels a sale, restoring stock and reversing its movement.
func (h *SaleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sale ID", "")
		return
	}

	sale, err := h.saleUC.CancelSale(r.Context(), id, user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel sale", err.Error())
		return
	}

	h.metrics.SalesCancelled.Inc()
	writeJSON(w, http.StatusOK, dto.SaleFromDomain(sale))
}

// Get retrieves a sale by ID.
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sale ID", "")
		return
	}

	sale, err := h.saleUC.GetSale(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get sale", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SaleFromDomain(sale))
}

// List lists the caller's sales, filtered by query parameters.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	filter := domain.SaleFilter{
		ActorID:       user.ID,
		DateFrom:      parseTimeQuery(r, "date_from"),
		DateTo:        parseTimeQuery(r, "date_to"),
		PaymentMethod: r.URL.Query().Get("payment_method"),
	}

	sales, err := h.saleUC.ListSales(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list sales", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SalesFromDomain(sales))
}
