package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caixaflow/backoffice/internal/adapter/http/dto"
	"github.com/caixaflow/backoffice/internal/adapter/http/middleware"
	"github.com/caixaflow/backoffice/internal/domain"
	"github.com/caixaflow/backoffice/internal/infrastructure/metrics"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// PurchaseHandler handles purchase-related HTTP requests.
type PurchaseHandler struct {
	purchaseUC *usecase.PurchaseUseCase
	metrics    *metrics.Metrics
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseUC *usecase.PurchaseUseCase, m *metrics.Metrics) *PurchaseHandler {
	return &PurchaseHandler{purchaseUC: purchaseUC, metrics: m}
}

// Create creates a new purchase.
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	purchase, err := h.purchaseUC.CreatePurchase(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create purchase", err.Error())
		return
	}

	h.metrics.PurchasesCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.PurchaseFromDomain(purchase))
}

// Delete voids a purchase, removing its stock and reversing its
// movement.
func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing purchase ID", "")
		return
	}

	if err := h.purchaseUC.DeletePurchase(r.Context(), id, user.ID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete purchase", err.Error())
		return
	}

	h.metrics.PurchasesVoided.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Get retrieves a purchase by ID.
func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing purchase ID", "")
		return
	}

	purchase, err := h.purchaseUC.GetPurchase(r.Context(), id, user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get purchase", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PurchaseFromDomain(purchase))
}

// List lists the caller's purchases, filtered by query parameters.
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	filter := domain.PurchaseFilter{
		ActorID:  user.ID,
		DateFrom: parseTimeQuery(r, "date_from"),
		DateTo:   parseTimeQuery(r, "date_to"),
		Supplier: r.URL.Query().Get("supplier"),
	}

	purchases, err := h.purchaseUC.ListPurchases(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list purchases", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PurchasesFromDomain(purchases))
}
