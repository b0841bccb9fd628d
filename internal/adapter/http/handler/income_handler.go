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

// IncomeHandler handles manual financial entry HTTP requests.
type IncomeHandler struct {
	incomeUC *usecase.IncomeUseCase
	metrics  *metrics.Metrics
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeUC *usecase.IncomeUseCase, m *metrics.Metrics) *IncomeHandler {
	return &IncomeHandler{incomeUC: incomeUC, metrics: m}
}

// Create creates a new manual financial entry.
func (h *IncomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	income, err := h.incomeUC.CreateIncome(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create income", err.Error())
		return
	}

	h.metrics.IncomesCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.IncomeFromDomain(income))
}

// Update patches an entry and, when the amount changed, its movement.
func (h *IncomeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing income ID", "")
		return
	}

	var req dto.UpdateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	income, err := h.incomeUC.UpdateIncome(r.Context(), id, user.ID, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update income", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeFromDomain(income))
}

// Delete removes an entry and records the reversing movement.
func (h *IncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing income ID", "")
		return
	}

	if _, err := h.incomeUC.DeleteIncome(r.Context(), id, user.ID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete income", err.Error())
		return
	}

	h.metrics.IncomesReversed.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Get retrieves an entry by ID.
func (h *IncomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing income ID", "")
		return
	}

	income, err := h.incomeUC.GetIncome(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get income", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeFromDomain(income))
}

// List lists the caller's entries, filtered by query parameters.
func (h *IncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	filter := domain.IncomeFilter{
		ActorID:  user.ID,
		DateFrom: parseTimeQuery(r, "date_from"),
		DateTo:   parseTimeQuery(r, "date_to"),
		Kind:     r.URL.Query().Get("kind"),
	}

	incomes, err := h.incomeUC.ListIncomes(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list incomes", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomesFromDomain(incomes))
}
