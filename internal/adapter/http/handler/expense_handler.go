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

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenseUC *usecase.ExpenseUseCase
	metrics   *metrics.Metrics
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC *usecase.ExpenseUseCase, m *metrics.Metrics) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC, metrics: m}
}

// Create creates a new expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.CreateExpense(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create expense", err.Error())
		return
	}

	h.metrics.ExpensesCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// Update patches an expense and its movement row.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	var req dto.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.UpdateExpense(r.Context(), id, user.ID, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// Delete removes an expense together with its movement row.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	if err := h.expenseUC.DeleteExpense(r.Context(), id, user.ID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete expense", err.Error())
		return
	}

	h.metrics.ExpensesDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Get retrieves an expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	expense, err := h.expenseUC.GetExpense(r.Context(), id, user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// List lists the caller's expenses, filtered by query parameters.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	filter := domain.ExpenseFilter{
		ActorID:   user.ID,
		Kind:      r.URL.Query().Get("kind"),
		DateFrom:  parseTimeQuery(r, "date_from"),
		DateTo:    parseTimeQuery(r, "date_to"),
		AmountMin: parseDecimalQuery(r, "amount_min"),
		AmountMax: parseDecimalQuery(r, "amount_max"),
	}

	expenses, err := h.expenseUC.ListExpenses(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromDomain(expenses))
}
