package handler

import (
	"net/http"

	"github.com/caixaflow/backoffice/internal/adapter/http/dto"
	"github.com/caixaflow/backoffice/internal/adapter/http/middleware"
	"github.com/caixaflow/backoffice/internal/usecase"
)

// VerifyHandler exposes the movement chain consistency check.
type VerifyHandler struct {
	verifyUC *usecase.VerifyUseCase
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(verifyUC *usecase.VerifyUseCase) *VerifyHandler {
	return &VerifyHandler{verifyUC: verifyUC}
}

// Verify replays the caller's movement chain and reports rows whose
// stored balance disagrees with the recurrence.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	report, err := h.verifyUC.VerifyChain(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify chain", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ChainReportFromUseCase(report))
}
