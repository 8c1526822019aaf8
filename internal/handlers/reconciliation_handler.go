package handlers

import (
	"context"
	"net/http"

	"condo-backend/internal/models"
	"condo-backend/internal/services"
	"condo-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Reconciler resolves payment reports against the ledger.
type Reconciler interface {
	Approve(ctx context.Context, tenant models.TenantContext, reportID uuid.UUID) (*services.ReconciliationOutcome, error)
	Reject(ctx context.Context, tenant models.TenantContext, reportID uuid.UUID, note string) (*services.ReconciliationOutcome, error)
}

type ReconciliationHandler struct {
	Service Reconciler
	logger  *logrus.Logger
}

func NewReconciliationHandler(service Reconciler, logger *logrus.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{Service: service, logger: logger}
}

// Approve handles POST /api/admin/payments/{id}/approve.
func (h *ReconciliationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	outcome, err := h.Service.Approve(r.Context(), tenant, id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, outcome)
}

// Reject handles POST /api/admin/payments/{id}/reject. The body is optional;
// an empty note falls back to the default rejection text.
func (h *ReconciliationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.RejectPaymentRequest
	if r.ContentLength != 0 {
		if !utils.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	outcome, err := h.Service.Reject(r.Context(), tenant, id, req.Note)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, outcome)
}
