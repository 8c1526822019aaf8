package handlers

import (
	"net/http"

	"condo-backend/internal/models"
	"condo-backend/internal/services"
	"condo-backend/internal/timeutil"
	"condo-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

type LedgerHandler struct {
	Service *services.BillingService
	logger  *logrus.Logger
}

func NewLedgerHandler(service *services.BillingService, logger *logrus.Logger) *LedgerHandler {
	return &LedgerHandler{Service: service, logger: logger}
}

// IssueCycle charges every property of the condominium for one period.
func (h *LedgerHandler) IssueCycle(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.IssueBillingRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.Service.Issue(r.Context(), tenant, &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, result)
}

func (h *LedgerHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	n, err := h.Service.MarkOverdue(r.Context(), tenant, timeutil.Now())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]int64{"updated": n})
}

func (h *LedgerHandler) PropertyLedger(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	entries, err := h.Service.PropertyLedger(r.Context(), tenant, id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	utils.Success(w, http.StatusOK, entries)
}

// MyLedger returns every entry of the units the caller owns.
func (h *LedgerHandler) MyLedger(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	entries, err := h.Service.OwnerLedger(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	utils.Success(w, http.StatusOK, entries)
}
