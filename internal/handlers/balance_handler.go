package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"condo-backend/internal/services"
	"condo-backend/internal/timeutil"
	"condo-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

type BalanceHandler struct {
	Service *services.BalanceService
	logger  *logrus.Logger
}

func NewBalanceHandler(service *services.BalanceService, logger *logrus.Logger) *BalanceHandler {
	return &BalanceHandler{Service: service, logger: logger}
}

// Lookup is public: GET /api/public/balance?national_id=V-12345678.
func (h *BalanceHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	nationalID := strings.TrimSpace(r.URL.Query().Get("national_id"))
	if len(nationalID) < 5 || len(nationalID) > 20 {
		utils.Error(w, http.StatusBadRequest, "national_id parameter required")
		return
	}
	result, err := h.Service.Lookup(r.Context(), nationalID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, result)
}

func (h *BalanceHandler) Receivables(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	rows, err := h.Service.Receivables(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, rows)
}

// ExportReceivables downloads the receivables report as a workbook.
func (h *BalanceHandler) ExportReceivables(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	data, err := h.Service.ReceivablesWorkbook(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	filename := fmt.Sprintf("receivables-%s.xlsx", timeutil.Now().Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
