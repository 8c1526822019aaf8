package handlers

import (
	"io"
	"net/http"

	"condo-backend/internal/models"
	"condo-backend/internal/services"
	"condo-backend/internal/storage"
	"condo-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

type FinanceHandler struct {
	Service *services.FinanceService
	logger  *logrus.Logger
}

func NewFinanceHandler(service *services.FinanceService, logger *logrus.Logger) *FinanceHandler {
	return &FinanceHandler{Service: service, logger: logger}
}

// Condominium returns the caller's condominium with its financial parameters
// and notice board.
func (h *FinanceHandler) Condominium(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	condo, err := h.Service.Condominium(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if condo == nil {
		utils.Error(w, http.StatusNotFound, "condominium not found")
		return
	}
	utils.Success(w, http.StatusOK, condo)
}

func (h *FinanceHandler) UpdateParams(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.UpdateFinancialParamsRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Service.UpdateParams(r.Context(), tenant, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, req)
}

func (h *FinanceHandler) PublishRate(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.CreateExchangeRateRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	rate, err := h.Service.PublishRate(r.Context(), tenant, &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, rate)
}

func (h *FinanceHandler) LatestRate(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	rate, err := h.Service.LatestRate(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, rate)
}

func (h *FinanceHandler) RateHistory(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	rates, err := h.Service.RateHistory(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if rates == nil {
		rates = []models.ExchangeRate{}
	}
	utils.Success(w, http.StatusOK, rates)
}

func (h *FinanceHandler) BankAccounts(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	accounts, err := h.Service.BankAccounts(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, accounts)
}

func (h *FinanceHandler) UpdateBankAccounts(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.UpdateBankAccountsRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	accounts, err := h.Service.SetBankAccounts(r.Context(), tenant, &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, accounts)
}

// UploadResidenceLetter accepts a PDF or image in the "document" form field.
func (h *FinanceHandler) UploadResidenceLetter(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadBytes()+1<<20)
	file, _, err := r.FormFile("document")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadBytes()+1))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Could not read document")
		return
	}
	url, err := h.Service.UploadResidenceLetter(r.Context(), tenant, data)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]string{"residence_letter_url": url})
}
