package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"condo-backend/internal/models"
	"condo-backend/internal/services"
	"condo-backend/internal/storage"
	"condo-backend/internal/timeutil"
	"condo-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PaymentReportHandler struct {
	Service *services.PaymentReportService
	logger  *logrus.Logger
}

func NewPaymentReportHandler(service *services.PaymentReportService, logger *logrus.Logger) *PaymentReportHandler {
	return &PaymentReportHandler{Service: service, logger: logger}
}

// Submit handles a multipart form with amount_local, reference, payment_date
// (YYYY-MM-DD), an optional property_id and the proof file.
func (h *PaymentReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadBytes()+1<<20)
	if err := r.ParseMultipartForm(storage.MaxUploadBytes()); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req, err := parseSubmitForm(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if fields := utils.ValidationErrors(req); fields != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "validation failed", "fields": fields})
		return
	}

	var proof []byte
	if file, _, err := r.FormFile("proof"); err == nil {
		defer file.Close()
		proof, err = io.ReadAll(file)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Could not read proof file")
			return
		}
	}

	report, err := h.Service.Submit(r.Context(), tenant, req, proof)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, report)
}

func parseSubmitForm(r *http.Request) (*models.SubmitPaymentRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("amount_local")))
	if err != nil {
		return nil, fmt.Errorf("invalid amount_local")
	}
	date, err := timeutil.ParseDate(r.FormValue("payment_date"))
	if err != nil {
		return nil, fmt.Errorf("invalid payment_date, expected YYYY-MM-DD")
	}

	req := &models.SubmitPaymentRequest{
		AmountLocal: amount,
		Reference:   strings.TrimSpace(r.FormValue("reference")),
		PaymentDate: date,
	}
	if raw := strings.TrimSpace(r.FormValue("property_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid property_id")
		}
		req.PropertyID = &id
	}
	return req, nil
}

// List returns the owner's reports, or for admins every report filtered by
// the optional ?status= query.
func (h *PaymentReportHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	status := models.PaymentStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.PaymentStatusInReview, models.PaymentStatusApproved, models.PaymentStatusRejected:
	default:
		utils.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	reports, err := h.Service.List(r.Context(), tenant, status)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if reports == nil {
		reports = []models.PaymentReport{}
	}
	utils.Success(w, http.StatusOK, reports)
}

func (h *PaymentReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	report, err := h.Service.Get(r.Context(), tenant, id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, report)
}

// Receipt streams the PDF receipt of an approved report.
func (h *PaymentReportHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	pdf, err := h.Service.Receipt(r.Context(), tenant, id)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", id.String()[:8]))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
