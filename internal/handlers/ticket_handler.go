package handlers

import (
	"net/http"

	"condo-backend/internal/models"
	"condo-backend/internal/services"
	"condo-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

type TicketHandler struct {
	Service *services.TicketService
	logger  *logrus.Logger
}

func NewTicketHandler(service *services.TicketService, logger *logrus.Logger) *TicketHandler {
	return &TicketHandler{Service: service, logger: logger}
}

func (h *TicketHandler) Open(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.CreateTicketRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := h.Service.Open(r.Context(), tenant, &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, ticket)
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	tickets, err := h.Service.List(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	utils.Success(w, http.StatusOK, tickets)
}

func (h *TicketHandler) Respond(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req models.RespondTicketRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := h.Service.Respond(r.Context(), tenant, id, &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, ticket)
}
