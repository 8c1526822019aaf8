package handlers

import (
	"net/http"

	"condo-backend/internal/models"
	"condo-backend/internal/services"
	"condo-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

type AnnouncementHandler struct {
	Service *services.AnnouncementService
	logger  *logrus.Logger
}

func NewAnnouncementHandler(service *services.AnnouncementService, logger *logrus.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{Service: service, logger: logger}
}

func (h *AnnouncementHandler) Publish(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.CreateAnnouncementRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	a, err := h.Service.Publish(r.Context(), tenant, &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, a)
}

func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	items, err := h.Service.List(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if items == nil {
		items = []models.Announcement{}
	}
	utils.Success(w, http.StatusOK, items)
}

func (h *AnnouncementHandler) SetPinned(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Pinned bool `json:"pinned"`
	}
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Service.SetPinned(r.Context(), tenant, id, req.Pinned); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, nil)
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), tenant, id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, nil)
}

// UpdateNoticeBoard replaces the condominium's notice-board text; an empty
// text clears it.
func (h *AnnouncementHandler) UpdateNoticeBoard(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.UpdateNoticeBoardRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Service.UpdateNoticeBoard(r.Context(), tenant, req.Text); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, nil)
}
