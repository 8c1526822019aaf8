package handlers

import (
	"net/http"
	"strconv"

	"condo-backend/internal/models"
	"condo-backend/internal/notify"
	"condo-backend/internal/services"
	"condo-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

const defaultNotificationLimit = 50

type NotificationHandler struct {
	Service *services.NotificationService
	Hub     *notify.Hub
	logger  *logrus.Logger
}

func NewNotificationHandler(service *services.NotificationService, hub *notify.Hub, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Service: service, Hub: hub, logger: logger}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			utils.Error(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	items, err := h.Service.List(r.Context(), tenant, limit)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	utils.Success(w, http.StatusOK, items)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	n, err := h.Service.UnreadCount(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]int{"unread": n})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.MarkRead(r.Context(), tenant, id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, nil)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	n, err := h.Service.MarkAllRead(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]int64{"updated": n})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Stream upgrades to a websocket that receives the caller's feed live.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	h.Hub.ServeWS(w, r, tenant)
}
