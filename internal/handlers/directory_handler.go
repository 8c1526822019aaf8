package handlers

import (
	"net/http"

	"condo-backend/internal/models"
	"condo-backend/internal/services"
	"condo-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

const maxImportBytes = 10 << 20

type DirectoryHandler struct {
	Service *services.DirectoryService
	logger  *logrus.Logger
}

func NewDirectoryHandler(service *services.DirectoryService, logger *logrus.Logger) *DirectoryHandler {
	return &DirectoryHandler{Service: service, logger: logger}
}

func (h *DirectoryHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.CreatePropertyRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := h.Service.CreateProperty(r.Context(), tenant, &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, p)
}

func (h *DirectoryHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListProperties(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if items == nil {
		items = []models.Property{}
	}
	utils.Success(w, http.StatusOK, items)
}

// AssignOwner links or, with a null owner_profile_id, unlinks a unit.
func (h *DirectoryHandler) AssignOwner(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req models.AssignOwnerRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := h.Service.AssignOwner(r.Context(), tenant, id, req.OwnerProfileID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, nil)
}

func (h *DirectoryHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteProperty(r.Context(), tenant, id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, nil)
}

func (h *DirectoryHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	var req models.CreateOwnerRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := h.Service.CreateOwner(r.Context(), tenant, &req)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, p)
}

func (h *DirectoryHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListOwners(r.Context(), tenant)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if items == nil {
		items = []models.Profile{}
	}
	utils.Success(w, http.StatusOK, items)
}

func (h *DirectoryHandler) DeleteOwner(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteOwner(r.Context(), tenant, id); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, nil)
}

// Import accepts an .xlsx upload in the "file" form field.
func (h *DirectoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantOrAbort(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Spreadsheet file is required")
		return
	}
	defer file.Close()

	result, err := h.Service.Import(r.Context(), tenant, file)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	utils.Success(w, http.StatusOK, result)
}
