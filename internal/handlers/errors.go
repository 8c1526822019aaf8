package handlers

import (
	"errors"
	"net/http"

	"condo-backend/internal/middleware"
	"condo-backend/internal/models"
	"condo-backend/internal/services"
	"condo-backend/internal/storage"
	"condo-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{services.ErrReportNotFound, http.StatusNotFound},
	{services.ErrPropertyNotFound, http.StatusNotFound},
	{services.ErrOwnerNotFound, http.StatusNotFound},
	{services.ErrOwnerNotRegistered, http.StatusNotFound},
	{services.ErrNoOwnedProperties, http.StatusNotFound},
	{services.ErrNotificationNotFound, http.StatusNotFound},
	{services.ErrTicketNotFound, http.StatusNotFound},
	{services.ErrAnnouncementNotFound, http.StatusNotFound},
	{services.ErrCondominiumNotFound, http.StatusNotFound},

	{services.ErrReportFinalized, http.StatusConflict},
	{services.ErrConcurrentUpdate, http.StatusConflict},
	{services.ErrPeriodExists, http.StatusConflict},
	{services.ErrDuplicateReference, http.StatusConflict},
	{services.ErrDuplicateProperty, http.StatusConflict},
	{services.ErrDuplicateNationalID, http.StatusConflict},

	{services.ErrPropertyNotOwned, http.StatusUnprocessableEntity},
	{services.ErrNoProperties, http.StatusUnprocessableEntity},
	{services.ErrMissingAmount, http.StatusUnprocessableEntity},
	{services.ErrNoExchangeRate, http.StatusUnprocessableEntity},
	{services.ErrReceiptNotAvailable, http.StatusUnprocessableEntity},

	{services.ErrInvalidAmount, http.StatusBadRequest},
	{services.ErrFuturePaymentDate, http.StatusBadRequest},
	{services.ErrProofRequired, http.StatusBadRequest},
	{services.ErrEmptySpreadsheet, http.StatusBadRequest},
	{services.ErrDocumentRequired, http.StatusBadRequest},
	{models.ErrInvalidRate, http.StatusBadRequest},
	{storage.ErrUnsupportedType, http.StatusBadRequest},
	{storage.ErrProofTooLarge, http.StatusRequestEntityTooLarge},
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// writeError converts a service error into the JSON error envelope. Internal
// failures are logged and never leak their message.
func writeError(w http.ResponseWriter, logger *logrus.Logger, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			}).WithError(err).Error("request failed")
		}
		utils.Error(w, status, "unexpected error")
		return
	}
	utils.Error(w, status, err.Error())
}

func tenantOrAbort(w http.ResponseWriter, r *http.Request) (models.TenantContext, bool) {
	tenant, ok := middleware.GetTenantFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
	}
	return tenant, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
