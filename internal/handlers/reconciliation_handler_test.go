package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"condo-backend/internal/middleware"
	"condo-backend/internal/models"
	"condo-backend/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReconciler struct {
	err      error
	lastNote string
	calls    int
}

func (s *stubReconciler) Approve(_ context.Context, _ models.TenantContext, id uuid.UUID) (*services.ReconciliationOutcome, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &services.ReconciliationOutcome{Report: &models.PaymentReport{ID: id, Status: models.PaymentStatusApproved}}, nil
}

func (s *stubReconciler) Reject(_ context.Context, _ models.TenantContext, id uuid.UUID, note string) (*services.ReconciliationOutcome, error) {
	s.calls++
	s.lastNote = note
	if s.err != nil {
		return nil, s.err
	}
	return &services.ReconciliationOutcome{Report: &models.PaymentReport{ID: id, Status: models.PaymentStatusRejected}}, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// withTenant stands in for the auth middleware.
func withTenant(tenant models.TenantContext, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithTenant(r.Context(), tenant)))
	})
}

func reconciliationRouter(svc Reconciler) http.Handler {
	h := NewReconciliationHandler(svc, testLogger())
	r := mux.NewRouter()
	r.HandleFunc("/payments/{id}/approve", h.Approve).Methods(http.MethodPost)
	r.HandleFunc("/payments/{id}/reject", h.Reject).Methods(http.MethodPost)
	admin := models.TenantContext{CondominiumID: uuid.New(), ProfileID: uuid.New(), Role: models.RoleAdmin}
	return withTenant(admin, r)
}

func TestReconciliationHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"approved", nil, http.StatusOK, ""},
		{"missing report", services.ErrReportNotFound, http.StatusNotFound, services.ErrReportNotFound.Error()},
		{"already resolved", services.ErrReportFinalized, http.StatusConflict, services.ErrReportFinalized.Error()},
		{"lost race", services.ErrConcurrentUpdate, http.StatusConflict, services.ErrConcurrentUpdate.Error()},
		{"foreign property", services.ErrPropertyNotOwned, http.StatusUnprocessableEntity, services.ErrPropertyNotOwned.Error()},
		{"persistence failure", &services.PersistenceError{Step: "update ledger", Err: errors.New("disk full")}, http.StatusInternalServerError, "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := reconciliationRouter(&stubReconciler{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/payments/"+uuid.NewString()+"/approve", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, tt.err == nil, env.Success)
			assert.Equal(t, tt.message, env.Error)
		})
	}
}

func TestReconciliationHandler_Reject(t *testing.T) {
	t.Run("note is passed through", func(t *testing.T) {
		stub := &stubReconciler{}
		router := reconciliationRouter(stub)

		req := httptest.NewRequest(http.MethodPost, "/payments/"+uuid.NewString()+"/reject", strings.NewReader(`{"note":"Reference not found in bank statement"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Reference not found in bank statement", stub.lastNote)
	})

	t.Run("empty body leaves the default to the service", func(t *testing.T) {
		stub := &stubReconciler{}
		router := reconciliationRouter(stub)

		req := httptest.NewRequest(http.MethodPost, "/payments/"+uuid.NewString()+"/reject", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "", stub.lastNote)
	})

	t.Run("invalid id never reaches the service", func(t *testing.T) {
		stub := &stubReconciler{}
		router := reconciliationRouter(stub)

		req := httptest.NewRequest(http.MethodPost, "/payments/not-a-uuid/reject", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, stub.calls)
	})
}
