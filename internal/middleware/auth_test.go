package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"condo-backend/internal/auth"
	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles map[uuid.UUID]models.Profile

func (s stubProfiles) Get(_ context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Profile, error) {
	p, ok := s[id]
	if !ok || p.CondominiumID != tenant.CondominiumID {
		return nil, nil
	}
	return &p, nil
}

func TestRequireRole(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", "condo-backend", 1)
	admin := models.Profile{ID: uuid.New(), CondominiumID: uuid.New(), Role: models.RoleAdmin}
	owner := models.Profile{ID: uuid.New(), CondominiumID: admin.CondominiumID, Role: models.RoleOwner}
	profiles := stubProfiles{admin.ID: admin, owner.ID: owner}
	mw := NewAuthMiddleware(jwtManager, profiles)

	var seen models.TenantContext
	handler := mw.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetTenantFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	request := func(p *models.Profile) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/payment-reports/x/approve", nil)
		if p != nil {
			token, err := jwtManager.GenerateToken(p)
			require.NoError(t, err)
			r.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("admin passes with tenant in context", func(t *testing.T) {
		w := request(&admin)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, admin.CondominiumID, seen.CondominiumID)
		assert.Equal(t, models.RoleAdmin, seen.Role)
	})

	t.Run("owner is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, request(&owner).Code)
	})

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request(nil).Code)
	})

	t.Run("deleted profile", func(t *testing.T) {
		ghost := models.Profile{ID: uuid.New(), CondominiumID: admin.CondominiumID, Role: models.RoleAdmin}
		assert.Equal(t, http.StatusUnauthorized, request(&ghost).Code)
	})
}
