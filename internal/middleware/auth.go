package middleware

import (
	"context"
	"net/http"
	"strings"

	"condo-backend/internal/auth"
	"condo-backend/internal/models"
	"condo-backend/pkg/utils"

	"github.com/google/uuid"
)

type contextKey string

const TenantKey contextKey = "tenant"

// ProfileLookup confirms the token's profile still exists in its condominium.
type ProfileLookup interface {
	Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Profile, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	profiles   ProfileLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, profiles ProfileLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		profiles:   profiles,
	}
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.RequireRole()(next)
}

// RequireRole authenticates the request and, when roles are given, checks
// the profile's current role against them. The role is read from the
// database so demotions apply immediately.
func (m *AuthMiddleware) RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			claims, err := m.jwtManager.ValidateToken(token)
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			tenant := claims.Tenant()
			profile, err := m.profiles.Get(r.Context(), tenant, tenant.ProfileID)
			if err != nil || profile == nil {
				utils.Error(w, http.StatusUnauthorized, "Profile not found")
				return
			}
			tenant.Role = profile.Role

			if len(allowedRoles) > 0 && !hasRole(tenant.Role, allowedRoles) {
				utils.Error(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
		})
	}
}

func WithTenant(ctx context.Context, tenant models.TenantContext) context.Context {
	return context.WithValue(ctx, TenantKey, tenant)
}

// GetTenantFromContext extracts the tenant placed by RequireRole
func GetTenantFromContext(ctx context.Context) (models.TenantContext, bool) {
	tenant, ok := ctx.Value(TenantKey).(models.TenantContext)
	return tenant, ok
}

// bearerToken reads "Bearer <token>", falling back to ?token= for websockets.
func bearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
