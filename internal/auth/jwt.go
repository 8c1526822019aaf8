package auth

import (
	"errors"
	"time"

	"condo-backend/internal/models"
	"condo-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	ProfileID     uuid.UUID   `json:"profile_id"`
	CondominiumID uuid.UUID   `json:"condominium_id"`
	Role          models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Tenant() models.TenantContext {
	return models.TenantContext{
		CondominiumID: c.CondominiumID,
		ProfileID:     c.ProfileID,
		Role:          c.Role,
	}
}

type JWTManager struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

func NewJWTManager(secret, issuer string, expirationHours int) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		issuer:     issuer,
		expiration: time.Duration(expirationHours) * time.Hour,
	}
}

// GenerateToken creates a signed token for a profile
func (j *JWTManager) GenerateToken(profile *models.Profile) (string, error) {
	now := timeutil.Now()

	claims := &Claims{
		ProfileID:     profile.ID,
		CondominiumID: profile.CondominiumID,
		Role:          profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken verifies a JWT token and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return j.secret, nil
	}, jwt.WithIssuer(j.issuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.ProfileID == uuid.Nil || claims.CondominiumID == uuid.Nil {
		return nil, errors.New("token is missing tenant claims")
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleOwner {
		return nil, errors.New("token has an unknown role")
	}

	return claims, nil
}
