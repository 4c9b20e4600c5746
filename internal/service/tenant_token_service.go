package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/resto-menu-api/internal/models"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

// TenantTokenService verifies the HS256 bearer tokens that carry the tenant
// claim. Tokens are issued elsewhere; Issue exists for tooling and tests.
type TenantTokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTenantTokenService builds a verifier for the shared secret.
func NewTenantTokenService(secret string) *TenantTokenService {
	return &TenantTokenService{secret: []byte(secret), now: time.Now}
}

// ValidateToken parses and verifies a token, requiring a tenant claim.
func (s *TenantTokenService) ValidateToken(tokenString string) (*models.TenantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TenantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.TenantClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.TenantID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token has no tenant")
	}
	return claims, nil
}

// Issue signs a token for tenantID valid for ttl.
func (s *TenantTokenService) Issue(tenantID, subject string, ttl time.Duration) (string, error) {
	issuedAt := s.now().UTC()
	claims := models.TenantClaims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return signed, nil
}
