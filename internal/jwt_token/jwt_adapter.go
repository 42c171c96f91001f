package jwttoken

import (
	"context"

	"github.com/chrisstorey/community-building-manager/internal/platform/middleware"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

// RevocationList answers whether a token id has been revoked (logout).
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func ToMiddlewareClaims(claims *Claims) *middleware.JWTClaims {
	return &middleware.JWTClaims{
		UserID:         claims.UserID,
		OrganizationID: claims.OrganizationID,
		Role:           claims.Role,
		TokenID:        claims.ID, // JWT ID for revocation tracking
	}
}

// JWTServiceAdapter bridges the token service and the revocation list into the
// middleware.JWTValidator interface.
type JWTServiceAdapter struct {
	service     *JWTService
	revocations RevocationList
}

func NewJWTServiceAdapter(service *JWTService, revocations RevocationList) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service, revocations: revocations}
}

func (a *JWTServiceAdapter) ValidateToken(ctx context.Context, tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if a.revocations != nil {
		revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "revocation check failed")
		}
		if revoked {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
		}
	}
	return ToMiddlewareClaims(claims), nil
}
