package services

import (
	"context"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
)

// TokenSvcFacade defines the token lifecycle: issuance on login,
// stateless verification on every protected request, rotation on refresh
// and revocation on logout.
type TokenSvcFacade interface {
	// IssueTokens creates an access/refresh pair for an already
	// authenticated identity and persists the refresh-token hash,
	// superseding any prior session.
	IssueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error)

	// VerifyAccessToken validates signature and expiry of an access token
	// and returns the normalized identity. Stateless; never touches the
	// persisted refresh token.
	VerifyAccessToken(tokenString string) (*domain.AuthenticatedUser, error)

	// Refresh exchanges a valid, still-registered refresh token for a new
	// pair, rotating the stored hash atomically. Failures are terminal:
	// the caller must re-login.
	Refresh(ctx context.Context, refreshTokenString string) (*domain.TokenPair, error)

	// RevokeRefreshToken clears the stored refresh token for an identity.
	RevokeRefreshToken(ctx context.Context, userID string) error
}
