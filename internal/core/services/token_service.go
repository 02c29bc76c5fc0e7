package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saurabhtripathi7/mediqueue/internal/apperrors"
	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portsrepo "github.com/saurabhtripathi7/mediqueue/internal/core/ports/repositories"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/platform/config"
	"github.com/saurabhtripathi7/mediqueue/internal/utils"
)

// tokenService implements the TokenSvcFacade. It owns the full lifecycle of
// the access/refresh pair: issuance, stateless verification, rotation on
// refresh and revocation on logout. The persisted side of a session is a
// single hash on the identity record, so every mutation is one atomic
// single-row update.
type tokenService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// IssueTokens creates an access/refresh pair for an authenticated identity.
// The new refresh-token hash unconditionally replaces any stored value:
// logging in supersedes the previous session.
func (s *tokenService) IssueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	pair, err := s.signPair(user)
	if err != nil {
		return nil, err
	}

	hash := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.userRepo.SupersedeRefreshToken(ctx, user.UserID, hash, pair.RefreshTokenExpiry); err != nil {
		s.LogError(ctx, err, "Failed to persist refresh token")
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return pair, nil
}

// VerifyAccessToken validates signature and expiry and returns the
// normalized identity. Stateless; the stored refresh token is not consulted.
func (s *tokenService) VerifyAccessToken(tokenString string) (*domain.AuthenticatedUser, error) {
	claims, err := utils.ParseAccessJWT(tokenString, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, apperrors.ErrUnauthorized
	}
	role := domain.UserRole(claims.Role)
	if !role.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	return &domain.AuthenticatedUser{UserID: claims.Subject, Role: role}, nil
}

// Refresh exchanges a valid, still-registered refresh token for a new pair.
// The stored hash is rotated with a compare-and-swap, so a stale token
// (logged out, superseded by a newer login, or already exchanged) fails
// terminally and the caller must re-login.
func (s *tokenService) Refresh(ctx context.Context, refreshTokenString string) (*domain.TokenPair, error) {
	claims, err := utils.ParseRefreshJWT(refreshTokenString, s.cfg.RefreshTokenSecret)
	if err != nil {
		s.LogWarn(ctx, "Refresh token failed verification", "error", err.Error())
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to retrieve user for refresh token validation: %w", err)
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	if !utils.CompareRefreshTokenHash(refreshTokenString, user.RefreshTokenHash) {
		return nil, apperrors.ErrRefreshTokenMismatch
	}

	pair, err := s.signPair(user)
	if err != nil {
		return nil, err
	}

	currentHash := utils.HashRefreshToken(refreshTokenString)
	newHash := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.userRepo.RotateRefreshToken(ctx, user.UserID, currentHash, newHash, pair.RefreshTokenExpiry); err != nil {
		if errors.Is(err, apperrors.ErrRefreshTokenMismatch) {
			// Lost the race against a concurrent rotation or logout.
			return nil, apperrors.ErrRefreshTokenMismatch
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	s.LogInfo(ctx, "Refresh token rotated", "user_id", user.UserID)
	return pair, nil
}

// RevokeRefreshToken clears the stored refresh token for an identity.
func (s *tokenService) RevokeRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *tokenService) signPair(user *domain.User) (*domain.TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.JWTExpiryDuration)
	refreshExpiry := now.Add(s.cfg.RefreshTokenExpiryDuration)

	accessToken, err := utils.GenerateAccessJWT(user.UserID, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshJWT(user.UserID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:        accessToken,
		AccessTokenExpiry:  accessExpiry,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: refreshExpiry,
	}, nil
}
