package services

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	"github.com/saurabhtripathi7/mediqueue/internal/dto"
)

// UserSvcFacade defines identity management operations.
type UserSvcFacade interface {
	// RegisterPatient creates a patient identity from self-registration.
	RegisterPatient(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Authenticate verifies the email/password credential and returns the
	// identity. Returns apperrors.ErrUnauthorized on any mismatch.
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// UpdateUser updates a user's own profile fields.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// ListUsers retrieves a paginated list, optionally filtered by role.
	ListUsers(ctx context.Context, role domain.UserRole, limit int, offset int) ([]domain.User, error)

	// FindOrCreateGoogleUser returns the identity linked to a Google
	// account, creating a patient identity on first login.
	FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)
}

// GoogleAuthSvcFacade defines the Google sign-in operations: the
// redirect-based OAuth code flow and direct ID-token validation.
type GoogleAuthSvcFacade interface {
	// GenerateStateString creates a secure random CSRF token for the OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// GetUserInfo uses the access token to get user information from Google.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)

	// ValidateGoogleIDToken validates an ID token against the configured
	// client ID and returns the verified user info.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error)
}
