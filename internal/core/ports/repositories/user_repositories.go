package repositories

import (
	"context"
	"time"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
)

// UserReader defines read operations for identity records.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email (case-insensitive login key).
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByProviderDetails retrieves a user by external auth provider identity.
	FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users, optionally filtered by role.
	FindUsers(ctx context.Context, role domain.UserRole, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for identity records.
type UserWriter interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicate when the
	// email is already taken.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's profile details.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserSessionManager owns the single mutable shared resource of the auth
// path: the refresh-token field on the identity record. All writes are
// single-row atomic updates.
type UserSessionManager interface {
	// SupersedeRefreshToken stores a new refresh-token hash, unconditionally
	// replacing any prior value. Used at login: any previous session is
	// intentionally invalidated.
	SupersedeRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error

	// RotateRefreshToken replaces the stored hash only if it currently equals
	// currentHash. Returns apperrors.ErrRefreshTokenMismatch when the stored
	// value differs (logged out, superseded or already rotated).
	RotateRefreshToken(ctx context.Context, userID string, currentHash string, newHash string, expiryTime time.Time) error

	// ClearRefreshToken removes the stored refresh token (logout/revocation).
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserSessionManager
}
