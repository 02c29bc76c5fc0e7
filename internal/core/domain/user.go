package domain

import "time"

// UserRole determines the authorization scope of an identity.
// It is fixed at creation.
type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User is a stored principal: a patient, doctor or admin account.
// The refresh-token fields hold at most one live session per identity;
// issuing a new refresh token supersedes any previous one.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`

	// Google sign-in identities have no local password.
	AuthProvider   string `json:"authProvider,omitempty"`
	ProviderUserID string `json:"-"`

	// RefreshTokenHash is the SHA-256 hash of the single live refresh token,
	// empty when no session is active.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
