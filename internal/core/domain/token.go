package domain

import "time"

// TokenPair is the result of a successful login or refresh exchange.
// The refresh token here is the raw value handed to the client; only its
// hash is persisted.
type TokenPair struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"accessTokenExpiry"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiry"`
}

// AuthenticatedUser is the normalized identity attached to a request
// after token verification. Storage identifiers beyond this shape are
// never exposed to handlers.
type AuthenticatedUser struct {
	UserID string
	Role   UserRole
}
