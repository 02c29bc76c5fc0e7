package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
)

// authUserKey is the key used to store the authenticated identity in the
// request context.
const authUserKey = contextKey("authUser")

// GetAuthUserFromContext retrieves the authenticated identity attached by
// the auth middleware. It returns the identity and a boolean indicating
// whether it was found.
func GetAuthUserFromContext(c *gin.Context) (domain.AuthenticatedUser, bool) {
	val := c.Request.Context().Value(authUserKey)
	if val == nil {
		return domain.AuthenticatedUser{}, false
	}
	user, ok := val.(domain.AuthenticatedUser)
	return user, ok
}

// GetUserIDFromContext retrieves the authenticated user ID from the context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	user, ok := GetAuthUserFromContext(c)
	if !ok {
		return "", false
	}
	return user.UserID, true
}
