package rpc

import (
	"github.com/gin-gonic/gin"

	"github.com/createconomy/createconomy/internal/models"
)

// Context keys the auth middleware stores the caller's identity under
const (
	userKey    = "rpc.user"
	sessionKey = "rpc.session"
)

// SetUser attaches the authenticated caller to the request context
func SetUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}

// UserFrom returns the authenticated caller, if any
func UserFrom(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// SetSession records the session ID the caller authenticated with
func SetSession(c *gin.Context, sessionID string) {
	c.Set(sessionKey, sessionID)
}

// SessionFrom returns the caller's session ID, if any
func SessionFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// RequireUser returns the authenticated caller or an unauthenticated error
func RequireUser(c *gin.Context) (*models.User, error) {
	user, ok := UserFrom(c)
	if !ok {
		return nil, Unauthenticated()
	}
	return user, nil
}

// RequireRole returns the caller when they hold one of the given roles
func RequireRole(c *gin.Context, roles ...string) (*models.User, error) {
	user, err := RequireUser(c)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, Forbidden("insufficient role")
}
