package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Role is the coarse permission level carried in the access token.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a stored role name to a Role, defaulting to RoleUser.
func ParseRole(v string) Role {
	if strings.EqualFold(strings.TrimSpace(v), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the verified caller of a request. The zero value is an anonymous caller.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

func (i Identity) IsAdmin() bool {
	return !i.IsAnonymous() && i.Role == RoleAdmin
}

const identityKey = "identity"

// SetIdentity stores the caller on the gin context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the caller stored by the auth middleware, or an anonymous Identity.
func GetIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}
