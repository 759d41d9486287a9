package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/canchas/internal/auth"
	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
)

const minPasswordLength = 8

// User represents an account that can sign in.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Role         auth.Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Identity returns the request identity this user signs in as.
func (u *User) Identity() auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
