package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/canchas/internal/auth"
)

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// EnsureAdmin creates or resets the admin account with the given credentials.
	EnsureAdmin(ctx context.Context, email, password string) (*User, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *service) credentials(email, password string) (string, string, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return "", "", ErrEmailRequired
	}
	if len(password) < minPasswordLength {
		return "", "", ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}
	return cleanEmail, hash, nil
}

func (s *service) Register(ctx context.Context, email, password, displayName string) (*User, error) {
	cleanEmail, hash, err := s.credentials(email, password)
	if err != nil {
		return nil, err
	}

	var displayNamePtr *string
	if d := strings.TrimSpace(displayName); d != "" {
		displayNamePtr = &d
	}

	u := &User{
		Email:        cleanEmail,
		PasswordHash: hash,
		DisplayName:  displayNamePtr,
		Role:         auth.RoleUser,
	}

	// The unique index on email reports duplicates.
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailAlreadyUsed) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed update does not fail the login.
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", u.ID).Msg("failed to update last login")
	} else {
		u.LastLoginAt = &now
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) (*User, error) {
	cleanEmail, hash, err := s.credentials(email, password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        cleanEmail,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}
	if err := s.repo.UpsertAdmin(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
