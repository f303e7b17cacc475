package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opsdesk/incident-tracker/internal/auth"
	"github.com/opsdesk/incident-tracker/internal/config"
	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/policy"
	"github.com/opsdesk/incident-tracker/internal/repository"
	apperrors "github.com/opsdesk/incident-tracker/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserStore
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates store requirements for the auth service.
type AuthDependencies struct {
	UserStore repository.UserStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserStore,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account. Username and email uniqueness is
// enforced by the store; a violation surfaces as a conflict.
func (s *AuthService) Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("username, email and password are required", nil)
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !policy.CanRegisterRole(role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("username or email already registered", nil)
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by username and password. Unknown usernames and
// wrong passwords fail identically so nothing leaks about which it was.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
