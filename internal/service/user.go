package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/authkeep/authkeep/internal/domain"
	"github.com/authkeep/authkeep/internal/store"
	"github.com/authkeep/authkeep/pkg/cryptox"
	"github.com/authkeep/authkeep/pkg/idx"
)

const (
	minNameLen = 5
	maxNameLen = 20
)

// UserService manages user records: registration, credential checks and role
// grants.
type UserService struct {
	users store.Users
}

func NewUserService(users store.Users) *UserService {
	return &UserService{users: users}
}

// Signup registers a new user with the default role. The username and
// nickname must each be 5-20 characters and the password must satisfy the
// password policy.
func (s *UserService) Signup(ctx context.Context, username, nickname, password string) (domain.User, error) {
	if l := len(username); l < minNameLen || l > maxNameLen {
		return domain.User{}, fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, minNameLen, maxNameLen)
	}
	if l := len(nickname); l < minNameLen || l > maxNameLen {
		return domain.User{}, fmt.Errorf("%w: nickname must be %d-%d characters", ErrValidation, minNameLen, maxNameLen)
	}
	if err := cryptox.ValidatePassword(password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Nickname:     nickname,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, fmt.Errorf("%w: %q", ErrDuplicateUsername, username)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks a username/password pair and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: %q", ErrUserNotFound, username)
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, fmt.Errorf("%w: %q", ErrInvalidCredentials, username)
	}
	return user, nil
}

// GetByUsername returns the user record for the username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: %q", ErrUserNotFound, username)
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// GrantAdmin promotes the target user to the admin role. The acting user must
// already hold the admin role.
func (s *UserService) GrantAdmin(ctx context.Context, actor domain.Identity, targetUserID string) (domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.User{}, fmt.Errorf("%w: actor %q", ErrAdminRequired, actor.Username)
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: id %q", ErrUserNotFound, targetUserID)
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := s.users.UpdateRole(ctx, target.ID, domain.RoleAdmin); err != nil {
		return domain.User{}, fmt.Errorf("update role: %w", err)
	}
	target.Role = domain.RoleAdmin
	return target, nil
}
