package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/authkeep/authkeep/internal/domain"
	"github.com/authkeep/authkeep/internal/revocation"
	"github.com/authkeep/authkeep/internal/store"
	"github.com/authkeep/authkeep/internal/tokenstore"
	"github.com/authkeep/authkeep/pkg/jwtx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

const bearerPrefix = "Bearer "

// TokenService issues, refreshes and revokes session tokens. Access tokens
// are self-contained and carry the role claim; refresh tokens are stored
// server-side keyed by user ID and must match the stored copy exactly to be
// honoured.
type TokenService struct {
	codec      *jwtx.Codec
	tokens     *tokenstore.Store
	revoked    *revocation.Registry
	users      store.Users
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// TokenServiceConfig collects the collaborators for NewTokenService.
type TokenServiceConfig struct {
	Codec      *jwtx.Codec
	Tokens     *tokenstore.Store
	Revoked    *revocation.Registry
	Users      store.Users
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenService(cfg TokenServiceConfig) *TokenService {
	return &TokenService{
		codec:      cfg.Codec,
		tokens:     cfg.Tokens,
		revoked:    cfg.Revoked,
		users:      cfg.Users,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// IssueSession mints a fresh access/refresh pair for the user and records the
// refresh token server-side, displacing any previous session for that user.
func (s *TokenService) IssueSession(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	access, err := s.codec.Issue(user.Username, string(user.Role), s.accessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.codec.Issue(user.Username, "", s.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.tokens.Put(ctx, user.ID, refresh, s.refreshTTL); err != nil {
		return domain.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token. The presented
// token must decode, name a known user, and match the stored copy for that
// user byte for byte. Any failure, including an unreachable token store,
// yields ErrUnauthorizedToken; the caller is expected to discard the session.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, domain.User, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("%w: %w", ErrUnauthorizedToken, err)
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, fmt.Errorf("%w: subject %q", ErrUserNotFound, claims.Subject)
		}
		return "", domain.User{}, fmt.Errorf("load user: %w", err)
	}

	stored, err := s.tokens.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return "", domain.User{}, fmt.Errorf("%w: no stored refresh token", ErrUnauthorizedToken)
		}
		// Fail closed: an unverifiable token is an unauthorized token.
		return "", domain.User{}, errors.Join(ErrUnauthorizedToken, err)
	}

	if stored != refreshToken {
		// A well-formed token that doesn't match the live session may be a
		// replayed or stolen one; end the session rather than leave it open.
		if _, derr := s.tokens.Delete(ctx, user.ID); derr != nil {
			slogx.FromContext(ctx).Warn("failed to discard mismatched session", slogx.Err(derr))
		}
		return "", domain.User{}, fmt.Errorf("%w: token does not match stored session", ErrUnauthorizedToken)
	}

	access, err := s.codec.Issue(user.Username, string(user.Role), s.accessTTL)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue access token: %w", err)
	}
	return access, user, nil
}

// DiscardSession removes the stored refresh token for the user, ending the
// session server-side. Removing an absent session is not an error.
func (s *TokenService) DiscardSession(ctx context.Context, userID string) error {
	if _, err := s.tokens.Delete(ctx, userID); err != nil {
		return fmt.Errorf("discard session: %w", err)
	}
	return nil
}

// Blacklist revokes an access token presented as an Authorization header
// value ("Bearer <token>") for the remainder of its lifetime. Tokens that are
// malformed, expired or missing the scheme prefix carry no future authority,
// so they are logged and dropped rather than rejected.
func (s *TokenService) Blacklist(ctx context.Context, authorization string) error {
	log := slogx.FromContext(ctx)

	if !strings.HasPrefix(authorization, bearerPrefix) {
		log.Warn("blacklist skipped: missing bearer scheme")
		return nil
	}
	token := strings.TrimPrefix(authorization, bearerPrefix)

	claims, err := s.codec.Decode(token)
	if err != nil {
		log.Warn("blacklist skipped: token not revocable", slogx.Err(err))
		return nil
	}

	remaining := claims.Remaining(time.Now())
	if err := s.revoked.MarkRevoked(ctx, token, remaining); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the access token has been revoked.
func (s *TokenService) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	revoked, err := s.revoked.IsRevoked(ctx, token)
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return revoked, nil
}
