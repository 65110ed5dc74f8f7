package auth

import (
	"context"
	"strings"
	"time"
)

// Service combines credential verification with token issuance.
type Service struct {
	users  UserStore
	tokens *Tokens
}

// NewService constructs the auth service. A nil user store disables login
// and refresh; token verification keeps working.
func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// Tokens exposes the underlying token service to the middleware chain.
func (s *Service) Tokens() *Tokens { return s.tokens }

// Users exposes the user store for ownership lookups.
func (s *Service) Users() UserStore { return s.users }

// TokenPair represents access and refresh tokens with their expirations.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// Login authenticates credentials and issues a fresh token pair. Every
// failure surfaces as ErrUnauthorized so callers cannot probe which part of
// the credential was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, Principal, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if s.users == nil || email == "" || password == "" {
		return TokenPair{}, Principal{}, ErrUnauthorized
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, Principal{}, ErrUnauthorized
	}
	if !user.Active() {
		return TokenPair{}, Principal{}, ErrUnauthorized
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return TokenPair{}, Principal{}, ErrUnauthorized
	}
	return s.mint(user)
}

// Refresh exchanges a valid refresh token for a new pair. The user record is
// re-read so a role change or a disabled account takes effect immediately.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, Principal, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, Principal{}, err
	}
	if s.users == nil {
		return TokenPair{}, Principal{}, ErrUnauthorized
	}
	user, err := s.users.Find(ctx, claims.Subject)
	if err != nil {
		return TokenPair{}, Principal{}, ErrTokenInvalid
	}
	if !user.Active() {
		return TokenPair{}, Principal{}, ErrUnauthorized
	}
	return s.mint(user)
}

// Authenticate verifies an access token and returns the request principal.
func (s *Service) Authenticate(token string) (Principal, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return Principal{}, err
	}
	return NewPrincipal(claims), nil
}

func (s *Service) mint(user *User) (TokenPair, Principal, error) {
	access, accessExp, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return TokenPair{}, Principal{}, err
	}
	refresh, refreshExp, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, Principal{}, err
	}
	principal := Principal{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: PermissionsForRole(user.Role),
		ExpiresAt:   accessExp,
	}
	pair := TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}
	return pair, principal, nil
}
