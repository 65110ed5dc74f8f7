package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultIssuer     = "lexora"
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims carries identity and role information inside a signed token.
// token_type distinguishes refresh tokens from access tokens so a leaked
// refresh token cannot be replayed as an access credential.
type Claims struct {
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed, time-bound bearer tokens. The secret
// and TTLs are injected at construction; there is no package-level state.
type Tokens struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption configures Tokens.
type TokenOption func(*Tokens)

// WithIssuer overrides the iss claim.
func WithIssuer(issuer string) TokenOption {
	return func(t *Tokens) {
		if s := strings.TrimSpace(issuer); s != "" {
			t.issuer = s
		}
	}
}

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) TokenOption {
	return func(t *Tokens) {
		if ttl > 0 {
			t.accessTTL = ttl
		}
	}
}

// WithRefreshTTL configures refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) TokenOption {
	return func(t *Tokens) {
		if ttl > 0 {
			t.refreshTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) TokenOption {
	return func(t *Tokens) {
		if fn != nil {
			t.now = fn
		}
	}
}

// NewTokens constructs the token service.
func NewTokens(secret string, opts ...TokenOption) (*Tokens, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: token secret is required")
	}
	t := &Tokens{
		secret:     []byte(secret),
		issuer:     defaultIssuer,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// AccessTTL returns the configured access token lifetime.
func (t *Tokens) AccessTTL() time.Duration { return t.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (t *Tokens) RefreshTTL() time.Duration { return t.refreshTTL }

// GenerateAccessToken signs a short-lived token embedding id, email and role.
func (t *Tokens) GenerateAccessToken(userID, email string, role Role) (string, time.Time, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("%w: user id is required", ErrTokenGeneration)
	}
	if !role.Valid() {
		return "", time.Time{}, fmt.Errorf("%w: unknown role %q", ErrTokenGeneration, role)
	}
	now := t.now().UTC()
	exp := now.Add(t.accessTTL)
	claims := Claims{
		Email:     strings.TrimSpace(strings.ToLower(email)),
		Role:      role,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return signed, exp, nil
}

// GenerateRefreshToken signs a long-lived token typed "refresh". It carries
// only the user id; roles are re-resolved when the token is exchanged.
func (t *Tokens) GenerateRefreshToken(userID string) (string, time.Time, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("%w: user id is required", ErrTokenGeneration)
	}
	now := t.now().UTC()
	exp := now.Add(t.refreshTTL)
	claims := Claims{
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return signed, exp, nil
}

// VerifyAccessToken verifies signature, expiry and the access type guard.
// Refresh tokens presented here are rejected even though the signature
// verifies.
func (t *Tokens) VerifyAccessToken(token string) (*Claims, error) {
	claims, err := t.verify(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, ErrTokenInvalid
	}
	if !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyRefreshToken verifies signature, expiry and the refresh type guard.
func (t *Tokens) VerifyRefreshToken(token string) (*Claims, error) {
	claims, err := t.verify(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (t *Tokens) verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenInvalid
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenInvalid
	}
	if claims.IssuedAt == nil || claims.ExpiresAt.Before(claims.IssuedAt.Time) {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
