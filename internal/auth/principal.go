package auth

import (
	"context"
	"time"
)

// Principal is the authenticated identity attached to a request once its
// token verifies. It lives only for the request; nothing here is persisted.
type Principal struct {
	UserID      string
	Email       string
	Role        Role
	Permissions map[Permission]struct{}
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// NewPrincipal builds a principal from verified claims, deriving the
// permission set from the static role table.
func NewPrincipal(claims *Claims) Principal {
	p := Principal{
		UserID:      claims.Subject,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: PermissionsForRole(claims.Role),
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p
}

// HasPermission reports whether the principal can perform the action.
func (p Principal) HasPermission(perm Permission) bool {
	_, ok := p.Permissions[perm]
	return ok
}

// HasAnyPermission reports whether at least one permission is held.
func (p Principal) HasAnyPermission(perms ...Permission) bool {
	for _, perm := range perms {
		if p.HasPermission(perm) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every permission is held.
func (p Principal) HasAllPermissions(perms ...Permission) bool {
	for _, perm := range perms {
		if !p.HasPermission(perm) {
			return false
		}
	}
	return true
}

type principalContextKey struct{}
type tokenContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}

// ContextWithToken stores the raw bearer token inside the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if it was previously attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
