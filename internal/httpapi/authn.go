package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"lexora.org/internal/audit"
	"lexora.org/internal/auth"
	"lexora.org/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/v1/auth/login",
	"/v1/auth/refresh",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

// withAuth verifies the bearer token and attaches the decoded principal to
// the request context. Every outcome emits a security event with the caller
// IP and, when known, the principal id. The chain keeps no state between
// requests.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			obs.AuthFailure(auth.FailureKind(auth.ErrTokenMissing))
			_ = audit.LogEvent(r.Context(), "auth.token.missing", map[string]any{
				"path": r.URL.Path,
				"ip":   clientIP(r),
			})
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		principal, err := a.auth.Authenticate(token)
		if err != nil {
			obs.AuthFailure(auth.FailureKind(err))
			_ = audit.LogEvent(r.Context(), "auth.token.rejected", map[string]any{
				"path":   r.URL.Path,
				"ip":     clientIP(r),
				"reason": auth.FailureKind(err),
			})
			status := http.StatusForbidden
			msg := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token expired"
			}
			writeError(w, r, status, msg)
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		ctx = auth.ContextWithToken(ctx, token)
		_ = audit.LogEvent(ctx, "auth.token.verified", map[string]any{
			"path": r.URL.Path,
			"ip":   clientIP(r),
			"role": string(principal.Role),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates a route on the principal's role.
func RequireRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				rejectAuthz(w, r, "", auth.ErrInsufficientRole)
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					_ = audit.LogEvent(r.Context(), "auth.role.granted", map[string]any{
						"path": r.URL.Path,
						"ip":   clientIP(r),
						"role": string(principal.Role),
					})
					next.ServeHTTP(w, r)
					return
				}
			}
			rejectAuthz(w, r, principal.UserID, auth.ErrInsufficientRole)
		})
	}
}

// RequirePermissionsAny gates a route on holding at least one permission.
func RequirePermissionsAny(perms ...auth.Permission) func(http.Handler) http.Handler {
	return requirePermissions(false, perms...)
}

// RequirePermissionsAll gates a route on holding every permission.
func RequirePermissionsAll(perms ...auth.Permission) func(http.Handler) http.Handler {
	return requirePermissions(true, perms...)
}

func requirePermissions(all bool, perms ...auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				rejectAuthz(w, r, "", auth.ErrPermissionDenied)
				return
			}
			granted := principal.HasAnyPermission(perms...)
			if all {
				granted = principal.HasAllPermissions(perms...)
			}
			if !granted {
				rejectAuthz(w, r, principal.UserID, auth.ErrPermissionDenied)
				return
			}
			_ = audit.LogEvent(r.Context(), "auth.permission.granted", map[string]any{
				"path": r.URL.Path,
				"ip":   clientIP(r),
			})
			next.ServeHTTP(w, r)
		})
	}
}

// ensurePermissions is the in-handler variant of the permission gate, used
// by handlers that multiplex several methods on one path.
func (a *API) ensurePermissions(w http.ResponseWriter, r *http.Request, perms ...auth.Permission) bool {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		rejectAuthz(w, r, "", auth.ErrPermissionDenied)
		return false
	}
	if !principal.HasAllPermissions(perms...) {
		rejectAuthz(w, r, principal.UserID, auth.ErrPermissionDenied)
		return false
	}
	return true
}

func rejectAuthz(w http.ResponseWriter, r *http.Request, userID string, cause error) {
	kind := auth.FailureKind(cause)
	obs.AuthFailure(kind)
	_ = audit.LogEvent(r.Context(), "auth.access.denied", map[string]any{
		"path":    r.URL.Path,
		"ip":      clientIP(r),
		"user_id": userID,
		"reason":  kind,
	})
	writeError(w, r, http.StatusForbidden, "insufficient permissions")
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
