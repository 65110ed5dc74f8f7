package auth

import "errors"

// Sentinel errors used by the middleware chain and handlers. Callers branch
// with errors.Is; messages are never matched.
var (
	ErrTokenMissing     = errors.New("auth: bearer token missing")
	ErrTokenInvalid     = errors.New("auth: invalid token")
	ErrTokenExpired     = errors.New("auth: token expired")
	ErrTokenGeneration  = errors.New("auth: token generation failed")
	ErrInsufficientRole = errors.New("auth: insufficient role")
	ErrPermissionDenied = errors.New("auth: permission denied")

	ErrNotFound     = errors.New("auth: not found")
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrInvalidInput = errors.New("auth: invalid input")
)

// FailureKind maps an auth error to a stable label for logs and metrics.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "token_missing"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenInvalid):
		return "token_invalid"
	case errors.Is(err, ErrInsufficientRole):
		return "insufficient_role"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	default:
		return "internal"
	}
}
