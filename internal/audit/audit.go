package audit

import (
	"context"
	"strings"
	"time"
)

// Entry is one append-only audit record. Entries are never updated or
// deleted.
type Entry struct {
	ID         string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	OccurredAt time.Time
}

// Store appends immutable entries.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
}

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit
// logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the audit request id from context if present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
