package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"lexora.org/internal/auth"
	"lexora.org/internal/obs"
)

// Trail writes audit records to the durable store and mirrors them to the
// structured log. Trail writes are best-effort: a failed append is logged
// and never blocks the action being audited.
type Trail struct {
	store Store
	now   func() time.Time
}

// NewTrail constructs a Trail. A nil store degrades to log-only auditing.
func NewTrail(store Store) *Trail {
	return &Trail{store: store, now: time.Now}
}

// Record appends an audit entry and emits the matching log event. The error
// from the store is swallowed after logging; callers treat Record as
// infallible.
func (t *Trail) Record(ctx context.Context, entry Entry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = t.now().UTC()
	}
	if entry.UserID == "" {
		if principal, ok := auth.PrincipalFromContext(ctx); ok {
			entry.UserID = principal.UserID
		}
	}

	fields := []zap.Field{
		zap.String("type", "audit"),
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
	}
	if entry.UserID != "" {
		fields = append(fields, zap.String("user_id", entry.UserID))
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	if len(entry.Details) > 0 {
		fields = append(fields, zap.Any("details", entry.Details))
	}
	obs.Logger().Info(entry.Action, fields...)

	if t.store == nil {
		return
	}
	if err := t.store.Append(ctx, &entry); err != nil {
		obs.Logger().Warn("audit append failed",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

// LogEvent emits a structured security event without a durable entry.
// Used by the middleware chain for per-transition success/failure events.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	zfields := []zap.Field{zap.String("type", "security")}
	if rid := RequestIDFromContext(ctx); rid != "" {
		zfields = append(zfields, zap.String("request_id", rid))
	}
	if principal, ok := auth.PrincipalFromContext(ctx); ok {
		zfields = append(zfields, zap.String("user_id", principal.UserID))
	}
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}
	obs.Logger().Info(event, zfields...)
	return nil
}
