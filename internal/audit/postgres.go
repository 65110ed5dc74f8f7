package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"lexora.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore appends audit entries to PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Append(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	details, _ := json.Marshal(entry.Details)
	_, err := s.db.ExecContext(ctx,
		`insert into audit_log(id, user_id, action, entity_type, entity_id, details, occurred_at)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		entry.ID, entry.UserID, entry.Action, entry.EntityType, entry.EntityID, details, entry.OccurredAt,
	)
	return err
}
