package docsec

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

var (
	_ MetadataStore = (*PGStore)(nil)
	_ BlobStore     = (*PGStore)(nil)
)

// PGStore implements MetadataStore using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, m *Metadata) error {
	_, err := s.db.ExecContext(ctx,
		`insert into document_security(document_id, owner_id, security_level, encrypted_at_rest, encryption_key_id, watermark_text, watermark_position)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		m.DocumentID, m.OwnerID, string(m.SecurityLevel), m.EncryptedAtRest,
		m.EncryptionKeyID, m.WatermarkText, string(m.WatermarkPosition),
	)
	return err
}

func (s *PGStore) Find(ctx context.Context, documentID string) (*Metadata, error) {
	row := s.db.QueryRowContext(ctx,
		`select document_id, owner_id, security_level, encrypted_at_rest, encryption_key_id,
		        watermark_text, watermark_position, created_at, updated_at
		 from document_security where document_id=$1`, documentID)
	var (
		m        Metadata
		level    string
		position string
	)
	if err := row.Scan(&m.DocumentID, &m.OwnerID, &level, &m.EncryptedAtRest, &m.EncryptionKeyID,
		&m.WatermarkText, &position, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m.SecurityLevel = SecurityLevel(level)
	m.WatermarkPosition = WatermarkPosition(position)
	return &m, nil
}

func (s *PGStore) UpdateSecurity(ctx context.Context, documentID string, upd SecurityUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)
	args = append(args, documentID)
	if upd.SecurityLevel != nil {
		args = append(args, string(*upd.SecurityLevel))
		sets = append(sets, "security_level=$"+strconv.Itoa(len(args)))
	}
	if upd.WatermarkText != nil {
		args = append(args, *upd.WatermarkText)
		sets = append(sets, "watermark_text=$"+strconv.Itoa(len(args)))
	}
	if upd.WatermarkPosition != nil {
		args = append(args, string(*upd.WatermarkPosition))
		sets = append(sets, "watermark_position=$"+strconv.Itoa(len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=now()")
	query := `update document_security set ` + strings.Join(sets, ", ") + ` where document_id=$1`
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Save(ctx context.Context, documentID, contentType string, env Envelope) error {
	_, err := s.db.ExecContext(ctx,
		`insert into document_blobs(document_id, content_type, ciphertext, nonce, auth_tag)
		 values($1,$2,$3,$4,$5)
		 on conflict (document_id) do update
		 set content_type=excluded.content_type, ciphertext=excluded.ciphertext,
		     nonce=excluded.nonce, auth_tag=excluded.auth_tag`,
		documentID, contentType, env.Ciphertext, env.Nonce, env.AuthTag,
	)
	return err
}

func (s *PGStore) Load(ctx context.Context, documentID string) (Envelope, string, error) {
	row := s.db.QueryRowContext(ctx,
		`select content_type, ciphertext, nonce, auth_tag from document_blobs where document_id=$1`, documentID)
	var (
		env         Envelope
		contentType string
	)
	if err := row.Scan(&contentType, &env.Ciphertext, &env.Nonce, &env.AuthTag); err != nil {
		if err == sql.ErrNoRows {
			return Envelope{}, "", ErrNotFound
		}
		return Envelope{}, "", err
	}
	return env, contentType, nil
}
