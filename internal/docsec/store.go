package docsec

import "context"

// MetadataStore persists per-document security records.
type MetadataStore interface {
	Create(ctx context.Context, m *Metadata) error
	Find(ctx context.Context, documentID string) (*Metadata, error)
	UpdateSecurity(ctx context.Context, documentID string, upd SecurityUpdate) error
}

// SecurityUpdate mutates the explicit security fields of a record. Nil
// fields are left untouched.
type SecurityUpdate struct {
	SecurityLevel     *SecurityLevel
	WatermarkText     *string
	WatermarkPosition *WatermarkPosition
}

// BlobStore persists document bytes. Content is stored as an envelope so
// ciphertext, nonce and tag live in separate columns; unencrypted content
// uses the ciphertext column with empty nonce and tag.
type BlobStore interface {
	Save(ctx context.Context, documentID, contentType string, env Envelope) error
	Load(ctx context.Context, documentID string) (Envelope, string, error)
}
