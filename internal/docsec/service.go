package docsec

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"lexora.org/internal/audit"
	"lexora.org/internal/auth"
	"lexora.org/internal/obs"
)

// Service couples encryption at rest with the level→role access policy.
// The two are deliberately decoupled internally: the security level drives
// authorization while the cipher protects stored bytes independent of any
// authorization bug.
type Service struct {
	cipher *Cipher
	meta   MetadataStore
	blobs  BlobStore
	users  auth.UserStore
	trail  *audit.Trail
	keyID  string
}

// NewService constructs the document security service. cipher may be nil
// when encryption at rest is not configured; content is then stored as-is
// while access checks keep working.
func NewService(cipher *Cipher, meta MetadataStore, blobs BlobStore, users auth.UserStore, trail *audit.Trail, keyID string) *Service {
	return &Service{cipher: cipher, meta: meta, blobs: blobs, users: users, trail: trail, keyID: keyID}
}

// Encrypted reports whether encryption at rest is configured.
func (s *Service) Encrypted() bool { return s.cipher != nil }

// Register creates the security record for a freshly uploaded document.
func (s *Service) Register(ctx context.Context, m *Metadata) error {
	if s.meta == nil {
		return ErrNotFound
	}
	if m.DocumentID == "" || m.OwnerID == "" {
		return ErrInvalidInput
	}
	if _, ok := ParseLevel(string(m.SecurityLevel)); !ok {
		return ErrInvalidInput
	}
	if m.WatermarkPosition == "" {
		m.WatermarkPosition = PositionCenter
	}
	if m.EncryptedAtRest && m.EncryptionKeyID == "" {
		m.EncryptionKeyID = s.keyID
	}
	return s.meta.Create(ctx, m)
}

// EncryptDocument seals content for storage, binding the document id.
func (s *Service) EncryptDocument(content []byte, documentID string) (Envelope, error) {
	if s.cipher == nil {
		return Envelope{}, ErrInvalidInput
	}
	return s.cipher.Encrypt(content, documentID)
}

// DecryptDocument opens stored content. Full failure detail goes to the
// server log only; the caller sees ErrDecryption.
func (s *Service) DecryptDocument(env Envelope, documentID string) ([]byte, error) {
	if s.cipher == nil {
		return nil, ErrInvalidInput
	}
	plain, err := s.cipher.Decrypt(env, documentID)
	if err != nil {
		obs.Logger().Error("document decryption failed",
			zap.String("document_id", documentID),
			zap.Error(err),
		)
		return nil, ErrDecryption
	}
	return plain, nil
}

// CheckDocumentAccess evaluates the fixed level→role policy for one user.
// Fail-closed: any lookup failure denies access.
func (s *Service) CheckDocumentAccess(ctx context.Context, documentID, userID string) bool {
	if s.meta == nil {
		obs.DocumentAccessDecision(false)
		return false
	}
	meta, err := s.meta.Find(ctx, documentID)
	if err != nil {
		obs.Logger().Warn("document access lookup failed",
			zap.String("document_id", documentID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		obs.DocumentAccessDecision(false)
		return false
	}

	var role auth.Role
	if principal, ok := auth.PrincipalFromContext(ctx); ok && principal.UserID == userID {
		role = principal.Role
	} else {
		user, err := s.users.Find(ctx, userID)
		if err != nil {
			obs.Logger().Warn("document access user lookup failed",
				zap.String("document_id", documentID),
				zap.String("user_id", userID),
				zap.Error(err),
			)
			obs.DocumentAccessDecision(false)
			return false
		}
		role = user.Role
	}

	allowed := levelAllows(meta.SecurityLevel, meta.OwnerID, userID, role)
	obs.DocumentAccessDecision(allowed)
	return allowed
}

// UpdateSecurity applies an explicit security update.
func (s *Service) UpdateSecurity(ctx context.Context, documentID string, upd SecurityUpdate) error {
	if s.meta == nil {
		return ErrNotFound
	}
	if upd.SecurityLevel != nil {
		if _, ok := ParseLevel(string(*upd.SecurityLevel)); !ok {
			return ErrInvalidInput
		}
	}
	if upd.WatermarkPosition != nil {
		if _, ok := ParsePosition(string(*upd.WatermarkPosition)); !ok {
			return ErrInvalidInput
		}
	}
	return s.meta.UpdateSecurity(ctx, documentID, upd)
}

// Metadata loads the security record for a document.
func (s *Service) Metadata(ctx context.Context, documentID string) (*Metadata, error) {
	if s.meta == nil {
		return nil, ErrNotFound
	}
	return s.meta.Find(ctx, documentID)
}

// ApplyWatermark overlays the configured watermark on content, choosing the
// PDF or image path from the content type. Content without a configured
// watermark passes through unchanged.
func (s *Service) ApplyWatermark(content []byte, contentType string, meta *Metadata) ([]byte, error) {
	if meta == nil || meta.WatermarkText == "" {
		return content, nil
	}
	switch {
	case strings.Contains(contentType, "pdf"):
		return AddWatermarkToPDF(content, meta.WatermarkText, meta.WatermarkPosition)
	case strings.HasPrefix(contentType, "image/"):
		return AddWatermarkToImage(content, meta.WatermarkText, meta.WatermarkPosition)
	default:
		return content, nil
	}
}

// StoreContent encrypts (when configured) and persists document bytes.
func (s *Service) StoreContent(ctx context.Context, documentID, contentType string, content []byte) error {
	if s.blobs == nil {
		return ErrNotFound
	}
	if documentID == "" {
		return ErrInvalidInput
	}
	env := Envelope{Ciphertext: content}
	if s.cipher != nil {
		var err error
		env, err = s.cipher.Encrypt(content, documentID)
		if err != nil {
			return err
		}
	}
	return s.blobs.Save(ctx, documentID, contentType, env)
}

// FetchContent loads and, when encrypted, opens document bytes.
func (s *Service) FetchContent(ctx context.Context, documentID string) ([]byte, string, error) {
	if s.blobs == nil {
		return nil, "", ErrNotFound
	}
	env, contentType, err := s.blobs.Load(ctx, documentID)
	if err != nil {
		return nil, "", err
	}
	if len(env.Nonce) == 0 && len(env.AuthTag) == 0 {
		return env.Ciphertext, contentType, nil
	}
	plain, err := s.DecryptDocument(env, documentID)
	if err != nil {
		return nil, "", err
	}
	return plain, contentType, nil
}

// LogDocumentAccess appends to the audit trail. Best-effort: trail failures
// are logged inside Record and never block the access being granted.
func (s *Service) LogDocumentAccess(ctx context.Context, documentID, userID, action string) {
	s.trail.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     action,
		EntityType: "document",
		EntityID:   documentID,
	})
}
