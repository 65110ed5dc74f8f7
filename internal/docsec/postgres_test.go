package docsec

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select document_id, owner_id, security_level").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"document_id", "owner_id", "security_level", "encrypted_at_rest", "encryption_key_id",
			"watermark_text", "watermark_position", "created_at", "updated_at",
		}))

	store := NewPGStore(db)
	if _, err := store.Find(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreFindScansMetadata(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("select document_id, owner_id, security_level").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"document_id", "owner_id", "security_level", "encrypted_at_rest", "encryption_key_id",
			"watermark_text", "watermark_position", "created_at", "updated_at",
		}).AddRow("doc-1", "owner-1", "confidential", true, "primary", "DRAFT", "center", now, now))

	store := NewPGStore(db)
	m, err := store.Find(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if m.SecurityLevel != LevelConfidential || !m.EncryptedAtRest || m.WatermarkPosition != PositionCenter {
		t.Fatalf("unexpected metadata: %+v", m)
	}
}

func TestPGStoreUpdateSecurityPartialSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update document_security set security_level=\\$2, updated_at=now\\(\\) where document_id=\\$1").
		WithArgs("doc-1", "restricted").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPGStore(db)
	level := LevelRestricted
	if err := store.UpdateSecurity(context.Background(), "doc-1", SecurityUpdate{SecurityLevel: &level}); err != nil {
		t.Fatalf("UpdateSecurity: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreUpdateSecurityNoFieldsIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	store := NewPGStore(db)
	if err := store.UpdateSecurity(context.Background(), "doc-1", SecurityUpdate{}); err != nil {
		t.Fatalf("UpdateSecurity: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statement expected: %v", err)
	}
}

func TestPGStoreBlobRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	env := Envelope{Ciphertext: []byte{1, 2}, Nonce: []byte{3}, AuthTag: []byte{4}}
	mock.ExpectExec("insert into document_blobs").
		WithArgs("doc-1", "application/pdf", env.Ciphertext, env.Nonce, env.AuthTag).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("select content_type, ciphertext, nonce, auth_tag from document_blobs").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"content_type", "ciphertext", "nonce", "auth_tag"}).
			AddRow("application/pdf", env.Ciphertext, env.Nonce, env.AuthTag))

	store := NewPGStore(db)
	if err := store.Save(context.Background(), "doc-1", "application/pdf", env); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, contentType, err := store.Load(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if contentType != "application/pdf" || len(got.Ciphertext) != 2 {
		t.Fatalf("unexpected blob: %q %+v", contentType, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
