package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func userRows(id, email string, role Role) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash", "status", "created_at", "updated_at"}).
		AddRow(id, email, "Jane", string(role), "$2a$10$hash", "active", now, now)
}

func TestPGUserStoreFindByEmailNormalizes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, email, name, role, password_hash, status, created_at, updated_at from users where email=").
		WithArgs("jane@example.com").
		WillReturnRows(userRows("u-1", "jane@example.com", RolePartner))

	store := NewPGUserStore(db)
	u, err := store.FindByEmail(context.Background(), "  Jane@Example.COM ")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u.ID != "u-1" || u.Role != RolePartner {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGUserStoreFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, email, name, role, password_hash, status, created_at, updated_at from users where id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash", "status", "created_at", "updated_at"}))

	store := NewPGUserStore(db)
	if _, err := store.Find(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGUserStoreCreateFillsDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into users").
		WithArgs(sqlmock.AnyArg(), "jane@example.com", "Jane", "partner", "$2a$10$hash", "active").
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewPGUserStore(db)
	u := &User{Email: " Jane@Example.com ", Name: "Jane", Role: RolePartner, PasswordHash: "$2a$10$hash"}
	if err := store.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGUserStoreUpdatePasswordMissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update users set password_hash=").
		WithArgs("missing", "$2a$10$new").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGUserStore(db)
	if err := store.UpdatePassword(context.Background(), "missing", "$2a$10$new"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
