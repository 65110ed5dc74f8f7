package auth

import (
	"context"
	"database/sql"
	"strings"

	"lexora.org/internal/ids"
)

var _ UserStore = (*PGUserStore)(nil)

// PGUserStore implements UserStore using PostgreSQL.
type PGUserStore struct {
	db *sql.DB
}

func NewPGUserStore(db *sql.DB) *PGUserStore {
	return &PGUserStore{db: db}
}

func (s *PGUserStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	if u.Status == "" {
		u.Status = userStatusActive
	}
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, email, name, role, password_hash, status) values($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Email, u.Name, string(u.Role), u.PasswordHash, u.Status,
	)
	return err
}

func (s *PGUserStore) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, name, role, password_hash, status, created_at, updated_at from users where id=$1`, id)
	return scanUser(row)
}

func (s *PGUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := s.db.QueryRowContext(ctx,
		`select id, email, name, role, password_hash, status, created_at, updated_at from users where email=$1`, email)
	return scanUser(row)
}

func (s *PGUserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update users set password_hash=$2, updated_at=now() where id=$1`, userID, passwordHash)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u    User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Role = Role(role)
	return &u, nil
}
