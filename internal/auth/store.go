package auth

import "context"

// UserStore describes persistence operations required by login, token
// refresh and the document access policy.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
