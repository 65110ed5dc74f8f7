package auth

import (
	"context"
	"errors"
	"testing"
)

type fakeUserStore struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeUserStore(users ...*User) *fakeUserStore {
	s := &fakeUserStore{byID: map[string]*User{}, byEmail: map[string]*User{}}
	for _, u := range users {
		s.byID[u.ID] = u
		s.byEmail[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, u *User) error {
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u
	return nil
}

func (s *fakeUserStore) Find(ctx context.Context, id string) (*User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	u, ok := s.byID[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func testUser(t *testing.T, id, email string, role Role) *User {
	t.Helper()
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &User{ID: id, Email: email, Role: role, PasswordHash: hash, Status: userStatusActive}
}

func newTestService(t *testing.T, users UserStore) *Service {
	t.Helper()
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return NewService(users, tokens)
}

func TestLoginIssuesVerifiablePair(t *testing.T) {
	user := testUser(t, "u-1", "jane@example.com", RolePartner)
	svc := newTestService(t, newFakeUserStore(user))

	pair, principal, err := svc.Login(context.Background(), "Jane@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if principal.UserID != "u-1" || principal.Role != RolePartner {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if !principal.HasPermission(PermExpenseApprove) {
		t.Fatal("partner principal must hold expense.approve")
	}

	got, err := svc.Authenticate(pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.UserID != "u-1" {
		t.Fatalf("unexpected authenticated user: %s", got.UserID)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	user := testUser(t, "u-1", "jane@example.com", RolePartner)
	disabled := testUser(t, "u-2", "gone@example.com", RoleClient)
	disabled.Status = userStatusDisabled
	svc := newTestService(t, newFakeUserStore(user, disabled))

	cases := []struct{ email, password string }{
		{"nobody@example.com", "correct-horse"},
		{"jane@example.com", "wrong-password"},
		{"gone@example.com", "correct-horse"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, _, err := svc.Login(context.Background(), tc.email, tc.password); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("login %q: expected ErrUnauthorized, got %v", tc.email, err)
		}
	}
}

func TestRefreshReflectsRoleChange(t *testing.T) {
	user := testUser(t, "u-1", "jane@example.com", RoleJuniorAssociate)
	store := newFakeUserStore(user)
	svc := newTestService(t, store)

	pair, _, err := svc.Login(context.Background(), "jane@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user.Role = RolePartner

	_, principal, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if principal.Role != RolePartner {
		t.Fatalf("refresh did not pick up role change, got %s", principal.Role)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := testUser(t, "u-1", "jane@example.com", RoleClient)
	svc := newTestService(t, newFakeUserStore(user))

	pair, _, err := svc.Login(context.Background(), "jane@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefreshRejectsDisabledUser(t *testing.T) {
	user := testUser(t, "u-1", "jane@example.com", RoleClient)
	store := newFakeUserStore(user)
	svc := newTestService(t, store)

	pair, _, err := svc.Login(context.Background(), "jane@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user.Status = userStatusDisabled

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for disabled user, got %v", err)
	}
}
