// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

type stubRepo struct {
	Repository
	users   map[string]*User
	created *User
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (s *stubRepo) Create(_ context.Context, u *User) error {
	s.created = u
	return nil
}

func (s *stubRepo) Update(_ context.Context, u *User) error {
	if _, ok := s.users[u.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	s.users[u.ID] = u
	return nil
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users: map[string]*User{
			"admin-1": {ID: "admin-1", Role: RoleAdmin},
			"admin-2": {ID: "admin-2", Role: RoleAdmin},
			"user-1":  {ID: "user-1", Role: RoleUser},
			"user-2":  {ID: "user-2", Role: RoleUser},
		},
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	info, err := svc.Create(
		context.Background(),
		"Sara.Tesfaye@Example.COM", "hash", "Sara",
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if info.Email != "sara.tesfaye@example.com" {
		t.Errorf("email = %q, want lowercased", info.Email)
	}
	if repo.created.Role != RoleUser {
		t.Errorf("role = %q, new accounts must start as user", repo.created.Role)
	}
	if repo.created.ID == "" {
		t.Error("no id assigned")
	}
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.UpdateUserRole(context.Background(), "user-1", "superuser")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCanDeleteUser(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	tests := []struct {
		name      string
		requester string
		target    string
		wantErr   error
	}{
		{"self deletion", "user-1", "user-1", nil},
		{"admin deletes user", "admin-1", "user-1", nil},
		{"user deletes other user", "user-1", "user-2", core.ErrForbidden},
		{"admin deletes admin", "admin-1", "admin-2", core.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CanDeleteUser(ctx, tt.requester, tt.target)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CanDeleteUser: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
