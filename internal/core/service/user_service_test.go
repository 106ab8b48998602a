package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

func newTestUserService() (*UserService, *stubUserRepo) {
	users := newStubUserRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, u := range []domain.User{
		{ID: "admin", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin},
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
	} {
		u.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		users.users[u.ID] = cloneUser(&u)
	}
	return NewUserService(users, zerolog.Nop()), users
}

func TestUserService_PromoteByAdmin(t *testing.T) {
	svc, users := newTestUserService()
	actor := users.users["admin"]

	if err := svc.Promote(context.Background(), actor, "u1"); err != nil {
		t.Fatalf("Promote returned error: %v", err)
	}
	if got := users.users["u1"].Role; got != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %q", got)
	}
	if users.users["u1"].UpdatedAt.IsZero() {
		t.Fatalf("expected updatedAt to be stamped")
	}

	if err := svc.Demote(context.Background(), actor, "u1"); err != nil {
		t.Fatalf("Demote returned error: %v", err)
	}
	if got := users.users["u1"].Role; got != domain.RoleUser {
		t.Fatalf("expected role user, got %q", got)
	}
}

func TestUserService_RoleChangeRequiresAdmin(t *testing.T) {
	svc, users := newTestUserService()

	for name, actor := range map[string]*domain.User{
		"regular user": users.users["u1"],
		"no role":      users.users["u2"],
		"anonymous":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			err := svc.Promote(context.Background(), actor, "u2")
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
	if users.users["u2"].Role != "" {
		t.Fatalf("role must be unchanged, got %q", users.users["u2"].Role)
	}
}

func TestUserService_DemotedAdminLosesRoleChanges(t *testing.T) {
	svc, users := newTestUserService()
	users.users["admin2"] = &domain.User{ID: "admin2", Name: "Ops", Role: domain.RoleAdmin}
	// Identity as carried by a token issued while "admin" was still an admin.
	tokenActor := &domain.User{ID: "admin", Role: domain.RoleAdmin}

	if err := svc.Demote(context.Background(), users.users["admin2"], "admin"); err != nil {
		t.Fatalf("Demote returned error: %v", err)
	}

	err := svc.Promote(context.Background(), tokenActor, "u1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if got := users.users["u1"].Role; got != domain.RoleUser {
		t.Fatalf("role must be unchanged, got %q", got)
	}
}

func TestUserService_RoleChangeByUnknownActor(t *testing.T) {
	svc, _ := newTestUserService()
	ghost := &domain.User{ID: "ghost", Role: domain.RoleAdmin}

	err := svc.Promote(context.Background(), ghost, "u1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_PromoteUnknownUser(t *testing.T) {
	svc, _ := newTestUserService()

	err := svc.Promote(context.Background(), domain.SystemActor, "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Stats(t *testing.T) {
	svc, _ := newTestUserService()

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	want := domain.UserStats{TotalUsers: 3, Admins: 1, RegularUsers: 2}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestUserService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestUserService()

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 3 || users[0].ID != "u2" || users[2].ID != "admin" {
		t.Fatalf("unexpected order: %+v", users)
	}
}
