package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
	"github.com/HughSean/MiniProgram-Backend/internal/repository"
)

func newAuthFixture(t *testing.T) *AuthSvc {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	store := repository.NewMemoryStore()
	users := repository.NewMemoryUserRepo(store)
	return NewAuthSvc(users, time.Minute, time.Hour, zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthFixture(t)

	u, err := svc.Register(ctx, "alice", "s3cret", "123456", "OWNER")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != domain.RoleOwner {
		t.Fatalf("role = %s", u.Role)
	}
	if u.PasswordHash == "s3cret" {
		t.Fatalf("password stored in clear")
	}

	// duplicate name
	_, err = svc.Register(ctx, "alice", "other", "", "USER")
	wantKind(t, err, domain.KindConflict)

	// unknown role falls back to USER
	u2, err := svc.Register(ctx, "bob", "pw", "", "SUPERUSER")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if u2.Role != domain.RoleUser {
		t.Fatalf("role = %s, want USER", u2.Role)
	}

	got, access, refresh, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || access == "" || refresh == "" {
		t.Fatalf("bad login result")
	}

	_, _, _, err = svc.Login(ctx, "alice", "wrong")
	wantKind(t, err, domain.KindUnauthorized)

	_, _, _, err = svc.Login(ctx, "nobody", "pw")
	wantKind(t, err, domain.KindUnauthorized)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newAuthFixture(t)

	if _, err := svc.Register(ctx, "alice", "pw", "", "USER"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, refresh, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, err := svc.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" {
		t.Fatalf("empty access token")
	}

	_, err = svc.Refresh(ctx, "garbage")
	wantKind(t, err, domain.KindUnauthorized)
}
