package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
)

func newCourtFixture(t *testing.T) (*fixture, *CourtSvc) {
	t.Helper()
	f := newFixture(t)
	svc := NewCourtSvc(f.courts, f.orders, f.clock, zerolog.Nop())
	return f, svc
}

func TestCourtAddValidation(t *testing.T) {
	ctx := context.Background()
	_, svc := newCourtFixture(t)

	base := domain.Court{Name: "A1", PricePerHour: 100, OpenTime: "08:00", CloseTime: "22:00"}

	if _, err := svc.Add(ctx, "owner-1", base); err != nil {
		t.Fatalf("add: %v", err)
	}

	// duplicate name for the same owner
	_, err := svc.Add(ctx, "owner-1", base)
	wantKind(t, err, domain.KindConflict)

	// same name under a different owner is fine
	if _, err := svc.Add(ctx, "owner-2", base); err != nil {
		t.Fatalf("other owner: %v", err)
	}

	bad := base
	bad.Name = "A2"
	bad.OpenTime = "23:00"
	bad.CloseTime = "08:00"
	_, err = svc.Add(ctx, "owner-1", bad)
	wantKind(t, err, domain.KindInvalidResource)

	bad = base
	bad.Name = "A3"
	bad.PricePerHour = -5
	_, err = svc.Add(ctx, "owner-1", bad)
	wantKind(t, err, domain.KindInvalidResource)
}

func TestCourtDeleteGuard(t *testing.T) {
	ctx := context.Background()
	f, svc := newCourtFixture(t)

	c, err := svc.Add(ctx, "owner-1", domain.Court{Name: "A1", PricePerHour: 100, OpenTime: "08:00", CloseTime: "22:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := f.svc.Submit(ctx, "u1", c.ID, day(9, 0), day(10, 0)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// pending booking blocks deletion
	wantKind(t, svc.Delete(ctx, "owner-1", c.ID), domain.KindConflict)

	// once the booking is over the court can go
	f.setNow(day(10, 0).Add(time.Minute))
	if err := svc.Delete(ctx, "owner-1", c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	wantKind(t, svc.Delete(ctx, "owner-1", c.ID), domain.KindNotFound)
}

func TestCourtUpdate(t *testing.T) {
	ctx := context.Background()
	_, svc := newCourtFixture(t)

	c, err := svc.Add(ctx, "owner-1", domain.Court{Name: "A1", PricePerHour: 100, OpenTime: "08:00", CloseTime: "22:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	c.PricePerHour = 120
	if _, err := svc.Update(ctx, "owner-1", *c); err != nil {
		t.Fatalf("update: %v", err)
	}

	// not the owner: row untouched, NotFound (no detail leak)
	_, err = svc.Update(ctx, "owner-2", *c)
	wantKind(t, err, domain.KindNotFound)
}

func TestOrdersOfCourt(t *testing.T) {
	ctx := context.Background()
	f, svc := newCourtFixture(t)

	c, err := svc.Add(ctx, "owner-1", domain.Court{Name: "A1", PricePerHour: 100, OpenTime: "08:00", CloseTime: "22:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.users.Create(ctx, &domain.User{ID: "u1", Name: "alice"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := f.svc.Submit(ctx, "u1", c.ID, day(9, 0), day(10, 0)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	views, err := svc.OrdersOfCourt(ctx, "owner-1", c.ID)
	if err != nil {
		t.Fatalf("orders of court: %v", err)
	}
	if len(views) != 1 || views[0].UserName != "alice" {
		t.Fatalf("unexpected views: %+v", views)
	}

	_, err = svc.OrdersOfCourt(ctx, "owner-2", c.ID)
	wantKind(t, err, domain.KindForbidden)

	_, err = svc.OrdersOfCourt(ctx, "owner-1", "missing")
	wantKind(t, err, domain.KindInvalidResource)
}

func TestListAllHidesOwner(t *testing.T) {
	ctx := context.Background()
	_, svc := newCourtFixture(t)

	if _, err := svc.Add(ctx, "owner-1", domain.Court{Name: "A1", PricePerHour: 100, OpenTime: "08:00", CloseTime: "22:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	courts, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(courts) != 1 || courts[0].OwnerID != "" {
		t.Fatalf("owner id leaked: %+v", courts)
	}
}
