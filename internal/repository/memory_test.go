package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
)

func slot(h, m int) time.Time {
	return time.Date(2024, 5, 10, h, m, 0, 0, time.UTC)
}

func TestCreateNoOverlapGuard(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	orders := NewMemoryOrderRepo(s)

	first := &domain.Order{CourtID: "c1", UserID: "u1", StartTime: slot(9, 0), EndTime: slot(10, 0)}
	if err := orders.CreateNoOverlap(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("id not assigned")
	}

	clash := &domain.Order{CourtID: "c1", UserID: "u2", StartTime: slot(9, 30), EndTime: slot(10, 30)}
	if err := orders.CreateNoOverlap(ctx, clash); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	// a different court is independent
	other := &domain.Order{CourtID: "c2", UserID: "u2", StartTime: slot(9, 30), EndTime: slot(10, 30)}
	if err := orders.CreateNoOverlap(ctx, other); err != nil {
		t.Fatalf("other court: %v", err)
	}

	// back-to-back on the same court is allowed
	next := &domain.Order{CourtID: "c1", UserID: "u2", StartTime: slot(10, 0), EndTime: slot(11, 0)}
	if err := orders.CreateNoOverlap(ctx, next); err != nil {
		t.Fatalf("touching boundary: %v", err)
	}
}

func TestUpdateIntervalNoOverlap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	orders := NewMemoryOrderRepo(s)

	a := &domain.Order{CourtID: "c1", UserID: "u1", StartTime: slot(9, 0), EndTime: slot(10, 0)}
	b := &domain.Order{CourtID: "c1", UserID: "u2", StartTime: slot(11, 0), EndTime: slot(12, 0)}
	for _, o := range []*domain.Order{a, b} {
		if err := orders.CreateNoOverlap(ctx, o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// an order never conflicts with itself
	if _, err := orders.UpdateIntervalNoOverlap(ctx, a.ID, slot(9, 30), slot(10, 30), 100); err != nil {
		t.Fatalf("self-exclusion: %v", err)
	}

	// but it does with its neighbour
	if _, err := orders.UpdateIntervalNoOverlap(ctx, a.ID, slot(11, 30), slot(12, 30), 100); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	if _, err := orders.UpdateIntervalNoOverlap(ctx, "missing", slot(9, 0), slot(10, 0), 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteReportsRows(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	orders := NewMemoryOrderRepo(s)

	o := &domain.Order{CourtID: "c1", UserID: "u1", StartTime: slot(9, 0), EndTime: slot(10, 0)}
	if err := orders.CreateNoOverlap(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := orders.Delete(ctx, o.ID)
	if err != nil || n != 1 {
		t.Fatalf("first delete: n=%d err=%v", n, err)
	}
	n, err = orders.Delete(ctx, o.ID)
	if err != nil || n != 0 {
		t.Fatalf("second delete: n=%d err=%v", n, err)
	}
}

func TestCourtHasOrdersEndingAfter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	orders := NewMemoryOrderRepo(s)

	o := &domain.Order{CourtID: "c1", UserID: "u1", StartTime: slot(9, 0), EndTime: slot(10, 0)}
	if err := orders.CreateNoOverlap(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	busy, err := orders.CourtHasOrdersEndingAfter(ctx, "c1", slot(9, 30))
	if err != nil || !busy {
		t.Fatalf("expected busy, got %v %v", busy, err)
	}
	busy, err = orders.CourtHasOrdersEndingAfter(ctx, "c1", slot(10, 1))
	if err != nil || busy {
		t.Fatalf("expected idle, got %v %v", busy, err)
	}
}

func TestUserNameUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	users := NewMemoryUserRepo(s)

	if err := users.Create(ctx, &domain.User{Name: "alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := users.Create(ctx, &domain.User{Name: "alice"}); !errors.Is(err, ErrNameUsed) {
		t.Fatalf("expected ErrNameUsed, got %v", err)
	}
	if _, err := users.ByName(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
