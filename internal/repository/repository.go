package repository

import (
	"context"
	"errors"
	"time"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
)

var (
	// ErrOverlap is returned by the write path when the storage-level
	// re-check finds a conflicting order. The pre-flight availability check
	// alone cannot survive concurrent submits.
	ErrOverlap  = errors.New("slot overlapped")
	ErrNotFound = errors.New("record not found")
	ErrNameUsed = errors.New("name already used")
)

type OrderRepo interface {
	// CreateNoOverlap inserts the order atomically with an overlap re-check
	// against the court's live orders. Returns ErrOverlap on conflict.
	CreateNoOverlap(ctx context.Context, o *domain.Order) error
	// UpdateIntervalNoOverlap moves the order's interval and cost with the
	// same guard, excluding the order itself from the overlap scan.
	UpdateIntervalNoOverlap(ctx context.Context, id string, start, end time.Time, cost float64) (*domain.Order, error)
	ByID(ctx context.Context, id string) (*domain.Order, error)
	ByCourt(ctx context.Context, courtID, excludeID string) ([]domain.Order, error)
	ViewsByUser(ctx context.Context, userID string) ([]domain.OrderView, error)
	ViewsByCourt(ctx context.Context, courtID string) ([]domain.OrderView, error)
	// Delete removes the order row and reports how many rows went away,
	// so a lost race with another cancel is visible to the caller.
	Delete(ctx context.Context, id string) (int64, error)
	CourtHasOrdersEndingAfter(ctx context.Context, courtID string, t time.Time) (bool, error)
}

type CourtRepo interface {
	Create(ctx context.Context, c *domain.Court) error
	ByID(ctx context.Context, id string) (*domain.Court, error)
	ByOwner(ctx context.Context, ownerID string) ([]domain.Court, error)
	List(ctx context.Context) ([]domain.Court, error)
	NameTaken(ctx context.Context, ownerID, name, excludeID string) (bool, error)
	Update(ctx context.Context, c *domain.Court) (int64, error)
	Delete(ctx context.Context, ownerID, id string) (int64, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	ByName(ctx context.Context, name string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
}
