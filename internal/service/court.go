package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
	"github.com/HughSean/MiniProgram-Backend/internal/repository"
)

// CourtSvc manages the court catalog for owners. The reservation engine
// reads courts through the same repository but never writes them.
type CourtSvc struct {
	courts repository.CourtRepo
	orders repository.OrderRepo
	now    Clock
	log    zerolog.Logger
}

func NewCourtSvc(courts repository.CourtRepo, orders repository.OrderRepo, now Clock, log zerolog.Logger) *CourtSvc {
	if now == nil {
		now = time.Now
	}
	return &CourtSvc{courts: courts, orders: orders, now: now, log: log.With().Str("component", "court").Logger()}
}

func validateCourt(c *domain.Court) *domain.Error {
	if c.Name == "" {
		return domain.ErrInvalidResource("court name is required")
	}
	if c.PricePerHour < 0 {
		return domain.ErrInvalidResource("price must be non-negative")
	}
	open, err := domain.ClockMinutes(c.OpenTime)
	if err != nil {
		return domain.ErrInvalidResource("open_time must be HH:MM")
	}
	close, err := domain.ClockMinutes(c.CloseTime)
	if err != nil {
		return domain.ErrInvalidResource("close_time must be HH:MM")
	}
	if open >= close {
		return domain.ErrInvalidResource("open_time must be before close_time")
	}
	return nil
}

func (s *CourtSvc) Add(ctx context.Context, ownerID string, c domain.Court) (*domain.Court, error) {
	c.OwnerID = ownerID
	if err := validateCourt(&c); err != nil {
		return nil, err
	}
	taken, err := s.courts.NameTaken(ctx, ownerID, c.Name, "")
	if err != nil {
		return nil, s.storage(err, "check court name")
	}
	if taken {
		return nil, domain.ErrConflict("court name already used")
	}
	if err := s.courts.Create(ctx, &c); err != nil {
		return nil, s.storage(err, "insert court")
	}
	s.log.Info().Str("owner", ownerID).Str("court", c.Name).Msg("court added")
	return &c, nil
}

func (s *CourtSvc) Update(ctx context.Context, ownerID string, c domain.Court) (*domain.Court, error) {
	c.OwnerID = ownerID
	if c.ID == "" {
		return nil, domain.ErrInvalidResource("court_id is required")
	}
	if err := validateCourt(&c); err != nil {
		return nil, err
	}
	taken, err := s.courts.NameTaken(ctx, ownerID, c.Name, c.ID)
	if err != nil {
		return nil, s.storage(err, "check court name")
	}
	if taken {
		return nil, domain.ErrConflict("court name already used")
	}
	n, err := s.courts.Update(ctx, &c)
	if err != nil {
		return nil, s.storage(err, "update court")
	}
	if n == 0 {
		return nil, domain.ErrNotFound("no such court for this owner")
	}
	return &c, nil
}

// Delete refuses while the court still has orders that are not yet over;
// cancelling those is the users' call, not the owner's.
func (s *CourtSvc) Delete(ctx context.Context, ownerID, courtID string) error {
	busy, err := s.orders.CourtHasOrdersEndingAfter(ctx, courtID, s.now())
	if err != nil {
		return s.storage(err, "check court orders")
	}
	if busy {
		return domain.ErrConflict("court still has unfinished orders")
	}
	n, err := s.courts.Delete(ctx, ownerID, courtID)
	if err != nil {
		return s.storage(err, "delete court")
	}
	if n == 0 {
		return domain.ErrNotFound("no such court for this owner")
	}
	return nil
}

func (s *CourtSvc) ListMine(ctx context.Context, ownerID string) ([]domain.Court, error) {
	out, err := s.courts.ByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.storage(err, "list owner courts")
	}
	return out, nil
}

// ListAll is the public browse: owner ids are stripped.
func (s *CourtSvc) ListAll(ctx context.Context) ([]domain.Court, error) {
	out, err := s.courts.List(ctx)
	if err != nil {
		return nil, s.storage(err, "list courts")
	}
	for i := range out {
		out[i].OwnerID = ""
	}
	return out, nil
}

// OrdersOfCourt lets an owner see who booked one of their courts.
func (s *CourtSvc) OrdersOfCourt(ctx context.Context, ownerID, courtID string) ([]domain.OrderView, error) {
	c, err := s.courts.ByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidResource("court does not exist")
		}
		return nil, s.storage(err, "fetch court")
	}
	if c.OwnerID != ownerID {
		return nil, domain.ErrForbidden("not your court")
	}
	views, err := s.orders.ViewsByCourt(ctx, courtID)
	if err != nil {
		return nil, s.storage(err, "list court orders")
	}
	now := s.now()
	for i := range views {
		views[i].Status = statusOf(views[i].StartTime, views[i].EndTime, now)
	}
	return views, nil
}

func (s *CourtSvc) storage(err error, op string) *domain.Error {
	ref := uuid.NewString()
	s.log.Error().Err(err).Str("ref", ref).Str("op", op).Msg("storage failure")
	return domain.ErrStorage(ref)
}
