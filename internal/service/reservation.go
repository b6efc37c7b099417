package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
	"github.com/HughSean/MiniProgram-Backend/internal/events"
	"github.com/HughSean/MiniProgram-Backend/internal/repository"
)

// EventPublisher is satisfied by mq.Publisher. Publishing is best-effort:
// a reservation never fails because the broker is down.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Clock supplies "now" so lifecycle tests can pin time instead of sleeping.
type Clock func() time.Time

// ReservationSvc decides whether an interval may be booked, prices it,
// derives order status, and owns every mutation of the orders table.
type ReservationSvc struct {
	orders repository.OrderRepo
	courts repository.CourtRepo
	pub    EventPublisher
	now    Clock
	log    zerolog.Logger
}

func NewReservationSvc(orders repository.OrderRepo, courts repository.CourtRepo, pub EventPublisher, now Clock, log zerolog.Logger) *ReservationSvc {
	if now == nil {
		now = time.Now
	}
	return &ReservationSvc{orders: orders, courts: courts, pub: pub, now: now, log: log.With().Str("component", "reservation").Logger()}
}

// checkBookable runs the availability checks cheapest-first: day span,
// court existence + operating hours, then the overlap scan. excludeID keeps
// an order being edited from clashing with itself. The repository re-checks
// overlap inside the write transaction; this pass exists to give callers a
// precise reason before any lock is taken.
func (s *ReservationSvc) checkBookable(ctx context.Context, courtID string, start, end time.Time, excludeID string) (*domain.Court, error) {
	if domain.SpansMultipleDays(start, end) {
		return nil, domain.ErrInvalidInterval("booking spans multiple days")
	}
	court, err := s.courts.ByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidResource("court does not exist")
		}
		return nil, s.storage(err, "fetch court")
	}
	ok, err := domain.WithinOpenHours(start, end, court.OpenTime, court.CloseTime)
	if err != nil {
		return nil, s.storage(err, "court hours malformed")
	}
	if !ok {
		return nil, domain.ErrInvalidInterval("outside operating hours")
	}
	existing, err := s.orders.ByCourt(ctx, courtID, excludeID)
	if err != nil {
		return nil, s.storage(err, "scan court orders")
	}
	for i := range existing {
		if domain.Overlaps(start, end, existing[i].StartTime, existing[i].EndTime) {
			return nil, domain.ErrConflict("time conflicts with an existing booking")
		}
	}
	return court, nil
}

// Submit books [start, end) on a court for the user.
func (s *ReservationSvc) Submit(ctx context.Context, userID, courtID string, start, end time.Time) (*domain.OrderView, error) {
	if !start.Before(end) {
		return nil, domain.ErrInvalidInterval("start must be before end")
	}
	court, err := s.checkBookable(ctx, courtID, start, end, "")
	if err != nil {
		return nil, err
	}
	o := &domain.Order{
		UserID:    userID,
		CourtID:   courtID,
		StartTime: start,
		EndTime:   end,
		Cost:      domain.Cost(start, end, court.PricePerHour),
		CreatedAt: s.now(),
	}
	if err := s.orders.CreateNoOverlap(ctx, o); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			// lost the race after the pre-check: same outcome as a pre-check hit
			return nil, domain.ErrConflict("time conflicts with an existing booking")
		case errors.Is(err, repository.ErrNotFound):
			// court deleted between the pre-check and the write
			return nil, domain.ErrInvalidResource("court does not exist")
		default:
			return nil, s.storage(err, "insert order")
		}
	}
	s.publish(ctx, events.RKOrderCreated, events.OrderChanged{
		OrderID: o.ID, UserID: o.UserID, CourtID: o.CourtID, CourtName: court.Name,
		Start: o.StartTime.Unix(), End: o.EndTime.Unix(), Cost: o.Cost,
	})
	v := s.view(o, court.Name)
	return &v, nil
}

// List returns the user's orders with court names and current status.
func (s *ReservationSvc) List(ctx context.Context, userID string) ([]domain.OrderView, error) {
	views, err := s.orders.ViewsByUser(ctx, userID)
	if err != nil {
		return nil, s.storage(err, "list orders")
	}
	now := s.now()
	for i := range views {
		views[i].Status = statusOf(views[i].StartTime, views[i].EndTime, now)
	}
	return views, nil
}

// Cancel hard-deletes the order; the slot frees up immediately. Completed
// orders stay. A second cancel of the same id reports NotFound.
func (s *ReservationSvc) Cancel(ctx context.Context, userID, orderID string) error {
	o, err := s.orders.ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound("order does not exist")
		}
		return s.storage(err, "fetch order")
	}
	if o.UserID != userID {
		return domain.ErrForbidden("not your order")
	}
	if o.StatusAt(s.now()) == domain.StatusDone {
		return domain.ErrConflict("order already completed")
	}
	n, err := s.orders.Delete(ctx, orderID)
	if err != nil {
		return s.storage(err, "delete order")
	}
	if n == 0 {
		return domain.ErrNotFound("order already removed")
	}
	s.publish(ctx, events.RKOrderCancelled, events.OrderSimple{OrderID: orderID, UserID: userID})
	return nil
}

// Update moves a Waiting order to a new interval on the same court and
// re-derives its cost from that court's current hourly price.
func (s *ReservationSvc) Update(ctx context.Context, userID, orderID string, start, end time.Time) (*domain.OrderView, error) {
	if !start.Before(end) {
		return nil, domain.ErrInvalidInterval("start must be before end")
	}
	o, err := s.orders.ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound("order does not exist")
		}
		return nil, s.storage(err, "fetch order")
	}
	if o.UserID != userID {
		return nil, domain.ErrForbidden("not your order")
	}
	if o.StatusAt(s.now()) != domain.StatusWaiting {
		return nil, domain.ErrConflict("only waiting orders can be changed")
	}
	court, err := s.checkBookable(ctx, o.CourtID, start, end, orderID)
	if err != nil {
		return nil, err
	}
	cost := domain.Cost(start, end, court.PricePerHour)
	updated, err := s.orders.UpdateIntervalNoOverlap(ctx, orderID, start, end, cost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, domain.ErrConflict("time conflicts with an existing booking")
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.ErrNotFound("order vanished during update")
		default:
			return nil, s.storage(err, "update order")
		}
	}
	s.publish(ctx, events.RKOrderUpdated, events.OrderChanged{
		OrderID: updated.ID, UserID: updated.UserID, CourtID: updated.CourtID, CourtName: court.Name,
		Start: updated.StartTime.Unix(), End: updated.EndTime.Unix(), Cost: updated.Cost,
	})
	v := s.view(updated, court.Name)
	return &v, nil
}

func (s *ReservationSvc) view(o *domain.Order, courtName string) domain.OrderView {
	return domain.OrderView{
		ID:        o.ID,
		CourtID:   o.CourtID,
		CourtName: courtName,
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Cost:      o.Cost,
		CreatedAt: o.CreatedAt,
		Status:    o.StatusAt(s.now()),
	}
}

func (s *ReservationSvc) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishJSON(ctx, key, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("event publish failed")
	}
}

// storage logs the real failure under a fresh reference id and hands the
// caller an opaque error carrying only that id.
func (s *ReservationSvc) storage(err error, op string) *domain.Error {
	ref := uuid.NewString()
	s.log.Error().Err(err).Str("ref", ref).Str("op", op).Msg("storage failure")
	return domain.ErrStorage(ref)
}

func statusOf(start, end, now time.Time) domain.OrderStatus {
	o := domain.Order{StartTime: start, EndTime: end}
	return o.StatusAt(now)
}
