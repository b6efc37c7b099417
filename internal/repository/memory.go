package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
)

// MemoryStore backs the repositories with maps. It exists for tests and for
// running the service without Postgres; the overlap guard is enforced under
// the same lock as the write, mirroring the transactional guarantee of the
// gorm implementation.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	courts map[string]domain.Court
	users  map[string]domain.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[string]domain.Order),
		courts: make(map[string]domain.Court),
		users:  make(map[string]domain.User),
	}
}

type MemoryOrderRepo struct{ s *MemoryStore }
type MemoryCourtRepo struct{ s *MemoryStore }
type MemoryUserRepo struct{ s *MemoryStore }

func NewMemoryOrderRepo(s *MemoryStore) *MemoryOrderRepo { return &MemoryOrderRepo{s: s} }
func NewMemoryCourtRepo(s *MemoryStore) *MemoryCourtRepo { return &MemoryCourtRepo{s: s} }
func NewMemoryUserRepo(s *MemoryStore) *MemoryUserRepo   { return &MemoryUserRepo{s: s} }

func (s *MemoryStore) overlapLocked(courtID, excludeID string, start, end time.Time) bool {
	for _, o := range s.orders {
		if o.CourtID != courtID || o.ID == excludeID {
			continue
		}
		if domain.Overlaps(start, end, o.StartTime, o.EndTime) {
			return true
		}
	}
	return false
}

func (r *MemoryOrderRepo) CreateNoOverlap(_ context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.overlapLocked(o.CourtID, "", o.StartTime, o.EndTime) {
		return ErrOverlap
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *MemoryOrderRepo) UpdateIntervalNoOverlap(_ context.Context, id string, start, end time.Time, cost float64) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.s.overlapLocked(o.CourtID, id, start, end) {
		return nil, ErrOverlap
	}
	o.StartTime = start
	o.EndTime = end
	o.Cost = cost
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
	return &o, nil
}

func (r *MemoryOrderRepo) ByID(_ context.Context, id string) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *MemoryOrderRepo) ByCourt(_ context.Context, courtID, excludeID string) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Order
	for _, o := range r.s.orders {
		if o.CourtID == courtID && o.ID != excludeID {
			out = append(out, o)
		}
	}
	sortOrders(out)
	return out, nil
}

func (r *MemoryOrderRepo) ViewsByUser(_ context.Context, userID string) ([]domain.OrderView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.OrderView
	for _, o := range r.s.orders {
		if o.UserID != userID {
			continue
		}
		v := r.s.viewLocked(o)
		v.UserID = ""
		v.UserName = ""
		out = append(out, v)
	}
	sortViews(out)
	return out, nil
}

func (r *MemoryOrderRepo) ViewsByCourt(_ context.Context, courtID string) ([]domain.OrderView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.OrderView
	for _, o := range r.s.orders {
		if o.CourtID != courtID {
			continue
		}
		out = append(out, r.s.viewLocked(o))
	}
	sortViews(out)
	return out, nil
}

func (s *MemoryStore) viewLocked(o domain.Order) domain.OrderView {
	v := domain.OrderView{
		ID:        o.ID,
		CourtID:   o.CourtID,
		UserID:    o.UserID,
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Cost:      o.Cost,
		CreatedAt: o.CreatedAt,
	}
	if c, ok := s.courts[o.CourtID]; ok {
		v.CourtName = c.Name
	}
	if u, ok := s.users[o.UserID]; ok {
		v.UserName = u.Name
	}
	return v
}

func (r *MemoryOrderRepo) Delete(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return 0, nil
	}
	delete(r.s.orders, id)
	return 1, nil
}

func (r *MemoryOrderRepo) CourtHasOrdersEndingAfter(_ context.Context, courtID string, t time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orders {
		if o.CourtID == courtID && !o.EndTime.Before(t) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryCourtRepo) Create(_ context.Context, c *domain.Court) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.s.courts[c.ID] = *c
	return nil
}

func (r *MemoryCourtRepo) ByID(_ context.Context, id string) (*domain.Court, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.courts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryCourtRepo) ByOwner(_ context.Context, ownerID string) ([]domain.Court, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Court
	for _, c := range r.s.courts {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sortCourts(out)
	return out, nil
}

func (r *MemoryCourtRepo) List(_ context.Context) ([]domain.Court, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Court, 0, len(r.s.courts))
	for _, c := range r.s.courts {
		out = append(out, c)
	}
	sortCourts(out)
	return out, nil
}

func (r *MemoryCourtRepo) NameTaken(_ context.Context, ownerID, name, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.courts {
		if c.OwnerID == ownerID && c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryCourtRepo) Update(_ context.Context, c *domain.Court) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.courts[c.ID]
	if !ok || cur.OwnerID != c.OwnerID {
		return 0, nil
	}
	r.s.courts[c.ID] = *c
	return 1, nil
}

func (r *MemoryCourtRepo) Delete(_ context.Context, ownerID, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courts[id]
	if !ok || c.OwnerID != ownerID {
		return 0, nil
	}
	delete(r.s.courts, id)
	return 1, nil
}

func (r *MemoryUserRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.users {
		if cur.Name == u.Name {
			return ErrNameUsed
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepo) ByName(_ context.Context, name string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepo) ByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func sortOrders(s []domain.Order) {
	sort.Slice(s, func(i, j int) bool { return s[i].StartTime.Before(s[j].StartTime) })
}

func sortViews(s []domain.OrderView) {
	sort.Slice(s, func(i, j int) bool { return s[i].StartTime.Before(s[j].StartTime) })
}

func sortCourts(s []domain.Court) {
	sort.Slice(s, func(i, j int) bool { return s[i].Name < s[j].Name })
}
