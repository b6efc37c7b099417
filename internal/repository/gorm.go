package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
)

// GormOrderRepo persists orders in Postgres. All interval writes run inside
// a transaction that first locks the court row and then re-checks overlap,
// so the no-overlap invariant holds even when the pre-flight check raced
// another submit.
type GormOrderRepo struct{ db *gorm.DB }

func NewGormOrderRepo(db *gorm.DB) *GormOrderRepo { return &GormOrderRepo{db: db} }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Court{}, &domain.Order{})
}

func (r *GormOrderRepo) CreateNoOverlap(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCourt(tx, o.CourtID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := lockOverlapping(tx, o.CourtID, "", o.StartTime, o.EndTime); err != nil {
			return err
		}
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		return tx.Create(o).Error
	})
}

func (r *GormOrderRepo) UpdateIntervalNoOverlap(ctx context.Context, id string, start, end time.Time, cost float64) (*domain.Order, error) {
	var out domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := lockCourt(tx, out.CourtID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := lockOverlapping(tx, out.CourtID, id, start, end); err != nil {
			return err
		}
		out.StartTime = start
		out.EndTime = end
		out.Cost = cost
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// lockCourt takes a FOR UPDATE lock on the court row itself. Row locks on
// overlapping orders cannot serialize two writers over a free slot: both
// SELECTs match zero rows and lock nothing under read committed, which has
// no gap locks. Locking the parent row queues all interval writers for the
// court, making the overlap re-check below race-free.
func lockCourt(tx *gorm.DB, courtID string) *gorm.DB {
	var court domain.Court
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Take(&court, "id = ?", courtID)
}

// lockOverlapping fails with ErrOverlap if any live order of the court would
// overlap [start, end). Callers hold the court lock, so the answer cannot
// change before commit. The half-open predicate lets back-to-back bookings
// share an endpoint.
func lockOverlapping(tx *gorm.DB, courtID, excludeID string, start, end time.Time) error {
	var clash domain.Order
	err := overlapScan(tx, courtID, excludeID, start, end).Take(&clash).Error
	if err == nil {
		return ErrOverlap
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func overlapScan(tx *gorm.DB, courtID, excludeID string, start, end time.Time) *gorm.DB {
	q := tx.Model(&domain.Order{}).
		Where("court_id = ?", courtID).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

func (r *GormOrderRepo) ByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepo) ByCourt(ctx context.Context, courtID, excludeID string) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Where("court_id = ?", courtID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var out []domain.Order
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormOrderRepo) ViewsByUser(ctx context.Context, userID string) ([]domain.OrderView, error) {
	var out []domain.OrderView
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("orders.id, orders.court_id, courts.name AS court_name, orders.start_time, orders.end_time, orders.cost, orders.created_at").
		Joins("JOIN courts ON courts.id = orders.court_id").
		Where("orders.user_id = ?", userID).
		Order("orders.start_time ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormOrderRepo) ViewsByCourt(ctx context.Context, courtID string) ([]domain.OrderView, error) {
	var out []domain.OrderView
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("orders.id, orders.court_id, courts.name AS court_name, orders.user_id, users.name AS user_name, orders.start_time, orders.end_time, orders.cost, orders.created_at").
		Joins("JOIN courts ON courts.id = orders.court_id").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.court_id = ?", courtID).
		Order("orders.start_time ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormOrderRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *GormOrderRepo) CourtHasOrdersEndingAfter(ctx context.Context, courtID string, t time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("court_id = ? AND end_time >= ?", courtID, t).
		Count(&n).Error
	return n > 0, err
}

type GormCourtRepo struct{ db *gorm.DB }

func NewGormCourtRepo(db *gorm.DB) *GormCourtRepo { return &GormCourtRepo{db: db} }

func (r *GormCourtRepo) Create(ctx context.Context, c *domain.Court) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormCourtRepo) ByID(ctx context.Context, id string) (*domain.Court, error) {
	var c domain.Court
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCourtRepo) ByOwner(ctx context.Context, ownerID string) ([]domain.Court, error) {
	var out []domain.Court
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormCourtRepo) List(ctx context.Context) ([]domain.Court, error) {
	var out []domain.Court
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormCourtRepo) NameTaken(ctx context.Context, ownerID, name, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&domain.Court{}).
		Where("owner_id = ? AND name = ?", ownerID, name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *GormCourtRepo) Update(ctx context.Context, c *domain.Court) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Court{}).
		Where("id = ? AND owner_id = ?", c.ID, c.OwnerID).
		Updates(map[string]any{
			"name":           c.Name,
			"location":       c.Location,
			"label":          c.Label,
			"price_per_hour": c.PricePerHour,
			"open_time":      c.OpenTime,
			"close_time":     c.CloseTime,
		})
	return res.RowsAffected, res.Error
}

func (r *GormCourtRepo) Delete(ctx context.Context, ownerID, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Court{}, "id = ? AND owner_id = ?", id, ownerID)
	return res.RowsAffected, res.Error
}

type GormUserRepo struct{ db *gorm.DB }

func NewGormUserRepo(db *gorm.DB) *GormUserRepo { return &GormUserRepo{db: db} }

func (r *GormUserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrNameUsed
	}
	return err
}

func (r *GormUserRepo) ByName(ctx context.Context, name string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
