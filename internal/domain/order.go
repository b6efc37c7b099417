package domain

import "time"

// OrderStatus is never stored. It is derived from the order's interval and
// the current time, so it can't drift while an order sits in the table.
type OrderStatus string

const (
	StatusWaiting OrderStatus = "WAITING" // now < start
	StatusGoing   OrderStatus = "GOING"   // start <= now < end
	StatusDone    OrderStatus = "DONE"    // now >= end
)

type Order struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"index"`
	CourtID   string    `gorm:"index"`
	StartTime time.Time `gorm:"index"`
	EndTime   time.Time `gorm:"index"`
	Cost      float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusAt derives the lifecycle state at the given instant.
func (o *Order) StatusAt(now time.Time) OrderStatus {
	switch {
	case now.Before(o.StartTime):
		return StatusWaiting
	case now.Before(o.EndTime):
		return StatusGoing
	default:
		return StatusDone
	}
}

// OrderView is what the API returns: the order joined with its court name
// and the status computed for the requesting moment.
type OrderView struct {
	ID        string      `json:"order_id"`
	CourtID   string      `json:"court_id"`
	CourtName string      `json:"court_name"`
	UserID    string      `json:"user_id,omitempty"`
	UserName  string      `json:"user_name,omitempty"`
	StartTime time.Time   `json:"apt_start"`
	EndTime   time.Time   `json:"apt_end"`
	Cost      float64     `json:"cost"`
	CreatedAt time.Time   `json:"create_time"`
	Status    OrderStatus `json:"status"`
}

// Cost bills fractional hours proportionally, no rounding up.
func Cost(start, end time.Time, pricePerHour float64) float64 {
	return end.Sub(start).Minutes() / 60.0 * pricePerHour
}
