package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys published on the order exchange.
const (
	RKOrderCreated   = "order.created"
	RKOrderUpdated   = "order.updated"
	RKOrderCancelled = "order.cancelled"
)

// OrderChanged carries enough for a notification message; consumers needing
// more re-read the order by id.
type OrderChanged struct {
	OrderID   string  `json:"order_id"`
	UserID    string  `json:"user_id"`
	CourtID   string  `json:"court_id"`
	CourtName string  `json:"court_name,omitempty"`
	Start     int64   `json:"start"` // unix seconds
	End       int64   `json:"end"`
	Cost      float64 `json:"cost,omitempty"`
}

type OrderSimple struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

func Unmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
