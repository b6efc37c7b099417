package domain

type Court struct {
	ID           string  `gorm:"primaryKey" json:"court_id"`
	OwnerID      string  `gorm:"index" json:"owner_id,omitempty"`
	Name         string  `gorm:"index" json:"court_name"`
	Location     string  `json:"location"`
	Label        string  `json:"label"`
	PricePerHour float64 `json:"price_per_hour"`
	OpenTime     string  `json:"open_time"`  // HH:MM
	CloseTime    string  `json:"close_time"` // HH:MM
}
