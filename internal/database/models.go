package database

import "time"

// Feast kinds accepted by the schema.
const (
	KindLord  = "lord"
	KindMajor = "major"
	KindMinor = "minor"
)

// ValidKinds returns all feast kinds the schema accepts.
func ValidKinds() []string {
	return []string{KindLord, KindMajor, KindMinor}
}

// FeastRecord is a stored fixed-date feast.
type FeastRecord struct {
	ID        int64     `json:"id"`
	Month     int       `json:"month"` // 1..13
	Day       int       `json:"day"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeastStats summarizes the stored table.
type FeastStats struct {
	Total  int            `json:"total"`
	ByKind map[string]int `json:"by_kind"`
}
