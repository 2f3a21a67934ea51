package domain

import "time"

// LegSummary is the persisted view of one computed leg. Distance is in
// the record's unit system.
type LegSummary struct {
	Key             string  `json:"key"`
	Distance        float64 `json:"distance"`
	DurationSeconds int     `json:"duration_seconds"`
}

// TripRecord is the stored outcome of a planned trip: reconciled dates
// and derived metrics. The engine's provider cache itself is never
// persisted.
type TripRecord struct {
	TripID        string
	Origin        string
	Destination   string
	Departure     time.Time
	Arrival       time.Time
	Distance      float64
	TravelSeconds int
	TripDays      int
	Units         UnitSystem
	Legs          []LegSummary
	Calendar      map[string]float64
	CreatedAt     time.Time
}
