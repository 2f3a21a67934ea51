package domain

import (
	"sort"
	"time"
)

// Stop is an intermediate waypoint: where the trip pauses and when it
// leaves again.
type Stop struct {
	Location  Location
	Departure time.Time
}

// SortStops orders stops ascending by departure time, preserving the
// relative order of equal departures.
func SortStops(stops []Stop) {
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Departure.Before(stops[j].Departure)
	})
}
