package domain

import "time"

// AnchorType selects which end of a leg the timestamp pins.
type AnchorType string

const (
	AnchorDeparture AnchorType = "departure"
	AnchorArrival   AnchorType = "arrival"
)

// TimeAnchor pins a leg's timing to a departure or an arrival instant.
type TimeAnchor struct {
	Time time.Time
	Type AnchorType
}

// DepartAt anchors a leg by its departure time.
func DepartAt(t time.Time) TimeAnchor { return TimeAnchor{Time: t, Type: AnchorDeparture} }

// ArriveBy anchors a leg by its arrival time.
func ArriveBy(t time.Time) TimeAnchor { return TimeAnchor{Time: t, Type: AnchorArrival} }
