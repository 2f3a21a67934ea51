package dto

import "time"

// LocationDTO accepts coordinates, a free-text address, or both.
type LocationDTO struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address string   `json:"address,omitempty"`
}

type StopDTO struct {
	Location      LocationDTO `json:"location"`
	DepartureDate time.Time   `json:"departure_date"`
}

type OptionsDTO struct {
	Mode                     string   `json:"mode,omitempty"`
	Avoid                    []string `json:"avoid,omitempty"`
	Units                    string   `json:"units,omitempty"`
	TransitMode              []string `json:"transit_mode,omitempty"`
	TransitRoutingPreference string   `json:"transit_routing_preference,omitempty"`
	TrafficModel             string   `json:"traffic_model,omitempty"`
}

type TripRequest struct {
	Origin        LocationDTO `json:"origin"`
	Destination   LocationDTO `json:"destination"`
	Stops         []StopDTO   `json:"stops,omitempty"`
	DepartureDate *time.Time  `json:"departure_date,omitempty"`
	ArrivalDate   *time.Time  `json:"arrival_date,omitempty"`
	Options       *OptionsDTO `json:"options,omitempty"`
}

type LegResponse struct {
	Key             string  `json:"key"`
	Distance        float64 `json:"distance"`
	DurationSeconds int     `json:"duration_seconds"`
}

type AdvisoryResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// TripResponse is the stored trip plus, right after planning, the
// advisories that plan raised. Replayed reads carry no advisories.
type TripResponse struct {
	TripID        string             `json:"trip_id"`
	Origin        string             `json:"origin"`
	Destination   string             `json:"destination"`
	DepartureDate time.Time          `json:"departure_date"`
	ArrivalDate   time.Time          `json:"arrival_date"`
	Distance      float64            `json:"distance"`
	TravelSeconds int                `json:"travel_seconds"`
	TripDays      int                `json:"trip_days"`
	Units         string             `json:"units"`
	Legs          []LegResponse      `json:"legs"`
	Advisories    []AdvisoryResponse `json:"advisories,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

// CalendarRow is one day of the distance calendar CSV export.
type CalendarRow struct {
	Date     string  `csv:"date"`
	Distance float64 `csv:"distance"`
}
