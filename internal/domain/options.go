package domain

import "fmt"

// Travel mode for a trip.
type Mode string

const (
	ModeDriving   Mode = "driving"
	ModeWalking   Mode = "walking"
	ModeBicycling Mode = "bicycling"
	ModeTransit   Mode = "transit"
)

// Route feature the provider should route around.
type AvoidFeature string

const (
	AvoidTolls    AvoidFeature = "tolls"
	AvoidHighways AvoidFeature = "highways"
	AvoidFerries  AvoidFeature = "ferries"
	AvoidIndoor   AvoidFeature = "indoor"
)

// Unit system used for derived distances.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// Preferred transit vehicle (meaningful only when mode is transit).
type TransitMode string

const (
	TransitBus    TransitMode = "bus"
	TransitSubway TransitMode = "subway"
	TransitTrain  TransitMode = "train"
	TransitTram   TransitMode = "tram"
	TransitRail   TransitMode = "rail"
)

// Preference for choosing between equivalent transit routes.
type TransitPreference string

const (
	PreferLessWalking    TransitPreference = "less_walking"
	PreferFewerTransfers TransitPreference = "fewer_transfers"
)

// Traffic model for duration estimates (meaningful only when mode is
// driving).
type TrafficModel string

const (
	TrafficBestGuess   TrafficModel = "best_guess"
	TrafficOptimistic  TrafficModel = "optimistic"
	TrafficPessimistic TrafficModel = "pessimistic"
)

// Options configures how the routing provider computes legs. The zero
// value means provider defaults (driving, metric units).
type Options struct {
	Mode                     Mode
	Avoid                    []AvoidFeature
	Units                    UnitSystem
	TransitMode              []TransitMode
	TransitRoutingPreference TransitPreference
	TrafficModel             TrafficModel
}

// Validate checks every populated field against its recognized values.
func (o Options) Validate() error {
	switch o.Mode {
	case "", ModeDriving, ModeWalking, ModeBicycling, ModeTransit:
	default:
		return fmt.Errorf("options: unrecognized mode %q", o.Mode)
	}

	for _, a := range o.Avoid {
		switch a {
		case AvoidTolls, AvoidHighways, AvoidFerries, AvoidIndoor:
		default:
			return fmt.Errorf("options: unrecognized avoid feature %q", a)
		}
	}

	switch o.Units {
	case "", UnitsMetric, UnitsImperial:
	default:
		return fmt.Errorf("options: unrecognized units %q", o.Units)
	}

	for _, m := range o.TransitMode {
		switch m {
		case TransitBus, TransitSubway, TransitTrain, TransitTram, TransitRail:
		default:
			return fmt.Errorf("options: unrecognized transit mode %q", m)
		}
	}

	switch o.TransitRoutingPreference {
	case "", PreferLessWalking, PreferFewerTransfers:
	default:
		return fmt.Errorf("options: unrecognized transit routing preference %q", o.TransitRoutingPreference)
	}

	switch o.TrafficModel {
	case "", TrafficBestGuess, TrafficOptimistic, TrafficPessimistic:
	default:
		return fmt.Errorf("options: unrecognized traffic model %q", o.TrafficModel)
	}

	return nil
}

// EffectiveUnits resolves the default unit system.
func (o Options) EffectiveUnits() UnitSystem {
	if o.Units == "" {
		return UnitsMetric
	}
	return o.Units
}

// Clone returns a copy whose slice fields are not shared with the
// original.
func (o Options) Clone() Options {
	out := o
	if o.Avoid != nil {
		out.Avoid = append([]AvoidFeature(nil), o.Avoid...)
	}
	if o.TransitMode != nil {
		out.TransitMode = append([]TransitMode(nil), o.TransitMode...)
	}
	return out
}
