package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diagmatrix/go-travel/internal/domain"
	"github.com/diagmatrix/go-travel/internal/ports"
)

// ErrClientNotConfigured reports a Compute call with no routing
// provider bound. Recoverable: bind one with SetProvider and retry.
var ErrClientNotConfigured = errors.New("routing provider not configured")

// Leg cache keys. The leg into the first stop is keyed "departure", the
// leg into stop i is keyed "stage_i", and the leg into the destination
// is keyed "arrival". A trip without stops caches its single leg under
// the unnamed key.
const (
	KeyDeparture = "departure"
	KeyArrival   = "arrival"
	KeySingle    = ""
)

func stageKey(i int) string { return fmt.Sprintf("stage_%d", i) }

// ComputedLeg pairs a cache key with its provider result. Slices of
// ComputedLeg follow travel order.
type ComputedLeg struct {
	Key string
	Leg domain.Leg
}

// Trip models a multi-leg journey (origin, ordered stops, destination)
// whose geometry and timing come from an external routing provider.
//
// A Trip caches the provider results of its last successful Compute.
// Every mutator marks the cache stale; derived metrics recompute on
// demand. One goroutine owns a Trip instance: there is no internal
// locking, so callers must not share an instance across goroutines.
type Trip struct {
	provider ports.RoutingProvider

	origin      domain.Location
	destination domain.Location
	stops       []domain.Stop
	departure   *time.Time
	arrival     *time.Time
	options     domain.Options

	legs       []ComputedLeg
	dirty      bool
	advisories []domain.Advisory
}

// New creates a trip between two endpoints. The provider may be nil at
// construction; Compute fails with ErrClientNotConfigured until one is
// bound.
func New(provider ports.RoutingProvider, origin, destination domain.Location) (*Trip, error) {
	if origin.IsZero() || destination.IsZero() {
		return nil, domain.ErrMissingArgument
	}

	return &Trip{
		provider:    provider,
		origin:      origin,
		destination: destination,
		dirty:       true,
	}, nil
}

// SetProvider binds or replaces the routing provider. The cached legs
// stay valid: changing the provider does not mark the trip stale.
func (t *Trip) SetProvider(p ports.RoutingProvider) { t.provider = p }

// SetOrigin replaces the trip origin.
func (t *Trip) SetOrigin(origin domain.Location) error {
	if origin.IsZero() {
		return domain.ErrMissingArgument
	}
	t.origin = origin
	t.dirty = true
	return nil
}

// SetDestination replaces the trip destination.
func (t *Trip) SetDestination(destination domain.Location) error {
	if destination.IsZero() {
		return domain.ErrMissingArgument
	}
	t.destination = destination
	t.dirty = true
	return nil
}

// SetStops replaces the whole stop sequence and re-sorts it by
// departure time.
func (t *Trip) SetStops(stops []domain.Stop) error {
	for _, s := range stops {
		if s.Location.IsZero() {
			return domain.ErrMissingArgument
		}
	}

	next := append([]domain.Stop(nil), stops...)
	domain.SortStops(next)
	t.stops = next
	t.dirty = true
	return nil
}

// AddStops merges new stops into the existing sequence, keeping it
// sorted by departure time. Existing stops keep their place on equal
// departures.
func (t *Trip) AddStops(stops []domain.Stop) error {
	for _, s := range stops {
		if s.Location.IsZero() {
			return domain.ErrMissingArgument
		}
	}

	next := append(append([]domain.Stop(nil), t.stops...), stops...)
	domain.SortStops(next)
	t.stops = next
	t.dirty = true
	return nil
}

// SetDepartureDate replaces the departure date.
func (t *Trip) SetDepartureDate(d time.Time) {
	t.departure = &d
	t.dirty = true
}

// SetArrivalDate replaces the arrival date.
func (t *Trip) SetArrivalDate(d time.Time) {
	t.arrival = &d
	t.dirty = true
}

// SetOptions validates and replaces the routing options.
func (t *Trip) SetOptions(opts domain.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	t.options = opts.Clone()
	t.dirty = true
	return nil
}

func (t *Trip) Origin() domain.Location      { return t.origin }
func (t *Trip) Destination() domain.Location { return t.destination }

// Stops returns a copy of the stop sequence.
func (t *Trip) Stops() []domain.Stop {
	return append([]domain.Stop(nil), t.stops...)
}

// DepartureDate returns the departure timestamp when one is set.
func (t *Trip) DepartureDate() (time.Time, bool) {
	if t.departure == nil {
		return time.Time{}, false
	}
	return *t.departure, true
}

// ArrivalDate returns the arrival timestamp when one is set.
func (t *Trip) ArrivalDate() (time.Time, bool) {
	if t.arrival == nil {
		return time.Time{}, false
	}
	return *t.arrival, true
}

// Options returns a copy of the routing options.
func (t *Trip) Options() domain.Options { return t.options.Clone() }

// Stale reports whether the next metric read will hit the provider.
func (t *Trip) Stale() bool { return t.dirty }

// Advisories returns the non-fatal conditions collected by the last
// successful Compute, reconciliation included.
func (t *Trip) Advisories() []domain.Advisory {
	return append([]domain.Advisory(nil), t.advisories...)
}

// ComputedLegs returns the cached legs in travel order, computing first
// when stale. Callers get a deep copy.
func (t *Trip) ComputedLegs(ctx context.Context) ([]ComputedLeg, error) {
	if err := t.ensureFresh(ctx); err != nil {
		return nil, err
	}

	out := make([]ComputedLeg, len(t.legs))
	for i, cl := range t.legs {
		out[i] = ComputedLeg{Key: cl.Key, Leg: cl.Leg.Clone()}
	}
	return out, nil
}

// Compute fetches every leg from the provider and replaces the cache.
// It is a no-op while the cache is fresh. On any leg failure the cache,
// the dates and the advisories are left exactly as they were and the
// trip stays stale. On success the cache is committed, the trip is
// fresh and date reconciliation runs.
func (t *Trip) Compute(ctx context.Context) error {
	if !t.dirty {
		return nil
	}
	if t.provider == nil {
		return ErrClientNotConfigured
	}

	advisories := make([]domain.Advisory, 0, 2)

	var legs []ComputedLeg
	if len(t.stops) > 0 {
		if t.arrival != nil {
			advisories = append(advisories, domain.Advisory{
				Code:    domain.AdvisoryFieldIgnored,
				Field:   "arrival_date",
				Message: "arrival date has no effect on a trip with stops",
			})
		}

		legs = make([]ComputedLeg, 0, len(t.stops)+1)

		start := time.Now()
		if t.departure != nil {
			start = *t.departure
		}

		prev := t.origin
		anchor := domain.DepartAt(start)
		for i, stop := range t.stops {
			key := KeyDeparture
			if i > 0 {
				key = stageKey(i)
			}

			leg, err := t.provider.GetLeg(ctx, prev, stop.Location, anchor, t.options)
			if err != nil {
				return fmt.Errorf("compute leg %q: %w", key, err)
			}
			legs = append(legs, ComputedLeg{Key: key, Leg: leg})

			prev = stop.Location
			anchor = domain.DepartAt(stop.Departure)
		}

		leg, err := t.provider.GetLeg(ctx, prev, t.destination, anchor, t.options)
		if err != nil {
			return fmt.Errorf("compute leg %q: %w", KeyArrival, err)
		}
		legs = append(legs, ComputedLeg{Key: KeyArrival, Leg: leg})
	} else {
		anchor, adv := t.singleLegAnchor()
		advisories = append(advisories, adv...)

		leg, err := t.provider.GetLeg(ctx, t.origin, t.destination, anchor, t.options)
		if err != nil {
			return fmt.Errorf("compute leg: %w", err)
		}
		legs = []ComputedLeg{{Key: KeySingle, Leg: leg}}
	}

	t.legs = legs
	t.dirty = false
	t.advisories = advisories
	t.reconcileDates()
	return nil
}

// singleLegAnchor picks the time anchor for a trip without stops:
// the departure date when set, otherwise the arrival date for transit
// trips, otherwise the current time (a set arrival date is then
// reported as ignored).
func (t *Trip) singleLegAnchor() (domain.TimeAnchor, []domain.Advisory) {
	if t.departure != nil {
		return domain.DepartAt(*t.departure), nil
	}

	if t.arrival != nil {
		if t.options.Mode == domain.ModeTransit {
			return domain.ArriveBy(*t.arrival), nil
		}
		adv := []domain.Advisory{{
			Code:    domain.AdvisoryFieldIgnored,
			Field:   "arrival_date",
			Message: "arrival date anchors only transit trips",
		}}
		return domain.DepartAt(time.Now()), adv
	}

	return domain.DepartAt(time.Now()), nil
}

// ensureFresh recomputes the cache when stale.
func (t *Trip) ensureFresh(ctx context.Context) error {
	if t.dirty {
		return t.Compute(ctx)
	}
	return nil
}
