package trip

import (
	"context"
	"math"
	"time"

	"github.com/diagmatrix/go-travel/internal/domain"
)

// Every derived metric recomputes the legs first when the trip is stale,
// then reads exclusively from the cache. A metric fails with
// InvalidResponseError when the provider response omitted the field it
// needs; a present zero is a valid value.

// Distance returns the total trip distance across all legs, in the unit
// system from the options (kilometers by default, miles when imperial).
func (t *Trip) Distance(ctx context.Context) (float64, error) {
	if err := t.ensureFresh(ctx); err != nil {
		return 0, err
	}

	meters := 0
	for _, cl := range t.legs {
		m, err := legDistance(cl)
		if err != nil {
			return 0, err
		}
		meters += m
	}

	return domain.DistanceIn(t.options.EffectiveUnits(), float64(meters)), nil
}

// Distances returns the distance of each leg in travel order, in the
// unit system from the options.
func (t *Trip) Distances(ctx context.Context) ([]float64, error) {
	if err := t.ensureFresh(ctx); err != nil {
		return nil, err
	}

	units := t.options.EffectiveUnits()
	out := make([]float64, len(t.legs))
	for i, cl := range t.legs {
		m, err := legDistance(cl)
		if err != nil {
			return nil, err
		}
		out[i] = domain.DistanceIn(units, float64(m))
	}

	return out, nil
}

// TravelTime returns the total time spent travelling across all legs.
func (t *Trip) TravelTime(ctx context.Context) (time.Duration, error) {
	if err := t.ensureFresh(ctx); err != nil {
		return 0, err
	}

	total := time.Duration(0)
	for _, cl := range t.legs {
		d, err := legDuration(cl)
		if err != nil {
			return 0, err
		}
		total += d
	}

	return total, nil
}

// TravelTimes returns the duration of each leg in travel order.
func (t *Trip) TravelTimes(ctx context.Context) ([]time.Duration, error) {
	if err := t.ensureFresh(ctx); err != nil {
		return nil, err
	}

	out := make([]time.Duration, len(t.legs))
	for i, cl := range t.legs {
		d, err := legDuration(cl)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}

	return out, nil
}

// TripDays returns the number of calendar days the trip touches,
// inclusive on both ends: a trip departing and arriving on the same date
// lasts one day. Dates are always set here because Compute reconciles
// them on success.
func (t *Trip) TripDays(ctx context.Context) (int, error) {
	if err := t.ensureFresh(ctx); err != nil {
		return 0, err
	}
	return inclusiveDays(*t.departure, *t.arrival), nil
}

func legDistance(cl ComputedLeg) (int, error) {
	if cl.Leg.DistanceMeters == nil {
		return 0, &domain.InvalidResponseError{Field: legField(cl.Key, "distance.value")}
	}
	return *cl.Leg.DistanceMeters, nil
}

func legDuration(cl ComputedLeg) (time.Duration, error) {
	if cl.Leg.DurationSeconds == nil {
		return 0, &domain.InvalidResponseError{Field: legField(cl.Key, "duration.value")}
	}
	return time.Duration(*cl.Leg.DurationSeconds) * time.Second, nil
}

// legField builds the field path reported by InvalidResponseError, e.g.
// "stage_1.duration.value", or just "duration.value" for the unnamed
// single leg.
func legField(key, field string) string {
	if key == KeySingle {
		return field
	}
	return key + "." + field
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// inclusiveDays counts calendar days from one instant's date to
// another's, both ends included. Rounding absorbs DST-shortened and
// DST-lengthened days.
func inclusiveDays(from, to time.Time) int {
	days := int(math.Round(startOfDay(to).Sub(startOfDay(from)).Hours() / 24))
	return days + 1
}
