package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diagmatrix/go-travel/internal/domain"
)

// ErrCalendarWithStops reports a distance calendar request for a trip
// with stops, which this engine does not support.
var ErrCalendarWithStops = errors.New("distance calendar is not supported for trips with stops")

const dayFormat = "2006-01-02"

// DistanceCalendar splits the trip distance across the calendar days it
// spans, proportionally to the time travelled on each day. The returned
// map has one "YYYY-MM-DD" key per trip day (TripDays entries, zero when
// nothing was travelled that day) and values in the unit system from the
// options.
//
// The split walks the provider steps: steps straddling midnight
// contribute to each day exactly the distance covered during that day's
// share of the step, assuming constant speed within a step. Steps with a
// missing or zero duration are defects in the provider response and fail
// with InvalidResponseError. Trips with stops are not supported.
func (t *Trip) DistanceCalendar(ctx context.Context) (map[string]float64, error) {
	if err := t.ensureFresh(ctx); err != nil {
		return nil, err
	}
	if len(t.stops) > 0 {
		return nil, ErrCalendarWithStops
	}

	steps := t.legs[0].Leg.Steps
	if len(steps) == 0 {
		return nil, &domain.InvalidResponseError{Field: "steps"}
	}

	departure := *t.departure
	meters := make(map[string]float64)
	day := startOfDay(departure)
	for i := inclusiveDays(departure, *t.arrival); i > 0; i-- {
		meters[day.Format(dayFormat)] = 0
		day = day.AddDate(0, 0, 1)
	}

	current := departure
	for i, step := range steps {
		if step.DistanceMeters == nil {
			return nil, &domain.InvalidResponseError{Field: fmt.Sprintf("steps[%d].distance.value", i)}
		}
		if step.DurationSeconds == nil || *step.DurationSeconds <= 0 {
			return nil, &domain.InvalidResponseError{Field: fmt.Sprintf("steps[%d].duration.value", i)}
		}

		duration := time.Duration(*step.DurationSeconds) * time.Second
		rate := float64(*step.DistanceMeters) / duration.Seconds()

		stepEnd := current.Add(duration)
		for current.Before(stepEnd) {
			dayEnd := startOfDay(current).AddDate(0, 0, 1)
			if !stepEnd.After(dayEnd) {
				meters[current.Format(dayFormat)] += stepEnd.Sub(current).Seconds() * rate
				current = stepEnd
			} else {
				meters[current.Format(dayFormat)] += dayEnd.Sub(current).Seconds() * rate
				current = dayEnd
			}
		}
	}

	units := t.options.EffectiveUnits()
	out := make(map[string]float64, len(meters))
	for day, m := range meters {
		out[day] = domain.DistanceIn(units, m)
	}
	return out, nil
}
