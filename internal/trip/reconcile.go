package trip

import (
	"context"
	"fmt"
	"time"

	"github.com/diagmatrix/go-travel/internal/domain"
)

// UpdateDates fills in and corrects the trip dates using the computed
// leg durations, computing the legs first when the cache is stale. Once
// the cache is fresh reconciliation cannot fail: it only moves dates and
// records date_updated advisories.
func (t *Trip) UpdateDates(ctx context.Context) error {
	if t.dirty {
		// Compute reconciles on its success path.
		return t.Compute(ctx)
	}
	t.reconcileDates()
	return nil
}

// reconcileDates makes the trip fully dated: a missing departure date is
// back-computed from the first dated reference point, stop departures
// earlier than physically reachable are moved to the computed arrival,
// and the trip arrival date is overwritten with the computed one, so the
// departure side wins whenever the two disagree.
//
// Durations absent from a cached leg count as zero here; metric reads
// surface them as InvalidResponseError instead. Requires a fresh cache
// and is stable: running it twice changes nothing.
func (t *Trip) reconcileDates() {
	if len(t.legs) == 0 {
		return
	}

	durations := make([]time.Duration, len(t.legs))
	for i, cl := range t.legs {
		if cl.Leg.DurationSeconds != nil {
			durations[i] = time.Duration(*cl.Leg.DurationSeconds) * time.Second
		}
	}

	switch {
	case t.departure == nil && t.arrival == nil:
		now := time.Now()
		t.departure = &now
		t.dateUpdated("departure_date", "set to the current time")
	case t.departure == nil:
		// Back-compute the departure from the first dated point: the
		// arrival date on a direct trip, the first stop otherwise.
		ref := *t.arrival
		if len(t.stops) > 0 {
			ref = t.stops[0].Departure
		}
		dep := ref.Add(-durations[0])
		t.departure = &dep
		t.dateUpdated("departure_date", "back-computed from the first dated point")
	}

	running := *t.departure
	for i := range t.stops {
		expected := running.Add(durations[i])
		if t.stops[i].Departure.Before(expected) {
			t.stops[i].Departure = expected
			t.dateUpdated(
				fmt.Sprintf("stops[%d].departure_date", i),
				"moved to the earliest reachable arrival",
			)
		}
		running = t.stops[i].Departure
	}

	newArrival := running.Add(durations[len(durations)-1])
	switch {
	case t.arrival == nil:
		t.arrival = &newArrival
		t.dateUpdated("arrival_date", "set from the computed travel time")
	case !t.arrival.Equal(newArrival):
		t.arrival = &newArrival
		t.dateUpdated("arrival_date", "moved to the computed arrival")
	}
}

func (t *Trip) dateUpdated(field, message string) {
	t.advisories = append(t.advisories, domain.Advisory{
		Code:    domain.AdvisoryDateUpdated,
		Field:   field,
		Message: message,
	})
}
