package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/diagmatrix/go-travel/internal/domain"
	"github.com/diagmatrix/go-travel/internal/platform/obs"
	"github.com/diagmatrix/go-travel/internal/ports"
	"github.com/diagmatrix/go-travel/internal/trip"
)

type PlanTripRequest struct {
	Origin      domain.Location
	Destination domain.Location
	Stops       []domain.Stop
	Departure   *time.Time
	Arrival     *time.Time
	Options     domain.Options
}

// PlanTripResult carries the stored record plus the advisories raised
// while computing it. Advisories are per-plan findings and are not
// persisted.
type PlanTripResult struct {
	Record     *domain.TripRecord
	Advisories []domain.Advisory
}

// PlanTrip computes a trip end to end: route every leg, reconcile the
// dates, derive the metrics and persist the outcome. The distance
// calendar is attached for direct trips when the provider data allows
// it; trips with stops never carry one.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	repo ports.TripRepository,
	provider ports.RoutingProvider,
) (_ *PlanTripResult, err error) {
	defer obs.Time(ctx, "services.PlanTrip")(&err)

	tr, err := trip.New(provider, req.Origin, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	if len(req.Stops) > 0 {
		if err := tr.SetStops(req.Stops); err != nil {
			return nil, fmt.Errorf("plan trip: set stops: %w", err)
		}
	}
	if req.Departure != nil {
		tr.SetDepartureDate(*req.Departure)
	}
	if req.Arrival != nil {
		tr.SetArrivalDate(*req.Arrival)
	}
	if err := tr.SetOptions(req.Options); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	if err := tr.Compute(ctx); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	distance, err := tr.Distance(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan trip: total distance: %w", err)
	}
	travelTime, err := tr.TravelTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan trip: total travel time: %w", err)
	}
	days, err := tr.TripDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan trip: trip days: %w", err)
	}

	legs, err := legSummaries(ctx, tr)
	if err != nil {
		return nil, fmt.Errorf("plan trip: leg summaries: %w", err)
	}

	// The calendar needs per-step data the other metrics do not; when
	// the provider response cannot support it the trip still plans.
	var calendar map[string]float64
	if len(req.Stops) == 0 {
		calendar, err = tr.DistanceCalendar(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("distance calendar unavailable for this trip")
			calendar = nil
		}
	}

	departure, _ := tr.DepartureDate()
	arrival, _ := tr.ArrivalDate()

	record := &domain.TripRecord{
		TripID:        uuid.NewString(),
		Origin:        req.Origin.Endpoint(),
		Destination:   req.Destination.Endpoint(),
		Departure:     departure,
		Arrival:       arrival,
		Distance:      distance,
		TravelSeconds: int(travelTime.Seconds()),
		TripDays:      days,
		Units:         req.Options.EffectiveUnits(),
		Legs:          legs,
		Calendar:      calendar,
		CreatedAt:     time.Now().UTC(),
	}

	if err := repo.SaveTrip(ctx, record); err != nil {
		return nil, fmt.Errorf("plan trip: save record: %w", err)
	}

	return &PlanTripResult{
		Record:     record,
		Advisories: tr.Advisories(),
	}, nil
}

// legSummaries flattens the computed legs into their persisted form,
// one summary per leg in travel order.
func legSummaries(ctx context.Context, tr *trip.Trip) ([]domain.LegSummary, error) {
	computed, err := tr.ComputedLegs(ctx)
	if err != nil {
		return nil, err
	}
	distances, err := tr.Distances(ctx)
	if err != nil {
		return nil, err
	}
	durations, err := tr.TravelTimes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LegSummary, len(computed))
	for i, cl := range computed {
		out[i] = domain.LegSummary{
			Key:             cl.Key,
			Distance:        distances[i],
			DurationSeconds: int(durations[i].Seconds()),
		}
	}
	return out, nil
}
