package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/diagmatrix/go-travel/internal/api/dto"
	"github.com/diagmatrix/go-travel/internal/domain"
	"github.com/diagmatrix/go-travel/internal/ports"
	"github.com/diagmatrix/go-travel/internal/services"
	"github.com/diagmatrix/go-travel/internal/trip"
)

type TripHandler struct {
	Repo         ports.TripRepository
	Provider     ports.RoutingProvider
	DefaultUnits domain.UnitSystem
}

// Create plans a trip from the request body, stores it and returns the
// stored record together with the advisories the plan raised.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TripRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	origin, err := toLocation(req.Origin)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "origin: "+err.Error())
		return
	}
	destination, err := toLocation(req.Destination)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "destination: "+err.Error())
		return
	}

	stops, err := toStops(req.Stops)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	opts := toOptions(req.Options, h.DefaultUnits)
	if err := opts.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	svcReq := services.PlanTripRequest{
		Origin:      origin,
		Destination: destination,
		Stops:       stops,
		Departure:   req.DepartureDate,
		Arrival:     req.ArrivalDate,
		Options:     opts,
	}

	result, err := services.PlanTrip(r.Context(), svcReq, h.Repo, h.Provider)
	if err != nil {
		status, msg := planErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("plan trip failed")
		}
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusCreated, toTripResponse(result.Record, result.Advisories))
}

// List returns the most recently planned trips, newest first.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.Repo.ListTrips(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list trips failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripResponse, 0, len(records))}
	for _, rec := range records {
		res.Trips = append(res.Trips, toTripResponse(rec, nil))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get returns one stored trip by ID.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["id"]

	rec, err := h.Repo.GetTrip(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, ports.ErrTripNotFound) {
			writeError(w, r, http.StatusNotFound, "trip not found")
			return
		}
		log.Error().Err(err).Msg("get trip failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toTripResponse(rec, nil))
}

// planErrorStatus maps a planning failure onto the HTTP status that
// tells the caller whose fault it was.
func planErrorStatus(err error) (int, string) {
	var invalidReq *ports.InvalidRequestError
	var invalidResp *domain.InvalidResponseError
	var apiErr *ports.APIError

	switch {
	case errors.Is(err, domain.ErrMissingArgument):
		return http.StatusBadRequest, "origin and destination are required"
	case errors.As(err, &invalidReq):
		return http.StatusBadRequest, invalidReq.Message
	case errors.Is(err, ports.ErrLocationNotFound):
		return http.StatusUnprocessableEntity, "a trip endpoint could not be resolved"
	case errors.Is(err, trip.ErrClientNotConfigured):
		return http.StatusServiceUnavailable, "routing provider not configured"
	case errors.As(err, &invalidResp), errors.As(err, &apiErr):
		return http.StatusBadGateway, "routing provider error"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func toLocation(d dto.LocationDTO) (domain.Location, error) {
	var coords *domain.Coordinates
	if d.Lat != nil || d.Lng != nil {
		if d.Lat == nil || d.Lng == nil {
			return domain.Location{}, errors.New("lat and lng must come together")
		}
		coords = &domain.Coordinates{Lat: *d.Lat, Lng: *d.Lng}
	}
	return domain.NewLocation(coords, d.Address)
}

func toStops(in []dto.StopDTO) ([]domain.Stop, error) {
	if len(in) == 0 {
		return nil, nil
	}

	out := make([]domain.Stop, 0, len(in))
	for i, s := range in {
		loc, err := toLocation(s.Location)
		if err != nil {
			return nil, fmt.Errorf("stops[%d]: %w", i, err)
		}
		if s.DepartureDate.IsZero() {
			return nil, fmt.Errorf("stops[%d]: departure_date is required", i)
		}
		out = append(out, domain.Stop{Location: loc, Departure: s.DepartureDate})
	}
	return out, nil
}

func toOptions(d *dto.OptionsDTO, defaultUnits domain.UnitSystem) domain.Options {
	opts := domain.Options{Units: defaultUnits}
	if d == nil {
		return opts
	}

	opts.Mode = domain.Mode(d.Mode)
	for _, a := range d.Avoid {
		opts.Avoid = append(opts.Avoid, domain.AvoidFeature(a))
	}
	if d.Units != "" {
		opts.Units = domain.UnitSystem(d.Units)
	}
	for _, m := range d.TransitMode {
		opts.TransitMode = append(opts.TransitMode, domain.TransitMode(m))
	}
	opts.TransitRoutingPreference = domain.TransitPreference(d.TransitRoutingPreference)
	opts.TrafficModel = domain.TrafficModel(d.TrafficModel)
	return opts
}

func toTripResponse(rec *domain.TripRecord, advisories []domain.Advisory) dto.TripResponse {
	legs := make([]dto.LegResponse, 0, len(rec.Legs))
	for _, l := range rec.Legs {
		legs = append(legs, dto.LegResponse{
			Key:             l.Key,
			Distance:        l.Distance,
			DurationSeconds: l.DurationSeconds,
		})
	}

	res := dto.TripResponse{
		TripID:        rec.TripID,
		Origin:        rec.Origin,
		Destination:   rec.Destination,
		DepartureDate: rec.Departure,
		ArrivalDate:   rec.Arrival,
		Distance:      rec.Distance,
		TravelSeconds: rec.TravelSeconds,
		TripDays:      rec.TripDays,
		Units:         string(rec.Units),
		Legs:          legs,
		CreatedAt:     rec.CreatedAt,
	}

	for _, adv := range advisories {
		res.Advisories = append(res.Advisories, dto.AdvisoryResponse{
			Code:    string(adv.Code),
			Field:   adv.Field,
			Message: adv.Message,
		})
	}
	return res
}
