package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagmatrix/go-travel/internal/adapters/directions"
	"github.com/diagmatrix/go-travel/internal/api/dto"
	"github.com/diagmatrix/go-travel/internal/domain"
	"github.com/diagmatrix/go-travel/internal/ports"
)

// fakeRepo is an in-memory TripRepository. Records list in reverse
// insertion order, matching the newest-first contract.
type fakeRepo struct {
	records []*domain.TripRecord
	saveErr error
	getErr  error
}

func (f *fakeRepo) SaveTrip(_ context.Context, rec *domain.TripRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRepo) GetTrip(_ context.Context, tripID string) (*domain.TripRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, rec := range f.records {
		if rec.TripID == tripID {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("get trip %q: %w", tripID, ports.ErrTripNotFound)
}

func (f *fakeRepo) ListTrips(_ context.Context, limit int) ([]*domain.TripRecord, error) {
	out := make([]*domain.TripRecord, 0, len(f.records))
	for i := len(f.records) - 1; i >= 0; i-- {
		out = append(out, f.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func newTestRouter(t *testing.T, legs []directions.MockLeg) (http.Handler, *fakeRepo, *directions.MockProvider) {
	t.Helper()

	repo := &fakeRepo{}
	provider := directions.NewMockProvider(legs)
	return NewRouter(repo, provider, domain.UnitsMetric), repo, provider
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTrip(t *testing.T, rec *httptest.ResponseRecorder) dto.TripResponse {
	t.Helper()

	var res dto.TripResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), "response body: %s", rec.Body.String())
	return res
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), "response body: %s", rec.Body.String())
	return res["error"]
}

func directLeg() []directions.MockLeg {
	return []directions.MockLeg{{
		From:    "Madrid",
		To:      "Barcelona",
		Meters:  1000,
		Seconds: 3600,
		Steps:   []directions.MockStep{{Meters: 1000, Seconds: 3600}},
	}}
}

func storedTrip(id string) *domain.TripRecord {
	return &domain.TripRecord{
		TripID:        id,
		Origin:        "Madrid",
		Destination:   "Barcelona",
		Departure:     time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		Arrival:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Distance:      1.0,
		TravelSeconds: 3600,
		TripDays:      1,
		Units:         domain.UnitsMetric,
		Legs:          []domain.LegSummary{{Key: "", Distance: 1.0, DurationSeconds: 3600}},
		Calendar:      map[string]float64{"2024-05-01": 1.0},
		CreatedAt:     time.Now().UTC(),
	}
}

func TestCreateTripPlansAndStores(t *testing.T) {
	router, repo, _ := newTestRouter(t, directLeg())

	body := `{
		"origin": {"address": "Madrid"},
		"destination": {"address": "Barcelona"},
		"departure_date": "2024-05-01T08:00:00Z"
	}`
	rec := do(t, router, http.MethodPost, "/trips", body)

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), "request ID header should be set")

	res := decodeTrip(t, rec)
	assert.NotEmpty(t, res.TripID)
	assert.Equal(t, "Madrid", res.Origin)
	assert.Equal(t, "Barcelona", res.Destination)
	assert.True(t, res.DepartureDate.Equal(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
		"departure should be the requested date, got %v", res.DepartureDate)
	assert.True(t, res.ArrivalDate.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		"arrival should be departure plus travel time, got %v", res.ArrivalDate)
	assert.InDelta(t, 1.0, res.Distance, 1e-9)
	assert.Equal(t, 3600, res.TravelSeconds)
	assert.Equal(t, 1, res.TripDays)
	assert.Equal(t, "metric", res.Units)
	assert.False(t, res.CreatedAt.IsZero())

	require.Len(t, res.Legs, 1)
	assert.Equal(t, "", res.Legs[0].Key)
	assert.InDelta(t, 1.0, res.Legs[0].Distance, 1e-9)
	assert.Equal(t, 3600, res.Legs[0].DurationSeconds)

	require.Len(t, res.Advisories, 1, "arrival was derived, so it must be advised")
	assert.Equal(t, "date_updated", res.Advisories[0].Code)
	assert.Equal(t, "arrival_date", res.Advisories[0].Field)

	require.Len(t, repo.records, 1, "trip should be persisted")
	assert.Equal(t, res.TripID, repo.records[0].TripID)
}

func TestCreateTripWithStops(t *testing.T) {
	legs := []directions.MockLeg{
		{From: "Madrid", To: "Zaragoza", Meters: 1000, Seconds: 3600},
		{From: "Zaragoza", To: "Lleida", Meters: 2000, Seconds: 1800},
		{From: "Lleida", To: "Barcelona", Meters: 3000, Seconds: 900},
	}
	router, _, provider := newTestRouter(t, legs)

	body := `{
		"origin": {"address": "Madrid"},
		"destination": {"address": "Barcelona"},
		"departure_date": "2024-05-01T08:00:00Z",
		"stops": [
			{"location": {"address": "Zaragoza"}, "departure_date": "2024-05-01T10:00:00Z"},
			{"location": {"address": "Lleida"}, "departure_date": "2024-05-01T12:00:00Z"}
		]
	}`
	rec := do(t, router, http.MethodPost, "/trips", body)

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	res := decodeTrip(t, rec)
	require.Len(t, res.Legs, 3)
	assert.Equal(t, "departure", res.Legs[0].Key)
	assert.Equal(t, "stage_1", res.Legs[1].Key)
	assert.Equal(t, "arrival", res.Legs[2].Key)
	assert.InDelta(t, 6.0, res.Distance, 1e-9)
	assert.Equal(t, 3, provider.CallCount())
}

func TestCreateTripRejectsMalformedBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "invalid json",
			body:    `{"origin": `,
			wantMsg: "invalid json body",
		},
		{
			name:    "unknown field",
			body:    `{"origin": {"address": "Madrid"}, "destination": {"address": "Barcelona"}, "speed": 99}`,
			wantMsg: "invalid json body",
		},
		{
			name:    "trailing json",
			body:    `{"origin": {"address": "Madrid"}, "destination": {"address": "Barcelona"}} {}`,
			wantMsg: "body must contain only one JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, provider := newTestRouter(t, directLeg())

			rec := do(t, router, http.MethodPost, "/trips", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
			assert.Equal(t, 0, provider.CallCount(), "provider should not be called")
		})
	}
}

func TestCreateTripValidatesInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "missing origin",
			body:    `{"destination": {"address": "Barcelona"}}`,
			wantMsg: "origin: location requires coordinates or an address",
		},
		{
			name:    "lat without lng",
			body:    `{"origin": {"lat": 40.4}, "destination": {"address": "Barcelona"}}`,
			wantMsg: "origin: lat and lng must come together",
		},
		{
			name: "stop without departure date",
			body: `{"origin": {"address": "Madrid"}, "destination": {"address": "Barcelona"},
				"stops": [{"location": {"address": "Zaragoza"}}]}`,
			wantMsg: "stops[0]: departure_date is required",
		},
		{
			name: "unrecognized mode",
			body: `{"origin": {"address": "Madrid"}, "destination": {"address": "Barcelona"},
				"options": {"mode": "teleport"}}`,
			wantMsg: `options: unrecognized mode "teleport"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo, _ := newTestRouter(t, directLeg())

			rec := do(t, router, http.MethodPost, "/trips", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
			assert.Empty(t, repo.records, "nothing should be persisted")
		})
	}
}

func TestCreateTripMapsProviderFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "endpoint not found",
			err:        ports.ErrLocationNotFound,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "a trip endpoint could not be resolved",
		},
		{
			name:       "provider rejected request",
			err:        &ports.InvalidRequestError{Message: "invalid routing request"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid routing request",
		},
		{
			name:       "provider error",
			err:        &ports.APIError{Code: "OVER_QUERY_LIMIT"},
			wantStatus: http.StatusBadGateway,
			wantMsg:    "routing provider error",
		},
		{
			name:       "unexpected failure",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	body := `{"origin": {"address": "Madrid"}, "destination": {"address": "Barcelona"}}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo, provider := newTestRouter(t, directLeg())
			provider.FailWith("Madrid", "Barcelona", tt.err)

			rec := do(t, router, http.MethodPost, "/trips", body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
			assert.Empty(t, repo.records, "failed plans must not be persisted")
		})
	}
}

func TestGetTrip(t *testing.T) {
	router, repo, _ := newTestRouter(t, nil)
	repo.records = append(repo.records, storedTrip("trip-1"))

	rec := do(t, router, http.MethodGet, "/trips/trip-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeTrip(t, rec)
	assert.Equal(t, "trip-1", res.TripID)
	assert.Equal(t, "Madrid", res.Origin)
	assert.Empty(t, res.Advisories, "stored reads carry no advisories")
}

func TestGetTripNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/trips/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trip not found", errorMessage(t, rec))
}

func TestListTrips(t *testing.T) {
	router, repo, _ := newTestRouter(t, nil)
	repo.records = append(repo.records, storedTrip("t1"), storedTrip("t2"), storedTrip("t3"))

	rec := do(t, router, http.MethodGet, "/trips", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var res dto.ListTripsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Trips, 3)
	assert.Equal(t, "t3", res.Trips[0].TripID, "newest first")
	assert.Equal(t, "t1", res.Trips[2].TripID)
}

func TestListTripsLimit(t *testing.T) {
	router, repo, _ := newTestRouter(t, nil)
	repo.records = append(repo.records, storedTrip("t1"), storedTrip("t2"), storedTrip("t3"))

	rec := do(t, router, http.MethodGet, "/trips?limit=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var res dto.ListTripsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Trips, 2)

	for _, raw := range []string{"zero", "0", "-1"} {
		rec := do(t, router, http.MethodGet, "/trips?limit="+raw, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", raw)
		assert.Equal(t, "limit must be a positive integer", errorMessage(t, rec))
	}
}

func TestCalendarCSV(t *testing.T) {
	router, repo, _ := newTestRouter(t, nil)
	trip := storedTrip("trip-1")
	trip.Calendar = map[string]float64{"2024-05-02": 2.5, "2024-05-01": 1.5}
	repo.records = append(repo.records, trip)

	rec := do(t, router, http.MethodGet, "/trips/trip-1/calendar.csv", "")

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trip_trip-1_calendar.csv")
	assert.Equal(t, "date,distance\n2024-05-01,1.5\n2024-05-02,2.5\n", rec.Body.String(),
		"days must be sorted")
}

func TestCalendarCSVConflictsWithStops(t *testing.T) {
	router, repo, _ := newTestRouter(t, nil)
	trip := storedTrip("trip-1")
	trip.Legs = []domain.LegSummary{
		{Key: "departure"}, {Key: "stage_1"}, {Key: "arrival"},
	}
	trip.Calendar = nil
	repo.records = append(repo.records, trip)

	rec := do(t, router, http.MethodGet, "/trips/trip-1/calendar.csv", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "distance calendar is not available for trips with stops", errorMessage(t, rec))
}

func TestCalendarCSVMissing(t *testing.T) {
	router, repo, _ := newTestRouter(t, nil)
	trip := storedTrip("trip-1")
	trip.Calendar = nil
	repo.records = append(repo.records, trip)

	rec := do(t, router, http.MethodGet, "/trips/trip-1/calendar.csv", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trip has no distance calendar", errorMessage(t, rec))
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-abc-123", rec.Header().Get("X-Request-ID"))

	rec = do(t, router, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), "missing inbound ID should be generated")
}
