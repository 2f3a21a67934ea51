package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diagmatrix/go-travel/internal/domain"
	"github.com/diagmatrix/go-travel/internal/platform/obs"
	"github.com/diagmatrix/go-travel/internal/ports"
)

const defaultListLimit = 50

// Postgres-backed implementation of the TripRepository port. Leg
// summaries and the distance calendar are stored as JSONB documents;
// the calendar column is NULL for trips that have none.
type PostgresTripRepository struct{ DB *sql.DB }

func NewPostgresTripRepository(db *sql.DB) *PostgresTripRepository {
	return &PostgresTripRepository{DB: db}
}

// Store one planned trip record, replacing any previous record with the
// same ID.
func (p *PostgresTripRepository) SaveTrip(ctx context.Context, rec *domain.TripRecord) (err error) {
	defer obs.Time(ctx, "repository.SaveTrip")(&err)

	if p.DB == nil {
		return errors.New("postgres trip repository: DB is nil")
	}
	if rec == nil || rec.TripID == "" {
		return errors.New("save trip: record has no trip ID")
	}

	legs, err := json.Marshal(rec.Legs)
	if err != nil {
		return fmt.Errorf("save trip: marshal legs: %w", err)
	}

	var calendar []byte
	if rec.Calendar != nil {
		calendar, err = json.Marshal(rec.Calendar)
		if err != nil {
			return fmt.Errorf("save trip: marshal calendar: %w", err)
		}
	}

	query := `
	INSERT INTO trips (
		trip_id,
		origin,
		destination,
		departure,
		arrival,
		distance,
		travel_seconds,
		trip_days,
		units,
		legs,
		calendar,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (trip_id) DO UPDATE SET
		origin = EXCLUDED.origin,
		destination = EXCLUDED.destination,
		departure = EXCLUDED.departure,
		arrival = EXCLUDED.arrival,
		distance = EXCLUDED.distance,
		travel_seconds = EXCLUDED.travel_seconds,
		trip_days = EXCLUDED.trip_days,
		units = EXCLUDED.units,
		legs = EXCLUDED.legs,
		calendar = EXCLUDED.calendar;
	`

	_, err = p.DB.ExecContext(ctx, query,
		rec.TripID,
		rec.Origin,
		rec.Destination,
		rec.Departure,
		rec.Arrival,
		rec.Distance,
		rec.TravelSeconds,
		rec.TripDays,
		string(rec.Units),
		legs,
		calendar,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save trip %q: %w", rec.TripID, err)
	}

	return nil
}

const tripColumns = `
	trip_id,
	origin,
	destination,
	departure,
	arrival,
	distance,
	travel_seconds,
	trip_days,
	units,
	legs,
	calendar,
	created_at
`

// Retrieve one trip by ID.
func (p *PostgresTripRepository) GetTrip(ctx context.Context, tripID string) (_ *domain.TripRecord, err error) {
	defer obs.Time(ctx, "repository.GetTrip")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres trip repository: DB is nil")
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE trip_id = $1;`

	rec, err := scanTrip(p.DB.QueryRowContext(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get trip %q: %w", tripID, ports.ErrTripNotFound)
		}
		return nil, fmt.Errorf("get trip %q: %w", tripID, err)
	}

	return rec, nil
}

// Retrieve the most recently created trips, newest first.
func (p *PostgresTripRepository) ListTrips(ctx context.Context, limit int) (_ []*domain.TripRecord, err error) {
	defer obs.Time(ctx, "repository.ListTrips")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres trip repository: DB is nil")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC LIMIT $1;`

	rows, err := p.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.TripRecord, 0, limit)
	for rows.Next() {
		rec, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.TripRecord, error) {
	var (
		rec      domain.TripRecord
		units    string
		legs     []byte
		calendar []byte
	)

	err := row.Scan(
		&rec.TripID,
		&rec.Origin,
		&rec.Destination,
		&rec.Departure,
		&rec.Arrival,
		&rec.Distance,
		&rec.TravelSeconds,
		&rec.TripDays,
		&units,
		&legs,
		&calendar,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Units = domain.UnitSystem(units)

	if err := json.Unmarshal(legs, &rec.Legs); err != nil {
		return nil, fmt.Errorf("unmarshal legs: %w", err)
	}
	if len(calendar) > 0 {
		if err := json.Unmarshal(calendar, &rec.Calendar); err != nil {
			return nil, fmt.Errorf("unmarshal calendar: %w", err)
		}
	}

	return &rec, nil
}
