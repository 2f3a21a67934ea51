package ports

import (
	"context"
	"errors"

	"github.com/diagmatrix/go-travel/internal/domain"
)

// ErrTripNotFound reports a trip ID with no stored record.
var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for persisting and retrieving planned trips.
type TripRepository interface {
	// Store one planned trip record.
	SaveTrip(ctx context.Context, rec *domain.TripRecord) error
	// Retrieve one trip by ID, failing with ErrTripNotFound when absent.
	GetTrip(ctx context.Context, tripID string) (*domain.TripRecord, error)
	// Retrieve the most recently created trips, newest first.
	ListTrips(ctx context.Context, limit int) ([]*domain.TripRecord, error)
}
