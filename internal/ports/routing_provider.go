package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/diagmatrix/go-travel/internal/domain"
)

// ErrLocationNotFound reports a leg endpoint the provider could not
// resolve.
var ErrLocationNotFound = errors.New("location not found")

// InvalidRequestError reports a request shape the provider rejected.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid routing request: %s", e.Message)
}

// APIError is any other provider-side failure, carrying the provider's
// own status code.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("routing api error: %s", e.Code)
	}
	return fmt.Sprintf("routing api error: %s: %s", e.Code, e.Message)
}

// Contract for fetching one routed leg between two endpoints.
type RoutingProvider interface {
	// Return distance, duration and steps for a single leg, pinned in
	// time by the anchor.
	GetLeg(ctx context.Context, origin, destination domain.Location, anchor domain.TimeAnchor, opts domain.Options) (domain.Leg, error)
}
