package directions

import (
	"github.com/diagmatrix/go-travel/internal/domain"
	"github.com/diagmatrix/go-travel/internal/ports"
)

// Wire types for the Directions API response. Metric values stay
// pointers end to end: an absent field must remain distinguishable from
// a present zero, the engine decides at read time which ones it needs.
type directionsResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Routes       []routePayload `json:"routes"`
}

type routePayload struct {
	Legs []legPayload `json:"legs"`
}

type legPayload struct {
	Distance *metricPayload `json:"distance"`
	Duration *metricPayload `json:"duration"`
	Steps    []stepPayload  `json:"steps"`
}

type stepPayload struct {
	Distance *metricPayload `json:"distance"`
	Duration *metricPayload `json:"duration"`
}

type metricPayload struct {
	Value *int   `json:"value"`
	Text  string `json:"text"`
}

// mapStatus translates a Directions API status into the routing error
// taxonomy. NOT_FOUND and ZERO_RESULTS both mean an endpoint could not
// be routed.
func mapStatus(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "NOT_FOUND", "ZERO_RESULTS":
		return ports.ErrLocationNotFound
	case "INVALID_REQUEST":
		return &ports.InvalidRequestError{Message: message}
	default:
		return &ports.APIError{Code: status, Message: message}
	}
}

// firstLeg converts the first leg of the first route into the domain
// shape. Validation here is structural only (a route with a leg exists);
// field presence is the engine's concern.
func (r directionsResponse) firstLeg() (domain.Leg, error) {
	if len(r.Routes) == 0 || len(r.Routes[0].Legs) == 0 {
		return domain.Leg{}, &ports.APIError{Code: r.Status, Message: "response contains no legs"}
	}

	lp := r.Routes[0].Legs[0]
	leg := domain.Leg{
		DistanceMeters:  lp.Distance.intValue(),
		DurationSeconds: lp.Duration.intValue(),
	}
	for _, sp := range lp.Steps {
		leg.Steps = append(leg.Steps, domain.Step{
			DistanceMeters:  sp.Distance.intValue(),
			DurationSeconds: sp.Duration.intValue(),
		})
	}
	return leg, nil
}

func (m *metricPayload) intValue() *int {
	if m == nil || m.Value == nil {
		return nil
	}
	v := *m.Value
	return &v
}
