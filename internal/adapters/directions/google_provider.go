// Package directions adapts the Google Directions API to the
// RoutingProvider port, plus a scripted mock for tests.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diagmatrix/go-travel/internal/domain"
	"github.com/diagmatrix/go-travel/internal/platform/obs"
	"github.com/diagmatrix/go-travel/internal/ports"
)

const directionsPath = "/maps/api/directions/json"

// GoogleProvider implements RoutingProvider against the Google
// Directions API.
//
// It coordinates:
//   - Query encoding for endpoints, anchors and routing options
//   - External API calls with retry/backoff
//   - Translation of API statuses into the port error taxonomy
//
// The provider is safe for concurrent use.
type GoogleProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

// NewGoogleProvider builds a provider for the given API key. baseURL
// overrides the production endpoint, mainly for tests; empty means the
// default.
func NewGoogleProvider(apiKey, baseURL string) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, errors.New("directions api key is empty")
	}

	if baseURL == "" {
		baseURL = "https://maps.googleapis.com"
	}

	provider := &GoogleProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}

	return provider, nil
}

// GetLeg fetches a single routed leg between two endpoints, pinned in
// time by the anchor.
func (g *GoogleProvider) GetLeg(
	ctx context.Context,
	origin, destination domain.Location,
	anchor domain.TimeAnchor,
	opts domain.Options,
) (_ domain.Leg, err error) {
	defer obs.Time(ctx, "directions.GetLeg")(&err)

	if origin.IsZero() || destination.IsZero() {
		return domain.Leg{}, &ports.InvalidRequestError{Message: "origin and destination must be non-empty"}
	}

	endpoint := g.baseURL + directionsPath
	query := g.legQuery(origin, destination, anchor, opts).Encode()

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.URL.RawQuery = query
		return req, nil
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			return domain.Leg{}, &ports.APIError{
				Code:    fmt.Sprintf("HTTP_%d", he.Code),
				Message: he.Body,
			}
		}
		return domain.Leg{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Leg{}, fmt.Errorf("decode directions response: %w", err)
	}

	if err := mapStatus(decoded.Status, decoded.ErrorMessage); err != nil {
		return domain.Leg{}, err
	}

	return decoded.firstLeg()
}

// legQuery encodes the request parameters the way the Directions API
// expects them: unix-second anchors, pipe-joined multi-value options,
// omitted fields left to provider defaults.
func (g *GoogleProvider) legQuery(
	origin, destination domain.Location,
	anchor domain.TimeAnchor,
	opts domain.Options,
) url.Values {
	q := url.Values{}
	q.Set("origin", origin.Endpoint())
	q.Set("destination", destination.Endpoint())
	q.Set("key", g.apiKey)

	ts := strconv.FormatInt(anchor.Time.Unix(), 10)
	if anchor.Type == domain.AnchorArrival {
		q.Set("arrival_time", ts)
	} else {
		q.Set("departure_time", ts)
	}

	if opts.Mode != "" {
		q.Set("mode", string(opts.Mode))
	}
	if len(opts.Avoid) > 0 {
		q.Set("avoid", pipeJoin(opts.Avoid))
	}
	if opts.Units != "" {
		q.Set("units", string(opts.Units))
	}
	if len(opts.TransitMode) > 0 {
		q.Set("transit_mode", pipeJoin(opts.TransitMode))
	}
	if opts.TransitRoutingPreference != "" {
		q.Set("transit_routing_preference", string(opts.TransitRoutingPreference))
	}
	if opts.TrafficModel != "" {
		q.Set("traffic_model", string(opts.TrafficModel))
	}

	return q
}

func pipeJoin[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}
