package directions

import (
	"context"
	"fmt"

	"github.com/diagmatrix/go-travel/internal/domain"
)

// MockStep scripts one step of a mock leg.
type MockStep struct {
	Meters  int
	Seconds int
}

// MockLeg scripts the provider result for one origin->destination pair,
// keyed by the endpoints' Endpoint() strings.
type MockLeg struct {
	From, To string
	Meters   int
	Seconds  int
	Steps    []MockStep
}

// MockCall records one GetLeg invocation.
type MockCall struct {
	Origin      string
	Destination string
	Anchor      domain.TimeAnchor
	Options     domain.Options
}

// MockProvider implements the RoutingProvider port from scripted legs
// and records every call. Pairs that were not scripted fail, like the
// real provider does for unroutable endpoints.
type MockProvider struct {
	legs  map[string]domain.Leg
	errs  map[string]error
	calls []MockCall
}

func NewMockProvider(legs []MockLeg) *MockProvider {
	m := &MockProvider{
		legs: make(map[string]domain.Leg, len(legs)),
		errs: make(map[string]error),
	}
	for _, l := range legs {
		m.legs[l.From+"|"+l.To] = mockLeg(l)
	}
	return m
}

func mockLeg(l MockLeg) domain.Leg {
	meters, seconds := l.Meters, l.Seconds
	leg := domain.Leg{DistanceMeters: &meters, DurationSeconds: &seconds}
	for _, s := range l.Steps {
		sm, ss := s.Meters, s.Seconds
		leg.Steps = append(leg.Steps, domain.Step{DistanceMeters: &sm, DurationSeconds: &ss})
	}
	return leg
}

// SetLeg replaces the scripted result for one pair with a raw leg, nil
// fields included. Useful for malformed-response tests.
func (m *MockProvider) SetLeg(from, to string, leg domain.Leg) {
	m.legs[from+"|"+to] = leg
}

// FailWith makes GetLeg fail for one pair. A nil error clears a
// previously scripted failure.
func (m *MockProvider) FailWith(from, to string, err error) {
	m.errs[from+"|"+to] = err
}

// Calls returns every GetLeg invocation in order, failed ones included.
func (m *MockProvider) Calls() []MockCall { return m.calls }

// CallCount returns the number of GetLeg invocations so far.
func (m *MockProvider) CallCount() int { return len(m.calls) }

func (m *MockProvider) GetLeg(
	ctx context.Context,
	origin, destination domain.Location,
	anchor domain.TimeAnchor,
	opts domain.Options,
) (domain.Leg, error) {
	m.calls = append(m.calls, MockCall{
		Origin:      origin.Endpoint(),
		Destination: destination.Endpoint(),
		Anchor:      anchor,
		Options:     opts,
	})

	key := origin.Endpoint() + "|" + destination.Endpoint()
	if err := m.errs[key]; err != nil {
		return domain.Leg{}, err
	}

	leg, ok := m.legs[key]
	if !ok {
		return domain.Leg{}, fmt.Errorf("missing pair %q -> %q", origin.Endpoint(), destination.Endpoint())
	}
	return leg.Clone(), nil
}
