package domain

import "fmt"

// Step is the finest routed sub-unit within a leg. Nil metric fields
// mean the provider response omitted them; a present zero is a valid
// value.
type Step struct {
	DistanceMeters  *int
	DurationSeconds *int
}

// Clone returns a copy of the step with its own metric pointers.
func (s Step) Clone() Step {
	return Step{
		DistanceMeters:  cloneInt(s.DistanceMeters),
		DurationSeconds: cloneInt(s.DurationSeconds),
	}
}

// Leg is one routed segment between two consecutive trip points, as
// returned by the provider. Nil metric fields mean the response
// omitted them.
type Leg struct {
	DistanceMeters  *int
	DurationSeconds *int
	Steps           []Step
}

// Clone returns a deep copy of the leg.
func (l Leg) Clone() Leg {
	out := Leg{
		DistanceMeters:  cloneInt(l.DistanceMeters),
		DurationSeconds: cloneInt(l.DurationSeconds),
	}
	if l.Steps != nil {
		out.Steps = make([]Step, len(l.Steps))
		for i, s := range l.Steps {
			out.Steps[i] = s.Clone()
		}
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// InvalidResponseError reports a provider result missing a field that a
// derived metric needs. Field is the path of the absent value.
type InvalidResponseError struct {
	Field string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid provider response: missing %s", e.Field)
}
