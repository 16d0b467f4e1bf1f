// Package gesture holds the state of a pointer gesture: idle, or active with a payload.
package gesture

// State is idle until Start and carries the payload of the active gesture.
// The zero value is idle.
type State[T any] struct {
	active  bool
	payload T
}

// Start makes the gesture active with payload, replacing any gesture in flight.
func (s *State[T]) Start(payload T) *T {
	s.active = true
	s.payload = payload
	return &s.payload
}

// Active returns the payload of the active gesture.
func (s *State[T]) Active() (*T, bool) {
	if !s.active {
		return nil, false
	}
	return &s.payload, true
}

func (s *State[T]) IsActive() bool {
	return s.active
}

// End returns to idle and drops the payload.
func (s *State[T]) End() {
	var zero T
	s.active = false
	s.payload = zero
}
