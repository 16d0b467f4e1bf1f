package d2diagram

import (
	"fmt"

	"cdr.dev/slog"

	"oss.terrastruct.com/d2canvas/lib/log"
)

// Behavior is an interaction attached to a diagram. Dispose releases its subscriptions
// and drops any in-flight gesture state.
type Behavior interface {
	Dispose()
}

// RegisterBehavior attaches b. Only one behavior of each concrete type may be registered.
// A rejected behavior is disposed.
func (d *Diagram) RegisterBehavior(b Behavior) error {
	for _, other := range d.behaviors {
		if fmt.Sprintf("%T", other) == fmt.Sprintf("%T", b) {
			b.Dispose()
			return fmt.Errorf("%T: %w", b, errBehaviorRegistered)
		}
	}
	d.behaviors = append(d.behaviors, b)
	log.Debug(d.ctx, "behavior registered", slog.F("behavior", fmt.Sprintf("%T", b)))
	return nil
}

// GetBehavior returns the registered behavior of type T.
func GetBehavior[T Behavior](d *Diagram) (T, bool) {
	for _, b := range d.behaviors {
		if t, ok := b.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// RemoveBehavior disposes and removes b if it is registered.
func (d *Diagram) RemoveBehavior(b Behavior) bool {
	for i, other := range d.behaviors {
		if other == b {
			b.Dispose()
			d.behaviors = append(d.behaviors[:i:i], d.behaviors[i+1:]...)
			log.Debug(d.ctx, "behavior unregistered", slog.F("behavior", fmt.Sprintf("%T", b)))
			return true
		}
	}
	return false
}

// UnregisterBehavior disposes and removes the registered behavior of type T.
func UnregisterBehavior[T Behavior](d *Diagram) bool {
	for i, b := range d.behaviors {
		if _, ok := b.(T); ok {
			b.Dispose()
			d.behaviors = append(d.behaviors[:i:i], d.behaviors[i+1:]...)
			log.Debug(d.ctx, "behavior unregistered", slog.F("behavior", fmt.Sprintf("%T", b)))
			return true
		}
	}
	return false
}
