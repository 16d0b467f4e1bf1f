// Package d2diagram is the spatial model of an interactive diagram: nodes, ports, links,
// groups and resize handles, the anchors that place link endpoints, and the Diagram that
// owns them together with the viewport and the normalized input event streams.
//
// Everything runs on the caller's goroutine. Handlers subscribed to diagram or entity
// events run synchronously before the triggering call returns.
package d2diagram

import (
	"github.com/google/uuid"
)

// Model is anything a pointer event can target.
type Model interface {
	ID() string
	Locked() bool
	// Refresh notifies observers that the entity should be repainted.
	Refresh()
}

// Selectable is a Model with a selection flag and a z-order.
type Selectable interface {
	Model
	Selected() bool
	Order() int
	SetOrder(order int)

	setSelected(bool)
}

type selectable struct {
	selected bool
	order    int
}

func (s *selectable) Selected() bool {
	return s.selected
}

func (s *selectable) Order() int {
	return s.order
}

func (s *selectable) setSelected(v bool) {
	s.selected = v
}

func newID() string {
	return uuid.NewString()
}
