package d2diagram

import (
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
)

// Control is an overlay widget drawn next to a model, like a resize handle.
type Control interface {
	// Position returns where the control is drawn for m, or nil to hide it.
	Position(m Model) *geo.Point
}

// ExecutableControl runs when the pointer is pressed on it.
type ExecutableControl interface {
	Control
	Execute(d *Diagram, m Model, e PointerEvent)
}

// ControlTarget is the pointer target of a control drawn for Model.
type ControlTarget struct {
	Control ExecutableControl
	Model   Model
}

func (t ControlTarget) ID() string {
	return t.Model.ID()
}

func (t ControlTarget) Locked() bool {
	return t.Model.Locked()
}

func (t ControlTarget) Refresh() {}

type ControlsContainer struct {
	Model    Model
	Visible  bool
	controls []Control

	Changed event.Event[*ControlsContainer]
}

func (c *ControlsContainer) Add(ctrl Control) *ControlsContainer {
	c.controls = append(c.controls, ctrl)
	c.Changed.Emit(c)
	return c
}

func (c *ControlsContainer) Controls() []Control {
	return append([]Control(nil), c.controls...)
}

func (c *ControlsContainer) Show() {
	c.Visible = true
	c.Changed.Emit(c)
}

func (c *ControlsContainer) Hide() {
	c.Visible = false
	c.Changed.Emit(c)
}

type ControlsLayer struct {
	d          *Diagram
	containers map[string]*ControlsContainer

	Added   event.Event[*ControlsContainer]
	Removed event.Event[*ControlsContainer]
}

// AddFor returns the container of m, creating it when needed.
func (l *ControlsLayer) AddFor(m Model) *ControlsContainer {
	if c, ok := l.containers[m.ID()]; ok {
		return c
	}
	c := &ControlsContainer{Model: m}
	l.containers[m.ID()] = c
	l.Added.Emit(c)
	return c
}

func (l *ControlsLayer) GetFor(m Model) *ControlsContainer {
	return l.containers[m.ID()]
}

func (l *ControlsLayer) RemoveFor(m Model) bool {
	c, ok := l.containers[m.ID()]
	if !ok {
		return false
	}
	delete(l.containers, m.ID())
	l.Removed.Emit(c)
	return true
}

func (l *ControlsLayer) Len() int {
	return len(l.containers)
}
