package d2behaviors

import (
	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
)

// ScrollBehavior pans the canvas with the wheel.
type ScrollBehavior struct {
	d     *d2diagram.Diagram
	scope event.Scope
}

func NewScrollBehavior(d *d2diagram.Diagram) *ScrollBehavior {
	b := &ScrollBehavior{d: d}
	b.scope.Add(d.Wheel.Subscribe(b.onWheel))
	return b
}

func (b *ScrollBehavior) onWheel(e d2diagram.WheelEvent) {
	if b.d.Container() == nil {
		return
	}
	if e.DeltaX == 0 && e.DeltaY == 0 {
		return
	}
	b.d.UpdatePan(-e.DeltaX, -e.DeltaY)
}

func (b *ScrollBehavior) Dispose() {
	b.scope.Close()
}
