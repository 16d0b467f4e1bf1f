package d2behaviors

import (
	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/gesture"
)

// PanBehavior pans the canvas while the left button is dragged on empty canvas.
// Holding shift leaves the gesture to other behaviors. Options.AllowPanning turns it off.
type PanBehavior struct {
	d     *d2diagram.Diagram
	scope event.Scope
	state gesture.State[panning]
}

type panning struct {
	initialPan geo.Point
	clientX    float64
	clientY    float64
}

func NewPanBehavior(d *d2diagram.Diagram) *PanBehavior {
	b := &PanBehavior{d: d}
	b.scope.Add(
		d.PointerDown.Subscribe(b.onPointerDown),
		d.PointerMove.Subscribe(b.onPointerMove),
		d.PointerUp.Subscribe(b.onPointerUp),
	)
	return b
}

func (b *PanBehavior) onPointerDown(in d2diagram.PointerInput) {
	b.state.End()
	if !b.d.Options.AllowPanning || in.Button != d2diagram.ButtonLeft || in.Target != nil || in.ShiftKey {
		return
	}
	b.state.Start(panning{
		initialPan: *b.d.Pan(),
		clientX:    in.ClientX,
		clientY:    in.ClientY,
	})
}

func (b *PanBehavior) onPointerMove(in d2diagram.PointerInput) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	b.d.SetPan(s.initialPan.X+in.ClientX-s.clientX, s.initialPan.Y+in.ClientY-s.clientY)
}

func (b *PanBehavior) onPointerUp(d2diagram.PointerInput) {
	b.state.End()
}

func (b *PanBehavior) Dispose() {
	b.scope.Close()
	b.state.End()
}
