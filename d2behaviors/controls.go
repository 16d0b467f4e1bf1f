package d2behaviors

import (
	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
)

// ControlsBehavior executes controls when they are pressed and shows the controls of
// selected entities.
type ControlsBehavior struct {
	d     *d2diagram.Diagram
	scope event.Scope
}

func NewControlsBehavior(d *d2diagram.Diagram) *ControlsBehavior {
	b := &ControlsBehavior{d: d}
	b.scope.Add(
		d.PointerDown.Subscribe(b.onPointerDown),
		d.SelectionChanged.Subscribe(b.onSelectionChanged),
	)
	return b
}

func (b *ControlsBehavior) onPointerDown(in d2diagram.PointerInput) {
	t, ok := in.Target.(d2diagram.ControlTarget)
	if !ok || t.Control == nil || t.Model == nil {
		return
	}
	t.Control.Execute(b.d, t.Model, in.PointerEvent)
}

func (b *ControlsBehavior) onSelectionChanged(s d2diagram.Selectable) {
	c := b.d.Controls.GetFor(s)
	if c == nil {
		return
	}
	if s.Selected() {
		c.Show()
	} else {
		c.Hide()
	}
}

func (b *ControlsBehavior) Dispose() {
	b.scope.Close()
}
