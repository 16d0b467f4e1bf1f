package d2behaviors

import (
	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
)

// SelectionBehavior selects what the pointer is pressed on. Pressing the empty canvas
// clears the selection.
type SelectionBehavior struct {
	d     *d2diagram.Diagram
	scope event.Scope
}

func NewSelectionBehavior(d *d2diagram.Diagram) *SelectionBehavior {
	b := &SelectionBehavior{d: d}
	b.scope.Add(d.PointerDown.Subscribe(b.onPointerDown))
	return b
}

func (b *SelectionBehavior) onPointerDown(in d2diagram.PointerInput) {
	if in.Target == nil {
		b.d.UnselectAll()
		return
	}
	s, ok := in.Target.(d2diagram.Selectable)
	if !ok {
		return
	}
	switch {
	case in.CtrlKey && s.Selected():
		b.d.UnselectModel(s)
	case !s.Selected():
		b.d.SelectModel(s, !in.CtrlKey || !b.d.Options.AllowMultiSelection)
	}
}

func (b *SelectionBehavior) Dispose() {
	b.scope.Close()
}
