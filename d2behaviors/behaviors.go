// Package d2behaviors implements the pointer, wheel and keyboard interactions of a
// d2diagram.Diagram. Each behavior subscribes to the diagram's input events when it is
// created and keeps its own gesture state.
package d2behaviors

import (
	"oss.terrastruct.com/d2canvas/d2diagram"
)

// RegisterDefaults registers the default set of behaviors on d. The wheel behavior is
// chosen by d.Options.Behaviors.Wheel.
func RegisterDefaults(d *d2diagram.Diagram) error {
	behaviors := []d2diagram.Behavior{
		NewSelectionBehavior(d),
		NewDragMovablesBehavior(d),
		NewResizeBehavior(d),
		NewDragNewLinkBehavior(d),
		NewPanBehavior(d),
		NewControlsBehavior(d),
		NewKeyboardShortcutsBehavior(d),
	}
	switch d.Options.Behaviors.Wheel {
	case d2diagram.WheelZoom:
		behaviors = append(behaviors, NewZoomBehavior(d))
	case d2diagram.WheelScroll:
		behaviors = append(behaviors, NewScrollBehavior(d))
	}

	for i, b := range behaviors {
		err := d.RegisterBehavior(b)
		if err != nil {
			for _, r := range behaviors[:i] {
				d.RemoveBehavior(r)
			}
			for _, r := range behaviors[i+1:] {
				r.Dispose()
			}
			return err
		}
	}
	return nil
}
