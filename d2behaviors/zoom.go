package d2behaviors

import (
	"cdr.dev/slog"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/go2"
	"oss.terrastruct.com/d2canvas/lib/log"
)

// ZoomBehavior zooms with the wheel, keeping the diagram point under the pointer in place.
type ZoomBehavior struct {
	d     *d2diagram.Diagram
	scope event.Scope
}

func NewZoomBehavior(d *d2diagram.Diagram) *ZoomBehavior {
	b := &ZoomBehavior{d: d}
	b.scope.Add(d.Wheel.Subscribe(b.onWheel))
	return b
}

func (b *ZoomBehavior) onWheel(e d2diagram.WheelEvent) {
	opts := b.d.Options.Zoom
	container := b.d.Container()
	if !opts.Enabled || container == nil || e.DeltaY == 0 {
		return
	}

	in := e.DeltaY > 0
	if opts.Inverse {
		in = !in
	}
	old := b.d.Zoom()
	zoom := old / opts.ScaleFactor
	if in {
		zoom = old * opts.ScaleFactor
	}
	zoom = go2.Clamp(zoom, opts.Minimum, opts.Maximum)
	if zoom == old {
		return
	}

	pan := b.d.Pan()
	widthDiff := container.Width*zoom - container.Width*old
	heightDiff := container.Height*zoom - container.Height*old
	xFactor := (e.ClientX - container.Left() - pan.X) / old / container.Width
	yFactor := (e.ClientY - container.Top() - pan.Y) / old / container.Height

	b.d.Batch(func() {
		b.d.SetPan(pan.X-widthDiff*xFactor, pan.Y-heightDiff*yFactor)
		err := b.d.SetZoom(zoom)
		if err != nil {
			log.Error(b.d.Context(), "failed to zoom", slog.Error(err))
		}
	})
}

func (b *ZoomBehavior) Dispose() {
	b.scope.Close()
}
