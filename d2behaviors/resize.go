package d2behaviors

import (
	"cdr.dev/slog"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/gesture"
	"oss.terrastruct.com/d2canvas/lib/log"
)

// ResizeBehavior resizes a node while one of its resizers is dragged.
type ResizeBehavior struct {
	d     *d2diagram.Diagram
	scope event.Scope
	state gesture.State[resizing]
}

type resizing struct {
	node      *d2diagram.Node
	alignment geo.Orientation

	origin     geo.Point
	originSize geo.Dimensions
	clientX    float64
	clientY    float64
}

func NewResizeBehavior(d *d2diagram.Diagram) *ResizeBehavior {
	b := &ResizeBehavior{d: d}
	b.scope.Add(
		d.PointerDown.Subscribe(b.onPointerDown),
		d.PointerMove.Subscribe(b.onPointerMove),
		d.PointerUp.Subscribe(b.onPointerUp),
	)
	return b
}

func (b *ResizeBehavior) onPointerDown(in d2diagram.PointerInput) {
	b.state.End()
	r, ok := in.Target.(*d2diagram.Resizer)
	if !ok {
		return
	}
	n := r.Node()
	if n == nil || n.Locked() {
		return
	}
	size := n.Size()
	if size == nil {
		return
	}
	b.state.Start(resizing{
		node:       n,
		alignment:  r.Alignment,
		origin:     *n.Position(),
		originSize: *size,
		clientX:    in.ClientX,
		clientY:    in.ClientY,
	})
	log.Debug(b.d.Context(), "resize started", slog.F("node", n.ID()), slog.F("alignment", r.Alignment.String()))
}

func (b *ResizeBehavior) onPointerMove(in d2diagram.PointerInput) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	dx := in.ClientX - s.clientX
	dy := in.ClientY - s.clientY
	if b.d.Options.Resize.ScaleByZoom {
		dx /= b.d.Zoom()
		dy /= b.d.Zoom()
	}

	w, h := s.originSize.Width, s.originSize.Height
	x, y := s.origin.X, s.origin.Y
	switch s.alignment {
	case geo.TopLeft:
		w, h, x, y = w-dx, h-dy, x+dx, y+dy
	case geo.TopRight:
		w, h, y = w+dx, h-dy, y+dy
	case geo.BottomLeft:
		w, h, x = w-dx, h+dy, x+dx
	case geo.BottomRight:
		w, h = w+dx, h+dy
	case geo.Top:
		h, y = h-dy, y+dy
	case geo.Bottom:
		h = h + dy
	case geo.Left:
		w, x = w-dx, x+dx
	case geo.Right:
		w = w + dx
	default:
		return
	}

	n := s.node
	cur := n.Position()
	if w < n.MinimumDimensions.Width {
		w = n.MinimumDimensions.Width
		x = cur.X
	}
	if h < n.MinimumDimensions.Height {
		h = n.MinimumDimensions.Height
		y = cur.Y
	}

	b.d.Batch(func() {
		n.SetSize(w, h)
		n.SetPosition(x, y)
	})
}

func (b *ResizeBehavior) onPointerUp(d2diagram.PointerInput) {
	s, ok := b.state.Active()
	if !ok {
		return
	}
	log.Debug(b.d.Context(), "resize ended", slog.F("node", s.node.ID()))
	b.state.End()
}

func (b *ResizeBehavior) Dispose() {
	b.scope.Close()
	b.state.End()
}
