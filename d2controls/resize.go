// Package d2controls provides controls drawn next to diagram entities. ResizeControl is
// a corner handle that resizes its node while dragged.
package d2controls

import (
	"cdr.dev/slog"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/gesture"
	"oss.terrastruct.com/d2canvas/lib/log"
)

// ResizerProvider places a resize handle on a node and turns a drag of that handle into
// new bounds.
type ResizerProvider interface {
	Position(n *d2diagram.Node) *geo.Point
	// Resize returns the bounds of a node that had bounds orig before the handle was
	// dragged by (dx, dy) in diagram units. The size never drops below min.
	Resize(orig *geo.Box, dx, dy float64, min geo.Dimensions) *geo.Box
}

// Corner resizes from one corner of a node. The opposite corner stays in place.
type Corner struct {
	Alignment geo.Orientation
}

var (
	TopLeft     ResizerProvider = Corner{geo.TopLeft}
	TopRight    ResizerProvider = Corner{geo.TopRight}
	BottomLeft  ResizerProvider = Corner{geo.BottomLeft}
	BottomRight ResizerProvider = Corner{geo.BottomRight}
)

func (c Corner) Position(n *d2diagram.Node) *geo.Point {
	b := n.Box()
	if b == nil {
		return nil
	}
	return c.Alignment.PointOnBox(b)
}

func (c Corner) Resize(orig *geo.Box, dx, dy float64, min geo.Dimensions) *geo.Box {
	x, y := orig.Left(), orig.Top()
	w, h := orig.Width, orig.Height

	left := c.Alignment == geo.TopLeft || c.Alignment == geo.BottomLeft
	top := c.Alignment == geo.TopLeft || c.Alignment == geo.TopRight

	if left {
		w -= dx
		x += dx
	} else {
		w += dx
	}
	if top {
		h -= dy
		y += dy
	} else {
		h += dy
	}

	if w < min.Width {
		w = min.Width
		if left {
			x = orig.Right() - w
		}
	}
	if h < min.Height {
		h = min.Height
		if top {
			y = orig.Bottom() - h
		}
	}
	return geo.NewBox(geo.NewPoint(x, y), w, h)
}

// ResizeControl is an executable control that resizes the node it is shown for.
type ResizeControl struct {
	Provider ResizerProvider

	state gesture.State[resizing]
}

type resizing struct {
	d     *d2diagram.Diagram
	node  *d2diagram.Node
	scope *event.Scope

	orig    *geo.Box
	clientX float64
	clientY float64
	panX    float64
	panY    float64
}

func NewResizeControl(p ResizerProvider) *ResizeControl {
	return &ResizeControl{Provider: p}
}

func (c *ResizeControl) Position(m d2diagram.Model) *geo.Point {
	n, ok := m.(*d2diagram.Node)
	if !ok {
		return nil
	}
	return c.Provider.Position(n)
}

// Execute starts a resize gesture on m. The gesture follows pointer moves and pans of
// d until the next pointer up.
func (c *ResizeControl) Execute(d *d2diagram.Diagram, m d2diagram.Model, e d2diagram.PointerEvent) {
	c.end()
	n, ok := m.(*d2diagram.Node)
	if !ok || n.Locked() {
		return
	}
	orig := n.Box()
	if orig == nil {
		return
	}

	sc := &event.Scope{}
	s := c.state.Start(resizing{
		d:       d,
		node:    n,
		scope:   sc,
		orig:    orig,
		clientX: e.ClientX,
		clientY: e.ClientY,
	})
	sc.Add(
		d.PointerMove.Subscribe(func(in d2diagram.PointerInput) {
			c.resize(s, in.ClientX, in.ClientY)
		}),
		d.PanChanged.Subscribe(func(pc d2diagram.PanChange) {
			s.panX += pc.DX
			s.panY += pc.DY
		}),
		d.PointerUp.Subscribe(func(d2diagram.PointerInput) {
			log.Debug(d.Context(), "resize ended", slog.F("node", n.ID()), slog.F("size", n.Size().ToString()))
			c.end()
		}),
	)
	log.Debug(d.Context(), "resize started", slog.F("node", n.ID()))
}

func (c *ResizeControl) resize(s *resizing, clientX, clientY float64) {
	zoom := s.d.Zoom()
	dx := (clientX - s.clientX - s.panX) / zoom
	dy := (clientY - s.clientY - s.panY) / zoom
	b := c.Provider.Resize(s.orig, dx, dy, s.node.MinimumDimensions)

	s.d.Batch(func() {
		s.node.SetSize(b.Width, b.Height)
		s.node.SetPosition(b.Left(), b.Top())
	})
}

// Active reports whether a resize gesture is in progress.
func (c *ResizeControl) Active() bool {
	return c.state.IsActive()
}

func (c *ResizeControl) end() {
	if s, ok := c.state.Active(); ok {
		s.scope.Close()
	}
	c.state.End()
}
