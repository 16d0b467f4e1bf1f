package d2diagram

import (
	"context"
	"fmt"
	"math"

	"cdr.dev/slog"

	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/go2"
	"oss.terrastruct.com/d2canvas/lib/log"
)

type Diagram struct {
	ctx     context.Context
	Options *Options

	Nodes    *NodeLayer
	Links    *LinkLayer
	Groups   *GroupLayer
	Controls *ControlsLayer

	zoom      float64
	pan       geo.Point
	container *geo.Box

	portsByID map[string]*Port

	orderedSelectables []Selectable
	suspendRefresh     int
	suspendSorting     bool

	behaviors []Behavior

	Changed          event.Event[*Diagram]
	ZoomChanged      event.Event[float64]
	PanChanged       event.Event[PanChange]
	ContainerChanged event.Event[*geo.Box]
	SelectionChanged event.Event[Selectable]

	PointerDown  event.Event[PointerInput]
	PointerMove  event.Event[PointerInput]
	PointerUp    event.Event[PointerInput]
	PointerClick event.Event[PointerInput]
	Wheel        event.Event[WheelEvent]
	KeyDown      event.Event[KeyboardEvent]
}

// New returns an empty diagram. ctx carries the logger used by the diagram and its
// behaviors. nil opts means DefaultOptions.
func New(ctx context.Context, opts *Options) (*Diagram, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	opts.applyDefaults()
	err := opts.Validate()
	if err != nil {
		return nil, err
	}

	d := &Diagram{
		ctx:       ctx,
		Options:   opts,
		zoom:      1,
		portsByID: make(map[string]*Port),
	}
	d.Nodes = &NodeLayer{newLayer[*Node](d)}
	d.Links = &LinkLayer{newLayer[*Link](d)}
	d.Groups = &GroupLayer{newLayer[*Node](d)}
	d.Controls = &ControlsLayer{
		d:          d,
		containers: make(map[string]*ControlsContainer),
	}
	log.Debug(ctx, "diagram created")
	return d, nil
}

func (d *Diagram) Context() context.Context {
	return d.ctx
}

func (d *Diagram) Zoom() float64 {
	return d.zoom
}

// SetZoom rejects non positive values and clamps the rest to Options.Zoom.Minimum.
func (d *Diagram) SetZoom(v float64) error {
	if v <= 0 || math.IsNaN(v) {
		return fmt.Errorf("zoom %v: %w", v, ErrInvalidZoom)
	}
	if v < d.Options.Zoom.Minimum {
		v = d.Options.Zoom.Minimum
	}
	d.zoom = v
	d.ZoomChanged.Emit(v)
	d.Refresh()
	return nil
}

func (d *Diagram) Pan() *geo.Point {
	return d.pan.Copy()
}

func (d *Diagram) SetPan(x, y float64) {
	d.UpdatePan(x-d.pan.X, y-d.pan.Y)
}

// UpdatePan shifts the pan offset and emits the applied delta.
func (d *Diagram) UpdatePan(dx, dy float64) {
	d.pan = geo.Point{X: d.pan.X + dx, Y: d.pan.Y + dy}
	d.PanChanged.Emit(PanChange{DX: dx, DY: dy})
	d.Refresh()
}

// Container returns the screen rectangle of the canvas, or nil before it is known.
func (d *Diagram) Container() *geo.Box {
	return d.container.Copy()
}

// SetContainer records the screen rectangle of the canvas. nil clears it.
func (d *Diagram) SetContainer(b *geo.Box) {
	if d.container.Equals(b) {
		return
	}
	d.container = b.Copy()
	d.ContainerChanged.Emit(d.Container())
	d.Refresh()
}

func (d *Diagram) containerOrigin() (float64, float64) {
	if d.container == nil {
		return 0, 0
	}
	return d.container.TopLeft.X, d.container.TopLeft.Y
}

// ScreenPoint maps a diagram point to screen space.
func (d *Diagram) ScreenPoint(x, y float64) *geo.Point {
	left, top := d.containerOrigin()
	return geo.NewPoint(x*d.zoom+d.pan.X+left, y*d.zoom+d.pan.Y+top)
}

// RelativeMousePoint maps a client point to diagram space.
func (d *Diagram) RelativeMousePoint(clientX, clientY float64) *geo.Point {
	left, top := d.containerOrigin()
	return geo.NewPoint((clientX-left-d.pan.X)/d.zoom, (clientY-top-d.pan.Y)/d.zoom)
}

// RelativePoint maps a client point to the container's coordinate space, ignoring
// zoom and pan.
func (d *Diagram) RelativePoint(clientX, clientY float64) *geo.Point {
	left, top := d.containerOrigin()
	return geo.NewPoint(clientX-left, clientY-top)
}

// ZoomToFit zooms and pans so the selected nodes, or all nodes when none is selected,
// fill the container with margin around them.
func (d *Diagram) ZoomToFit(margin float64) {
	if d.container == nil {
		return
	}
	nodes := go2.Filter(d.Nodes.All(), func(n *Node) bool {
		return n.Selected()
	})
	if len(nodes) == 0 {
		nodes = d.Nodes.All()
	}
	var boxes []*geo.Box
	for _, n := range nodes {
		boxes = append(boxes, n.Box())
	}
	bounds := geo.BoundsOf(boxes...)
	if bounds == nil {
		return
	}
	bounds = bounds.Inflate(margin, margin)
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}

	zoom := math.Min(d.container.Width/bounds.Width, d.container.Height/bounds.Height)
	d.Batch(func() {
		err := d.SetZoom(zoom)
		if err != nil {
			log.Warn(d.ctx, "zoom to fit failed", slog.Error(err))
			return
		}
		left, top := d.containerOrigin()
		topLeft := d.ScreenPoint(bounds.Left(), bounds.Top())
		d.UpdatePan(left-topLeft.X, top-topLeft.Y)
	})
}

// Refresh emits Changed unless refreshes are suspended.
func (d *Diagram) Refresh() {
	if d.suspendRefresh > 0 {
		return
	}
	d.Changed.Emit(d)
}

func (d *Diagram) SuspendRefresh() {
	d.suspendRefresh++
}

func (d *Diagram) ResumeRefresh() {
	if d.suspendRefresh > 0 {
		d.suspendRefresh--
	}
}

// Batch runs fn with refreshes suspended and then emits a single Changed. Nested batches
// emit once, when the outermost returns.
func (d *Diagram) Batch(fn func()) {
	d.SuspendRefresh()
	defer func() {
		d.ResumeRefresh()
		d.Refresh()
	}()
	fn()
}

// SelectModel selects s. With unselectOthers every other entity is unselected first.
func (d *Diagram) SelectModel(s Selectable, unselectOthers bool) {
	if s.Selected() && !unselectOthers {
		return
	}
	d.Batch(func() {
		if unselectOthers {
			for _, other := range d.SelectedModels() {
				if other != s {
					d.setSelected(other, false)
				}
			}
		}
		if !s.Selected() {
			d.setSelected(s, true)
		}
	})
}

func (d *Diagram) UnselectModel(s Selectable) {
	if !s.Selected() {
		return
	}
	d.setSelected(s, false)
	d.Refresh()
}

func (d *Diagram) UnselectAll() {
	selected := d.SelectedModels()
	if len(selected) == 0 {
		return
	}
	d.Batch(func() {
		for _, s := range selected {
			d.setSelected(s, false)
		}
	})
}

// SelectedModels returns selected nodes, then links, then groups.
func (d *Diagram) SelectedModels() []Selectable {
	var out []Selectable
	for _, n := range d.Nodes.All() {
		if n.Selected() {
			out = append(out, n)
		}
	}
	for _, l := range d.Links.All() {
		if l.Selected() {
			out = append(out, l)
		}
	}
	for _, g := range d.Groups.All() {
		if g.Selected() {
			out = append(out, g)
		}
	}
	return out
}

func (d *Diagram) setSelected(s Selectable, v bool) {
	s.setSelected(v)
	switch s := s.(type) {
	case *Node:
		s.SelectionChanged.Emit(s)
	case *Link:
		s.SelectionChanged.Emit(s)
	}
	s.Refresh()
	d.SelectionChanged.Emit(s)
}

// GetPort returns the port with id across all nodes and groups.
func (d *Diagram) GetPort(id string) *Port {
	return d.portsByID[id]
}

func (d *Diagram) lookupNode(id string) *Node {
	if n, ok := d.Nodes.Get(id); ok {
		return n
	}
	if g, ok := d.Groups.Get(id); ok {
		return g
	}
	return nil
}

func (d *Diagram) detachHierarchy(n *Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
	if len(n.children) > 0 {
		n.ClearChildren()
	}
}
