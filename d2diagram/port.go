package d2diagram

import (
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/shape"
)

// PortShape resolves points on the outline of a port.
type PortShape interface {
	PointAtAngle(deg float64) *geo.Point
}

type outline struct {
	shape.Shape
}

func (o outline) PointAtAngle(deg float64) *geo.Point {
	return shape.PointAtAngle(o.Shape, deg)
}

// Port is a link attachment point owned by a node. Its position is absolute.
type Port struct {
	id     string
	nodeID string
	d      *Diagram

	Alignment geo.Orientation
	Enabled   bool
	// ShapeType is a lib/shape type for shape aware anchors. Empty means rectangle.
	ShapeType string
	// CustomShape overrides ShapeType when set.
	CustomShape PortShape

	position    geo.Point
	size        geo.Dimensions
	initialized bool

	Changed event.Event[*Port]
}

func newPort(id string, n *Node, alignment geo.Orientation) *Port {
	return &Port{
		id:        id,
		nodeID:    n.id,
		d:         n.d,
		Alignment: alignment,
		Enabled:   true,
	}
}

func (p *Port) ID() string {
	return p.id
}

// Locked reports whether the owning node is locked.
func (p *Port) Locked() bool {
	n := p.Node()
	return n != nil && n.Locked()
}

func (p *Port) Refresh() {
	p.Changed.Emit(p)
}

func (p *Port) NodeID() string {
	return p.nodeID
}

// Node returns the owning node, or nil when it is not in a diagram.
func (p *Port) Node() *Node {
	if p.d == nil {
		return nil
	}
	return p.d.lookupNode(p.nodeID)
}

func (p *Port) Position() *geo.Point {
	return p.position.Copy()
}

func (p *Port) Size() *geo.Dimensions {
	return geo.NewDimensions(p.size.Width, p.size.Height)
}

// Initialized reports whether the port has been measured.
func (p *Port) Initialized() bool {
	return p.initialized
}

func (p *Port) SetPosition(x, y float64) {
	p.position = geo.Point{X: x, Y: y}
	p.Refresh()
}

// Measure records the rendered bounds of p and marks it initialized.
func (p *Port) Measure(x, y, width, height float64) {
	p.position = geo.Point{X: x, Y: y}
	p.size = geo.Dimensions{Width: width, Height: height}
	p.initialized = true
	p.Refresh()
	p.RefreshLinks()
}

func (p *Port) Bounds() *geo.Box {
	return geo.NewBox(p.position.Copy(), p.size.Width, p.size.Height)
}

func (p *Port) Middle() *geo.Point {
	return geo.NewPoint(p.position.X+p.size.Width/2, p.position.Y+p.size.Height/2)
}

// Shape returns the outline used to resolve shape aware anchors.
func (p *Port) Shape() PortShape {
	if p.CustomShape != nil {
		return p.CustomShape
	}
	return outline{shape.NewShape(p.ShapeType, p.Bounds())}
}

// SetPositionOnNodeSizeChanged keeps p on its aligned edge after the owning node grew
// by (dw, dh).
func (p *Port) SetPositionOnNodeSizeChanged(dw, dh float64) {
	x, y := p.position.X, p.position.Y
	switch p.Alignment {
	case geo.Top:
		x += dw / 2
	case geo.TopRight:
		x += dw
	case geo.Right:
		x += dw
		y += dh / 2
	case geo.BottomRight:
		x += dw
		y += dh
	case geo.Bottom:
		x += dw / 2
		y += dh
	case geo.BottomLeft:
		y += dh
	case geo.Left:
		y += dh / 2
	}
	p.SetPosition(x, y)
}

// Links returns the links with an endpoint on p.
func (p *Port) Links() []*Link {
	if p.d == nil {
		return nil
	}
	var out []*Link
	for _, l := range p.d.Links.All() {
		if l.Source().Model() == Model(p) || l.Target().Model() == Model(p) {
			out = append(out, l)
		}
	}
	return out
}

func (p *Port) RefreshLinks() {
	for _, l := range p.Links() {
		l.Refresh()
	}
}

// Resizer is a resize handle on a node.
type Resizer struct {
	id     string
	nodeID string
	d      *Diagram

	Alignment geo.Orientation
}

func (r *Resizer) ID() string {
	return r.id
}

func (r *Resizer) Locked() bool {
	n := r.Node()
	return n != nil && n.Locked()
}

func (r *Resizer) Refresh() {}

func (r *Resizer) NodeID() string {
	return r.nodeID
}

func (r *Resizer) Node() *Node {
	if r.d == nil {
		return nil
	}
	return r.d.lookupNode(r.nodeID)
}
