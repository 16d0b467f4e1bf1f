package d2diagram

import (
	"math"

	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/shape"
)

// Anchor resolves one end of a link to an absolute point.
type Anchor interface {
	// Model is the entity the anchor is bound to, or nil for a free position.
	Model() Model
	// PlainPosition is the position other anchors measure against, ignoring routing.
	PlainPosition() *geo.Point
	// Resolve returns the endpoint of l for this anchor, or nil when the geometry it
	// depends on has not been measured yet.
	Resolve(l *Link, route geo.Route) *geo.Point
}

// isTarget reports whether a is the target end of l.
func isTarget(l *Link, a Anchor) bool {
	return l != nil && l.target == a
}

// referencePoint is what an anchor on one end of l aims at: the nearest route vertex,
// or the plain position of the other end.
func referencePoint(l *Link, a Anchor, route geo.Route) *geo.Point {
	target := isTarget(l, a)
	if len(route) > 0 {
		if target {
			return route.Last().Copy()
		}
		return route.First().Copy()
	}
	if l == nil {
		return nil
	}
	if target {
		return l.source.PlainPosition()
	}
	return l.target.PlainPosition()
}

type PositionAnchor struct {
	position geo.Point
}

func NewPositionAnchor(p *geo.Point) *PositionAnchor {
	return &PositionAnchor{position: *p}
}

func (a *PositionAnchor) Model() Model {
	return nil
}

func (a *PositionAnchor) SetPosition(p *geo.Point) {
	a.position = *p
}

func (a *PositionAnchor) PlainPosition() *geo.Point {
	return a.position.Copy()
}

func (a *PositionAnchor) Resolve(*Link, geo.Route) *geo.Point {
	return a.position.Copy()
}

// SinglePortAnchor binds a link end to one port.
type SinglePortAnchor struct {
	Port *Port
	// MiddleIfNoMarker resolves to the port middle when this end has no marker.
	MiddleIfNoMarker bool
	// UseShapeAndAlignment resolves through the port shape at the angle of its alignment.
	// Otherwise the alignment picks a corner or edge midpoint of the port bounds.
	UseShapeAndAlignment bool
}

func NewSinglePortAnchor(p *Port) *SinglePortAnchor {
	return &SinglePortAnchor{
		Port:                 p,
		UseShapeAndAlignment: true,
	}
}

func (a *SinglePortAnchor) Model() Model {
	return a.Port
}

func (a *SinglePortAnchor) PlainPosition() *geo.Point {
	return a.Port.Middle()
}

func (a *SinglePortAnchor) Resolve(l *Link, _ geo.Route) *geo.Point {
	if !a.Port.Initialized() {
		return nil
	}
	if a.MiddleIfNoMarker && l != nil {
		marker := l.SourceMarker
		if isTarget(l, a) {
			marker = l.TargetMarker
		}
		if marker == nil {
			return a.Port.Middle()
		}
	}
	if a.UseShapeAndAlignment {
		deg, ok := a.Port.Alignment.Degrees()
		if !ok {
			return a.Port.Middle()
		}
		return a.Port.Shape().PointAtAngle(deg)
	}
	return a.Port.Alignment.PointOnBox(a.Port.Bounds())
}

// PositionProvider produces one candidate point for a DynamicAnchor.
type PositionProvider interface {
	// Position returns nil when the node is not measured.
	Position(n *Node) *geo.Point
}

// BoundsBasedPositionProvider places a candidate at a fraction of the node bounds
// plus a fixed offset.
type BoundsBasedPositionProvider struct {
	X       float64
	Y       float64
	OffsetX float64
	OffsetY float64
}

func (p BoundsBasedPositionProvider) Position(n *Node) *geo.Point {
	b := n.Box()
	if b == nil {
		return nil
	}
	return geo.NewPoint(b.Left()+b.Width*p.X+p.OffsetX, b.Top()+b.Height*p.Y+p.OffsetY)
}

// GridPositionProviders returns the 9 providers for the corners, edge midpoints and
// center of a node.
func GridPositionProviders() []PositionProvider {
	var out []PositionProvider
	for _, y := range []float64{0, 0.5, 1} {
		for _, x := range []float64{0, 0.5, 1} {
			out = append(out, BoundsBasedPositionProvider{X: x, Y: y})
		}
	}
	return out
}

// DynamicAnchor picks, among the candidates of its providers, the one closest to what
// the link end points at.
type DynamicAnchor struct {
	Node      *Node
	Providers []PositionProvider
}

func NewDynamicAnchor(n *Node, providers ...PositionProvider) *DynamicAnchor {
	if len(providers) == 0 {
		providers = GridPositionProviders()
	}
	return &DynamicAnchor{
		Node:      n,
		Providers: providers,
	}
}

func (a *DynamicAnchor) Model() Model {
	return a.Node
}

func (a *DynamicAnchor) PlainPosition() *geo.Point {
	b := a.Node.Box()
	if b == nil {
		return nil
	}
	return b.Center()
}

func (a *DynamicAnchor) Resolve(l *Link, route geo.Route) *geo.Point {
	if a.Node.Size() == nil {
		return nil
	}
	ref := referencePoint(l, a, route)
	if ref == nil {
		return nil
	}

	var closest *geo.Point
	closestD := math.Inf(1)
	for _, provider := range a.Providers {
		p := provider.Position(a.Node)
		if p == nil {
			continue
		}
		if d := p.DistanceTo(ref); d < closestD {
			closestD = d
			closest = p
		}
	}
	return closest
}

// ShapeAnchor binds a link end directly to a node and resolves on its outline.
type ShapeAnchor struct {
	Node *Node
}

func NewShapeAnchor(n *Node) *ShapeAnchor {
	return &ShapeAnchor{Node: n}
}

func (a *ShapeAnchor) Model() Model {
	return a.Node
}

func (a *ShapeAnchor) PlainPosition() *geo.Point {
	b := a.Node.Box()
	if b == nil {
		return nil
	}
	return b.Center()
}

func (a *ShapeAnchor) Resolve(l *Link, route geo.Route) *geo.Point {
	b := a.Node.Box()
	if b == nil {
		return nil
	}
	center := b.Center()
	ref := referencePoint(l, a, route)
	if ref == nil || b.Contains(ref) {
		return center
	}
	crossings := b.Intersections(geo.Segment{Start: center, End: ref})
	if len(crossings) == 0 {
		return center
	}
	return shape.TraceToShapeBorder(shape.NewShape(a.Node.Shape, b), crossings[0], ref)
}
