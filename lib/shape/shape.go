// Package shape describes the outlines nodes and ports can take so link endpoints
// can be placed on their actual border instead of their bounding box.
package shape

import (
	"math"

	"oss.terrastruct.com/d2canvas/lib/geo"
)

const (
	SQUARE_TYPE  = "Square"
	DIAMOND_TYPE = "Diamond"
	OVAL_TYPE    = "Oval"
	CIRCLE_TYPE  = "Circle"
	HEXAGON_TYPE = "Hexagon"
)

type Shape interface {
	Is(shape string) bool
	GetType() string

	IsRectangular() bool

	GetBox() *geo.Box

	// Perimeter returns a slice of geo.Intersectables that together constitute the shape border
	Perimeter() []geo.Intersectable
}

type baseShape struct {
	Type string
	Box  *geo.Box
}

func (s baseShape) Is(shapeType string) bool {
	return s.Type == shapeType
}

func (s baseShape) GetType() string {
	return s.Type
}

func (s baseShape) IsRectangular() bool {
	return false
}

func (s baseShape) GetBox() *geo.Box {
	return s.Box
}

func (s baseShape) Perimeter() []geo.Intersectable {
	return []geo.Intersectable{s.Box}
}

// NewShape returns the shape for shapeType. Unknown and empty types are rectangles.
func NewShape(shapeType string, box *geo.Box) Shape {
	switch shapeType {
	case CIRCLE_TYPE:
		return NewCircle(box)
	case DIAMOND_TYPE:
		return NewDiamond(box)
	case HEXAGON_TYPE:
		return NewHexagon(box)
	case OVAL_TYPE:
		return NewOval(box)
	case SQUARE_TYPE:
		return NewSquare(box)
	default:
		return shapeSquare{
			baseShape: &baseShape{
				Type: shapeType,
				Box:  box,
			},
		}
	}
}

// PointAtAngle casts a ray from the center of shape at deg degrees, clockwise from the
// positive x axis, and returns where it leaves the shape.
func PointAtAngle(shape Shape, deg float64) *geo.Point {
	box := shape.GetBox()
	center := box.Center()
	reach := box.Width + box.Height + 1
	end := center.AddVector(geo.NewVectorFromAngle(reach, deg))
	return BorderPoint(shape, center, end)
}

// BorderPoint returns the point where the segment from inside to outside crosses the
// border of shape that is closest to outside. inside is returned when there is no crossing.
func BorderPoint(shape Shape, inside, outside *geo.Point) *geo.Point {
	if p := closestCrossing(shape, geo.Segment{Start: inside, End: outside}, outside); p != nil {
		return p
	}
	return inside.Copy()
}

// TraceToShapeBorder moves rectBorderPoint, where the line coming from prevPoint enters the
// box of shape, onto the outline of shape along the same line. Rectangles return
// rectBorderPoint as is, as does a line that misses the outline.
func TraceToShapeBorder(shape Shape, rectBorderPoint, prevPoint *geo.Point) *geo.Point {
	if shape.Is("") || shape.IsRectangular() {
		return rectBorderPoint
	}
	v := prevPoint.VectorTo(rectBorderPoint)
	if v.Length() == 0 {
		return rectBorderPoint
	}

	// Run the line through the whole box so the far side of the outline is reachable.
	box := shape.GetBox()
	v = v.Unit().Multiply(v.Length() + box.Width + box.Height)
	through := geo.Segment{Start: prevPoint, End: prevPoint.AddVector(v)}
	if p := closestCrossing(shape, through, rectBorderPoint); p != nil {
		return p
	}
	return rectBorderPoint
}

// closestCrossing returns the crossing of segment with the outline of shape nearest to
// target, or nil.
func closestCrossing(shape Shape, segment geo.Segment, target *geo.Point) *geo.Point {
	var closest *geo.Point
	closestD := math.Inf(1)
	for _, side := range shape.Perimeter() {
		for _, p := range side.Intersections(segment) {
			if d := p.DistanceTo(target); d < closestD {
				closestD = d
				closest = p
			}
		}
	}
	return closest.Copy()
}

// polygon returns the closed outline through the given fractions of box.
func polygon(box *geo.Box, fractions ...[2]float64) []geo.Intersectable {
	pts := make([]*geo.Point, 0, len(fractions))
	for _, f := range fractions {
		pts = append(pts, geo.NewPoint(box.Left()+box.Width*f[0], box.Top()+box.Height*f[1]))
	}
	segments := make([]geo.Intersectable, 0, len(pts))
	for i := range pts {
		segments = append(segments, *geo.NewSegment(pts[i], pts[(i+1)%len(pts)]))
	}
	return segments
}
