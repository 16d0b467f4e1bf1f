package geo

type Intersectable interface {
	Intersections(segment Segment) []*Point
}

type Segment struct {
	Start *Point
	End   *Point
}

func NewSegment(from, to *Point) *Segment {
	return &Segment{from, to}
}

func (segment Segment) Intersections(otherSegment Segment) []*Point {
	point := IntersectionPoint(segment.Start, segment.End, otherSegment.Start, otherSegment.End)
	if point == nil {
		return nil
	}
	return []*Point{point}
}
