package geo

import "math"

// Ellipse is an axis aligned ellipse with radii Rx and Ry.
type Ellipse struct {
	Center *Point
	Rx     float64
	Ry     float64
}

func NewEllipse(center *Point, rx, ry float64) *Ellipse {
	return &Ellipse{
		Center: center,
		Rx:     rx,
		Ry:     ry,
	}
}

// Intersections returns the points where segment crosses the outline of e, ordered from
// the start of segment. A tangent segment yields a single point.
func (e Ellipse) Intersections(segment Segment) []*Point {
	if e.Rx <= 0 || e.Ry <= 0 {
		return nil
	}
	a2 := e.Rx * e.Rx
	b2 := e.Ry * e.Ry

	// Points of the segment are start + t*d for t in [0, 1]. Substituting into
	// x²/a² + y²/b² = 1, relative to the center and scaled by a²b², gives
	// qa*t² + qb*t + qc = 0.
	sx := segment.Start.X - e.Center.X
	sy := segment.Start.Y - e.Center.Y
	dx := segment.End.X - segment.Start.X
	dy := segment.End.Y - segment.Start.Y

	qa := dx*dx*b2 + dy*dy*a2
	qb := 2 * (sx*dx*b2 + sy*dy*a2)
	qc := sx*sx*b2 + sy*sy*a2 - a2*b2
	if qa == 0 {
		return nil
	}

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	var ts []float64
	if disc == 0 {
		ts = []float64{-qb / (2 * qa)}
	} else {
		root := math.Sqrt(disc)
		ts = []float64{(-qb - root) / (2 * qa), (-qb + root) / (2 * qa)}
	}

	var out []*Point
	for _, t := range ts {
		if PrecisionCompare(t, 0, PRECISION) < 0 || PrecisionCompare(t, 1, PRECISION) > 0 {
			continue
		}
		out = append(out, NewPoint(segment.Start.X+t*dx, segment.Start.Y+t*dy))
	}
	return out
}
