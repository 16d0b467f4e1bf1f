package geo

import "fmt"

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func NewPoint(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

func (p1 *Point) Equals(p2 *Point) bool {
	if p1 == nil {
		return p2 == nil
	} else if p2 == nil {
		return false
	}
	return (p1.X == p2.X) && (p1.Y == p2.Y)
}

func (p *Point) Copy() *Point {
	if p == nil {
		return nil
	}
	return &Point{X: p.X, Y: p.Y}
}

// Add returns p translated by (dx, dy).
func (p *Point) Add(dx, dy float64) *Point {
	return NewPoint(p.X+dx, p.Y+dy)
}

func (p *Point) DistanceTo(o *Point) float64 {
	return EuclideanDistance(p.X, p.Y, o.X, o.Y)
}

// MoveTowards returns p moved distance units along the line to target.
// p is returned unchanged when both points coincide.
func (p *Point) MoveTowards(target *Point, distance float64) *Point {
	v := p.VectorTo(target)
	if v.Length() == 0 {
		return p.Copy()
	}
	return p.AddVector(v.Unit().Multiply(distance))
}

func (p *Point) ToString() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}

// Moves the given point by Vector
func (start *Point) AddVector(v Vector) *Point {
	return start.ToVector().Add(v).ToPoint()
}

// Creates a Vector of the size between start and endpoint, pointing to endpoint
func (start *Point) VectorTo(endpoint *Point) Vector {
	return endpoint.ToVector().Minus(start.ToVector())
}

// Creates a Vector pointing to point
func (endpoint *Point) ToVector() Vector {
	return []float64{endpoint.X, endpoint.Y}
}

// IntersectionPoint returns the point of intersection between line segments u and v,
// or nil if they do not intersect.
func IntersectionPoint(u0, u1, v0, v1 *Point) *Point {
	// x = u0.X + s * (u1.X - u0.X)
	//   = v0.X + t * (v1.X - v0.X)
	// y = u0.Y + s * (u1.Y - u0.Y)
	//   = v0.Y + t * (v1.Y - v0.Y)
	udx := u1.X - u0.X
	vdx := v1.X - v0.X
	uvdx := v0.X - u0.X
	udy := u1.Y - u0.Y
	vdy := v1.Y - v0.Y
	uvdy := v0.Y - u0.Y

	denom := (udy*vdx - udx*vdy)
	if denom == 0 {
		// parallel
		return nil
	}
	// Cramer's rule
	s := (vdx*uvdy - vdy*uvdx) / denom
	t := (udx*uvdy - udy*uvdx) / denom

	if s < -PRECISION || s > 1+PRECISION || t < -PRECISION || t > 1+PRECISION {
		return nil
	}

	return NewPoint(u0.X+s*udx, u0.Y+s*udy)
}
