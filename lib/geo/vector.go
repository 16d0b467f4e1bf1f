package geo

import (
	"math"
)

// A N-Dimensional Vector with components (x, y, z, ...) based on the origin
type Vector []float64

// New Vector from components
func NewVector(components ...float64) Vector {
	return components
}

// NewVectorFromAngle returns a Vector of length pointing degrees clockwise from the
// positive x axis, with y growing downwards as on screen.
func NewVectorFromAngle(length, degrees float64) Vector {
	rad := degrees * math.Pi / 180
	x, y := length*math.Cos(rad), length*math.Sin(rad)
	// cos(90°) is not exactly 0 in floating point
	if math.Abs(x) < PRECISION*PRECISION {
		x = 0
	}
	if math.Abs(y) < PRECISION*PRECISION {
		y = 0
	}
	return NewVector(x, y)
}

func (a Vector) Add(b Vector) Vector {
	c := make([]float64, 0, len(a))
	for i := 0; i < len(a); i++ {
		c = append(c, a[i]+b[i])
	}
	return c
}

func (a Vector) Minus(b Vector) Vector {
	c := make([]float64, 0, len(a))
	for i := 0; i < len(a); i++ {
		c = append(c, a[i]-b[i])
	}
	return c
}

func (a Vector) Multiply(v float64) Vector {
	c := make([]float64, 0, len(a))
	for i := 0; i < len(a); i++ {
		c = append(c, a[i]*v)
	}
	return c
}

func (a Vector) Length() float64 {
	sum := 0.0
	for _, comp := range a {
		sum += comp * comp
	}
	return math.Sqrt(sum)
}

// Creates an unit Vector pointing in the same direction of this Vector
func (a Vector) Unit() Vector {
	return a.Multiply(1 / a.Length())
}

func (a Vector) ToPoint() *Point {
	return &Point{a[0], a[1]}
}
