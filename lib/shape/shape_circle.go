package shape

import (
	"math"

	"oss.terrastruct.com/d2canvas/lib/geo"
)

type shapeCircle struct {
	*baseShape
}

func NewCircle(box *geo.Box) Shape {
	return shapeCircle{
		baseShape: &baseShape{
			Type: CIRCLE_TYPE,
			Box:  box,
		},
	}
}

// Perimeter is the largest circle centered in the box.
func (s shapeCircle) Perimeter() []geo.Intersectable {
	r := math.Min(s.Box.Width, s.Box.Height) / 2
	return []geo.Intersectable{geo.NewEllipse(s.Box.Center(), r, r)}
}
