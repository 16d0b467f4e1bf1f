package shape

import (
	"oss.terrastruct.com/d2canvas/lib/geo"
)

type shapeHexagon struct {
	*baseShape
}

func NewHexagon(box *geo.Box) Shape {
	return shapeHexagon{
		baseShape: &baseShape{
			Type: HEXAGON_TYPE,
			Box:  box,
		},
	}
}

func (s shapeHexagon) Perimeter() []geo.Intersectable {
	return polygon(s.Box,
		[2]float64{0.25, 0},
		[2]float64{0.75, 0},
		[2]float64{1, 0.5},
		[2]float64{0.75, 1},
		[2]float64{0.25, 1},
		[2]float64{0, 0.5},
	)
}
