package shape

import (
	"oss.terrastruct.com/d2canvas/lib/geo"
)

type shapeDiamond struct {
	*baseShape
}

func NewDiamond(box *geo.Box) Shape {
	return shapeDiamond{
		baseShape: &baseShape{
			Type: DIAMOND_TYPE,
			Box:  box,
		},
	}
}

func (s shapeDiamond) Perimeter() []geo.Intersectable {
	return polygon(s.Box,
		[2]float64{0.5, 0},
		[2]float64{1, 0.5},
		[2]float64{0.5, 1},
		[2]float64{0, 0.5},
	)
}
