package shape

import (
	"oss.terrastruct.com/d2canvas/lib/geo"
)

type shapeOval struct {
	*baseShape
}

func NewOval(box *geo.Box) Shape {
	return shapeOval{
		baseShape: &baseShape{
			Type: OVAL_TYPE,
			Box:  box,
		},
	}
}

func (s shapeOval) Perimeter() []geo.Intersectable {
	return []geo.Intersectable{geo.NewEllipse(s.Box.Center(), s.Box.Width/2, s.Box.Height/2)}
}
