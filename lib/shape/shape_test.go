package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/d2canvas/lib/geo"
)

func TestPointAtAngle(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		shape Shape
		deg   float64
		exp   geo.Point
	}{
		{"rect_right", NewShape("", geo.NewBox(geo.NewPoint(0, 0), 100, 50)), 0, geo.Point{X: 100, Y: 25}},
		{"rect_bottom", NewShape(SQUARE_TYPE, geo.NewBox(geo.NewPoint(0, 0), 100, 50)), 90, geo.Point{X: 50, Y: 50}},
		{"rect_diagonal", NewShape(SQUARE_TYPE, geo.NewBox(geo.NewPoint(0, 0), 100, 50)), 45, geo.Point{X: 75, Y: 50}},
		{"rect_top", NewShape(SQUARE_TYPE, geo.NewBox(geo.NewPoint(10, 10), 20, 10)), 270, geo.Point{X: 20, Y: 10}},
		{"circle_right", NewShape(CIRCLE_TYPE, geo.NewBox(geo.NewPoint(0, 0), 100, 100)), 0, geo.Point{X: 100, Y: 50}},
		{"oval_bottom", NewShape(OVAL_TYPE, geo.NewBox(geo.NewPoint(0, 0), 100, 40)), 90, geo.Point{X: 50, Y: 40}},
		{"diamond_diagonal", NewShape(DIAMOND_TYPE, geo.NewBox(geo.NewPoint(0, 0), 100, 100)), 45, geo.Point{X: 75, Y: 75}},
		{"hexagon_left", NewShape(HEXAGON_TYPE, geo.NewBox(geo.NewPoint(0, 0), 100, 100)), 180, geo.Point{X: 0, Y: 50}},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := PointAtAngle(tc.shape, tc.deg)
			assert.InDelta(t, tc.exp.X, p.X, 0.001)
			assert.InDelta(t, tc.exp.Y, p.Y, 0.001)
		})
	}
}

func TestTraceToShapeBorder(t *testing.T) {
	t.Parallel()

	box := geo.NewBox(geo.NewPoint(0, 0), 100, 100)
	rectPoint := geo.NewPoint(100, 50)

	assert.Equal(t, rectPoint, TraceToShapeBorder(NewSquare(box), rectPoint, geo.NewPoint(200, 50)))

	p := TraceToShapeBorder(NewDiamond(box), geo.NewPoint(100, 25), geo.NewPoint(200, 25))
	assert.InDelta(t, 75, p.X, 0.001)
	assert.InDelta(t, 25, p.Y, 0.001)
}

func TestBorderPoint(t *testing.T) {
	t.Parallel()

	circle := NewCircle(geo.NewBox(geo.NewPoint(0, 0), 20, 20))
	p := BorderPoint(circle, geo.NewPoint(10, 10), geo.NewPoint(10, 100))
	assert.InDelta(t, 10, p.X, 0.001)
	assert.InDelta(t, 20, p.Y, 0.001)

	inside := geo.NewPoint(10, 10)
	assert.Equal(t, inside, BorderPoint(circle, inside, geo.NewPoint(12, 12)))
}
