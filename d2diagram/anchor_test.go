package d2diagram_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/geo"
	"oss.terrastruct.com/d2canvas/lib/shape"
)

func TestDynamicAnchor(t *testing.T) {
	t.Parallel()

	a := sizedNode("a", 100, 100, 100, 50)
	b := sizedNode("b", 400, 0, 50, 50)
	src := d2diagram.NewDynamicAnchor(a)
	dst := d2diagram.NewDynamicAnchor(b)
	l := d2diagram.NewLink(src, dst)

	assert.Equal(t, geo.NewPoint(150, 125), src.PlainPosition())

	from, to := l.Endpoints()
	assert.Equal(t, geo.NewPoint(200, 100), from)
	assert.Equal(t, geo.NewPoint(400, 50), to)

	l.Vertices = geo.Route{geo.NewPoint(150, 300), geo.NewPoint(500, 300)}
	from, to = l.Endpoints()
	assert.Equal(t, geo.NewPoint(150, 150), from)
	assert.Equal(t, geo.NewPoint(450, 50), to)

	t.Run("offset", func(t *testing.T) {
		t.Parallel()

		a := sizedNode("a", 100, 100, 100, 50)
		b := sizedNode("b", 400, 0, 50, 50)
		src := d2diagram.NewDynamicAnchor(a,
			d2diagram.BoundsBasedPositionProvider{X: 0.5, Y: 0.5},
			d2diagram.BoundsBasedPositionProvider{X: 1, Y: 0, OffsetX: 10, OffsetY: -10},
		)
		l := d2diagram.NewLink(src, d2diagram.NewDynamicAnchor(b))
		from, _ := l.Endpoints()
		assert.Equal(t, geo.NewPoint(210, 90), from)
	})

	t.Run("ties", func(t *testing.T) {
		t.Parallel()

		a := sizedNode("a", 0, 0, 100, 100)
		src := d2diagram.NewDynamicAnchor(a,
			d2diagram.BoundsBasedPositionProvider{X: 0, Y: 0.5},
			d2diagram.BoundsBasedPositionProvider{X: 1, Y: 0.5},
		)
		l := d2diagram.NewLink(src, d2diagram.NewPositionAnchor(geo.NewPoint(50, 500)))
		from, _ := l.Endpoints()
		assert.Equal(t, geo.NewPoint(0, 50), from)
	})

	t.Run("unmeasured", func(t *testing.T) {
		t.Parallel()

		a := d2diagram.NewNode(0, 0)
		b := sizedNode("b", 400, 0, 50, 50)
		l := d2diagram.NewLink(d2diagram.NewDynamicAnchor(a), d2diagram.NewDynamicAnchor(b))
		from, to := l.Endpoints()
		assert.Nil(t, from)
		assert.Nil(t, to)
	})
}

func TestSinglePortAnchor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		alignment geo.Orientation
		shaped    *geo.Point
		box       *geo.Point
	}{
		{geo.Top, geo.NewPoint(110, 50), geo.NewPoint(110, 50)},
		{geo.TopRight, geo.NewPoint(115, 50), geo.NewPoint(120, 50)},
		{geo.Right, geo.NewPoint(120, 55), geo.NewPoint(120, 55)},
		{geo.BottomRight, geo.NewPoint(115, 60), geo.NewPoint(120, 60)},
		{geo.Bottom, geo.NewPoint(110, 60), geo.NewPoint(110, 60)},
		{geo.BottomLeft, geo.NewPoint(105, 60), geo.NewPoint(100, 60)},
		{geo.Left, geo.NewPoint(100, 55), geo.NewPoint(100, 55)},
		{geo.TopLeft, geo.NewPoint(105, 50), geo.NewPoint(100, 50)},
		{geo.NONE, geo.NewPoint(110, 55), geo.NewPoint(110, 55)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.alignment.ToString(), func(t *testing.T) {
			t.Parallel()

			n := sizedNode("n", 0, 0, 200, 200)
			p := n.AddPort(tc.alignment)
			a := d2diagram.NewSinglePortAnchor(p)
			l := d2diagram.NewLink(a, d2diagram.NewPositionAnchor(geo.NewPoint(0, 0)))

			assert.Nil(t, a.Resolve(l, nil))

			p.Measure(100, 50, 20, 10)
			assert.Equal(t, geo.NewPoint(110, 55), a.PlainPosition())

			assertPoint(t, tc.shaped, a.Resolve(l, nil))

			a.UseShapeAndAlignment = false
			assert.Equal(t, tc.box, a.Resolve(l, nil))

			a.MiddleIfNoMarker = true
			assert.Equal(t, geo.NewPoint(110, 55), a.Resolve(l, nil))
			l.SourceMarker = d2diagram.MarkerArrow
			assert.Equal(t, tc.box, a.Resolve(l, nil))
		})
	}
}

func TestShapeAnchor(t *testing.T) {
	t.Parallel()

	a := sizedNode("a", 0, 0, 100, 100)
	b := sizedNode("b", 300, 0, 100, 100)
	l := d2diagram.NewLink(d2diagram.NewShapeAnchor(a), d2diagram.NewShapeAnchor(b))
	from, to := l.Endpoints()
	assertPoint(t, geo.NewPoint(100, 50), from)
	assertPoint(t, geo.NewPoint(300, 50), to)

	inside := d2diagram.NewLink(d2diagram.NewShapeAnchor(a), d2diagram.NewPositionAnchor(geo.NewPoint(10, 10)))
	from, _ = inside.Endpoints()
	assert.Equal(t, geo.NewPoint(50, 50), from)

	c := sizedNode("c", 0, 0, 100, 100)
	c.Shape = shape.CIRCLE_TYPE
	diagonal := d2diagram.NewLink(d2diagram.NewShapeAnchor(c), d2diagram.NewPositionAnchor(geo.NewPoint(250, 250)))
	from, _ = diagonal.Endpoints()
	assertPoint(t, geo.NewPoint(50+25*math.Sqrt2, 50+25*math.Sqrt2), from)

	below := d2diagram.NewLink(d2diagram.NewShapeAnchor(c), d2diagram.NewPositionAnchor(geo.NewPoint(50, 300)))
	from, _ = below.Endpoints()
	assertPoint(t, geo.NewPoint(50, 100), from)
}

func TestLinkTarget(t *testing.T) {
	t.Parallel()

	n := sizedNode("n", 0, 0, 100, 100)
	p := n.AddPort(geo.Right)
	p.Measure(100, 40, 20, 20)
	l := d2diagram.NewLink(d2diagram.NewSinglePortAnchor(p), nil)
	assert.False(t, l.IsAttached())
	assert.Equal(t, geo.NewPoint(110, 50), l.Target().PlainPosition())

	var changes []d2diagram.AnchorChange
	l.TargetChanged.Subscribe(func(c d2diagram.AnchorChange) { changes = append(changes, c) })
	target := d2diagram.NewShapeAnchor(n)
	l.SetTarget(target)
	l.SetTarget(target)
	l.SetTarget(nil)
	assert.Len(t, changes, 1)
	assert.True(t, l.IsAttached())
}

func assertPoint(t *testing.T, exp, got *geo.Point) {
	t.Helper()
	if !assert.NotNil(t, got) {
		return
	}
	assert.InDelta(t, exp.X, got.X, 1e-6)
	assert.InDelta(t, exp.Y, got.Y, 1e-6)
}
